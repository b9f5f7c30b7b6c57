package notes

// NoteType is the raw per-tick note code
type NoteType int

const (
	Empty NoteType = iota
	Circle
	SliderStart
	SpinnerStart
	SliderEnd
	SpinnerEnd // encoded the same way as SliderEnd
)

// rank orders events that land on the same tick: starts outrank ends
func (t NoteType) rank() int {
	switch t {
	case Circle, SliderStart, SpinnerStart:
		return 2
	case SliderEnd, SpinnerEnd:
		return 1
	default:
		return 0
	}
}

const (
	// RowWidth is the number of fields of an encoded row
	RowWidth = 14
	// FlowWidth is the number of fields of an encoded flow event
	FlowWidth = 9
)

// Row describes one surviving tick
type Row struct {
	Tick     int // index within the uninherited section
	Global   int // index within the full grid
	Time     float64
	Type     NoteType
	Sliding  bool
	Spinning bool
	Momentum float64
	Ex1      float64 // bpm/120 - 1
	Ex2      float64 // tickLength/500 - 1
	Ex3      float64 // sliderLength/150 - 1
}

// Flow is the cursor path through one circle or slider
type Flow struct {
	Tick  int
	Time  float64
	Kind  NoteType
	X, Y  float64
	InDX  float64
	InDY  float64
	OutDX float64
	OutDY float64
}

// Result holds the extracted rows and flow events of one beatmap
type Result struct {
	Rows  []Row
	Flows []Flow
}

// Timestamps returns the time of every row, the input of the spectral extractor
func (r *Result) Timestamps() []float64 {
	out := make([]float64, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.Time
	}
	return out
}
