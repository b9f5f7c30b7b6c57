package notes

// Encode expands each row into the fixed 14 field layout
//
//	[tick, time, type, is_circle, is_slider, is_spinner, is_note_end, unused,
//	 sliding, spinning, momentum, ex1, ex2, ex3]
//
// A circle sets both is_circle and is_note_end. Spinner ends share the note end slot.
func Encode(rows []Row) [][RowWidth]float64 {
	out := make([][RowWidth]float64, len(rows))
	for i, r := range rows {
		out[i] = [RowWidth]float64{
			float64(r.Tick), r.Time, float64(r.Type),
			0, 0, 0, 0, 0,
			boolFloat(r.Sliding), boolFloat(r.Spinning), r.Momentum, r.Ex1, r.Ex2, r.Ex3,
		}
		switch r.Type {
		case Circle:
			out[i][3], out[i][6] = 1, 1
		case SliderStart:
			out[i][4] = 1
		case SpinnerStart:
			out[i][5] = 1
		case SliderEnd, SpinnerEnd:
			out[i][6] = 1
		}
	}
	return out
}

// EncodeFlows lays flow events out as [tick, time, type, x, y, in_dx, in_dy, out_dx, out_dy]
func EncodeFlows(flows []Flow) [][FlowWidth]float64 {
	out := make([][FlowWidth]float64, len(flows))
	for i, f := range flows {
		out[i] = [FlowWidth]float64{
			float64(f.Tick), f.Time, float64(f.Kind), f.X, f.Y, f.InDX, f.InDY, f.OutDX, f.OutDY,
		}
	}
	return out
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
