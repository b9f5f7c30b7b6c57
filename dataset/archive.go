package dataset

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/RyanBlaney/mapdata/features"
	"github.com/RyanBlaney/mapdata/hitsound"
	"github.com/RyanBlaney/mapdata/notes"
)

// Member names of a training archive
const (
	MemberNotes    = "lst"
	MemberWave     = "wav"
	MemberFlow     = "flow"
	MemberHitsound = "hs"
)

// Member names of a tester archive
const (
	MemberTicks      = "ticks"
	MemberTimestamps = "timestamps"
	MemberExtra      = "extra"
)

// Archive is a loaded .npz file
type Archive struct {
	Arrays map[string]*Array
}

// Get returns the named member
func (a *Archive) Get(name string) (*Array, bool) {
	arr, ok := a.Arrays[name]
	return arr, ok
}

// Names returns the member names in sorted order
func (a *Archive) Names() []string {
	names := make([]string, 0, len(a.Arrays))
	for name := range a.Arrays {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// member is one array queued for writing
type member struct {
	name  string
	write func(w io.Writer) error
}

func float64Member(name string, shape []int, data []float64) member {
	return member{name: name, write: func(w io.Writer) error {
		return writeNpy(w, shape, data)
	}}
}

func int64Member(name string, shape []int, data []int64) member {
	return member{name: name, write: func(w io.Writer) error {
		return writeNpy(w, shape, data)
	}}
}

// Save writes the training archive of one beatmap: note rows, spectral tensor, flow events
// and hitsound table
func Save(filename string, lst [][notes.RowWidth]float64, wav *features.Tensor, flow [][notes.FlowWidth]float64, hs *hitsound.Table) error {
	if wav == nil || hs == nil {
		return fmt.Errorf("wav and hs are required")
	}
	if wav.Ticks() != len(lst) {
		return fmt.Errorf("wav has %d ticks but lst has %d rows", wav.Ticks(), len(lst))
	}

	lstData := make([]float64, 0, len(lst)*notes.RowWidth)
	for _, row := range lst {
		lstData = append(lstData, row[:]...)
	}
	flowData := make([]float64, 0, len(flow)*notes.FlowWidth)
	for _, ev := range flow {
		flowData = append(flowData, ev[:]...)
	}

	return writeArchive(filename, []member{
		float64Member(MemberNotes, []int{len(lst), notes.RowWidth}, lstData),
		float64Member(MemberWave, wav.Dims(), wav.Data),
		float64Member(MemberFlow, []int{len(flow), notes.FlowWidth}, flowData),
		float64Member(MemberHitsound, hs.Shape(), hs.Flatten()),
	})
}

// SaveTester writes the inference archive of one beatmap. extra holds 60000/tickLength in
// its first row and the slider length in its second, one column per tick.
func SaveTester(filename string, ticks []int, timestamps []float64, wav *features.Tensor, extra [2][]float64) error {
	n := len(timestamps)
	if len(ticks) != n || len(extra[0]) != n || len(extra[1]) != n {
		return fmt.Errorf("tester arrays disagree in length: ticks=%d timestamps=%d extra=%d/%d",
			len(ticks), n, len(extra[0]), len(extra[1]))
	}
	if wav == nil {
		return fmt.Errorf("wav is required")
	}
	if wav.Ticks() != n {
		return fmt.Errorf("wav has %d ticks but there are %d timestamps", wav.Ticks(), n)
	}

	tickData := make([]int64, n)
	for i, t := range ticks {
		tickData[i] = int64(t)
	}
	extraData := append(append(make([]float64, 0, 2*n), extra[0]...), extra[1]...)

	return writeArchive(filename, []member{
		int64Member(MemberTicks, []int{n}, tickData),
		float64Member(MemberTimestamps, []int{n}, timestamps),
		float64Member(MemberWave, wav.Dims(), wav.Data),
		float64Member(MemberExtra, []int{2, n}, extraData),
	})
}

// TesterExtra builds the extra rows of a tester archive from per-tick lengths
func TesterExtra(tickLengths, sliderLengths []float64) [2][]float64 {
	bpm := make([]float64, len(tickLengths))
	for i, tl := range tickLengths {
		bpm[i] = 60000 / tl
	}
	return [2][]float64{bpm, append([]float64(nil), sliderLengths...)}
}

// SaveTimestamps dumps timestamps as a JSON array
func SaveTimestamps(filename string, timestamps []float64) error {
	if timestamps == nil {
		timestamps = []float64{}
	}
	data, err := json.Marshal(timestamps)
	if err != nil {
		return fmt.Errorf("failed to encode timestamps: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write timestamps: %w", err)
	}
	return nil
}

func writeArchive(filename string, members []member) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close archive: %w", cerr)
		}
		if err != nil {
			os.Remove(filename)
		}
	}()

	zw := zip.NewWriter(f)
	for _, m := range members {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: m.name + ".npy", Method: zip.Deflate})
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", m.name, err)
		}
		if err := m.write(w); err != nil {
			return fmt.Errorf("failed to write %s: %w", m.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	return nil
}

// Load reads every .npy member of an archive
func Load(filename string) (*Archive, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer zr.Close()

	archive := &Archive{Arrays: make(map[string]*Array, len(zr.File))}
	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, ".npy") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
		}
		arr, err := readNpy(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", f.Name, err)
		}
		archive.Arrays[strings.TrimSuffix(path.Base(f.Name), ".npy")] = arr
	}

	return archive, nil
}
