package notes

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/RyanBlaney/mapdata/algorithms/common"
	"github.com/RyanBlaney/mapdata/beatmap"
	"github.com/RyanBlaney/mapdata/logging"
	"github.com/RyanBlaney/mapdata/timing"
)

// ErrNoObjects is returned for beatmaps without hit objects
var ErrNoObjects = errors.New("beatmap has no hit objects")

// Options configures note extraction
type Options struct {
	Divisor     int     `json:"divisor"`      // 0 takes the grid's divisor
	EmptyRadius float64 `json:"empty_radius"` // ms; ticks further than this from every note are dropped
}

// DefaultOptions returns the reference settings
func DefaultOptions() Options {
	return Options{
		Divisor:     4,
		EmptyRadius: 5000,
	}
}

// tickState accumulates what happens on one grid tick
type tickState struct {
	kind     NoteType
	sliding  bool
	spinning bool
	momentum float64
}

type flowNote struct {
	tick       int
	kind       NoteType
	x, y       float64
	endX, endY float64
}

// Extract walks the hit objects over grid and produces one row per surviving tick plus one
// flow event per circle or slider.
//
// Objects snap to their nearest tick. When several events share a tick, note starts beat
// note ends and among equals the later object (by time, then file order) wins.
func Extract(bm *beatmap.Beatmap, grid *timing.Grid, opts Options) (*Result, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "note_extractor",
		"function":  "Extract",
	})

	if bm == nil || grid == nil {
		return nil, fmt.Errorf("beatmap and grid are required")
	}
	if opts.Divisor != 0 && opts.Divisor != grid.Divisor {
		return nil, fmt.Errorf("divisor %d does not match grid divisor %d", opts.Divisor, grid.Divisor)
	}
	if opts.EmptyRadius <= 0 {
		opts.EmptyRadius = DefaultOptions().EmptyRadius
	}
	if len(bm.Objects) == 0 {
		return nil, ErrNoObjects
	}
	if grid.Len() == 0 {
		return nil, fmt.Errorf("empty tick grid")
	}

	objects := bm.SortedObjects()
	states := make([]tickState, grid.Len())
	noteTimes := make([]float64, 0, len(objects))
	flowNotes := make([]flowNote, 0, len(objects))

	place := func(tick int, kind NoteType) {
		if kind.rank() >= states[tick].kind.rank() {
			states[tick].kind = kind
		}
	}

	var (
		havePrev           bool
		prevEndTime        float64
		prevEndX, prevEndY float64
		skipped            int
	)

	for _, o := range objects {
		noteTimes = append(noteTimes, o.Time)
		if !grid.Contains(o.Time) {
			skipped++
			continue
		}

		endTime := bm.EndTime(o)
		startTick := grid.Nearest(o.Time)
		endTick := grid.Nearest(endTime)
		endX, endY := o.EndPosition()

		switch {
		case o.IsSpinner():
			place(startTick, SpinnerStart)
			place(endTick, SpinnerEnd)
			for i := startTick; i <= endTick; i++ {
				states[i].spinning = true
			}
		case o.IsSlider():
			place(startTick, SliderStart)
			place(endTick, SliderEnd)
			for i := startTick; i <= endTick; i++ {
				states[i].sliding = true
			}
			flowNotes = append(flowNotes, flowNote{tick: startTick, kind: SliderStart, x: o.X, y: o.Y, endX: endX, endY: endY})
		default:
			place(startTick, Circle)
			flowNotes = append(flowNotes, flowNote{tick: startTick, kind: Circle, x: o.X, y: o.Y, endX: endX, endY: endY})
		}

		if havePrev && o.Time > prevEndTime {
			distance := common.Hypot(o.X-prevEndX, o.Y-prevEndY)
			states[startTick].momentum = distance / (o.Time - prevEndTime)
		} else {
			states[startTick].momentum = 0
		}

		havePrev = true
		prevEndTime = endTime
		prevEndX, prevEndY = endX, endY
	}

	if skipped > 0 {
		logger.Debug("Skipped objects outside the tick grid", logging.Fields{"skipped": skipped})
	}

	// objects are sorted by time, so noteTimes is too
	rows := make([]Row, 0, grid.Len())
	for i := range grid.Len() {
		t := grid.Timestamps[i]
		if !hasNoteNear(noteTimes, t, opts.EmptyRadius) {
			continue
		}
		tickLength := grid.TickLengths[i]
		rows = append(rows, Row{
			Tick:     grid.Ticks[i],
			Global:   i,
			Time:     t,
			Type:     states[i].kind,
			Sliding:  states[i].sliding,
			Spinning: states[i].spinning,
			Momentum: states[i].momentum,
			Ex1:      60000/tickLength/120 - 1,
			Ex2:      tickLength/500 - 1,
			Ex3:      grid.SliderLengths[i]/150 - 1,
		})
	}

	flows := make([]Flow, len(flowNotes))
	for i, n := range flowNotes {
		flows[i] = Flow{
			Tick: grid.Ticks[n.tick],
			Time: grid.Timestamps[n.tick],
			Kind: n.kind,
			X:    n.x,
			Y:    n.y,
		}
		if i > 0 {
			prev := flowNotes[i-1]
			flows[i].InDX = n.x - prev.endX
			flows[i].InDY = n.y - prev.endY
		}
		if i+1 < len(flowNotes) {
			next := flowNotes[i+1]
			flows[i].OutDX = next.x - n.endX
			flows[i].OutDY = next.y - n.endY
		}
	}

	logger.Debug("Extracted notes", logging.Fields{
		"grid_ticks": grid.Len(),
		"rows":       len(rows),
		"flows":      len(flows),
	})

	return &Result{Rows: rows, Flows: flows}, nil
}

// hasNoteNear reports whether some time in sorted lies within radius of t
func hasNoteNear(sorted []float64, t, radius float64) bool {
	i := sort.SearchFloat64s(sorted, t-radius)
	return i < len(sorted) && math.Abs(sorted[i]-t) <= radius
}
