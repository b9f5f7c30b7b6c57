package notes

import (
	"errors"
	"testing"

	"github.com/RyanBlaney/mapdata/beatmap"
	"github.com/RyanBlaney/mapdata/timing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMap(objects ...beatmap.HitObject) *beatmap.Beatmap {
	uts := []timing.Section{{Start: 0, TickLength: 500, SliderVelocity: 1, Meter: 4}}
	return &beatmap.Beatmap{
		Difficulty: beatmap.Difficulty{SliderMultiplier: 1},
		Timing:     beatmap.Timing{Uninherited: uts, All: uts},
		Objects:    objects,
	}
}

func gridFor(t *testing.T, bm *beatmap.Beatmap, duration float64) *timing.Grid {
	t.Helper()
	grid, err := timing.Resolve(bm.Timing.Uninherited, bm.Timing.All, duration, 4)
	require.NoError(t, err)
	return grid
}

func circle(ms, x, y float64) beatmap.HitObject {
	return beatmap.HitObject{Time: ms, Type: beatmap.TypeCircle, X: x, Y: y}
}

func slider(ms, end, x, y, endX, endY float64) beatmap.HitObject {
	return beatmap.HitObject{
		Time: ms, Type: beatmap.TypeSlider, X: x, Y: y, EndTime: end,
		Slider: &beatmap.SliderData{Repeats: 1, EndPosition: [2]float64{endX, endY}},
	}
}

func spinner(ms, end float64) beatmap.HitObject {
	return beatmap.HitObject{Time: ms, Type: beatmap.TypeSpinner, X: 256, Y: 192, EndTime: end}
}

func rowAt(t *testing.T, rows []Row, ms float64) Row {
	t.Helper()
	for _, r := range rows {
		if r.Time == ms {
			return r
		}
	}
	t.Fatalf("no row at %v", ms)
	return Row{}
}

func TestEmptyTicksAreDropped(t *testing.T) {
	bm := newMap(circle(0, 100, 100))
	grid := gridFor(t, bm, 20000)

	res, err := Extract(bm, grid, DefaultOptions())
	require.NoError(t, err)

	// 0..5000 inclusive at 125ms spacing
	assert.Len(t, res.Rows, 41)
	for _, r := range res.Rows {
		assert.LessOrEqual(t, r.Time, 5000.0)
	}
	assert.Greater(t, grid.Len(), len(res.Rows))
}

func TestEmptyRadiusKeepsGapsBetweenNotes(t *testing.T) {
	bm := newMap(circle(0, 0, 0), circle(20000, 0, 0))
	grid := gridFor(t, bm, 20000)

	res, err := Extract(bm, grid, Options{EmptyRadius: 5000})
	require.NoError(t, err)

	for _, r := range res.Rows {
		nearFirst := r.Time <= 5000
		nearSecond := r.Time >= 15000 && r.Time <= 25000
		assert.True(t, nearFirst || nearSecond, "tick at %v survived", r.Time)
	}
	// the grid runs 3000ms past the track, all of it within reach of the last note
	assert.Equal(t, 23000.0, res.Rows[len(res.Rows)-1].Time)
}

func TestNoteTypesAndHoldFlags(t *testing.T) {
	bm := newMap(
		circle(0, 10, 10),
		slider(1000, 1500, 50, 50, 150, 50),
		spinner(2000, 3000),
	)
	grid := gridFor(t, bm, 3000)

	res, err := Extract(bm, grid, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, Circle, rowAt(t, res.Rows, 0).Type)
	assert.Equal(t, Empty, rowAt(t, res.Rows, 125).Type)
	assert.Equal(t, SliderStart, rowAt(t, res.Rows, 1000).Type)
	assert.Equal(t, SliderEnd, rowAt(t, res.Rows, 1500).Type)
	assert.Equal(t, SpinnerStart, rowAt(t, res.Rows, 2000).Type)
	assert.Equal(t, SpinnerEnd, rowAt(t, res.Rows, 3000).Type)

	assert.True(t, rowAt(t, res.Rows, 1000).Sliding)
	assert.True(t, rowAt(t, res.Rows, 1250).Sliding)
	assert.True(t, rowAt(t, res.Rows, 1500).Sliding)
	assert.False(t, rowAt(t, res.Rows, 1625).Sliding)
	assert.True(t, rowAt(t, res.Rows, 2500).Spinning)
	assert.False(t, rowAt(t, res.Rows, 1000).Spinning)

	row := rowAt(t, res.Rows, 0)
	assert.Equal(t, 0, row.Tick)
	assert.InDelta(t, 0.0, row.Ex1, 1e-12) // 120 bpm
	assert.InDelta(t, 0.0, row.Ex2, 1e-12)
	assert.InDelta(t, 500.0/150-1, row.Ex3, 1e-12)
}

func TestSharedTickTieBreak(t *testing.T) {
	// start outranks an end regardless of order
	bm := newMap(slider(0, 500, 0, 0, 100, 0), circle(510, 0, 0))
	res, err := Extract(bm, gridFor(t, bm, 1000), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, Circle, rowAt(t, res.Rows, 500).Type)

	// equal rank: the later object in file order wins
	bm = newMap(circle(1000, 0, 0), slider(1000, 1500, 0, 0, 10, 0))
	res, err = Extract(bm, gridFor(t, bm, 2000), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, SliderStart, rowAt(t, res.Rows, 1000).Type)

	bm = newMap(slider(1000, 1500, 0, 0, 10, 0), circle(1000, 0, 0))
	res, err = Extract(bm, gridFor(t, bm, 2000), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, Circle, rowAt(t, res.Rows, 1000).Type)
}

func TestFlowVectors(t *testing.T) {
	bm := newMap(
		circle(0, 100, 100),
		slider(500, 1000, 200, 100, 300, 150),
		spinner(1500, 2000),
		circle(2500, 300, 300),
	)
	res, err := Extract(bm, gridFor(t, bm, 3000), DefaultOptions())
	require.NoError(t, err)

	require.Len(t, res.Flows, 3, "spinners emit no flow")

	first, second, third := res.Flows[0], res.Flows[1], res.Flows[2]
	assert.Equal(t, Circle, first.Kind)
	assert.Equal(t, [2]float64{0, 0}, [2]float64{first.InDX, first.InDY})
	assert.Equal(t, [2]float64{100, 0}, [2]float64{first.OutDX, first.OutDY})

	assert.Equal(t, SliderStart, second.Kind)
	assert.Equal(t, 500.0, second.Time)
	assert.Equal(t, [2]float64{100, 0}, [2]float64{second.InDX, second.InDY})
	assert.Equal(t, [2]float64{0, 150}, [2]float64{second.OutDX, second.OutDY})

	assert.Equal(t, [2]float64{0, 150}, [2]float64{third.InDX, third.InDY})
	assert.Equal(t, [2]float64{0, 0}, [2]float64{third.OutDX, third.OutDY})

	encoded := EncodeFlows(res.Flows)
	assert.Equal(t, [FlowWidth]float64{4, 500, 2, 200, 100, 100, 0, 0, 150}, encoded[1])
}

func TestMomentum(t *testing.T) {
	bm := newMap(circle(0, 0, 0), circle(500, 300, 400))
	res, err := Extract(bm, gridFor(t, bm, 1000), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 0.0, rowAt(t, res.Rows, 0).Momentum)
	assert.InDelta(t, 1.0, rowAt(t, res.Rows, 500).Momentum, 1e-12)
	assert.Equal(t, 0.0, rowAt(t, res.Rows, 250).Momentum)
}

func TestObjectsOutsideGridAreSkipped(t *testing.T) {
	bm := newMap(circle(0, 0, 0), circle(-5000, 0, 0))
	res, err := Extract(bm, gridFor(t, bm, 1000), DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, res.Flows, 1)
}

func TestExtractErrors(t *testing.T) {
	bm := newMap()
	grid := gridFor(t, bm, 1000)

	_, err := Extract(bm, grid, DefaultOptions())
	assert.True(t, errors.Is(err, ErrNoObjects))

	bm = newMap(circle(0, 0, 0))
	_, err = Extract(bm, grid, Options{Divisor: 8})
	assert.Error(t, err)

	_, err = Extract(nil, grid, DefaultOptions())
	assert.Error(t, err)
}

func TestTimestampsFollowRows(t *testing.T) {
	bm := newMap(circle(0, 0, 0))
	res, err := Extract(bm, gridFor(t, bm, 100), DefaultOptions())
	require.NoError(t, err)

	ts := res.Timestamps()
	require.Len(t, ts, len(res.Rows))
	for i, r := range res.Rows {
		assert.Equal(t, r.Time, ts[i])
	}
}
