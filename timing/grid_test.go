package timing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSingleSectionTickCount(t *testing.T) {
	tests := []struct {
		name       string
		start      float64
		tickLength float64
		duration   float64
		divisor    int
	}{
		{"120bpm quarter", 0, 500, 10000, 4},
		{"odd offset", 137, 333.3333, 61234, 4},
		{"divisor one", 50, 400, 5000, 1},
		{"triplets", 12, 600, 9000, 3},
		{"fine grid", 0, 461.538, 120000, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections := []Section{{Start: tt.start, TickLength: tt.tickLength, SliderVelocity: 1}}
			grid, err := Resolve(sections, sections, tt.duration, tt.divisor)
			require.NoError(t, err)

			step := tt.tickLength / float64(tt.divisor)
			span := tt.duration + Padding - tt.start
			assert.Equal(t, int(math.Floor(span/step))+1, grid.Len())

			for i := 1; i < grid.Len(); i++ {
				assert.InDelta(t, step, grid.Timestamps[i]-grid.Timestamps[i-1], 1e-6)
			}
			assert.Equal(t, grid.Len(), len(grid.Ticks))
			assert.Equal(t, grid.Len(), len(grid.TickLengths))
			assert.Equal(t, grid.Len(), len(grid.SliderLengths))
		})
	}
}

func TestResolveMultipleSections(t *testing.T) {
	uts := []Section{
		{Start: 0, TickLength: 500},
		{Start: 1000, TickLength: 400},
	}
	grid, err := Resolve(uts, uts, 0, 2)
	require.NoError(t, err)

	// first section stops short of 1000, second runs to 3000 inclusive
	assert.Equal(t, []float64{0, 250, 500, 750}, grid.Timestamps[:4])
	assert.Equal(t, 1000.0, grid.Timestamps[4])
	assert.Equal(t, 3000.0, grid.Timestamps[grid.Len()-1])
	assert.Equal(t, 0, grid.Ticks[4], "tick index restarts per section")
	assert.Equal(t, 1, grid.Sections[4])
	assert.Equal(t, 4, grid.At(4).Global)

	for i := 1; i < grid.Len(); i++ {
		assert.Greater(t, grid.Timestamps[i], grid.Timestamps[i-1])
	}
}

func TestResolveSliderVelocity(t *testing.T) {
	uts := []Section{{Start: 0, TickLength: 500, SliderVelocity: 1}}
	all := []Section{
		uts[0],
		{Start: 1000, Inherited: true, SliderVelocity: 2},
		{Start: 500, Inherited: true, SliderVelocity: 0.5},
	}
	grid, err := Resolve(uts, all, 0, 1)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 500, 1000, 1500}, grid.Timestamps[:4])
	assert.Equal(t, []float64{500, 250, 1000, 1000}, grid.SliderLengths[:4])
}

func TestResolveMalformed(t *testing.T) {
	tests := []struct {
		name    string
		uts     []Section
		divisor int
	}{
		{"zero tick length", []Section{{Start: 0, TickLength: 0}}, 4},
		{"negative tick length", []Section{{Start: 0, TickLength: -300}}, 4},
		{"nan tick length", []Section{{Start: 0, TickLength: math.NaN()}}, 4},
		{"out of order", []Section{{Start: 500, TickLength: 300}, {Start: 100, TickLength: 300}}, 4},
		{"empty", nil, 4},
		{"zero divisor", []Section{{Start: 0, TickLength: 300}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.uts, tt.uts, 1000, tt.divisor)
			var malformed *MalformedError
			assert.True(t, errors.As(err, &malformed), "got %v", err)
		})
	}
}

func TestNearest(t *testing.T) {
	uts := []Section{{Start: 0, TickLength: 400}}
	grid, err := Resolve(uts, uts, 0, 4)
	require.NoError(t, err)

	assert.Equal(t, 0, grid.Nearest(-20))
	assert.Equal(t, 0, grid.Nearest(50))
	assert.Equal(t, 1, grid.Nearest(51))
	assert.Equal(t, 3, grid.Nearest(299))
	assert.Equal(t, grid.Len()-1, grid.Nearest(10000))
	assert.True(t, grid.Contains(-90))
	assert.False(t, grid.Contains(-120))
}

func TestSectionDefaults(t *testing.T) {
	assert.Equal(t, 1.0, Section{}.Velocity())
	assert.Equal(t, 1.5, Section{SliderVelocity: 1.5}.Velocity())
	assert.Equal(t, DefaultMeter, Section{}.Beats())
	assert.Equal(t, 3, Section{Meter: 3}.Beats())
}
