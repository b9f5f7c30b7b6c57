package timing

import (
	"math"
	"slices"
	"sort"
)

// Tick is one subdivision of a beat on the grid
type Tick struct {
	Index        int     // position within its uninherited section
	Global       int     // position within the whole grid
	Section      int     // index into the uninherited sections
	Time         float64 // ms
	TickLength   float64 // ms per beat in effect
	SliderLength float64 // TickLength scaled by slider velocity
}

// Grid holds the resolved ticks as parallel arrays
type Grid struct {
	Divisor       int
	Ticks         []int
	Timestamps    []float64
	TickLengths   []float64
	SliderLengths []float64
	Sections      []int
}

// Len returns the number of ticks
func (g *Grid) Len() int {
	return len(g.Timestamps)
}

// At returns tick i
func (g *Grid) At(i int) Tick {
	return Tick{
		Index:        g.Ticks[i],
		Global:       i,
		Section:      g.Sections[i],
		Time:         g.Timestamps[i],
		TickLength:   g.TickLengths[i],
		SliderLength: g.SliderLengths[i],
	}
}

// Spacing returns the distance to the next tick of tick i's section
func (g *Grid) Spacing(i int) float64 {
	return g.TickLengths[i] / float64(g.Divisor)
}

// Nearest returns the index of the tick closest to ms. Ties go to the earlier tick.
func (g *Grid) Nearest(ms float64) int {
	n := g.Len()
	if n == 0 {
		return -1
	}
	i := sort.SearchFloat64s(g.Timestamps, ms)
	if i == 0 {
		return 0
	}
	if i == n {
		return n - 1
	}
	if ms-g.Timestamps[i-1] <= g.Timestamps[i]-ms {
		return i - 1
	}
	return i
}

// Contains reports whether ms lies on the grid, allowing one tick of slack at either end
func (g *Grid) Contains(ms float64) bool {
	n := g.Len()
	if n == 0 {
		return false
	}
	return ms >= g.Timestamps[0]-g.Spacing(0) && ms <= g.Timestamps[n-1]+g.Spacing(n-1)
}

// Resolve derives the tick grid from the uninherited sections.
//
// Each uninherited section contributes ticks every TickLength/divisor ms from its start up to
// (not including) the next uninherited section. The last section runs to trackDuration plus
// Padding, inclusive. Slider lengths use the velocity of the latest section in all that starts
// at or before the tick.
func Resolve(uninherited, all []Section, trackDuration float64, divisor int) (*Grid, error) {
	if divisor < 1 {
		return nil, &MalformedError{Section: -1, Reason: "divisor must be at least 1"}
	}
	if len(uninherited) == 0 {
		return nil, &MalformedError{Section: -1, Reason: "no uninherited timing sections"}
	}
	for i, s := range uninherited {
		if !(s.TickLength > 0) || math.IsInf(s.TickLength, 0) {
			return nil, &MalformedError{Section: i, Reason: "tick length must be positive"}
		}
		if i > 0 && s.Start <= uninherited[i-1].Start {
			return nil, &MalformedError{Section: i, Reason: "sections are not in increasing start order"}
		}
	}

	velocities := slices.Clone(all)
	slices.SortStableFunc(velocities, func(a, b Section) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		}
		return 0
	})

	end := trackDuration + Padding
	grid := &Grid{Divisor: divisor}
	vi := -1

	for si, s := range uninherited {
		step := s.TickLength / float64(divisor)
		last := si == len(uninherited)-1

		for k := 0; ; k++ {
			t := s.Start + float64(k)*step
			if last {
				if t > end+1e-9 {
					break
				}
			} else if t >= uninherited[si+1].Start {
				break
			}

			for vi+1 < len(velocities) && velocities[vi+1].Start <= t {
				vi++
			}
			multiplier := 1.0
			if vi >= 0 {
				multiplier = velocities[vi].Velocity()
			}

			grid.Ticks = append(grid.Ticks, k)
			grid.Timestamps = append(grid.Timestamps, t)
			grid.TickLengths = append(grid.TickLengths, s.TickLength)
			grid.SliderLengths = append(grid.SliderLengths, s.TickLength*multiplier)
			grid.Sections = append(grid.Sections, si)
		}
	}

	return grid, nil
}
