package hitsound

import (
	"math"

	"github.com/RyanBlaney/mapdata/beatmap"
	"github.com/RyanBlaney/mapdata/timing"
)

// Hitsound groups, one table row each
const (
	GroupNormal = iota
	GroupWhistle
	GroupFinish
	GroupClap
	NumGroups
)

// Table marks which hitsound groups occur at each tick position, counted modulo
// Meter*Divisor+1 from the start of the governing section.
type Table struct {
	Meter   int
	Divisor int
	Values  [][]float64 // [NumGroups][Meter*Divisor+1]
}

// Width returns the number of columns
func (t *Table) Width() int {
	return t.Meter*t.Divisor + 1
}

// Shape returns [groups, width], for serialization
func (t *Table) Shape() []int {
	return []int{NumGroups, t.Width()}
}

// Flatten returns the table in row-major order
func (t *Table) Flatten() []float64 {
	out := make([]float64, 0, NumGroups*t.Width())
	for _, row := range t.Values {
		out = append(out, row...)
	}
	return out
}

// Extract buckets the circles of bm by their tick position, counted from the start of the
// governing uninherited section and rounded to the nearest tick. The table width comes from
// the first uninherited section.
func Extract(bm *beatmap.Beatmap, divisor int) (*Table, error) {
	if divisor < 1 {
		return nil, &timing.MalformedError{Section: -1, Reason: "divisor must be at least 1"}
	}
	uts := bm.Timing.Uninherited
	if len(uts) == 0 {
		return nil, &timing.MalformedError{Section: -1, Reason: "no uninherited timing sections"}
	}

	table := &Table{
		Meter:   uts[0].Beats(),
		Divisor: divisor,
	}
	width := table.Width()
	table.Values = make([][]float64, NumGroups)
	for g := range table.Values {
		table.Values[g] = make([]float64, width)
	}

	for _, o := range bm.Objects {
		if !o.IsCircle() {
			continue
		}
		section, _ := beatmap.SectionAt(uts, o.Time)
		if !(section.TickLength > 0) {
			return nil, &timing.MalformedError{Section: -1, Reason: "tick length must be positive"}
		}

		k := int(math.Round((o.Time - section.Start) / (section.TickLength / float64(divisor))))
		column := ((k % width) + width) % width

		for _, g := range groupsOf(o.Hitsounds) {
			table.Values[g][column] = 1
		}
	}

	return table, nil
}

// groupsOf maps hitsound bits to table rows. No addition bits means the normal group.
func groupsOf(bits int) []int {
	var groups []int
	if bits&beatmap.HitsoundWhistle != 0 {
		groups = append(groups, GroupWhistle)
	}
	if bits&beatmap.HitsoundFinish != 0 {
		groups = append(groups, GroupFinish)
	}
	if bits&beatmap.HitsoundClap != 0 {
		groups = append(groups, GroupClap)
	}
	if len(groups) == 0 {
		groups = append(groups, GroupNormal)
	}
	return groups
}
