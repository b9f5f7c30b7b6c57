package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeOneHot(t *testing.T) {
	tests := []struct {
		kind NoteType
		want [5]float64
	}{
		{Empty, [5]float64{0, 0, 0, 0, 0}},
		{Circle, [5]float64{1, 0, 0, 1, 0}},
		{SliderStart, [5]float64{0, 1, 0, 0, 0}},
		{SpinnerStart, [5]float64{0, 0, 1, 0, 0}},
		{SliderEnd, [5]float64{0, 0, 0, 1, 0}},
		{SpinnerEnd, [5]float64{0, 0, 0, 1, 0}},
		{NoteType(9), [5]float64{0, 0, 0, 0, 0}},
	}
	for _, tt := range tests {
		out := Encode([]Row{{Type: tt.kind}})
		var got [5]float64
		copy(got[:], out[0][3:8])
		assert.Equal(t, tt.want, got, "type %d", tt.kind)
		assert.Equal(t, float64(tt.kind), out[0][2])
	}
}

func TestEncodeSpinnerStartSetsOnlyIndexFive(t *testing.T) {
	out := Encode([]Row{{Type: SpinnerStart}})
	for i := 3; i <= 7; i++ {
		if i == 5 {
			assert.Equal(t, 1.0, out[0][i])
		} else {
			assert.Equal(t, 0.0, out[0][i], "field %d", i)
		}
	}
}

func TestEncodePreservesOrderAndFields(t *testing.T) {
	rows := []Row{
		{Tick: 3, Time: 375, Type: SliderStart, Sliding: true, Momentum: 0.5, Ex1: 0.1, Ex2: 0.2, Ex3: 0.3},
		{Tick: 4, Time: 500, Type: Empty, Spinning: true},
		{Tick: 5, Time: 625, Type: SpinnerEnd},
	}
	out := Encode(rows)

	assert.Len(t, out, 3)
	assert.Equal(t, [RowWidth]float64{3, 375, 2, 0, 1, 0, 0, 0, 1, 0, 0.5, 0.1, 0.2, 0.3}, out[0])
	assert.Equal(t, [RowWidth]float64{4, 500, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0}, out[1])
	assert.Equal(t, 5.0, out[2][0])
	assert.Empty(t, Encode(nil))
}
