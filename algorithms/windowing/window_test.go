package windowing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{"", "rectangular"},
		{"Rectangular", "rectangular"},
		{"hann", "hann"},
		{"hamming", "hamming"},
	}
	for _, tt := range tests {
		w, err := New(tt.kind, 8)
		require.NoError(t, err)
		assert.Equal(t, tt.want, w.GetType())
		assert.Equal(t, 8, w.GetSize())
	}

	_, err := New("kaiser-bessel", 8)
	assert.Error(t, err)
	_, err = New("hann", 0)
	assert.Error(t, err)
}

func TestRectangularLeavesFrame(t *testing.T) {
	frame := []float64{1, -2, 3, -4}
	require.NoError(t, NewRectangular(4).ApplyInPlace(frame))
	assert.Equal(t, []float64{1, -2, 3, -4}, frame)
	assert.Error(t, NewRectangular(3).ApplyInPlace(frame))
}

func TestHannPeriodic(t *testing.T) {
	coeffs := NewHann(4, false).coefficients
	assert.InDeltaSlice(t, []float64{0, 0.5, 1, 0.5}, coeffs, 1e-12)

	frame := []float64{2, 2, 2, 2}
	require.NoError(t, NewHann(4, false).ApplyInPlace(frame))
	assert.InDeltaSlice(t, []float64{0, 1, 2, 1}, frame, 1e-12)
}

func TestHammingEnds(t *testing.T) {
	coeffs := NewHamming(5, true).coefficients
	assert.InDelta(t, 0.08, coeffs[0], 1e-12)
	assert.InDelta(t, 1.0, coeffs[2], 1e-12)
	assert.InDelta(t, 0.08, coeffs[4], 1e-12)
}
