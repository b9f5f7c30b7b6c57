package spectral

import (
	"math"
	"testing"

	"github.com/RyanBlaney/mapdata/algorithms/windowing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeCosine(t *testing.T) {
	const size = 64
	frame := make([]float64, size)
	for i := range frame {
		frame[i] = math.Cos(2 * math.Pi * 4 * float64(i) / size)
	}

	a, err := NewFrameAnalyzer(size, nil)
	require.NoError(t, err)
	assert.Equal(t, 32, a.Bins())

	mag := make([]float64, 32)
	phase := make([]float64, 32)
	require.NoError(t, a.Analyze(frame, 0, 32, mag, phase))

	assert.InDelta(t, size/2, mag[4], 1e-9)
	assert.InDelta(t, 0, phase[4], 1e-9)
	for i, m := range mag {
		if i != 4 {
			assert.InDelta(t, 0, m, 1e-9, "bin %d", i)
		}
	}
}

func TestAnalyzeSinePhase(t *testing.T) {
	const size = 16
	frame := make([]float64, size)
	for i := range frame {
		frame[i] = math.Sin(2 * math.Pi * 2 * float64(i) / size)
	}

	a, err := NewFrameAnalyzer(size, windowing.NewRectangular(size))
	require.NoError(t, err)

	mag := make([]float64, 2)
	phase := make([]float64, 2)
	require.NoError(t, a.Analyze(frame, 1, 3, mag, phase))

	assert.InDelta(t, 8, mag[1], 1e-9)
	assert.InDelta(t, -math.Pi/2, phase[1], 1e-9)
}

func TestAnalyzeZeroPadsShortFrames(t *testing.T) {
	a, err := NewFrameAnalyzer(8, nil)
	require.NoError(t, err)

	mag := make([]float64, 4)
	phase := make([]float64, 4)
	require.NoError(t, a.Analyze([]float64{1}, 0, 4, mag, phase))

	// a single impulse has a flat spectrum
	assert.InDeltaSlice(t, []float64{1, 1, 1, 1}, mag, 1e-12)

	// stale samples from an earlier frame must not leak
	require.NoError(t, a.Analyze([]float64{1, 1, 1, 1, 1, 1, 1, 1}, 0, 4, mag, phase))
	require.NoError(t, a.Analyze(nil, 0, 4, mag, phase))
	assert.InDeltaSlice(t, []float64{0, 0, 0, 0}, mag, 1e-12)
}

func TestAnalyzeRejectsBadRanges(t *testing.T) {
	a, err := NewFrameAnalyzer(8, nil)
	require.NoError(t, err)
	buf := make([]float64, 8)

	assert.Error(t, a.Analyze(buf, 0, 5, buf, buf))
	assert.Error(t, a.Analyze(buf, 3, 2, buf, buf))
	assert.Error(t, a.Analyze(buf, 0, 4, buf[:2], buf))

	_, err = NewFrameAnalyzer(8, windowing.NewHann(4, false))
	assert.Error(t, err)
	_, err = NewFrameAnalyzer(0, nil)
	assert.Error(t, err)
}
