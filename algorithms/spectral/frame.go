package spectral

import (
	"fmt"
	"math/cmplx"

	"github.com/RyanBlaney/mapdata/algorithms/windowing"
)

// FrameAnalyzer computes magnitude and phase of single fixed-size frames.
// It keeps a scratch buffer, so one analyzer must not be shared between goroutines.
type FrameAnalyzer struct {
	fft    *FFT
	window windowing.Window
	size   int
	buffer []float64
}

// NewFrameAnalyzer creates an analyzer for frames of size samples; a nil window means none
func NewFrameAnalyzer(size int, window windowing.Window) (*FrameAnalyzer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("frame size must be positive")
	}
	if window != nil && window.GetSize() != size {
		return nil, fmt.Errorf("window size (%d) doesn't match frame size (%d)", window.GetSize(), size)
	}
	return &FrameAnalyzer{
		fft:    NewFFT(),
		window: window,
		size:   size,
		buffer: make([]float64, size),
	}, nil
}

// Bins returns the number of non-negative frequency bins kept, size/2
func (a *FrameAnalyzer) Bins() int {
	return a.size / 2
}

// Analyze transforms frame, zero padded or truncated to the analyzer size, and writes the
// magnitude and phase of bins [lo, hi) into magnitude and phase.
func (a *FrameAnalyzer) Analyze(frame []float64, lo, hi int, magnitude, phase []float64) error {
	if lo < 0 || hi > a.Bins() || lo > hi {
		return fmt.Errorf("bin range [%d, %d) outside [0, %d)", lo, hi, a.Bins())
	}
	if len(magnitude) < hi-lo || len(phase) < hi-lo {
		return fmt.Errorf("output buffers shorter than %d bins", hi-lo)
	}

	n := copy(a.buffer, frame)
	clear(a.buffer[n:])

	if a.window != nil {
		if err := a.window.ApplyInPlace(a.buffer); err != nil {
			return err
		}
	}

	spectrum := a.fft.Compute(a.buffer)
	for i := lo; i < hi; i++ {
		magnitude[i-lo] = cmplx.Abs(spectrum[i])
		phase[i-lo] = cmplx.Phase(spectrum[i])
	}
	return nil
}
