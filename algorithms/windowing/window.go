package windowing

import (
	"fmt"
	"strings"
)

// Window tapers an analysis frame in place
type Window interface {
	ApplyInPlace(signal []float64) error
	GetSize() int
	GetType() string
}

// New returns the named window of the given size.
// "rectangular" (or "") leaves frames untouched.
func New(kind string, size int) (Window, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window size must be positive: %d", size)
	}
	switch strings.ToLower(kind) {
	case "", "rectangular", "boxcar":
		return NewRectangular(size), nil
	case "hann", "hanning":
		return NewHann(size, false), nil
	case "hamming":
		return NewHamming(size, false), nil
	default:
		return nil, fmt.Errorf("unknown window type %q", kind)
	}
}

func applyCoefficients(signal, coefficients []float64) error {
	if len(signal) != len(coefficients) {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), len(coefficients))
	}
	for i := range signal {
		signal[i] *= coefficients[i]
	}
	return nil
}
