package windowing

import (
	"fmt"
)

// Rectangular is the boxcar window: frames pass through unchanged
type Rectangular struct {
	size int
}

// NewRectangular creates a new rectangular window
func NewRectangular(size int) *Rectangular {
	return &Rectangular{size: size}
}

// ApplyInPlace only checks the frame length
func (r *Rectangular) ApplyInPlace(signal []float64) error {
	if len(signal) != r.size {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), r.size)
	}
	return nil
}

// GetSize returns the window size
func (r *Rectangular) GetSize() int {
	return r.size
}

// GetType returns the window type
func (r *Rectangular) GetType() string {
	return "rectangular"
}
