package spectral

import (
	"github.com/mjibson/go-dsp/fft"
)

// FFT provides Fast Fourier Transform functionality
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the DFT of a real signal using mjibson/go-dsp.
// go-dsp handles non power of 2 sizes too.
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	return fft.FFTReal(x)
}
