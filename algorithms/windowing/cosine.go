package windowing

import (
	"math"
)

// Cosine is a raised cosine window, w[i] = a0 - (1-a0)*cos(2*pi*i/N).
// Hann (a0 = 0.5) and Hamming (a0 = 0.54) are the two in use.
type Cosine struct {
	kind         string
	size         int
	symmetric    bool
	coefficients []float64
}

// NewHann creates a Hann window. Periodic (symmetric=false) suits spectral analysis.
func NewHann(size int, symmetric bool) *Cosine {
	return newCosine("hann", 0.5, size, symmetric)
}

// NewHamming creates a Hamming window
func NewHamming(size int, symmetric bool) *Cosine {
	return newCosine("hamming", 0.54, size, symmetric)
}

func newCosine(kind string, a0 float64, size int, symmetric bool) *Cosine {
	c := &Cosine{
		kind:         kind,
		size:         size,
		symmetric:    symmetric,
		coefficients: make([]float64, size),
	}

	n := float64(size)
	if symmetric && size > 1 {
		n = float64(size - 1)
	}
	for i := range c.coefficients {
		c.coefficients[i] = a0 - (1-a0)*math.Cos(2*math.Pi*float64(i)/n)
	}
	return c
}

// ApplyInPlace applies the window to a signal in-place
func (c *Cosine) ApplyInPlace(signal []float64) error {
	return applyCoefficients(signal, c.coefficients)
}

func (c *Cosine) GetSize() int {
	return c.size
}

func (c *Cosine) GetType() string {
	return c.kind
}
