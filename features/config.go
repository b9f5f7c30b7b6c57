package features

import "fmt"

// ZeroStdPolicy decides what happens to a tick-axis slice with zero standard deviation
type ZeroStdPolicy string

const (
	// ZeroStdError fails the extraction with a NumericError
	ZeroStdError ZeroStdPolicy = "error"
	// ZeroStdCenter subtracts the mean and leaves the slice at zero
	ZeroStdCenter ZeroStdPolicy = "center"
)

// DefaultOffsets are the jitter fractions of the inter-tick interval sampled around each tick
var DefaultOffsets = []float64{-0.3, -0.2, -0.1, 0, 0.1, 0.2, 0.3}

// Config holds spectral extraction configuration
type Config struct {
	Offsets  []float64     `json:"offsets"`
	FFTSize  int           `json:"fft_size"`
	FreqLow  int           `json:"freq_low"`  // Hz, inclusive
	FreqHigh int           `json:"freq_high"` // Hz, exclusive; 0 means sampleRate/2
	Window   string        `json:"window"`    // "rectangular", "hann", "hamming"
	ZeroStd  ZeroStdPolicy `json:"zero_std"`
	Workers  int           `json:"workers"` // 0 picks from runtime.NumCPU
}

// DefaultConfig returns the production extraction settings
func DefaultConfig() *Config {
	return &Config{
		Offsets: append([]float64(nil), DefaultOffsets...),
		FFTSize: 128,
		FreqLow: 0,
		Window:  "rectangular",
		ZeroStd: ZeroStdError,
	}
}

// Validate checks settings that do not depend on the audio
func (c *Config) Validate() error {
	if len(c.Offsets) == 0 {
		return fmt.Errorf("at least one offset is required")
	}
	if c.FFTSize < 2 {
		return fmt.Errorf("fft size must be at least 2: %d", c.FFTSize)
	}
	switch c.ZeroStd {
	case ZeroStdError, ZeroStdCenter:
	default:
		return fmt.Errorf("unknown zero std policy %q", c.ZeroStd)
	}
	return nil
}

// BinRange maps [FreqLow, FreqHigh) Hz to FFT bin indices for sampleRate
func (c *Config) BinRange(sampleRate int) (lo, hi int, err error) {
	if sampleRate <= 0 {
		return 0, 0, &NumericError{Op: "bin range", Reason: fmt.Sprintf("sample rate must be positive: %d", sampleRate)}
	}
	freqHigh := c.FreqHigh
	if freqHigh == 0 {
		freqHigh = sampleRate / 2
	}
	if c.FreqLow < 0 || freqHigh > sampleRate/2 || c.FreqLow >= freqHigh {
		return 0, 0, &NumericError{
			Op:     "bin range",
			Reason: fmt.Sprintf("frequency band [%d, %d) Hz outside [0, %d]", c.FreqLow, freqHigh, sampleRate/2),
		}
	}

	lo = c.FFTSize * c.FreqLow / sampleRate
	hi = min(c.FFTSize*freqHigh/sampleRate, c.FFTSize/2)
	if lo >= hi {
		return 0, 0, &NumericError{
			Op:     "bin range",
			Reason: fmt.Sprintf("frequency band [%d, %d) Hz holds no bins at fft size %d", c.FreqLow, freqHigh, c.FFTSize),
		}
	}
	return lo, hi, nil
}

// NumericError reports numeric failures during extraction
type NumericError struct {
	Op     string
	Reason string
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("numeric error in %s: %s", e.Op, e.Reason)
}
