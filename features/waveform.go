package features

import (
	"github.com/RyanBlaney/mapdata/algorithms/common"
)

// NormalizeWaveform scales samples so the largest absolute value is 1
func NormalizeWaveform(samples []float64) ([]float64, error) {
	if len(samples) == 0 {
		return nil, &NumericError{Op: "waveform normalization", Reason: "no samples"}
	}
	normalized, ok := common.PeakNormalize(samples)
	if !ok {
		return nil, &NumericError{Op: "waveform normalization", Reason: "silent audio"}
	}
	return normalized, nil
}
