package common

import (
	"gonum.org/v1/gonum/floats"
)

// PeakNormalize returns a copy of signal scaled so the largest absolute sample is 1.
// ok is false for empty or silent input, in which case the copy is unscaled.
func PeakNormalize(signal []float64) (normalized []float64, ok bool) {
	normalized = make([]float64, len(signal))
	copy(normalized, signal)

	peak := PeakAbs(signal)
	if peak == 0 || len(signal) == 0 {
		return normalized, false
	}

	floats.Scale(1/peak, normalized)
	return normalized, true
}

// ZScoreInPlace standardizes data to zero mean and unit population variance.
// It returns the statistics used; data is left untouched when std is zero.
func ZScoreInPlace(data []float64) (mean, std float64) {
	mean, std = PopMeanStdDev(data)
	if std == 0 {
		return mean, std
	}
	floats.AddConst(-mean, data)
	floats.Scale(1/std, data)
	return mean, std
}

// CenterInPlace subtracts the mean only
func CenterInPlace(data []float64) float64 {
	mean := Mean(data)
	floats.AddConst(-mean, data)
	return mean
}
