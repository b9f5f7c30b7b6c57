package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic statistical functions shared by the feature extractors, backed by gonum

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// PopMeanStdDev returns the mean and population (ddof=0) standard deviation
func PopMeanStdDev(data []float64) (float64, float64) {
	if len(data) == 0 {
		return 0.0, 0.0
	}
	return stat.PopMeanStdDev(data, nil)
}

// PeakAbs returns the largest absolute value in data
func PeakAbs(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return math.Max(math.Abs(floats.Min(data)), math.Abs(floats.Max(data)))
}

// Clamp limits v to [lo, hi]. lo wins when the range is empty.
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// Hypot is the euclidean length of (dx, dy)
func Hypot(dx, dy float64) float64 {
	return math.Hypot(dx, dy)
}
