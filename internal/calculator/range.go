package calculator

import (
	"errors"
	"math"
)

// CalculateRange returns the high and low over the most recent window values.
// A non-positive window scans the whole series.
func CalculateRange(values []float64, window int) (high, low float64, err error) {
	if len(values) == 0 {
		return 0, 0, errors.New("no values provided")
	}
	n := len(values)
	start := 0
	if window > 0 && n > window {
		start = n - window
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < n; i++ {
		high = math.Max(high, values[i])
		low = math.Min(low, values[i])
	}
	return high, low, nil
}

// CalculatePosition returns where current sits within [low, high] (0.0~1.0).
func CalculatePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	return clamp01((current - low) / (high - low)), nil
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
