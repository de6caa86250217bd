package calculator

import "errors"

// CalculateSMA computes the simple moving average of the last period values.
func CalculateSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// trailingRun returns the length and mean of the run of values below limit at the end of the series.
func trailingRun(values []float64, limit float64) (n int, mean float64) {
	sum := 0.0
	for i := len(values) - 1; i >= 0 && values[i] < limit; i-- {
		n++
		sum += values[i]
	}
	if n == 0 {
		return 0, 0
	}
	return n, sum / float64(n)
}
