package calculator

import "math"

// RollingMin returns the minimum over the trailing window; used for support.
func RollingMin(values []float64, window int) []float64 {
	return rolling(values, window, math.Min, math.Inf(1))
}

// RollingMax returns the maximum over the trailing window; used for resistance.
func RollingMax(values []float64, window int) []float64 {
	return rolling(values, window, math.Max, math.Inf(-1))
}

func rolling(values []float64, window int, pick func(a, b float64) float64, start float64) []float64 {
	out := nanSlice(len(values))
	if window <= 0 || len(values) < window {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		v := start
		for j := i - window + 1; j <= i; j++ {
			v = pick(v, values[j])
		}
		out[i] = v
	}
	return out
}
