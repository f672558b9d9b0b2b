package calculator

import "math"

// Bollinger returns bands k sample standard deviations around SMA(window).
func Bollinger(values []float64, window int, k float64) (upper, middle, lower []float64) {
	middle = SMA(values, window)
	sd := SampleStdDev(values, window)
	upper = make([]float64, len(values))
	lower = make([]float64, len(values))
	for i := range values {
		upper[i] = middle[i] + k*sd[i]
		lower[i] = middle[i] - k*sd[i]
	}
	return upper, middle, lower
}

// SampleStdDev returns the trailing sample standard deviation (n-1 denominator),
// computed in two passes per window. A window of one repeated value is exactly
// 0. Windows shorter than 2 are undefined. Both strategies use this kernel.
func SampleStdDev(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	if window < 2 || len(values) < window {
		return out
	}
	run := 1
	for i := 1; i < window-1; i++ {
		if values[i] == values[i-1] {
			run++
		} else {
			run = 1
		}
	}
	for i := window - 1; i < len(values); i++ {
		if i > 0 && values[i] == values[i-1] {
			run++
		} else {
			run = 1
		}
		if run >= window {
			out[i] = 0
			continue
		}
		sum := 0.0
		for j := i - window + 1; j <= i; j++ {
			sum += values[j]
		}
		mean := sum / float64(window)
		ss := 0.0
		for j := i - window + 1; j <= i; j++ {
			d := values[j] - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(window-1))
	}
	return out
}
