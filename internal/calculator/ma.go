package calculator

import "math"

// SMA returns the trailing simple moving average of values over window entries.
// The first window-1 entries are NaN.
func SMA(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	if window <= 0 || len(values) < window {
		return out
	}
	// Running total in the same order as talib.Sma.
	sum := 0.0
	for i := 0; i < window-1; i++ {
		sum += values[i]
	}
	for i := window - 1; i < len(values); i++ {
		sum += values[i]
		out[i] = sum / float64(window)
		sum -= values[i-window+1]
	}
	return pinFlat(out, values, window)
}

// pinFlat sets out[i] to values[i] wherever the trailing window holds a single
// repeated value, so a flat window averages to exactly that value.
func pinFlat(out, values []float64, window int) []float64 {
	run := 0
	for i, v := range values {
		if i > 0 && v == values[i-1] {
			run++
		} else {
			run = 1
		}
		if run >= window {
			out[i] = v
		}
	}
	return out
}

// EMA returns the exponential moving average with smoothing 2/(span+1), seeded
// from the first non-NaN value. Leading NaN entries stay NaN.
func EMA(values []float64, span int) []float64 {
	out := nanSlice(len(values))
	if span <= 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	started := false
	prev := 0.0
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if !started {
			prev = v
			started = true
		} else {
			prev += alpha * (v - prev)
		}
		out[i] = prev
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// Last returns the final element of a computed column and whether it is defined.
func Last(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	v := values[len(values)-1]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
