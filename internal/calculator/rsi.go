package calculator

// RSI computes the relative strength index from simple rolling means of gains
// and losses over the trailing window of close-to-close changes. The first
// window entries are NaN.
func RSI(values []float64, window int) []float64 {
	n := len(values)
	out := nanSlice(n)
	if window <= 0 || n <= window {
		return out
	}

	gains, losses := changes(values)
	for i := window; i < n; i++ {
		var g, l float64
		for j := i - window + 1; j <= i; j++ {
			g += gains[j]
			l += losses[j]
		}
		out[i] = rsiFromAverages(g/float64(window), l/float64(window))
	}
	return out
}

// WilderRSI computes the Wilder-smoothed RSI over the given period: the first
// value averages the first period changes, later values use
// avg = (prev*(period-1) + x) / period.
func WilderRSI(values []float64, period int) []float64 {
	n := len(values)
	out := nanSlice(n)
	if period <= 0 || n <= period {
		return out
	}

	gains, losses := changes(values)
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiFromAverages(avgGain, avgLoss)

	p := float64(period)
	for i := period + 1; i < n; i++ {
		avgGain = (avgGain*(p-1) + gains[i]) / p
		avgLoss = (avgLoss*(p-1) + losses[i]) / p
		out[i] = rsiFromAverages(avgGain, avgLoss)
	}
	return out
}

// rsiFromAverages maps average gain/loss to RSI. No losses gives 100; no
// movement at all gives 50.
func rsiFromAverages(avgGain, avgLoss float64) float64 {
	switch {
	case avgGain == 0 && avgLoss == 0:
		return 50.0
	case avgLoss == 0:
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

// changes splits close-to-close differences into gain and loss magnitudes.
// Index 0 has no predecessor and is zero in both.
func changes(values []float64) (gains, losses []float64) {
	gains = make([]float64, len(values))
	losses = make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}
	return gains, losses
}
