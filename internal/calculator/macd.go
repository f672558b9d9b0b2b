package calculator

// MACD returns EMA(fast) - EMA(slow), its EMA(signal) signal line and the
// histogram (macd - signal).
func MACD(values []float64, fast, slow, signal int) (macd, signalLine, hist []float64) {
	fastEMA := EMA(values, fast)
	slowEMA := EMA(values, slow)

	macd = make([]float64, len(values))
	for i := range values {
		macd[i] = fastEMA[i] - slowEMA[i]
	}
	signalLine = EMA(macd, signal)

	hist = make([]float64, len(values))
	for i := range values {
		hist[i] = macd[i] - signalLine[i]
	}
	return macd, signalLine, hist
}
