package model

// IndicatorRow is a candle augmented with derived indicator readings.
// Rows are produced once by the indicator engine and are read-only afterwards.
type IndicatorRow struct {
	Candle
	EMA50      Value `json:"ema_50"`
	EMA200     Value `json:"ema_200"`
	RSI14      Value `json:"rsi_14"`
	ATR14      Value `json:"atr_14"`
	SMA20      Value `json:"sma_20"`
	Volatility Value `json:"volatility"` // rolling sample std-dev of close
}

// Closes extracts the close series of a window.
func Closes(rows []IndicatorRow) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Close
	}
	return out
}

// Volumes extracts the volume series of a window.
func Volumes(rows []IndicatorRow) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Volume
	}
	return out
}
