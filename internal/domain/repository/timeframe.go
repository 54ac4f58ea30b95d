package repository

import "time"

// Supported candle timeframes.
const (
	Timeframe1h = "1h"
	Timeframe4h = "4h"
	Timeframe1d = "1d"
)

// NormalizeTimeframe maps arbitrary input to a supported timeframe,
// defaulting to daily.
func NormalizeTimeframe(tf string) string {
	switch tf {
	case Timeframe1h, Timeframe4h, Timeframe1d:
		return tf
	default:
		return Timeframe1d
	}
}

// BarDuration returns the duration of one candle for the timeframe.
func BarDuration(tf string) time.Duration {
	switch NormalizeTimeframe(tf) {
	case Timeframe1h:
		return time.Hour
	case Timeframe4h:
		return 4 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// Lookback returns how far back a collection cycle fetches history.
// Daily bars need a long window for SMA 200; intraday stays short.
func Lookback(tf string) time.Duration {
	switch NormalizeTimeframe(tf) {
	case Timeframe1d:
		return 200 * 24 * time.Hour
	case Timeframe4h:
		return 30 * 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

// LookbackBars returns the equivalent number of candles.
func LookbackBars(tf string) int {
	return int(Lookback(tf) / BarDuration(tf))
}
