package analysis

import (
	"math"

	"CoinDeck/internal/domain/models"
)

// Default indicator periods.
const (
	RSIPeriod        = 14
	MACDFast         = 12
	MACDSlow         = 26
	MACDSignalPeriod = 9
	BBPeriod         = 20
	BBStdDev         = 2.0
	StochPeriod      = 14
	StochSmooth      = 3
	ATRPeriod        = 14
)

// SMA returns the simple moving average per bar. Bars before a full
// window use the expanding mean so the output has no gaps.
func SMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
			out[i] = sum / float64(period)
		} else {
			out[i] = sum / float64(i+1)
		}
	}
	return out
}

// EMA returns the exponential moving average per bar, seeded with the
// first value.
func EMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / float64(period+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = values[i]*alpha + out[i-1]*(1-alpha)
	}
	return out
}

// RSI returns the relative strength index per bar using Wilder
// smoothing. Bars before the first full window read neutral 50.
func RSI(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = 50
	}
	if len(values) <= period {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		delta := values[i] - values[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// MACD returns the MACD line, signal line, and histogram per bar.
func MACD(values []float64) (line, signal, hist []float64) {
	fast := EMA(values, MACDFast)
	slow := EMA(values, MACDSlow)
	line = make([]float64, len(values))
	for i := range values {
		line[i] = fast[i] - slow[i]
	}
	signal = EMA(line, MACDSignalPeriod)
	hist = make([]float64, len(values))
	for i := range values {
		hist[i] = line[i] - signal[i]
	}
	return line, signal, hist
}

// Bollinger returns upper, middle, and lower bands per bar.
func Bollinger(values []float64, period int, stdDev float64) (upper, middle, lower []float64) {
	middle = SMA(values, period)
	upper = make([]float64, len(values))
	lower = make([]float64, len(values))
	for i := range values {
		start := i - period + 1
		if start < 0 {
			start = 0
		}
		window := values[start : i+1]
		var variance float64
		for _, v := range window {
			d := v - middle[i]
			variance += d * d
		}
		sigma := math.Sqrt(variance / float64(len(window)))
		upper[i] = middle[i] + stdDev*sigma
		lower[i] = middle[i] - stdDev*sigma
	}
	return upper, middle, lower
}

// Stochastic returns slow %K and %D per bar over the candle series.
func Stochastic(candles []models.Candle, period, smooth int) (k, d []float64) {
	fastK := make([]float64, len(candles))
	for i := range candles {
		start := i - period + 1
		if start < 0 {
			start = 0
		}
		low, high := candles[start].Low, candles[start].High
		for _, c := range candles[start : i+1] {
			if c.Low < low {
				low = c.Low
			}
			if c.High > high {
				high = c.High
			}
		}
		rng := high - low
		if rng == 0 {
			fastK[i] = 50
			continue
		}
		fastK[i] = (candles[i].Close - low) / rng * 100
	}
	k = SMA(fastK, smooth)
	d = SMA(k, smooth)
	return k, d
}

// ATR returns the average true range per bar with Wilder smoothing.
func ATR(candles []models.Candle, period int) []float64 {
	out := make([]float64, len(candles))
	if len(candles) == 0 {
		return out
	}

	tr := make([]float64, len(candles))
	tr[0] = candles[0].High - candles[0].Low
	for i := 1; i < len(candles); i++ {
		hl := candles[i].High - candles[i].Low
		hc := math.Abs(candles[i].High - candles[i-1].Close)
		lc := math.Abs(candles[i].Low - candles[i-1].Close)
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}

	var sum float64
	for i, v := range tr {
		if i < period {
			sum += v
			out[i] = sum / float64(i+1)
			continue
		}
		out[i] = (out[i-1]*float64(period-1) + v) / float64(period)
	}
	return out
}

// OBV returns the cumulative on-balance volume per bar.
func OBV(candles []models.Candle) []float64 {
	out := make([]float64, len(candles))
	if len(candles) == 0 {
		return out
	}
	out[0] = candles[0].Volume
	for i := 1; i < len(candles); i++ {
		switch {
		case candles[i].Close > candles[i-1].Close:
			out[i] = out[i-1] + candles[i].Volume
		case candles[i].Close < candles[i-1].Close:
			out[i] = out[i-1] - candles[i].Volume
		default:
			out[i] = out[i-1]
		}
	}
	return out
}

// Compute derives a feature snapshot for every bar in the series.
func Compute(candles []models.Candle) []models.FeatureSnapshot {
	if len(candles) == 0 {
		return nil
	}

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}

	rsi := RSI(closes, RSIPeriod)
	macdLine, macdSignal, macdHist := MACD(closes)
	sma20 := SMA(closes, 20)
	sma50 := SMA(closes, 50)
	sma200 := SMA(closes, 200)
	ema12 := EMA(closes, 12)
	ema26 := EMA(closes, 26)
	bbUpper, bbMiddle, bbLower := Bollinger(closes, BBPeriod, BBStdDev)
	stochK, stochD := Stochastic(candles, StochPeriod, StochSmooth)
	atr := ATR(candles, ATRPeriod)
	obv := OBV(candles)

	snapshots := make([]models.FeatureSnapshot, len(candles))
	for i, c := range candles {
		width := 0.0
		if bbMiddle[i] != 0 {
			width = (bbUpper[i] - bbLower[i]) / bbMiddle[i]
		}
		snapshots[i] = models.FeatureSnapshot{
			Symbol:     c.Symbol,
			Timeframe:  c.Timeframe,
			Timestamp:  c.Timestamp,
			Close:      c.Close,
			Volume:     c.Volume,
			RSI:        rsi[i],
			MACD:       macdLine[i],
			MACDSignal: macdSignal[i],
			MACDHist:   macdHist[i],
			SMA20:      sma20[i],
			SMA50:      sma50[i],
			SMA200:     sma200[i],
			EMA12:      ema12[i],
			EMA26:      ema26[i],
			BBUpper:    bbUpper[i],
			BBMiddle:   bbMiddle[i],
			BBLower:    bbLower[i],
			BBWidth:    width,
			StochK:     stochK[i],
			StochD:     stochD[i],
			ATR:        atr[i],
			OBV:        obv[i],
		}
	}
	return snapshots
}
