package analysis

import (
	"math"
	"testing"
	"time"

	"CoinDeck/internal/domain/models"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestSMAKnownValues(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	got := SMA(values, 3)
	want := []float64{1, 1.5, 2, 3, 4}
	for i := range want {
		if !almostEqual(got[i], want[i], 1e-9) {
			t.Fatalf("SMA[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestEMASeedsWithFirstValue(t *testing.T) {
	values := []float64{10, 10, 10, 10}
	got := EMA(values, 3)
	for i, v := range got {
		if !almostEqual(v, 10, 1e-9) {
			t.Fatalf("EMA of constant series must be constant, got %v at %d", v, i)
		}
	}
}

func TestRSIBounds(t *testing.T) {
	// strictly rising series pins RSI at 100, strictly falling at 0
	rising := make([]float64, 30)
	falling := make([]float64, 30)
	for i := range rising {
		rising[i] = float64(i + 1)
		falling[i] = float64(100 - i)
	}

	up := RSI(rising, RSIPeriod)
	down := RSI(falling, RSIPeriod)
	if got := up[len(up)-1]; !almostEqual(got, 100, 1e-9) {
		t.Fatalf("rising RSI = %v, want 100", got)
	}
	if got := down[len(down)-1]; !almostEqual(got, 0, 1e-9) {
		t.Fatalf("falling RSI = %v, want 0", got)
	}

	for _, v := range append(up, down...) {
		if v < 0 || v > 100 {
			t.Fatalf("RSI out of bounds: %v", v)
		}
	}
}

func TestRSINeutralBeforeWindow(t *testing.T) {
	got := RSI([]float64{1, 2, 3}, RSIPeriod)
	for i, v := range got {
		if v != 50 {
			t.Fatalf("expected neutral 50 at %d, got %v", i, v)
		}
	}
}

func TestMACDHistogramIsLineMinusSignal(t *testing.T) {
	values := make([]float64, 60)
	for i := range values {
		values[i] = 100 + 10*math.Sin(float64(i)/5)
	}
	line, signal, hist := MACD(values)
	for i := range values {
		if !almostEqual(hist[i], line[i]-signal[i], 1e-9) {
			t.Fatalf("histogram mismatch at %d", i)
		}
	}
}

func TestBollingerBandsBracketMiddle(t *testing.T) {
	values := []float64{10, 12, 11, 13, 12, 14, 13, 15, 14, 16, 15, 17, 16, 18, 17, 19, 18, 20, 19, 21, 20, 22}
	upper, middle, lower := Bollinger(values, BBPeriod, BBStdDev)
	for i := range values {
		if upper[i] < middle[i] || lower[i] > middle[i] {
			t.Fatalf("bands inverted at %d: %v %v %v", i, upper[i], middle[i], lower[i])
		}
	}
}

func TestStochasticFlatRange(t *testing.T) {
	candles := flatCandles(20, 100)
	k, d := Stochastic(candles, StochPeriod, StochSmooth)
	for i := range candles {
		if k[i] != 50 || d[i] != 50 {
			t.Fatalf("flat range must read 50, got k=%v d=%v at %d", k[i], d[i], i)
		}
	}
}

func TestOBVAccumulates(t *testing.T) {
	candles := []models.Candle{
		{Close: 10, Volume: 100},
		{Close: 11, Volume: 50},
		{Close: 10.5, Volume: 30},
		{Close: 10.5, Volume: 999},
	}
	got := OBV(candles)
	want := []float64{100, 150, 120, 120}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("OBV[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestComputeSnapshotPerBar(t *testing.T) {
	candles := trendCandles(60, 100, 1)
	snapshots := Compute(candles)
	if len(snapshots) != len(candles) {
		t.Fatalf("expected %d snapshots, got %d", len(candles), len(snapshots))
	}
	last := snapshots[len(snapshots)-1]
	if last.Symbol != "BTC/USDT" || last.Close != candles[len(candles)-1].Close {
		t.Fatalf("unexpected snapshot %+v", last)
	}
	if last.BBWidth < 0 {
		t.Fatalf("negative band width %v", last.BBWidth)
	}
}

func flatCandles(n int, price float64) []models.Candle {
	candles := make([]models.Candle, n)
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := range candles {
		candles[i] = models.Candle{
			Symbol:    "BTC/USDT",
			Timeframe: "1d",
			Timestamp: base.AddDate(0, 0, i),
			Open:      price,
			High:      price,
			Low:       price,
			Close:     price,
			Volume:    1000,
		}
	}
	return candles
}

func trendCandles(n int, start, step float64) []models.Candle {
	candles := make([]models.Candle, n)
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := range candles {
		price := start + step*float64(i)
		candles[i] = models.Candle{
			Symbol:    "BTC/USDT",
			Timeframe: "1d",
			Timestamp: base.AddDate(0, 0, i),
			Open:      price - step/2,
			High:      price + 1,
			Low:       price - 1,
			Close:     price,
			Volume:    1000,
		}
	}
	return candles
}
