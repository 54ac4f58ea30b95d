package repository

import (
	"context"
	"fmt"
	"strings"

	"CoinDeck/internal/domain/models"
	"CoinDeck/internal/domain/repository"
	"CoinDeck/pkg/clickhouse"
	"CoinDeck/pkg/logger"
)

const indicatorSep = "\n"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS candles (
		symbol     String,
		timeframe  String,
		ts         DateTime,
		open       Float64,
		high       Float64,
		low        Float64,
		close      Float64,
		volume     Float64
	) ENGINE = ReplacingMergeTree
	ORDER BY (symbol, timeframe, ts)`,

	`CREATE TABLE IF NOT EXISTS features (
		symbol      String,
		timeframe   String,
		ts          DateTime,
		close       Float64,
		volume      Float64,
		rsi         Float64,
		macd        Float64,
		macd_signal Float64,
		macd_hist   Float64,
		sma_20      Float64,
		sma_50      Float64,
		sma_200     Float64,
		ema_12      Float64,
		ema_26      Float64,
		bb_upper    Float64,
		bb_middle   Float64,
		bb_lower    Float64,
		bb_width    Float64,
		stoch_k     Float64,
		stoch_d     Float64,
		atr         Float64,
		obv         Float64
	) ENGINE = ReplacingMergeTree
	ORDER BY (symbol, timeframe, ts)`,

	`CREATE TABLE IF NOT EXISTS signals (
		id              String,
		symbol          String,
		ts              DateTime,
		signal          String,
		price           Float64,
		technical_score Float64,
		sentiment_score Float64,
		confidence      Float64,
		indicators      String,
		take_profit     Float64,
		stop_loss       Float64,
		status          String
	) ENGINE = ReplacingMergeTree
	ORDER BY (symbol, ts)`,
}

// ClickHouseWarehouse persists collected market data in ClickHouse.
type ClickHouseWarehouse struct {
	client *clickhouse.Client
	log    *logger.Logger
}

// NewClickHouseWarehouse creates the warehouse and ensures its schema.
func NewClickHouseWarehouse(ctx context.Context, client *clickhouse.Client, log *logger.Logger) (*ClickHouseWarehouse, error) {
	if err := client.InitSchema(ctx, schemaStatements); err != nil {
		return nil, fmt.Errorf("warehouse schema: %w", err)
	}
	return &ClickHouseWarehouse{client: client, log: log}, nil
}

func (w *ClickHouseWarehouse) StoreCandles(ctx context.Context, candles []models.Candle) (int, error) {
	if len(candles) == 0 {
		return 0, nil
	}

	tx, err := w.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store candles: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO candles (symbol, timeframe, ts, open, high, low, close, volume) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("store candles: %w", err)
	}
	for _, c := range candles {
		if _, err := stmt.ExecContext(ctx, c.Symbol, c.Timeframe, c.Timestamp, c.Open, c.High, c.Low, c.Close, c.Volume); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("store candles: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store candles: %w", err)
	}
	return len(candles), nil
}

func (w *ClickHouseWarehouse) Candles(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := w.client.DB().QueryContext(ctx,
		`SELECT symbol, timeframe, ts, open, high, low, close, volume
		 FROM candles FINAL
		 WHERE symbol = ? AND timeframe = ?
		 ORDER BY ts DESC
		 LIMIT ?`, symbol, timeframe, limit)
	if err != nil {
		return nil, fmt.Errorf("query candles: %w", err)
	}
	defer rows.Close()

	var out []models.Candle
	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.Symbol, &c.Timeframe, &c.Timestamp, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("scan candle: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query candles: %w", err)
	}
	reverseCandles(out)
	return out, nil
}

func (w *ClickHouseWarehouse) StoreFeatures(ctx context.Context, features []models.FeatureSnapshot) (int, error) {
	if len(features) == 0 {
		return 0, nil
	}

	tx, err := w.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store features: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO features (symbol, timeframe, ts, close, volume, rsi, macd, macd_signal, macd_hist,
			sma_20, sma_50, sma_200, ema_12, ema_26, bb_upper, bb_middle, bb_lower, bb_width,
			stoch_k, stoch_d, atr, obv)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("store features: %w", err)
	}
	for _, f := range features {
		if _, err := stmt.ExecContext(ctx, f.Symbol, f.Timeframe, f.Timestamp, f.Close, f.Volume,
			f.RSI, f.MACD, f.MACDSignal, f.MACDHist,
			f.SMA20, f.SMA50, f.SMA200, f.EMA12, f.EMA26,
			f.BBUpper, f.BBMiddle, f.BBLower, f.BBWidth,
			f.StochK, f.StochD, f.ATR, f.OBV); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("store features: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store features: %w", err)
	}
	return len(features), nil
}

func (w *ClickHouseWarehouse) Features(ctx context.Context, symbol, timeframe string, limit int) ([]models.FeatureSnapshot, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := w.client.DB().QueryContext(ctx,
		`SELECT symbol, timeframe, ts, close, volume, rsi, macd, macd_signal, macd_hist,
			sma_20, sma_50, sma_200, ema_12, ema_26, bb_upper, bb_middle, bb_lower, bb_width,
			stoch_k, stoch_d, atr, obv
		 FROM features FINAL
		 WHERE symbol = ? AND timeframe = ?
		 ORDER BY ts DESC
		 LIMIT ?`, symbol, timeframe, limit)
	if err != nil {
		return nil, fmt.Errorf("query features: %w", err)
	}
	defer rows.Close()

	var out []models.FeatureSnapshot
	for rows.Next() {
		var f models.FeatureSnapshot
		if err := rows.Scan(&f.Symbol, &f.Timeframe, &f.Timestamp, &f.Close, &f.Volume,
			&f.RSI, &f.MACD, &f.MACDSignal, &f.MACDHist,
			&f.SMA20, &f.SMA50, &f.SMA200, &f.EMA12, &f.EMA26,
			&f.BBUpper, &f.BBMiddle, &f.BBLower, &f.BBWidth,
			&f.StochK, &f.StochD, &f.ATR, &f.OBV); err != nil {
			return nil, fmt.Errorf("scan feature: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (w *ClickHouseWarehouse) StoreSignals(ctx context.Context, signals []models.TradingSignal) (int, error) {
	if len(signals) == 0 {
		return 0, nil
	}

	tx, err := w.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store signals: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO signals (id, symbol, ts, signal, price, technical_score, sentiment_score,
			confidence, indicators, take_profit, stop_loss, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("store signals: %w", err)
	}
	for _, s := range signals {
		if _, err := stmt.ExecContext(ctx, s.ID, s.Symbol, s.Timestamp, s.Signal, s.Price,
			s.TechnicalScore, s.SentimentScore, s.Confidence,
			strings.Join(s.Indicators, indicatorSep), s.TakeProfit, s.StopLoss, s.Status); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("store signals: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store signals: %w", err)
	}
	return len(signals), nil
}

func (w *ClickHouseWarehouse) Signals(ctx context.Context, limit int) ([]models.TradingSignal, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := w.client.DB().QueryContext(ctx,
		`SELECT id, symbol, ts, signal, price, technical_score, sentiment_score,
			confidence, indicators, take_profit, stop_loss, status
		 FROM signals FINAL
		 ORDER BY ts DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	var out []models.TradingSignal
	for rows.Next() {
		var s models.TradingSignal
		var indicators string
		if err := rows.Scan(&s.ID, &s.Symbol, &s.Timestamp, &s.Signal, &s.Price,
			&s.TechnicalScore, &s.SentimentScore, &s.Confidence,
			&indicators, &s.TakeProfit, &s.StopLoss, &s.Status); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		if indicators != "" {
			s.Indicators = strings.Split(indicators, indicatorSep)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (w *ClickHouseWarehouse) CollectedSymbols(ctx context.Context) ([]string, error) {
	rows, err := w.client.DB().QueryContext(ctx, `SELECT DISTINCT symbol FROM candles ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("query collected symbols: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

func (w *ClickHouseWarehouse) Close() error {
	return w.client.Close()
}

func reverseCandles(candles []models.Candle) {
	for i, j := 0, len(candles)-1; i < j; i, j = i+1, j-1 {
		candles[i], candles[j] = candles[j], candles[i]
	}
}

var _ repository.Warehouse = (*ClickHouseWarehouse)(nil)
