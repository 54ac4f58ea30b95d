package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"CoinDeck/internal/domain/models"
	"CoinDeck/internal/store"
	"CoinDeck/pkg/metrics"
	"CoinDeck/pkg/util"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnknownSide       = errors.New("unknown order side")
)

const quoteAsset = "USDT"

// VirtualAccount simulates trading against live prices: a quote
// balance, immediate fills with a flat fee, and order/trade history.
// State survives restarts through the state store.
type VirtualAccount struct {
	store    *store.StateStore
	recorder *metrics.Recorder
	initial  float64
	feeRate  float64
	now      func() time.Time

	mu       sync.Mutex
	balances map[string]float64
	orders   []models.VirtualOrder
	trades   []models.VirtualTrade
	seq      int64
}

type accountState struct {
	Balances map[string]float64    `json:"balances"`
	Orders   []models.VirtualOrder `json:"orders"`
	Trades   []models.VirtualTrade `json:"trades"`
}

// VirtualOption configures the account.
type VirtualOption func(*VirtualAccount)

// WithInitialBalance sets the starting quote balance.
func WithInitialBalance(v float64) VirtualOption {
	return func(a *VirtualAccount) {
		if v > 0 {
			a.initial = v
		}
	}
}

// WithFeeRate sets the taker fee rate.
func WithFeeRate(v float64) VirtualOption {
	return func(a *VirtualAccount) {
		if v >= 0 {
			a.feeRate = v
		}
	}
}

// WithVirtualMetrics records executed trades.
func WithVirtualMetrics(r *metrics.Recorder) VirtualOption {
	return func(a *VirtualAccount) {
		a.recorder = r
	}
}

// WithVirtualClock overrides the time source.
func WithVirtualClock(now func() time.Time) VirtualOption {
	return func(a *VirtualAccount) {
		a.now = now
	}
}

// NewVirtualAccount restores the account from the store or starts
// fresh with the initial balance.
func NewVirtualAccount(ctx context.Context, st *store.StateStore, opts ...VirtualOption) *VirtualAccount {
	a := &VirtualAccount{
		store:   st,
		initial: 10000,
		feeRate: 0.001,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	var state accountState
	if st != nil && st.LoadVirtualAccount(ctx, &state) && state.Balances != nil {
		a.balances = state.Balances
		a.orders = state.Orders
		a.trades = state.Trades
	} else {
		a.balances = map[string]float64{quoteAsset: a.initial}
	}
	return a
}

// PlaceOrder validates and immediately executes a virtual order.
func (a *VirtualAccount) PlaceOrder(ctx context.Context, req models.TradeRequest) (models.VirtualOrder, error) {
	side := strings.ToUpper(req.Type)
	if side != models.OrderBuy && side != models.OrderSell {
		return models.VirtualOrder{}, ErrUnknownSide
	}
	if req.Amount <= 0 || req.Price <= 0 {
		return models.VirtualOrder{}, fmt.Errorf("amount and price must be positive")
	}

	symbol := util.NormalizeSymbol(req.Symbol, quoteAsset)
	base := util.BaseAsset(symbol)
	cost := req.Amount * req.Price
	fee := cost * a.feeRate

	a.mu.Lock()
	defer a.mu.Unlock()

	switch side {
	case models.OrderBuy:
		if a.balances[quoteAsset] < cost+fee {
			return models.VirtualOrder{}, ErrInsufficientFunds
		}
		a.balances[quoteAsset] -= cost + fee
		a.balances[base] += req.Amount
	case models.OrderSell:
		if a.balances[base] < req.Amount {
			return models.VirtualOrder{}, ErrInsufficientFunds
		}
		a.balances[base] -= req.Amount
		a.balances[quoteAsset] += cost - fee
	}

	now := a.now().UTC()
	a.seq++
	order := models.VirtualOrder{
		ID:        fmt.Sprintf("ord-%d-%d", now.UnixMilli(), a.seq),
		Symbol:    symbol,
		Side:      side,
		Amount:    req.Amount,
		Price:     req.Price,
		Fee:       fee,
		Total:     cost,
		Status:    "filled",
		CreatedAt: now,
	}
	a.orders = append(a.orders, order)
	a.trades = append(a.trades, models.VirtualTrade{
		ID:        fmt.Sprintf("trd-%d-%d", now.UnixMilli(), a.seq),
		OrderID:   order.ID,
		Symbol:    symbol,
		Side:      side,
		Amount:    req.Amount,
		Price:     req.Price,
		Fee:       fee,
		Timestamp: now,
	})

	a.persistLocked(ctx)
	if a.recorder != nil {
		a.recorder.VirtualTrade(side)
	}
	return order, nil
}

// Balances returns a copy of the balance map.
func (a *VirtualAccount) Balances() map[string]float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[string]float64, len(a.balances))
	for asset, amount := range a.balances {
		out[asset] = amount
	}
	return out
}

// HeldAssets returns non-quote assets with a positive balance.
func (a *VirtualAccount) HeldAssets() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []string
	for asset, amount := range a.balances {
		if asset != quoteAsset && amount > 0 {
			out = append(out, asset)
		}
	}
	sort.Strings(out)
	return out
}

// Portfolio values all holdings at the given prices (quoted per base
// asset). Assets without a price are valued at zero.
func (a *VirtualAccount) Portfolio(prices map[string]float64) models.Portfolio {
	a.mu.Lock()
	defer a.mu.Unlock()

	p := models.Portfolio{
		Balances: make(map[string]float64, len(a.balances)),
	}
	total := a.balances[quoteAsset]
	for asset, amount := range a.balances {
		p.Balances[asset] = amount
		if asset == quoteAsset || amount <= 0 {
			continue
		}
		price := prices[asset]
		value := amount * price
		total += value
		p.Holdings = append(p.Holdings, models.Holding{
			Asset:  asset,
			Amount: amount,
			Price:  price,
			Value:  value,
		})
	}
	sort.Slice(p.Holdings, func(i, j int) bool {
		return p.Holdings[i].Asset < p.Holdings[j].Asset
	})

	p.TotalValue = total
	p.ProfitLoss = total - a.initial
	if a.initial > 0 {
		p.ProfitLossPct = p.ProfitLoss / a.initial * 100
	}
	return p
}

// Performance summarizes trading results at the given prices.
func (a *VirtualAccount) Performance(prices map[string]float64) models.Performance {
	portfolio := a.Portfolio(prices)

	a.mu.Lock()
	defer a.mu.Unlock()

	perf := models.Performance{
		InitialBalance: a.initial,
		TotalValue:     portfolio.TotalValue,
		ProfitLoss:     portfolio.ProfitLoss,
		ProfitLossPct:  portfolio.ProfitLossPct,
		TotalTrades:    len(a.trades),
	}
	for _, t := range a.trades {
		perf.FeesPaid += t.Fee
		if t.Side == models.OrderBuy {
			perf.BuyTrades++
		} else {
			perf.SellTrades++
		}
	}
	return perf
}

// Orders returns order history, newest first.
func (a *VirtualAccount) Orders(limit int) []models.VirtualOrder {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]models.VirtualOrder, 0, len(a.orders))
	for i := len(a.orders) - 1; i >= 0; i-- {
		out = append(out, a.orders[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// Trades returns trade history, newest first.
func (a *VirtualAccount) Trades(limit int) []models.VirtualTrade {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]models.VirtualTrade, 0, len(a.trades))
	for i := len(a.trades) - 1; i >= 0; i-- {
		out = append(out, a.trades[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// Reset restores the initial balance and clears history.
func (a *VirtualAccount) Reset(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.balances = map[string]float64{quoteAsset: a.initial}
	a.orders = nil
	a.trades = nil
	a.persistLocked(ctx)
}

func (a *VirtualAccount) persistLocked(ctx context.Context) {
	if a.store == nil {
		return
	}
	a.store.SaveVirtualAccount(ctx, accountState{
		Balances: a.balances,
		Orders:   a.orders,
		Trades:   a.trades,
	})
}
