package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"CoinDeck/internal/domain/models"
	"CoinDeck/internal/store"
	"CoinDeck/pkg/cache"
)

func newTestAccount(t *testing.T, opts ...VirtualOption) *VirtualAccount {
	t.Helper()
	return NewVirtualAccount(context.Background(), nil, opts...)
}

func TestPlaceOrderBuyDeductsCostAndFee(t *testing.T) {
	a := newTestAccount(t, WithInitialBalance(10000), WithFeeRate(0.001))

	order, err := a.PlaceOrder(context.Background(), models.TradeRequest{
		Symbol: "BTC/USDT", Type: "BUY", Amount: 0.1, Price: 50000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// cost 5000, fee 5
	if order.Fee != 5 {
		t.Fatalf("unexpected fee %v", order.Fee)
	}
	balances := a.Balances()
	if got := balances["USDT"]; math.Abs(got-4995) > 1e-9 {
		t.Fatalf("unexpected quote balance %v", got)
	}
	if got := balances["BTC"]; got != 0.1 {
		t.Fatalf("unexpected base balance %v", got)
	}
}

func TestPlaceOrderSellCreditsNetOfFee(t *testing.T) {
	ctx := context.Background()
	a := newTestAccount(t, WithInitialBalance(10000), WithFeeRate(0.001))

	_, _ = a.PlaceOrder(ctx, models.TradeRequest{Symbol: "BTC/USDT", Type: "BUY", Amount: 0.1, Price: 50000})
	_, err := a.PlaceOrder(ctx, models.TradeRequest{Symbol: "BTC/USDT", Type: "sell", Amount: 0.1, Price: 60000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	balances := a.Balances()
	// 4995 + 6000 - 6 fee
	if got := balances["USDT"]; math.Abs(got-10989) > 1e-9 {
		t.Fatalf("unexpected quote balance %v", got)
	}
	if got := balances["BTC"]; got != 0 {
		t.Fatalf("unexpected base balance %v", got)
	}
}

func TestPlaceOrderInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	a := newTestAccount(t, WithInitialBalance(100))

	_, err := a.PlaceOrder(ctx, models.TradeRequest{Symbol: "BTC/USDT", Type: "BUY", Amount: 1, Price: 50000})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	_, err = a.PlaceOrder(ctx, models.TradeRequest{Symbol: "BTC/USDT", Type: "SELL", Amount: 1, Price: 50000})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds for uncovered sell, got %v", err)
	}
}

func TestPlaceOrderRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	a := newTestAccount(t)

	if _, err := a.PlaceOrder(ctx, models.TradeRequest{Symbol: "BTC/USDT", Type: "HODL", Amount: 1, Price: 1}); !errors.Is(err, ErrUnknownSide) {
		t.Fatalf("expected ErrUnknownSide, got %v", err)
	}
	if _, err := a.PlaceOrder(ctx, models.TradeRequest{Symbol: "BTC/USDT", Type: "BUY", Amount: 0, Price: 1}); err == nil {
		t.Fatalf("expected error for zero amount")
	}
}

func TestPortfolioValuation(t *testing.T) {
	ctx := context.Background()
	a := newTestAccount(t, WithInitialBalance(10000), WithFeeRate(0))

	_, _ = a.PlaceOrder(ctx, models.TradeRequest{Symbol: "ETH/USDT", Type: "BUY", Amount: 2, Price: 3000})

	p := a.Portfolio(map[string]float64{"ETH": 3500})
	if len(p.Holdings) != 1 || p.Holdings[0].Asset != "ETH" {
		t.Fatalf("unexpected holdings %v", p.Holdings)
	}
	// 4000 quote + 7000 holdings
	if p.TotalValue != 11000 {
		t.Fatalf("unexpected total %v", p.TotalValue)
	}
	if p.ProfitLoss != 1000 || p.ProfitLossPct != 10 {
		t.Fatalf("unexpected P/L %v (%v%%)", p.ProfitLoss, p.ProfitLossPct)
	}
}

func TestPerformanceCountsTrades(t *testing.T) {
	ctx := context.Background()
	a := newTestAccount(t, WithInitialBalance(10000), WithFeeRate(0.001))

	_, _ = a.PlaceOrder(ctx, models.TradeRequest{Symbol: "BTC/USDT", Type: "BUY", Amount: 0.01, Price: 50000})
	_, _ = a.PlaceOrder(ctx, models.TradeRequest{Symbol: "BTC/USDT", Type: "SELL", Amount: 0.01, Price: 51000})

	perf := a.Performance(map[string]float64{"BTC": 51000})
	if perf.TotalTrades != 2 || perf.BuyTrades != 1 || perf.SellTrades != 1 {
		t.Fatalf("unexpected counts %+v", perf)
	}
	if perf.FeesPaid <= 0 {
		t.Fatalf("expected fees, got %v", perf.FeesPaid)
	}
}

func TestOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	a := newTestAccount(t, WithInitialBalance(100000), WithFeeRate(0))

	_, _ = a.PlaceOrder(ctx, models.TradeRequest{Symbol: "BTC/USDT", Type: "BUY", Amount: 0.1, Price: 100})
	_, _ = a.PlaceOrder(ctx, models.TradeRequest{Symbol: "ETH/USDT", Type: "BUY", Amount: 1, Price: 100})

	orders := a.Orders(10)
	if len(orders) != 2 || orders[0].Symbol != "ETH/USDT" {
		t.Fatalf("expected newest first, got %v", orders)
	}
	if got := a.Orders(1); len(got) != 1 {
		t.Fatalf("limit not applied: %v", got)
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	ctx := context.Background()
	a := newTestAccount(t, WithInitialBalance(10000))

	_, _ = a.PlaceOrder(ctx, models.TradeRequest{Symbol: "BTC/USDT", Type: "BUY", Amount: 0.01, Price: 50000})
	a.Reset(ctx)

	if got := a.Balances()["USDT"]; got != 10000 {
		t.Fatalf("unexpected balance %v", got)
	}
	if len(a.Orders(0)) != 0 || len(a.Trades(0)) != 0 {
		t.Fatalf("expected cleared history")
	}
}

func TestAccountPersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	mc := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })
	st := store.New(mc, nil, nil)

	a := NewVirtualAccount(ctx, st, WithInitialBalance(10000), WithFeeRate(0))
	_, _ = a.PlaceOrder(ctx, models.TradeRequest{Symbol: "BTC/USDT", Type: "BUY", Amount: 0.5, Price: 1000})

	restored := NewVirtualAccount(ctx, st, WithInitialBalance(10000), WithFeeRate(0))
	if got := restored.Balances()["BTC"]; got != 0.5 {
		t.Fatalf("expected restored balance, got %v", got)
	}
	if len(restored.Orders(0)) != 1 {
		t.Fatalf("expected restored orders")
	}
}
