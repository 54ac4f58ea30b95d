package models

import "time"

// Order sides for the virtual trading panel.
const (
	OrderBuy  = "BUY"
	OrderSell = "SELL"
)

// TradeRequest places a virtual order.
type TradeRequest struct {
	Symbol string  `json:"symbol" validate:"required"`
	Type   string  `json:"type" validate:"required,oneof=BUY SELL buy sell"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Price  float64 `json:"price" validate:"required,gt=0"`
}

// VirtualOrder is an executed (or rejected) virtual order.
type VirtualOrder struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Side      string    `json:"side"`
	Amount    float64   `json:"amount"`
	Price     float64   `json:"price"`
	Fee       float64   `json:"fee"`
	Total     float64   `json:"total"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// VirtualTrade is the fill produced by an executed order.
type VirtualTrade struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	Symbol    string    `json:"symbol"`
	Side      string    `json:"side"`
	Amount    float64   `json:"amount"`
	Price     float64   `json:"price"`
	Fee       float64   `json:"fee"`
	Timestamp time.Time `json:"timestamp"`
}

// Holding is one non-quote asset position valued at current price.
type Holding struct {
	Asset  string  `json:"asset"`
	Amount float64 `json:"amount"`
	Price  float64 `json:"price"`
	Value  float64 `json:"value"`
}

// Portfolio is the valued state of the virtual account.
type Portfolio struct {
	Balances      map[string]float64 `json:"balances"`
	Holdings      []Holding          `json:"holdings"`
	TotalValue    float64            `json:"total_value"`
	ProfitLoss    float64            `json:"profit_loss"`
	ProfitLossPct float64            `json:"profit_loss_pct"`
}

// Performance summarizes virtual trading results.
type Performance struct {
	InitialBalance float64 `json:"initial_balance"`
	TotalValue     float64 `json:"total_value"`
	ProfitLoss     float64 `json:"profit_loss"`
	ProfitLossPct  float64 `json:"profit_loss_pct"`
	TotalTrades    int     `json:"total_trades"`
	BuyTrades      int     `json:"buy_trades"`
	SellTrades     int     `json:"sell_trades"`
	FeesPaid       float64 `json:"fees_paid"`
}
