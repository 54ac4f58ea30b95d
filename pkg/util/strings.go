package util

import (
	"strconv"
	"strings"
)

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// ParseFloatDefault parses string to float64 or returns default if empty/invalid.
func ParseFloatDefault(s string, def float64) float64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

// NormalizeSymbol uppercases a trading pair and ensures a quote suffix,
// e.g. "btc" -> "BTC/USDT", "eth/usdt" -> "ETH/USDT".
func NormalizeSymbol(s, quote string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	if !strings.Contains(s, "/") {
		return s + "/" + strings.ToUpper(quote)
	}
	return s
}

// BaseAsset returns the base part of a pair, e.g. "BTC" from "BTC/USDT".
func BaseAsset(symbol string) string {
	if i := strings.Index(symbol, "/"); i >= 0 {
		return symbol[:i]
	}
	return symbol
}

// QuoteAsset returns the quote part of a pair, or "" if the pair has none.
func QuoteAsset(symbol string) string {
	if i := strings.Index(symbol, "/"); i >= 0 {
		return symbol[i+1:]
	}
	return ""
}
