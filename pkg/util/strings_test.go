package util

import "testing"

func TestNormalizeSymbol(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"btc", "BTC/USDT"},
		{"BTC/USDT", "BTC/USDT"},
		{" eth/usdt ", "ETH/USDT"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeSymbol(c.in, "usdt"); got != c.want {
			t.Fatalf("NormalizeSymbol(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBaseQuoteAsset(t *testing.T) {
	if got := BaseAsset("SOL/USDT"); got != "SOL" {
		t.Fatalf("unexpected base %q", got)
	}
	if got := QuoteAsset("SOL/USDT"); got != "USDT" {
		t.Fatalf("unexpected quote %q", got)
	}
	if got := QuoteAsset("SOL"); got != "" {
		t.Fatalf("expected empty quote, got %q", got)
	}
}
