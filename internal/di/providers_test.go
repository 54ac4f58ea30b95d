package di

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"CoinDeck/pkg/config"
)

// The feed providers must hand the services a CoinDeck HTTP client built
// from the configured timeouts. Driving a request through each provider-built
// source proves the wiring end to end.
func TestProvideMarketSourceUsesConfiguredClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"RAW": {
				"BTC": {"USDT": {"PRICE": 68245.32, "CHANGEPCT24HOUR": 2.5}}
			}
		}`))
	}))
	defer srv.Close()

	cfg := &config.Config{}
	cfg.PriceFeed.BaseURL = srv.URL
	cfg.PriceFeed.QuoteCurrency = "USDT"
	cfg.PriceFeed.Timeout = 5 * time.Second

	source := ProvideMarketSource(cfg, nil, ProvideRecorder())
	quotes, err := source.Quotes(context.Background(), []string{"BTC/USDT"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(quotes) != 1 || quotes[0].Price != 68245.32 {
		t.Fatalf("unexpected quotes %+v", quotes)
	}
}

func TestProvideNewsSourceUsesConfiguredClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"results": [
			{"title": "Market update", "url": "https://example.com/x", "published_at": %q, "source": {"title": "Feed"}}
		]}`, time.Now().UTC().Format(time.RFC3339))
	}))
	defer srv.Close()

	cfg := &config.Config{}
	cfg.NewsFeed.BaseURL = srv.URL
	cfg.NewsFeed.Timeout = 5 * time.Second

	source := ProvideNewsSource(cfg, nil, ProvideRecorder())
	items, err := source.Latest(context.Background(), 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Market update" {
		t.Fatalf("unexpected items %+v", items)
	}
}
