package pricefeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestQuotesParsesMultiFullResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/pricemultifull" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("fsyms"); got != "BTC,ETH" {
			t.Errorf("unexpected fsyms %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"RAW": {
				"BTC": {"USDT": {"PRICE": 68245.32, "CHANGEPCT24HOUR": 2.5, "HIGH24HOUR": 69000, "LOW24HOUR": 67000, "MKTCAP": 1300000000000, "LASTUPDATE": 1718000000}},
				"ETH": {"USDT": {"PRICE": 3421.15, "CHANGEPCT24HOUR": 1.8}}
			}
		}`))
	}))
	defer srv.Close()

	s := New(srv.URL, nil)
	quotes, err := s.Quotes(context.Background(), []string{"BTC/USDT", "ETH/USDT"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(quotes))
	}
	if quotes[0].Symbol != "BTC/USDT" || quotes[0].Price != 68245.32 {
		t.Fatalf("unexpected quote %+v", quotes[0])
	}
	if quotes[0].Change24h != 2.5 {
		t.Fatalf("unexpected change %v", quotes[0].Change24h)
	}
}

func TestQuotesNormalizesBareSymbols(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"RAW": {"SOL": {"USDT": {"PRICE": 142.87}}}}`))
	}))
	defer srv.Close()

	s := New(srv.URL, nil)
	quotes, err := s.Quotes(context.Background(), []string{"sol"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quotes[0].Symbol != "SOL/USDT" {
		t.Fatalf("unexpected symbol %q", quotes[0].Symbol)
	}
}

func TestQuotesErrorOnUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := New(srv.URL, nil)
	if _, err := s.Quotes(context.Background(), []string{"BTC/USDT"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestHistoryParsesBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/v2/histoday" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"Response": "Success",
			"Data": {"Data": [
				{"time": 1718000000, "open": 100, "high": 110, "low": 95, "close": 105, "volumefrom": 1200},
				{"time": 1718086400, "open": 105, "high": 112, "low": 101, "close": 108, "volumefrom": 900},
				{"time": 1718172800, "open": 0, "high": 0, "low": 0, "close": 0, "volumefrom": 0}
			]}
		}`))
	}))
	defer srv.Close()

	s := New(srv.URL, nil)
	candles, err := s.History(context.Background(), "BTC/USDT", "1d", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// zero bar is skipped
	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}
	if candles[0].Close != 105 || candles[0].Timeframe != "1d" {
		t.Fatalf("unexpected candle %+v", candles[0])
	}
}

func TestHistoryUpstreamErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Response": "Error", "Message": "rate limit"}`))
	}))
	defer srv.Close()

	s := New(srv.URL, nil)
	if _, err := s.History(context.Background(), "BTC/USDT", "1d", 10); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSampleOverviewFor(t *testing.T) {
	all := SampleOverview()
	if len(all) != 9 {
		t.Fatalf("expected 9 sample quotes, got %d", len(all))
	}

	got := SampleOverviewFor([]string{"BTC/USDT", "PEPE/USDT"})
	if len(got) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(got))
	}
	if got[1].Price != 0.00000098 {
		t.Fatalf("unexpected price %v", got[1].Price)
	}

	// unknown symbols fall back to the full sample list
	if got := SampleOverviewFor([]string{"UNKNOWN/USDT"}); len(got) != 9 {
		t.Fatalf("expected full fallback, got %d", len(got))
	}
}
