package newsfeed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"CoinDeck/internal/domain/models"
)

func TestScoreSentiment(t *testing.T) {
	cases := []struct {
		text string
		want func(float64) bool
	}{
		{"Bitcoin surges to record high on ETF approval", func(s float64) bool { return s > 0.5 }},
		{"Exchange hacked, token crashes amid liquidations", func(s float64) bool { return s < -0.5 }},
		{"Bitcoin trades sideways this week", func(s float64) bool { return s == 0 }},
		{"Rally fades as lawsuit fears trigger sell-off", func(s float64) bool { return s < 0 }},
	}
	for _, c := range cases {
		if got := ScoreSentiment(c.text); !c.want(got) {
			t.Fatalf("ScoreSentiment(%q) = %v", c.text, got)
		}
	}
}

func TestScoreSentimentBounds(t *testing.T) {
	got := ScoreSentiment("surge rally gain adoption partnership breakthrough upgrade growth")
	if got < -1 || got > 1 {
		t.Fatalf("score out of bounds: %v", got)
	}
}

func TestSentimentLabel(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0.8, models.SentimentPositive},
		{0.6, models.SentimentPositive},
		{0.3, models.SentimentSlightlyPositive},
		{0.0, models.SentimentNeutral},
		{-0.1, models.SentimentNeutral},
		{-0.3, models.SentimentSlightlyNegative},
		{-0.7, models.SentimentNegative},
	}
	for _, c := range cases {
		if got := SentimentLabel(c.score); got != c.want {
			t.Fatalf("SentimentLabel(%v) = %q, want %q", c.score, got, c.want)
		}
	}
}

func TestRelatedCoins(t *testing.T) {
	coins := RelatedCoins("Ethereum and Solana outperform Bitcoin")
	want := map[string]bool{"ETH": true, "SOL": true, "BTC": true}
	if len(coins) != len(want) {
		t.Fatalf("unexpected coins %v", coins)
	}
	for _, c := range coins {
		if !want[c] {
			t.Fatalf("unexpected coin %q in %v", c, coins)
		}
	}
}

func TestLatestDeduplicatesAndOrders(t *testing.T) {
	now := time.Now().UTC()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"results": [
			{"title": "Older story", "url": "https://example.com/a", "published_at": %q, "source": {"title": "Feed"}},
			{"title": "Newer story", "url": "https://example.com/b", "published_at": %q, "source": {"title": "Feed"}},
			{"title": "Duplicate", "url": "https://example.com/a", "published_at": %q, "source": {"title": "Feed"}},
			{"title": "Ancient story", "url": "https://example.com/c", "published_at": %q, "source": {"title": "Feed"}}
		]}`,
			now.Add(-2*time.Hour).Format(time.RFC3339),
			now.Add(-1*time.Hour).Format(time.RFC3339),
			now.Add(-2*time.Hour).Format(time.RFC3339),
			now.Add(-72*time.Hour).Format(time.RFC3339))
	}))
	defer srv.Close()

	s := New(srv.URL, nil)
	items, err := s.Latest(context.Background(), 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title != "Newer story" {
		t.Fatalf("expected newest first, got %q", items[0].Title)
	}
}

func TestLatestTagsCurrencies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"results": [
			{"title": "Market update", "url": "https://example.com/x", "published_at": %q,
			 "source": {"domain": "example.com"}, "currencies": [{"code": "btc"}, {"code": "eth"}]}
		]}`, time.Now().UTC().Format(time.RFC3339))
	}))
	defer srv.Close()

	s := New(srv.URL, nil)
	items, err := s.Latest(context.Background(), 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if len(items[0].RelatedCoins) != 2 || items[0].RelatedCoins[0] != "BTC" {
		t.Fatalf("unexpected coins %v", items[0].RelatedCoins)
	}
	if items[0].Source != "example.com" {
		t.Fatalf("unexpected source %q", items[0].Source)
	}
}

func TestAverageSentiment(t *testing.T) {
	items := []models.NewsItem{
		{SentimentScore: 1, RelatedCoins: []string{"BTC"}},
		{SentimentScore: 0.5, RelatedCoins: []string{"BTC", "ETH"}},
		{SentimentScore: -1, RelatedCoins: []string{"SOL"}},
	}
	if got := AverageSentiment(items, "BTC"); got != 0.75 {
		t.Fatalf("unexpected average %v", got)
	}
	if got := AverageSentiment(items, "DOGE"); got != 0 {
		t.Fatalf("expected 0 for unmentioned coin, got %v", got)
	}
}
