package newsfeed

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	"CoinDeck/internal/domain/models"
	"CoinDeck/internal/domain/repository"
	"CoinDeck/pkg/http"
	"CoinDeck/pkg/logger"
	"CoinDeck/pkg/metrics"
)

// Service fetches and scores news from a CryptoPanic-style posts API.
type Service struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	log      *logger.Logger
	recorder *metrics.Recorder
}

// Option configures the Service.
type Option func(*Service)

// WithAPIKey sets the upstream auth token.
func WithAPIKey(key string) Option {
	return func(s *Service) {
		s.apiKey = key
	}
}

// WithMetrics records feed request outcomes.
func WithMetrics(r *metrics.Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) {
		s.client = c
	}
}

// New creates a news feed service.
func New(baseURL string, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		client:  http.NewClient(http.WithTimeout(10 * time.Second)),
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type post struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
	Source      struct {
		Title  string `json:"title"`
		Domain string `json:"domain"`
	} `json:"source"`
	Currencies []struct {
		Code string `json:"code"`
	} `json:"currencies"`
}

type postsResponse struct {
	Results []post `json:"results"`
}

// Latest returns scored news items published within the last N hours,
// deduplicated by URL and ordered newest first.
func (s *Service) Latest(ctx context.Context, hours int) ([]models.NewsItem, error) {
	if hours <= 0 {
		hours = 24
	}

	params := map[string][]string{"public": {"true"}}
	if s.apiKey != "" {
		params["auth_token"] = []string{s.apiKey}
	}

	start := time.Now()
	var parsed postsResponse
	err := s.client.SendAndParse(ctx, &http.RequestOptions{
		Method:      http.MethodGet,
		URL:         s.baseURL + "/api/v1/posts/",
		QueryParams: params,
	}, &parsed)
	if s.recorder != nil {
		s.recorder.ObserveFeedRequest("newsfeed", time.Since(start), err)
	}
	if err != nil {
		return nil, fmt.Errorf("newsfeed: %w", err)
	}

	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)
	seen := make(map[string]struct{}, len(parsed.Results))
	items := make([]models.NewsItem, 0, len(parsed.Results))
	for _, p := range parsed.Results {
		if p.URL == "" || p.Title == "" {
			continue
		}
		if _, dup := seen[p.URL]; dup {
			continue
		}
		seen[p.URL] = struct{}{}

		published, _ := time.Parse(time.RFC3339, p.PublishedAt)
		if !published.IsZero() && published.Before(cutoff) {
			continue
		}

		score := ScoreSentiment(p.Title)
		coins := RelatedCoins(p.Title)
		for _, c := range p.Currencies {
			code := strings.ToUpper(c.Code)
			if code == "" || containsCoin(coins, code) {
				continue
			}
			coins = append(coins, code)
		}
		sort.Strings(coins)

		source := p.Source.Title
		if source == "" {
			source = p.Source.Domain
		}

		items = append(items, models.NewsItem{
			ID:             newsID(p.URL),
			Timestamp:      published,
			Source:         source,
			Title:          p.Title,
			URL:            p.URL,
			SentimentScore: score,
			SentimentLabel: SentimentLabel(score),
			RelatedCoins:   coins,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	return items, nil
}

// AverageSentiment averages the sentiment of items mentioning a coin.
// Returns 0 when nothing mentions it.
func AverageSentiment(items []models.NewsItem, coin string) float64 {
	coin = strings.ToUpper(coin)
	var sum float64
	var n int
	for _, item := range items {
		if !containsCoin(item.RelatedCoins, coin) {
			continue
		}
		sum += item.SentimentScore
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func containsCoin(coins []string, code string) bool {
	for _, c := range coins {
		if c == code {
			return true
		}
	}
	return false
}

func newsID(url string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(url))
	return fmt.Sprintf("%x", h.Sum64())
}

var _ repository.NewsSource = (*Service)(nil)
