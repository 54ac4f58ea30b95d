package pricefeed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"CoinDeck/internal/domain/models"
	"CoinDeck/internal/domain/repository"
	"CoinDeck/pkg/http"
	"CoinDeck/pkg/logger"
	"CoinDeck/pkg/metrics"
	"CoinDeck/pkg/util"
)

// Service fetches quotes and candle history from a CryptoCompare-style
// market data API.
type Service struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	quote    string
	log      *logger.Logger
	recorder *metrics.Recorder
}

// Option configures the Service.
type Option func(*Service)

// WithAPIKey sets the upstream API key.
func WithAPIKey(key string) Option {
	return func(s *Service) {
		s.apiKey = key
	}
}

// WithQuoteCurrency sets the quote currency for all pairs.
func WithQuoteCurrency(quote string) Option {
	return func(s *Service) {
		s.quote = quote
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

// New creates a price feed service.
func New(baseURL string, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		client:  http.NewClient(http.WithTimeout(10 * time.Second)),
		baseURL: strings.TrimRight(baseURL, "/"),
		quote:   "USDT",
		log:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type fullQuote struct {
	Price        float64 `json:"PRICE"`
	ChangePct24h float64 `json:"CHANGEPCT24HOUR"`
	High24h      float64 `json:"HIGH24HOUR"`
	Low24h       float64 `json:"LOW24HOUR"`
	Volume24h    float64 `json:"VOLUME24HOURTO"`
	MarketCap    float64 `json:"MKTCAP"`
	LastUpdate   int64   `json:"LASTUPDATE"`
}

type priceMultiFullResponse struct {
	Raw map[string]map[string]fullQuote `json:"RAW"`
}

// Quotes fetches market snapshots for the given pairs.
func (s *Service) Quotes(ctx context.Context, symbols []string) ([]models.PriceQuote, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	bases := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		bases = append(bases, util.BaseAsset(util.NormalizeSymbol(sym, s.quote)))
	}

	start := time.Now()
	var parsed priceMultiFullResponse
	err := s.client.SendAndParse(ctx, &http.RequestOptions{
		Method: http.MethodGet,
		URL:    s.baseURL + "/data/pricemultifull",
		QueryParams: map[string][]string{
			"fsyms": {strings.Join(bases, ",")},
			"tsyms": {s.quote},
		},
		Headers: s.authHeaders(),
	}, &parsed)
	s.observe(start, err)
	if err != nil {
		return nil, fmt.Errorf("pricefeed quotes: %w", err)
	}

	quotes := make([]models.PriceQuote, 0, len(symbols))
	for i, base := range bases {
		raw, ok := parsed.Raw[base][s.quote]
		if !ok {
			continue
		}
		q := models.PriceQuote{
			Symbol:    util.NormalizeSymbol(symbols[i], s.quote),
			Price:     raw.Price,
			Change24h: raw.ChangePct24h,
			High24h:   raw.High24h,
			Low24h:    raw.Low24h,
			Volume24h: raw.Volume24h,
			MarketCap: raw.MarketCap,
		}
		if raw.LastUpdate > 0 {
			q.LastUpdated = time.Unix(raw.LastUpdate, 0).UTC()
		}
		if s.recorder != nil {
			s.recorder.SetLastPrice(q.Symbol, q.Price)
		}
		quotes = append(quotes, q)
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("pricefeed quotes: empty response for %v", symbols)
	}
	return quotes, nil
}

type histoBar struct {
	Time       int64   `json:"time"`
	Open       float64 `json:"open"`
	High       float64 `json:"high"`
	Low        float64 `json:"low"`
	Close      float64 `json:"close"`
	VolumeFrom float64 `json:"volumefrom"`
}

type histoResponse struct {
	Response string `json:"Response"`
	Message  string `json:"Message"`
	Data     struct {
		Data []histoBar `json:"Data"`
	} `json:"Data"`
}

// History fetches up to limit OHLCV bars for a pair, oldest first.
func (s *Service) History(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error) {
	symbol = util.NormalizeSymbol(symbol, s.quote)
	timeframe = repository.NormalizeTimeframe(timeframe)
	if limit <= 0 {
		limit = repository.LookbackBars(timeframe)
	}

	endpoint := "/data/v2/histoday"
	aggregate := 1
	if timeframe != repository.Timeframe1d {
		endpoint = "/data/v2/histohour"
		if timeframe == repository.Timeframe4h {
			aggregate = 4
		}
	}

	start := time.Now()
	var parsed histoResponse
	err := s.client.SendAndParse(ctx, &http.RequestOptions{
		Method: http.MethodGet,
		URL:    s.baseURL + endpoint,
		QueryParams: map[string][]string{
			"fsym":      {util.BaseAsset(symbol)},
			"tsym":      {s.quote},
			"limit":     {fmt.Sprintf("%d", limit)},
			"aggregate": {fmt.Sprintf("%d", aggregate)},
		},
		Headers: s.authHeaders(),
	}, &parsed)
	s.observe(start, err)
	if err != nil {
		return nil, fmt.Errorf("pricefeed history: %w", err)
	}
	if parsed.Response == "Error" {
		return nil, fmt.Errorf("pricefeed history: %s", parsed.Message)
	}

	candles := make([]models.Candle, 0, len(parsed.Data.Data))
	for _, bar := range parsed.Data.Data {
		if bar.Open == 0 && bar.Close == 0 {
			continue
		}
		candles = append(candles, models.Candle{
			Symbol:    symbol,
			Timeframe: timeframe,
			Timestamp: time.Unix(bar.Time, 0).UTC(),
			Open:      bar.Open,
			High:      bar.High,
			Low:       bar.Low,
			Close:     bar.Close,
			Volume:    bar.VolumeFrom,
		})
	}
	return candles, nil
}

func (s *Service) authHeaders() map[string]string {
	if s.apiKey == "" {
		return nil
	}
	return map[string]string{"Authorization": "Apikey " + s.apiKey}
}

func (s *Service) observe(start time.Time, err error) {
	if s.recorder != nil {
		s.recorder.ObserveFeedRequest("pricefeed", time.Since(start), err)
	}
}

var _ repository.MarketSource = (*Service)(nil)
