package api

import (
	"strings"

	"github.com/labstack/echo/v4"

	"CoinDeck/internal/bus"
	"CoinDeck/internal/domain/repository"
	"CoinDeck/internal/store"
	"CoinDeck/internal/usecase"
	"CoinDeck/internal/view"
	"CoinDeck/internal/watchlist"
	xhttp "CoinDeck/pkg/http"
	xlogger "CoinDeck/pkg/logger"
	"CoinDeck/pkg/util"
)

// Handler serves the dashboard REST surface. Upstream failures degrade
// to fallback data; handlers never answer 5xx for a dead feed.
type Handler struct {
	logger    *xlogger.Logger
	market    repository.MarketSource
	news      repository.NewsSource
	warehouse repository.Warehouse
	collector *usecase.Collector
	account   *usecase.VirtualAccount
	manager   *watchlist.Manager
	store     *store.StateStore
	hub       *bus.Hub

	overview *view.Poller
	newsView *view.Poller
}

type Option func(*Handler)

// WithOverviewPoller serves market-overview from the poller snapshot
// when no explicit symbol list is requested.
func WithOverviewPoller(p *view.Poller) Option {
	return func(h *Handler) { h.overview = p }
}

// WithNewsPoller serves news from the poller snapshot for the default window.
func WithNewsPoller(p *view.Poller) Option {
	return func(h *Handler) { h.newsView = p }
}

// WithHub enables the websocket event stream endpoint.
func WithHub(hub *bus.Hub) Option {
	return func(h *Handler) { h.hub = hub }
}

func NewHandler(
	logger *xlogger.Logger,
	market repository.MarketSource,
	news repository.NewsSource,
	warehouse repository.Warehouse,
	collector *usecase.Collector,
	account *usecase.VirtualAccount,
	manager *watchlist.Manager,
	st *store.StateStore,
	opts ...Option,
) *Handler {
	h := &Handler{
		logger:    logger,
		market:    market,
		news:      news,
		warehouse: warehouse,
		collector: collector,
		account:   account,
		manager:   manager,
		store:     st,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	g := e.Group("/api")
	g.GET("/market-overview", h.MarketOverview)
	g.GET("/market-data", h.MarketData)
	g.GET("/trading-signals", h.TradingSignals)
	g.GET("/technical-features", h.TechnicalFeatures)
	g.GET("/news", h.News)
	g.GET("/available-coins", h.AvailableCoins)
	g.GET("/symbols", h.AvailableCoins)
	g.GET("/collected-coins", h.CollectedCoins)
	g.GET("/sparkline", h.Sparkline)

	g.GET("/watchlist/symbols", h.WatchlistSymbols)
	g.POST("/watchlist/add", h.WatchlistAdd)
	g.POST("/watchlist/remove", h.WatchlistRemove)

	g.POST("/collect-data", h.CollectData)
	g.POST("/collect-all-data", h.CollectAllData)
	g.POST("/update-trading-signals", h.UpdateTradingSignals)
	g.GET("/collection-history", h.CollectionHistory)

	g.GET("/performance", h.Performance)
	g.GET("/transactions", h.Transactions)
	g.GET("/virtual/balance", h.VirtualBalance)
	g.GET("/virtual/portfolio", h.VirtualPortfolio)
	g.GET("/virtual/orders", h.VirtualOrders)
	g.GET("/virtual/trades", h.VirtualTrades)
	g.POST("/virtual/trade", h.VirtualTrade)
	g.POST("/virtual/reset", h.VirtualReset)

	if h.hub != nil {
		e.GET("/ws", h.Stream)
	}
}

func (h *Handler) Health(c echo.Context) error {
	return xhttp.RawResponse(c, map[string]string{"status": "ok"})
}

func (h *Handler) Stream(c echo.Context) error {
	return h.hub.ServeHTTP(c.Response(), c.Request())
}

// querySymbols parses a comma-separated symbol list, normalized to
// BASE/USDT pairs. Empty entries are dropped.
func querySymbols(c echo.Context, name string) []string {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if symbol := util.NormalizeSymbol(strings.TrimSpace(part), "USDT"); symbol != "" {
			out = append(out, symbol)
		}
	}
	return out
}

func (h *Handler) warn(msg string, err error) {
	if h.logger != nil {
		h.logger.Warn("api: "+msg, xlogger.Error(err))
	}
}
