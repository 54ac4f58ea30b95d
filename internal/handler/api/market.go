package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"CoinDeck/internal/domain/models"
	"CoinDeck/internal/domain/repository"
	"CoinDeck/internal/service/pricefeed"
	"CoinDeck/internal/usecase"
	xhttp "CoinDeck/pkg/http"
	"CoinDeck/pkg/render"
	"CoinDeck/pkg/util"
)

// OverviewEntry is a quote plus the display strings the dashboard
// renders directly.
type OverviewEntry struct {
	models.PriceQuote
	PriceDisplay  string `json:"price_display"`
	ChangeDisplay string `json:"change_display"`
}

func (h *Handler) MarketOverview(c echo.Context) error {
	ctx := c.Request().Context()

	symbols := querySymbols(c, "symbols")
	explicit := len(symbols) > 0
	if !explicit {
		symbols = h.manager.Symbols(ctx)

		if h.overview != nil {
			if snap, ok := h.overview.Snapshot().([]models.PriceQuote); ok && len(snap) > 0 {
				return xhttp.RawResponse(c, presentQuotes(h.filterExcluded(snap)))
			}
		}
	}

	quotes, err := h.market.Quotes(ctx, symbols)
	if err != nil || len(quotes) == 0 {
		h.warn("market overview fetch failed, serving sample data", err)
		quotes = pricefeed.SampleOverviewFor(symbols)
	}
	if !explicit {
		quotes = h.filterExcluded(quotes)
	}
	return xhttp.RawResponse(c, presentQuotes(quotes))
}

// filterExcluded drops quotes for symbols inside the removal holdoff
// window so a just-removed coin does not flash back on the next poll.
func (h *Handler) filterExcluded(quotes []models.PriceQuote) []models.PriceQuote {
	out := quotes[:0:0]
	for _, q := range quotes {
		if h.manager != nil && h.manager.Excluded(q.Symbol) {
			continue
		}
		out = append(out, q)
	}
	return out
}

func presentQuotes(quotes []models.PriceQuote) []OverviewEntry {
	out := make([]OverviewEntry, len(quotes))
	for i, q := range quotes {
		out[i] = OverviewEntry{
			PriceQuote:    q,
			PriceDisplay:  render.FormatPrice(q.Price),
			ChangeDisplay: render.FormatPercent(q.Change24h),
		}
	}
	return out
}

func (h *Handler) MarketData(c echo.Context) error {
	ctx := c.Request().Context()

	symbol := util.NormalizeSymbol(c.QueryParam("symbol"), "USDT")
	if symbol == "" {
		return xhttp.BadRequestResponse(c, "symbol required")
	}
	tf := repository.NormalizeTimeframe(c.QueryParam("timeframe"))
	limit := xhttp.ParseIntDefault(c.QueryParam("limit"), repository.LookbackBars(tf))

	candles, err := h.warehouse.Candles(ctx, symbol, tf, limit)
	if err != nil {
		h.warn("candle read failed", err)
	}
	if len(candles) == 0 {
		if fetched, ferr := h.market.History(ctx, symbol, tf, limit); ferr == nil {
			candles = fetched
		} else {
			h.warn("history fallback failed", ferr)
		}
	}
	if candles == nil {
		candles = []models.Candle{}
	}
	return xhttp.RawResponse(c, candles)
}

func (h *Handler) TradingSignals(c echo.Context) error {
	limit := xhttp.ParseIntDefault(c.QueryParam("limit"), 20)

	signals, err := h.warehouse.Signals(c.Request().Context(), limit)
	if err != nil {
		h.warn("signal read failed", err)
	}
	if signals == nil {
		signals = []models.TradingSignal{}
	}
	return xhttp.RawResponse(c, signals)
}

func (h *Handler) TechnicalFeatures(c echo.Context) error {
	ctx := c.Request().Context()

	symbol := util.NormalizeSymbol(c.QueryParam("symbol"), "USDT")
	if symbol == "" {
		return xhttp.BadRequestResponse(c, "symbol required")
	}
	tf := repository.NormalizeTimeframe(c.QueryParam("timeframe"))
	limit := xhttp.ParseIntDefault(c.QueryParam("limit"), 50)

	features, err := h.warehouse.Features(ctx, symbol, tf, limit)
	if err != nil {
		h.warn("feature read failed", err)
	}
	if features == nil {
		features = []models.FeatureSnapshot{}
	}
	return xhttp.RawResponse(c, features)
}

func (h *Handler) AvailableCoins(c echo.Context) error {
	return xhttp.RawResponse(c, usecase.AvailableCoins())
}

func (h *Handler) CollectedCoins(c echo.Context) error {
	symbols, err := h.warehouse.CollectedSymbols(c.Request().Context())
	if err != nil || len(symbols) == 0 {
		if err != nil {
			h.warn("collected symbols read failed", err)
		}
		symbols = usecase.DefaultSymbols()
	}
	return xhttp.RawResponse(c, symbols)
}

func (h *Handler) Sparkline(c echo.Context) error {
	ctx := c.Request().Context()

	symbol := util.NormalizeSymbol(c.QueryParam("symbol"), "USDT")
	if symbol == "" {
		return xhttp.BadRequestResponse(c, "symbol required")
	}
	width := xhttp.ParseIntDefault(c.QueryParam("w"), 120)
	height := xhttp.ParseIntDefault(c.QueryParam("h"), 40)
	limit := xhttp.ParseIntDefault(c.QueryParam("limit"), 30)

	var values []float64
	if candles, err := h.warehouse.Candles(ctx, symbol, "1d", limit); err == nil {
		for _, candle := range candles {
			values = append(values, candle.Close)
		}
	} else {
		h.warn("sparkline candle read failed", err)
	}

	if c.QueryParam("format") == "png" {
		png, err := render.SparklinePNG(values, render.WithSize(width, height))
		if err != nil {
			h.warn("sparkline raster failed", err)
			return xhttp.InternalServerErrorResponse(c)
		}
		return c.Blob(http.StatusOK, "image/png", png)
	}

	svg := render.SparklineSVG(values, render.WithSize(width, height))
	return c.Blob(http.StatusOK, "image/svg+xml", []byte(svg))
}
