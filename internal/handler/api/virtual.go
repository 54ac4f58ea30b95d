package api

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"CoinDeck/internal/domain/models"
	"CoinDeck/internal/service/pricefeed"
	"CoinDeck/internal/usecase"
	xhttp "CoinDeck/pkg/http"
	"CoinDeck/pkg/util"
)

func (h *Handler) VirtualBalance(c echo.Context) error {
	return xhttp.RawResponse(c, h.account.Balances())
}

func (h *Handler) VirtualPortfolio(c echo.Context) error {
	return xhttp.RawResponse(c, h.account.Portfolio(h.holdingPrices(c)))
}

func (h *Handler) Performance(c echo.Context) error {
	return xhttp.RawResponse(c, h.account.Performance(h.holdingPrices(c)))
}

func (h *Handler) VirtualOrders(c echo.Context) error {
	limit := xhttp.ParseIntDefault(c.QueryParam("limit"), 50)
	return xhttp.RawResponse(c, h.account.Orders(limit))
}

func (h *Handler) VirtualTrades(c echo.Context) error {
	limit := xhttp.ParseIntDefault(c.QueryParam("limit"), 50)
	return xhttp.RawResponse(c, h.account.Trades(limit))
}

// Transactions is the dashboard alias for the trade history.
func (h *Handler) Transactions(c echo.Context) error {
	return h.VirtualTrades(c)
}

func (h *Handler) VirtualTrade(c echo.Context) error {
	req := &models.TradeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	order, err := h.account.PlaceOrder(c.Request().Context(), *req)
	if err != nil {
		if errors.Is(err, usecase.ErrInsufficientFunds) {
			return xhttp.RawResponse(c, xhttp.ActionResult{Success: false, Message: "insufficient funds"})
		}
		h.warn("virtual order rejected", err)
		return xhttp.RawResponse(c, xhttp.ActionResult{Success: false, Message: err.Error()})
	}
	return xhttp.RawResponse(c, xhttp.ActionResult{
		Success: true,
		Message: fmt.Sprintf("%s %s order filled", order.Side, order.Symbol),
		Results: order,
	})
}

func (h *Handler) VirtualReset(c echo.Context) error {
	h.account.Reset(c.Request().Context())
	return xhttp.RawResponse(c, xhttp.ActionResult{Success: true, Message: "account reset"})
}

// holdingPrices fetches current prices for held assets. A dead feed
// degrades to the sample list so valuation never errors out.
func (h *Handler) holdingPrices(c echo.Context) map[string]float64 {
	held := h.account.HeldAssets()
	if len(held) == 0 {
		return nil
	}

	symbols := make([]string, len(held))
	for i, asset := range held {
		symbols[i] = util.NormalizeSymbol(asset, "USDT")
	}

	quotes, err := h.market.Quotes(c.Request().Context(), symbols)
	if err != nil || len(quotes) == 0 {
		h.warn("price fetch for valuation failed, using sample prices", err)
		quotes = pricefeed.SampleOverviewFor(symbols)
	}

	prices := make(map[string]float64, len(quotes))
	for _, q := range quotes {
		prices[util.BaseAsset(q.Symbol)] = q.Price
	}
	return prices
}
