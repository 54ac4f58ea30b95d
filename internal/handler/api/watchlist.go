package api

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"CoinDeck/internal/domain/models"
	xhttp "CoinDeck/pkg/http"
	"CoinDeck/pkg/util"
)

func (h *Handler) WatchlistSymbols(c echo.Context) error {
	symbols := h.manager.Symbols(c.Request().Context())
	if symbols == nil {
		symbols = []string{}
	}
	return xhttp.RawResponse(c, symbols)
}

func (h *Handler) WatchlistAdd(c echo.Context) error {
	req := &models.WatchlistRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbol := util.NormalizeSymbol(req.Symbol, "USDT")

	changed, err := h.manager.Add(c.Request().Context(), symbol)
	if err != nil {
		h.warn("watchlist add failed", err)
		return xhttp.RawResponse(c, xhttp.ActionResult{Success: false, Message: "could not update watchlist"})
	}
	if !changed {
		return xhttp.RawResponse(c, xhttp.ActionResult{Success: true, Message: fmt.Sprintf("%s already on watchlist", symbol)})
	}
	return xhttp.RawResponse(c, xhttp.ActionResult{Success: true, Message: fmt.Sprintf("%s added to watchlist", symbol)})
}

func (h *Handler) WatchlistRemove(c echo.Context) error {
	req := &models.WatchlistRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbol := util.NormalizeSymbol(req.Symbol, "USDT")

	changed, err := h.manager.Remove(c.Request().Context(), symbol)
	if err != nil {
		h.warn("watchlist remove failed", err)
		return xhttp.RawResponse(c, xhttp.ActionResult{Success: false, Message: "could not update watchlist"})
	}
	if !changed {
		return xhttp.RawResponse(c, xhttp.ActionResult{Success: true, Message: fmt.Sprintf("%s not on watchlist", symbol)})
	}
	return xhttp.RawResponse(c, xhttp.ActionResult{Success: true, Message: fmt.Sprintf("%s removed from watchlist", symbol)})
}
