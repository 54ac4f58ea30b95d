package api

import (
	"github.com/labstack/echo/v4"

	"CoinDeck/internal/domain/models"
	"CoinDeck/internal/domain/repository"
	xhttp "CoinDeck/pkg/http"
)

func (h *Handler) CollectData(c echo.Context) error {
	req := &models.CollectionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	result, err := h.collector.Collect(c.Request().Context(), *req)
	if err != nil {
		h.warn("collection cycle failed", err)
		return xhttp.RawResponse(c, xhttp.ActionResult{
			Success: false,
			Message: err.Error(),
			Results: result,
		})
	}
	return xhttp.RawResponse(c, xhttp.ActionResult{
		Success: true,
		Message: "collection complete",
		Results: result,
	})
}

func (h *Handler) CollectAllData(c echo.Context) error {
	tf := repository.NormalizeTimeframe(c.QueryParam("timeframe"))

	result, err := h.collector.CollectAll(c.Request().Context(), tf)
	if err != nil {
		h.warn("full collection cycle failed", err)
		return xhttp.RawResponse(c, xhttp.ActionResult{
			Success: false,
			Message: err.Error(),
			Results: result,
		})
	}
	return xhttp.RawResponse(c, xhttp.ActionResult{
		Success: true,
		Message: "collection complete",
		Results: result,
	})
}

func (h *Handler) UpdateTradingSignals(c echo.Context) error {
	tf := repository.NormalizeTimeframe(c.QueryParam("timeframe"))

	updated, err := h.collector.UpdateSignals(c.Request().Context(), tf)
	if err != nil {
		h.warn("signal update failed", err)
		return xhttp.RawResponse(c, xhttp.ActionResult{
			Success: false,
			Message: err.Error(),
		})
	}
	return xhttp.RawResponse(c, xhttp.ActionResult{
		Success: true,
		Message: "signals updated",
		Results: models.CollectionResult{Signals: updated},
	})
}

func (h *Handler) CollectionHistory(c echo.Context) error {
	history := h.store.CollectionHistory(c.Request().Context())
	if history == nil {
		history = []models.CollectionRecord{}
	}
	return xhttp.RawResponse(c, history)
}
