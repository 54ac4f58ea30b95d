package api

import (
	"github.com/labstack/echo/v4"

	"CoinDeck/internal/domain/models"
	xhttp "CoinDeck/pkg/http"
)

func (h *Handler) News(c echo.Context) error {
	hours := xhttp.ParseIntDefault(c.QueryParam("hours"), 24)

	// Default window is served from the poller snapshot when present.
	if hours == 24 && h.newsView != nil {
		if snap, ok := h.newsView.Snapshot().([]models.NewsItem); ok && len(snap) > 0 {
			return xhttp.RawResponse(c, snap)
		}
	}

	items, err := h.news.Latest(c.Request().Context(), hours)
	if err != nil {
		h.warn("news fetch failed, serving empty feed", err)
	}
	if items == nil {
		items = []models.NewsItem{}
	}
	return xhttp.RawResponse(c, items)
}
