package models

// Watchlist actions carried on watchlistUpdated events.
const (
	WatchlistActionAdd    = "add"
	WatchlistActionRemove = "remove"
)

// WatchlistRequest mutates the watchlist by one symbol.
type WatchlistRequest struct {
	Symbol string `json:"symbol" validate:"required"`
}

// WatchlistEvent is the payload broadcast after a watchlist mutation.
type WatchlistEvent struct {
	Symbol string `json:"symbol"`
	Action string `json:"action"`
}
