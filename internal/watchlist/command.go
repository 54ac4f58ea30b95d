package watchlist

import (
	"CoinDeck/internal/bus"
	"CoinDeck/internal/domain/models"
	"CoinDeck/pkg/logger"
)

// Command is one optimistic watchlist mutation. Apply transitions the
// symbol into its pending state so the dashboard renders the outcome
// immediately; Confirm settles it and broadcasts the change; Rollback
// restores the previous state after a backend rejection.
type Command struct {
	m      *Manager
	symbol string
	action string
	prev   State
}

func (m *Manager) newCommand(symbol, action string) *Command {
	return &Command{m: m, symbol: symbol, action: action}
}

// Apply records the optimistic transition.
func (c *Command) Apply() {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()

	c.prev = c.m.states[c.symbol]
	if c.action == models.WatchlistActionAdd {
		c.m.states[c.symbol] = StatePendingAdd
		// adding cancels any lingering removal exclusion
		delete(c.m.excluded, c.symbol)
	} else {
		c.m.states[c.symbol] = StatePendingRemove
	}
}

// Confirm settles the transition. Subscribers are notified, and a
// removal enters the exclusion window, only when the backend reported
// an actual change; a no-op mutation settles silently.
func (c *Command) Confirm(changed bool) {
	c.m.mu.Lock()
	if c.action == models.WatchlistActionAdd {
		c.m.states[c.symbol] = StatePresent
	} else {
		delete(c.m.states, c.symbol)
		if changed {
			c.m.excluded[c.symbol] = c.m.now().Add(c.m.holdoff)
		}
	}
	c.m.mu.Unlock()

	if changed && c.m.bus != nil {
		c.m.bus.Publish(bus.TopicWatchlistUpdated, models.WatchlistEvent{
			Symbol: c.symbol,
			Action: c.action,
		})
	}
}

// Rollback restores the pre-Apply state.
func (c *Command) Rollback(err error) {
	c.m.mu.Lock()
	if c.prev == StateAbsent {
		delete(c.m.states, c.symbol)
	} else {
		c.m.states[c.symbol] = c.prev
	}
	c.m.mu.Unlock()

	if c.m.log != nil {
		c.m.log.Warn("watchlist: mutation rejected, rolled back",
			logger.String("symbol", c.symbol),
			logger.String("action", c.action),
			logger.Error(err))
	}
}
