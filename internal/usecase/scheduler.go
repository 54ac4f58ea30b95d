package usecase

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"CoinDeck/internal/domain/models"
	"CoinDeck/pkg/logger"
)

// Scheduler runs collection cycles on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	collector *Collector
	log       *logger.Logger

	schedule    string
	symbols     []string
	timeframe   string
	collectNews bool
	genSignals  bool
}

// NewScheduler creates the cron-driven collector. An empty symbol list
// falls back to the full available-coin universe.
func NewScheduler(collector *Collector, schedule string, symbols []string, timeframe string, collectNews, genSignals bool, log *logger.Logger) *Scheduler {
	if len(symbols) == 0 {
		symbols = DefaultSymbols()
	}
	return &Scheduler{
		cron:        cron.New(),
		collector:   collector,
		log:         log,
		schedule:    schedule,
		symbols:     symbols,
		timeframe:   timeframe,
		collectNews: collectNews,
		genSignals:  genSignals,
	}
}

// Start registers the job and begins the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.run)
	if err != nil {
		return err
	}
	s.cron.Start()
	if s.log != nil {
		s.log.Info("scheduler started",
			logger.String("schedule", s.schedule),
			logger.Int("symbols", len(s.symbols)))
	}
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(30 * time.Second):
		if s.log != nil {
			s.log.Warn("scheduler stop timed out")
		}
	}
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	req := models.CollectionRequest{
		Symbols:         s.symbols,
		Timeframe:       s.timeframe,
		CollectNews:     &s.collectNews,
		GenerateSignals: &s.genSignals,
	}
	if _, err := s.collector.Collect(ctx, req); err != nil && s.log != nil {
		s.log.Error("scheduled collection failed", logger.Error(err))
	}
}
