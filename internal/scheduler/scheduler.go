package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/weather-bot/internal/store"
	"github.com/i474232898/weather-bot/internal/weather"
)

// Looker performs a single provider lookup. *weather.Service implements it.
type Looker interface {
	Lookup(ctx context.Context, location string) (weather.Report, error)
}

// Recorder keeps probe results. *store.MemoryStore implements it.
type Recorder interface {
	Save(p store.Probe)
}

// Scheduler periodically checks that the weather provider answers.
type Scheduler struct {
	scheduler *gocron.Scheduler
	looker    Looker
	recorder  Recorder
	provider  string
	query     string
	interval  time.Duration
	logger    *zap.SugaredLogger
}

// New creates a new Scheduler. provider is only used to label probes.
func New(looker Looker, recorder Recorder, provider, query string, interval time.Duration, logger *zap.SugaredLogger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		looker:    looker,
		recorder:  recorder,
		provider:  provider,
		query:     query,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the probe job and starts the underlying scheduler.
// A non-positive interval disables probing.
func (s *Scheduler) Start() error {
	if s.interval <= 0 || s.query == "" {
		s.logger.Info("scheduler: provider probing disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Infow("scheduler: provider probing started", "interval", s.interval, "query", s.query)
	return nil
}

// RunOnce probes the provider and records the outcome.
func (s *Scheduler) RunOnce(ctx context.Context) store.Probe {
	started := time.Now()
	_, err := s.looker.Lookup(ctx, s.query)

	probe := store.Probe{
		Provider:  s.provider,
		Query:     s.query,
		Timestamp: started.UTC(),
		OK:        err == nil,
		Latency:   time.Since(started),
	}
	if err != nil {
		probe.Error = err.Error()
		s.logger.Warnw("scheduler: provider probe failed", "provider", s.provider, "error", err)
	}

	s.recorder.Save(probe)
	return probe
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
