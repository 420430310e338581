package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// minRefreshInterval bounds how often refresh ticks may fire to keep load on
// the forecasting backend predictable.
const minRefreshInterval = 30 * time.Second

// RefreshFunc is one refresh pass. Errors are logged, never fatal.
type RefreshFunc func(ctx context.Context) error

// RefreshScheduler drives periodic forecast regeneration. Intervals below the
// 30-second floor are raised to it.
type RefreshScheduler struct {
	interval time.Duration
	refresh  RefreshFunc
	logger   *logrus.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func NewRefreshScheduler(interval time.Duration, refresh RefreshFunc, logger *logrus.Logger) *RefreshScheduler {
	if interval < minRefreshInterval {
		interval = minRefreshInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &RefreshScheduler{
		interval: interval,
		refresh:  refresh,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Interval returns the effective tick interval after flooring.
func (s *RefreshScheduler) Interval() time.Duration {
	return s.interval
}

// Start begins ticking until Stop is called.
func (s *RefreshScheduler) Start() {
	s.logger.WithField("interval", s.interval.String()).Info("Starting forecast refresh scheduler")

	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				if err := s.refresh(s.ctx); err != nil {
					s.logger.WithError(err).Warn("Forecast refresh failed")
				}
			}
		}
	}()
}

// Stop cancels the scheduler. Safe to call more than once.
func (s *RefreshScheduler) Stop() {
	s.logger.Info("Stopping forecast refresh scheduler")
	s.cancel()
}
