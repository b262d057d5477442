package sweep

import (
	"context"
	"log/slog"
	"time"

	"github.com/mingle-social/mingle/internal/metrics"
	"github.com/mingle-social/mingle/internal/repository"
)

const batchSize = 500

// Sweeper deletes account tokens that expired without ever being consumed.
// Consumed tokens are kept for auditability; expired unconsumed ones are
// only garbage.
type Sweeper struct {
	tokens    repository.TokenRepository
	interval  time.Duration
	retention time.Duration
	logger    *slog.Logger
}

func NewSweeper(tokens repository.TokenRepository, interval, retention time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		tokens:    tokens,
		interval:  interval,
		retention: retention,
		logger:    logger,
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("token sweeper started", "interval", s.interval.String(), "retention", s.retention.String())

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("token sweeper: shut down")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	start := time.Now()
	cutoff := time.Now().Add(-s.retention)

	var total int64
	for {
		deleted, err := s.tokens.DeleteExpiredUnused(ctx, cutoff, batchSize)
		if err != nil {
			s.logger.Error("token sweeper: delete expired", "error", err)
			break
		}
		total += deleted
		if deleted < batchSize {
			break
		}
	}

	metrics.SweepCycleDuration.Observe(time.Since(start).Seconds())
	if total > 0 {
		metrics.SweptTokensTotal.Add(float64(total))
		s.logger.Info("token sweeper: removed expired tokens", "count", total)
	}
}
