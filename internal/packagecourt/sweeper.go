package packagecourt

import (
	"context"
	"time"

	"github.com/linhlinh38/Bookminton/internal/logger"
)

type Expirer interface {
	ExpirePurchases(ctx context.Context) (int64, error)
}

// Sweeper expires finished purchases on a fixed interval.
type Sweeper struct {
	expirer  Expirer
	interval time.Duration
}

func NewSweeper(expirer Expirer, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{expirer: expirer, interval: interval}
}

// Start sweeps once right away, then on every tick until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	logger.Info("purchase sweeper started", "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.sweep(ctx)

		select {
		case <-ctx.Done():
			logger.Info("purchase sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if _, err := s.expirer.ExpirePurchases(ctx); err != nil && ctx.Err() == nil {
		logger.Error("purchase sweep failed", "error", err.Error())
	}
}
