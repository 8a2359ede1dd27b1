// Package scheduler runs the background jobs that keep the coupon pool
// healthy.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// specExpirySweep disables stale coupons at the top of every hour.
const specExpirySweep = "0 * * * *"

// ExpiryTask is the sweep the scheduler drives.
type ExpiryTask interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// New builds the cron with all jobs registered. The caller starts and
// stops it.
func New(expiry ExpiryTask, logger *zap.Logger) *cron.Cron {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := cron.New(cron.WithLocation(time.UTC))

	if expiry != nil {
		addFunc(c, specExpirySweep, "coupon.expiry_sweep", logger, func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			if _, err := expiry.SweepExpired(ctx); err != nil {
				logger.Error("expiry sweep failed", zap.Error(err))
			}
		})
	}

	return c
}

func addFunc(c *cron.Cron, spec, name string, logger *zap.Logger, fn func()) {
	if _, err := c.AddFunc(spec, fn); err != nil {
		logger.Error("failed to register job",
			zap.String("job", name), zap.String("spec", spec), zap.Error(err))
		return
	}
	logger.Info("job registered", zap.String("job", name), zap.String("spec", spec))
}
