package jobs

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"infinite-experiment/flightdeck/internal/metrics"
)

// InitializeJobs starts all background jobs on g. They stop when ctx is cancelled.
func InitializeJobs(ctx context.Context, g *errgroup.Group, db *gorm.DB, m *metrics.MetricsRegistry, every time.Duration) *GateUtilisationJob {
	utilisation := NewGateUtilisationJob(db, m)

	g.Go(func() error {
		utilisation.RunScheduled(ctx, every)
		return nil
	})

	return utilisation
}
