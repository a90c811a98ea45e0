package workers

import (
	"context"
	"time"

	"infinite-experiment/flightdeck/internal/logging"
	"infinite-experiment/flightdeck/internal/services"
)

// RouteWarmer is the part of the route service the cache worker drives.
type RouteWarmer interface {
	Warm(ctx context.Context) (int, error)
}

// RouteCacheWorker keeps route lookups served from cache by reloading them
// before their TTL runs out.
type RouteCacheWorker struct {
	routes   RouteWarmer
	interval time.Duration
}

func NewRouteCacheWorker(routes RouteWarmer, interval time.Duration) *RouteCacheWorker {
	return &RouteCacheWorker{routes: routes, interval: interval}
}

// Start fills the cache immediately and then on every tick until ctx is done.
func (w *RouteCacheWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.refill(ctx)

	for {
		select {
		case <-ticker.C:
			w.refill(ctx)
		case <-ctx.Done():
			logging.Info("Route cache worker stopped")
			return
		}
	}
}

func (w *RouteCacheWorker) refill(ctx context.Context) {
	n, err := w.routes.Warm(ctx)
	if err != nil {
		logging.Warn("Route cache refill failed", "error", err)
		return
	}
	logging.Debug("Route cache refilled", "routes", n)
}

var _ RouteWarmer = (*services.RouteService)(nil)
