package workers

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"infinite-experiment/flightdeck/internal/services"
)

type WorkersContainer struct {
	RouteCache *RouteCacheWorker
}

// InitWorkers starts the cache workers on g. Routes are refilled at half their
// TTL so entries are replaced before they expire.
func InitWorkers(ctx context.Context, g *errgroup.Group, routes *services.RouteService, routeTTL time.Duration) *WorkersContainer {
	interval := routeTTL / 2
	if interval <= 0 {
		interval = time.Minute
	}

	routeCache := NewRouteCacheWorker(routes, interval)
	g.Go(func() error {
		routeCache.Start(ctx)
		return nil
	})

	return &WorkersContainer{RouteCache: routeCache}
}
