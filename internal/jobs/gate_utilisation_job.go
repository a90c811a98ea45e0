package jobs

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"infinite-experiment/flightdeck/internal/db/repositories"
	"infinite-experiment/flightdeck/internal/interval"
	"infinite-experiment/flightdeck/internal/logging"
	"infinite-experiment/flightdeck/internal/metrics"
	gormModels "infinite-experiment/flightdeck/internal/models/gorm"
)

const (
	utilisationJobName = "gate_utilisation"
	utilisationHorizon = 24 * time.Hour
)

// AirportUtilisation is the gate load of one airport over the look-ahead horizon.
type AirportUtilisation struct {
	AirportID   int64
	ActiveGates int
	Upcoming    int
	Occupied    time.Duration
}

// Ratio is occupied gate time over available gate time. Zero without active gates.
func (a AirportUtilisation) Ratio() float64 {
	if a.ActiveGates == 0 {
		return 0
	}
	return a.Occupied.Seconds() / (float64(a.ActiveGates) * utilisationHorizon.Seconds())
}

// GateUtilisationJob publishes per-airport gate load gauges. It only reads.
type GateUtilisationJob struct {
	gates   *repositories.GateRepository
	metrics *metrics.MetricsRegistry
	now     func() time.Time
}

func NewGateUtilisationJob(db *gorm.DB, m *metrics.MetricsRegistry) *GateUtilisationJob {
	return &GateUtilisationJob{
		gates:   repositories.NewGateRepository(db),
		metrics: m,
		now:     time.Now,
	}
}

// Compute gathers active gates and the assignments intersecting [now, now+24h).
func (j *GateUtilisationJob) Compute(ctx context.Context) (map[int64]*AirportUtilisation, error) {
	now := j.now().UTC()
	horizon := interval.New(now, now.Add(utilisationHorizon))

	var (
		counts      map[int64]int
		assignments []gormModels.GateAssignment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = j.gates.ActiveGateCounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		assignments, err = j.gates.AssignmentsEndingAfter(gctx, now)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make(map[int64]*AirportUtilisation, len(counts))
	for airportID, n := range counts {
		result[airportID] = &AirportUtilisation{AirportID: airportID, ActiveGates: n}
	}

	for _, a := range assignments {
		occupied := a.Window().OverlapDuration(horizon)
		if occupied == 0 {
			continue
		}
		u, ok := result[a.Gate.AirportID]
		if !ok {
			// Airport whose gates are all closed now but still hold assignments
			u = &AirportUtilisation{AirportID: a.Gate.AirportID}
			result[a.Gate.AirportID] = u
		}
		u.Upcoming++
		u.Occupied += occupied
	}

	return result, nil
}

// Run computes utilisation once and replaces the published gauges.
func (j *GateUtilisationJob) Run(ctx context.Context) error {
	start := time.Now()

	result, err := j.Compute(ctx)
	if err != nil {
		logging.Error("Gate utilisation run failed", "job", utilisationJobName, "error", err)
		return err
	}

	if j.metrics != nil {
		j.metrics.ActiveGates.Reset()
		j.metrics.UpcomingAssignments.Reset()
		j.metrics.UtilisationRatio.Reset()

		for id, u := range result {
			label := strconv.FormatInt(id, 10)
			j.metrics.ActiveGates.WithLabelValues(label).Set(float64(u.ActiveGates))
			j.metrics.UpcomingAssignments.WithLabelValues(label).Set(float64(u.Upcoming))
			j.metrics.UtilisationRatio.WithLabelValues(label).Set(u.Ratio())
		}
		j.metrics.JobDuration.WithLabelValues(utilisationJobName).Observe(time.Since(start).Seconds())
	}

	logging.Debug("Gate utilisation published", "airports", len(result), "duration", time.Since(start).String())
	return nil
}

// RunScheduled runs the job immediately and then on every tick until ctx is done.
// A failed run is logged and retried on the next tick.
func (j *GateUtilisationJob) RunScheduled(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	_ = j.Run(ctx)

	for {
		select {
		case <-ticker.C:
			_ = j.Run(ctx)
		case <-ctx.Done():
			logging.Info("Shutting down scheduled job", "job", utilisationJobName)
			return
		}
	}
}
