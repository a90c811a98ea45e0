package services

import (
	"context"
	"time"

	"infinite-experiment/flightdeck/internal/apperrors"
	"infinite-experiment/flightdeck/internal/common"
	"infinite-experiment/flightdeck/internal/constants"
	"infinite-experiment/flightdeck/internal/db"
	"infinite-experiment/flightdeck/internal/db/repositories"
	"infinite-experiment/flightdeck/internal/logging"
	"infinite-experiment/flightdeck/internal/metrics"
	"infinite-experiment/flightdeck/internal/models/dtos"
	gormModels "infinite-experiment/flightdeck/internal/models/gorm"

	"gorm.io/gorm"
)

// FlightInstanceService owns the lifecycle of dated flight instances.
// Arrival is always derived from the undelayed baseline: every status change
// first strips the current delay, then applies the new one.
type FlightInstanceService struct {
	tx        *db.Transactor
	instances *repositories.FlightInstanceRepository
	routes    *RouteService
	gates     *GateAllocationService
	metrics   *metrics.MetricsRegistry
}

func NewFlightInstanceService(tx *db.Transactor, routes *RouteService, gates *GateAllocationService, m *metrics.MetricsRegistry) *FlightInstanceService {
	return &FlightInstanceService{
		tx:        tx,
		instances: repositories.NewFlightInstanceRepository(tx.DB(context.Background())),
		routes:    routes,
		gates:     gates,
		metrics:   m,
	}
}

// Create stores a new instance and tries to give it a gate.
//
// When the instance was stored but gate allocation failed, both the response
// and the allocation error are returned. A nil response means nothing was written.
func (s *FlightInstanceService) Create(ctx context.Context, req dtos.CreateInstanceRequest) (*dtos.CreateInstanceResponse, error) {
	status, delay, err := validateCreateInstance(req)
	if err != nil {
		return nil, err
	}

	// Route existence and origin come from the cached template
	if _, err := s.routes.Get(ctx, req.RouteID); err != nil {
		return nil, err
	}

	departure := common.NormalizeTime(*req.DepartureDatetime)
	baseline := common.NormalizeTime(*req.ArrivalDatetime)

	instance := &gormModels.FlightInstance{
		RouteID:           req.RouteID,
		DepartureDatetime: departure,
		ArrivalDatetime:   baseline.Add(time.Duration(delay) * time.Minute),
		Price:             *req.Price,
		MaxSellableSeat:   req.MaxSellableSeat,
		Status:            status,
		DelayedMinutes:    delay,
	}
	if err := s.instances.Create(ctx, instance); err != nil {
		return nil, apperrors.FromStore(err, "", "")
	}
	s.metrics.InstanceCreated()
	logging.Info("Flight instance created", "instance_id", instance.ID, "route_id", instance.RouteID,
		"departure", instance.DepartureDatetime, "status", instance.Status)

	var (
		assignment *gormModels.GateAssignment
		gateErr    error
	)
	if status != constants.FlightCancelled {
		assignment, gateErr = s.gates.AutoAssign(ctx, instance.ID)
	}

	stored, err := s.instances.FindByID(ctx, instance.ID)
	if err != nil || stored == nil {
		return nil, apperrors.Server(err, constants.MsgServerError)
	}

	resp := &dtos.CreateInstanceResponse{
		Instance: instanceView(stored),
		Gate:     assignmentView(assignment),
	}
	if appErr, ok := apperrors.As(gateErr); ok {
		resp.Conflict = appErr.Detail
	}
	return resp, gateErr
}

// UpdateStatus applies a status transition. Cancelled is terminal: cancelling
// again is a no-op and any other transition out of it is rejected.
func (s *FlightInstanceService) UpdateStatus(ctx context.Context, instanceID int64, req dtos.UpdateInstanceStatusRequest) (*dtos.InstanceResponse, error) {
	status, delay, err := validateStatusChange(req.Status, req.DelayedMinutes)
	if err != nil {
		return nil, err
	}

	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.instances.WithTx(tx)

		instance, err := repo.Lock(ctx, instanceID, "UPDATE")
		if err != nil {
			return err
		}
		if instance == nil {
			return apperrors.NotFound("flight instance", instanceID)
		}

		if instance.Status == constants.FlightCancelled {
			if status == constants.FlightCancelled {
				return nil
			}
			return apperrors.Conflict(constants.ErrCodeInstanceCancelled, constants.MsgInstanceCancelled,
				&apperrors.ConflictDetail{ConflictingInstanceID: common.Ptr(instance.ID)})
		}

		arrival := instance.BaselineArrival().Add(time.Duration(delay) * time.Minute)
		return repo.UpdateStatus(ctx, instance.ID, status, delay, arrival)
	})
	if err != nil {
		err = apperrors.FromStore(err, "", "")
		if appErr, ok := apperrors.As(err); ok && appErr.Kind == apperrors.KindConflict {
			s.metrics.Conflict(appErr.Code)
		}
		return nil, err
	}

	logging.Info("Flight instance status updated", "instance_id", instanceID, "status", status, "delayed_minutes", delay)
	return s.Get(ctx, instanceID)
}

func (s *FlightInstanceService) Get(ctx context.Context, instanceID int64) (*dtos.InstanceResponse, error) {
	instance, err := s.instances.FindByID(ctx, instanceID)
	if err != nil {
		return nil, apperrors.Server(err, constants.MsgServerError)
	}
	if instance == nil {
		return nil, apperrors.NotFound("flight instance", instanceID)
	}

	view := instanceView(instance)
	return &view, nil
}

// Search lists instances by origin, destination and UTC departure day.
// date is YYYY-MM-DD or empty.
func (s *FlightInstanceService) Search(ctx context.Context, originID, destinationID int64, date, status string) ([]dtos.InstanceResponse, error) {
	filter := dtos.InstanceSearch{
		OriginAirportID:      originID,
		DestinationAirportID: destinationID,
		Status:               status,
	}
	if date != "" {
		day, err := time.Parse(constants.DateLayout, date)
		if err != nil {
			return nil, apperrors.Validation("departure_date must be YYYY-MM-DD")
		}
		filter.DepartureDate = &day
	}
	if status != "" && !constants.FlightStatus(status).Valid() {
		return nil, apperrors.Validation("unknown status %q", status)
	}

	instances, err := s.instances.Search(ctx, filter)
	if err != nil {
		return nil, apperrors.Server(err, constants.MsgServerError)
	}

	views := make([]dtos.InstanceResponse, 0, len(instances))
	for i := range instances {
		views = append(views, instanceView(&instances[i]))
	}
	return views, nil
}

// List returns every instance ordered by departure.
func (s *FlightInstanceService) List(ctx context.Context) ([]dtos.InstanceResponse, error) {
	return s.Search(ctx, 0, 0, "", "")
}

func validateCreateInstance(req dtos.CreateInstanceRequest) (constants.FlightStatus, int, error) {
	switch {
	case req.RouteID <= 0:
		return "", 0, apperrors.Validation("route_id is required")
	case req.DepartureDatetime == nil || req.DepartureDatetime.IsZero():
		return "", 0, apperrors.Validation("departure_datetime is required")
	case req.ArrivalDatetime == nil || req.ArrivalDatetime.IsZero():
		return "", 0, apperrors.Validation("arrival_datetime is required")
	case req.Price == nil:
		return "", 0, apperrors.Validation("price is required")
	case *req.Price < 0:
		return "", 0, apperrors.Validation("price must not be negative")
	case !req.ArrivalDatetime.After(*req.DepartureDatetime):
		return "", 0, apperrors.Validation("arrival_datetime must be after departure_datetime")
	case req.MaxSellableSeat != nil && *req.MaxSellableSeat < 0:
		return "", 0, apperrors.Validation("max_sellable_seat must not be negative")
	}

	rawStatus := req.Status
	if rawStatus == "" {
		rawStatus = string(constants.FlightOnTime)
	}
	return validateStatusChange(rawStatus, req.DelayedMinutes)
}

// validateStatusChange enforces that delayed carries a positive delay and every
// other status carries none.
func validateStatusChange(rawStatus string, delayedMinutes *int) (constants.FlightStatus, int, error) {
	status := constants.FlightStatus(rawStatus)
	if !status.Valid() {
		return "", 0, apperrors.Validation("status must be one of on-time, delayed, cancelled")
	}

	if status == constants.FlightDelayed {
		if delayedMinutes == nil || *delayedMinutes <= 0 {
			return "", 0, apperrors.Validation("delayed_minutes must be a positive integer when status is delayed")
		}
		return status, *delayedMinutes, nil
	}

	if delayedMinutes != nil && *delayedMinutes != 0 {
		return "", 0, apperrors.Validation("delayed_minutes must be 0 unless status is delayed")
	}
	return status, 0, nil
}
