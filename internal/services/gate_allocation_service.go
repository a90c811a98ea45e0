package services

import (
	"context"

	"infinite-experiment/flightdeck/internal/apperrors"
	"infinite-experiment/flightdeck/internal/common"
	"infinite-experiment/flightdeck/internal/constants"
	"infinite-experiment/flightdeck/internal/db"
	"infinite-experiment/flightdeck/internal/db/repositories"
	"infinite-experiment/flightdeck/internal/interval"
	"infinite-experiment/flightdeck/internal/logging"
	"infinite-experiment/flightdeck/internal/metrics"
	"infinite-experiment/flightdeck/internal/models/dtos"
	gormModels "infinite-experiment/flightdeck/internal/models/gorm"

	"gorm.io/gorm"
)

const (
	allocationAuto   = "auto"
	allocationManual = "manual"
)

// GateAllocationService assigns origin-airport gates to flight instances so that
// no gate carries two overlapping occupancy windows.
//
// Every write follows the same sequence inside one transaction: lock the
// instance, lock the candidate gate rows in ascending id order, re-read the
// assignments on those gates, test for overlap, upsert. The locks are held
// until commit so the check and the write see the same state.
type GateAllocationService struct {
	tx        *db.Transactor
	instances *repositories.FlightInstanceRepository
	routes    *repositories.RouteRepository
	gates     *repositories.GateRepository
	metrics   *metrics.MetricsRegistry
}

func NewGateAllocationService(tx *db.Transactor, m *metrics.MetricsRegistry) *GateAllocationService {
	conn := tx.DB(context.Background())
	return &GateAllocationService{
		tx:        tx,
		instances: repositories.NewFlightInstanceRepository(conn),
		routes:    repositories.NewRouteRepository(conn),
		gates:     repositories.NewGateRepository(conn),
		metrics:   m,
	}
}

// AutoAssign gives the instance the lowest-id active gate at its origin whose
// assignments do not overlap the instance's window. Nothing is written when no
// gate is free.
func (s *GateAllocationService) AutoAssign(ctx context.Context, instanceID int64) (*gormModels.GateAssignment, error) {
	var assignment *gormModels.GateAssignment

	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		instance, originID, err := s.lockInstance(ctx, tx, instanceID)
		if err != nil {
			return err
		}
		window := interval.GateWindow(instance.DepartureDatetime)

		gates, err := s.gates.WithTx(tx).LockActiveByAirport(ctx, originID)
		if err != nil {
			return apperrors.FromStore(err, "", "")
		}

		gateIDs := make([]int64, 0, len(gates))
		for _, g := range gates {
			gateIDs = append(gateIDs, g.ID)
		}
		existing, err := s.gates.WithTx(tx).ListAssignments(ctx, gateIDs, instance.ID, window.Start)
		if err != nil {
			return apperrors.FromStore(err, "", "")
		}
		byGate := make(map[int64][]gormModels.GateAssignment, len(gates))
		for _, a := range existing {
			byGate[a.GateID] = append(byGate[a.GateID], a)
		}

		for _, gate := range gates {
			if _, busy := interval.FindConflict(window, byGate[gate.ID]); busy {
				continue
			}

			assignment = &gormModels.GateAssignment{
				GateID:      gate.ID,
				InstanceID:  instance.ID,
				OccupyStart: window.Start,
				OccupyEnd:   window.End,
			}
			if err := s.gates.WithTx(tx).UpsertAssignment(ctx, assignment); err != nil {
				return apperrors.FromStore(err, "", "")
			}
			assignment.Gate = gate
			return nil
		}

		departure := instance.DepartureDatetime.UTC()
		return apperrors.Conflict(constants.ErrCodeNoGateAvailable, constants.MsgNoGateAvailable,
			&apperrors.ConflictDetail{Departure: &departure})
	})
	if err != nil {
		err = apperrors.FromStore(err, "", "")
		s.recordFailure(allocationAuto, instanceID, err)
		return nil, err
	}

	s.metrics.GateAllocation(allocationAuto, "assigned")
	logging.Info("Gate assigned", "instance_id", instanceID, "gate_id", assignment.GateID,
		"occupy_start", assignment.OccupyStart, "occupy_end", assignment.OccupyEnd)
	return assignment, nil
}

// Reassign moves the instance to gateID. Confirming the instance's current gate
// always succeeds because its own assignment is excluded from the overlap test.
func (s *GateAllocationService) Reassign(ctx context.Context, instanceID, gateID int64) (*dtos.GateAssignmentResponse, error) {
	if instanceID <= 0 || gateID <= 0 {
		return nil, apperrors.Validation("instance id and gate_id are required")
	}

	var assignment *gormModels.GateAssignment

	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		instance, originID, err := s.lockInstance(ctx, tx, instanceID)
		if err != nil {
			return err
		}
		window := interval.GateWindow(instance.DepartureDatetime)

		gate, err := s.gates.WithTx(tx).LockAtAirport(ctx, gateID, originID)
		if err != nil {
			return apperrors.FromStore(err, "", "")
		}
		if gate == nil {
			return apperrors.NotFound("gate at origin airport", gateID)
		}
		if gate.Status != constants.GateActive {
			return apperrors.Conflict(constants.ErrCodeGateInactive, constants.MsgGateInactive,
				&apperrors.ConflictDetail{GateID: common.Ptr(gate.ID)})
		}

		existing, err := s.gates.WithTx(tx).ListAssignments(ctx, []int64{gate.ID}, instance.ID, window.Start)
		if err != nil {
			return apperrors.FromStore(err, "", "")
		}
		if clash, found := interval.FindConflict(window, existing); found {
			return apperrors.Conflict(constants.ErrCodeGateConflict, constants.MsgGateConflict, &apperrors.ConflictDetail{
				ConflictingInstanceID: common.Ptr(clash.InstanceID),
				GateID:                common.Ptr(gate.ID),
				Departure:             common.Ptr(clash.OccupyStart.UTC()),
				Arrival:               common.Ptr(clash.OccupyEnd.UTC()),
			})
		}

		assignment = &gormModels.GateAssignment{
			GateID:      gate.ID,
			InstanceID:  instance.ID,
			OccupyStart: window.Start,
			OccupyEnd:   window.End,
		}
		if err := s.gates.WithTx(tx).UpsertAssignment(ctx, assignment); err != nil {
			return apperrors.FromStore(err, "", "")
		}
		assignment.Gate = *gate
		return nil
	})
	if err != nil {
		err = apperrors.FromStore(err, "", "")
		s.recordFailure(allocationManual, instanceID, err)
		return nil, err
	}

	s.metrics.GateAllocation(allocationManual, "assigned")
	logging.Info("Gate reassigned", "instance_id", instanceID, "gate_id", gateID)
	return assignmentView(assignment), nil
}

// ListOptions reports every active gate at the instance's origin and whether it
// could take the instance right now. Advisory only: nothing is locked.
func (s *GateAllocationService) ListOptions(ctx context.Context, instanceID int64) (*dtos.GateOptionsResponse, error) {
	instance, err := s.instances.FindByID(ctx, instanceID)
	if err != nil {
		return nil, apperrors.Server(err, constants.MsgServerError)
	}
	if instance == nil {
		return nil, apperrors.NotFound("flight instance", instanceID)
	}

	originID := instance.Route.OriginAirportID
	window := interval.GateWindow(instance.DepartureDatetime)

	gates, err := s.gates.ListActiveByAirport(ctx, originID)
	if err != nil {
		return nil, apperrors.Server(err, constants.MsgServerError)
	}
	gateIDs := make([]int64, 0, len(gates))
	for _, g := range gates {
		gateIDs = append(gateIDs, g.ID)
	}

	existing, err := s.gates.ListAssignments(ctx, gateIDs, instance.ID, window.Start)
	if err != nil {
		return nil, apperrors.Server(err, constants.MsgServerError)
	}
	byGate := make(map[int64][]gormModels.GateAssignment, len(gates))
	for _, a := range existing {
		byGate[a.GateID] = append(byGate[a.GateID], a)
	}

	current, err := s.gates.FindAssignment(ctx, instance.ID)
	if err != nil {
		return nil, apperrors.Server(err, constants.MsgServerError)
	}

	resp := &dtos.GateOptionsResponse{
		OriginAirportID: originID,
		Gates:           make([]dtos.GateOption, 0, len(gates)),
	}
	if current != nil {
		resp.CurrentGateID = common.Ptr(current.GateID)
	}
	for _, g := range gates {
		_, busy := interval.FindConflict(window, byGate[g.ID])
		resp.Gates = append(resp.Gates, dtos.GateOption{
			GateID:      g.ID,
			Code:        g.Code,
			Status:      string(g.Status),
			IsAvailable: !busy,
		})
	}

	return resp, nil
}

// CurrentAssignment returns the instance's gate assignment, or nil.
func (s *GateAllocationService) CurrentAssignment(ctx context.Context, instanceID int64) (*gormModels.GateAssignment, error) {
	assignment, err := s.gates.FindAssignment(ctx, instanceID)
	if err != nil {
		return nil, apperrors.Server(err, constants.MsgServerError)
	}
	return assignment, nil
}

// lockInstance takes the instance row FOR UPDATE and resolves its origin airport.
func (s *GateAllocationService) lockInstance(ctx context.Context, tx *gorm.DB, instanceID int64) (*gormModels.FlightInstance, int64, error) {
	instance, err := s.instances.WithTx(tx).Lock(ctx, instanceID, "UPDATE")
	if err != nil {
		return nil, 0, apperrors.FromStore(err, "", "")
	}
	if instance == nil {
		return nil, 0, apperrors.NotFound("flight instance", instanceID)
	}
	if instance.Status == constants.FlightCancelled {
		return nil, 0, apperrors.Conflict(constants.ErrCodeInstanceCancelled, constants.MsgInstanceCancelled,
			&apperrors.ConflictDetail{ConflictingInstanceID: common.Ptr(instance.ID)})
	}

	route, err := s.routes.WithTx(tx).FindByID(ctx, instance.RouteID)
	if err != nil {
		return nil, 0, apperrors.FromStore(err, "", "")
	}
	if route == nil {
		return nil, 0, apperrors.NotFound("route", instance.RouteID)
	}

	return instance, route.OriginAirportID, nil
}

func (s *GateAllocationService) recordFailure(mode string, instanceID int64, err error) {
	if appErr, ok := apperrors.As(err); ok && appErr.Kind == apperrors.KindConflict {
		s.metrics.Conflict(appErr.Code)
		s.metrics.GateAllocation(mode, "conflict")
		logging.Warn("Gate allocation rejected", "mode", mode, "instance_id", instanceID, "code", appErr.Code)
		return
	}
	s.metrics.GateAllocation(mode, "error")
	logging.Error("Gate allocation failed", "mode", mode, "instance_id", instanceID, "error", err)
}
