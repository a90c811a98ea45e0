package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

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

// BookingService creates tickets and moves them through booked, checked-in and
// cancelled. A passenger never holds two live tickets for one instance, nor two
// live tickets whose flights overlap in time.
//
// Bookings for one passenger serialize on the passenger row; the guard checks
// and the insert run in the transaction holding that lock.
type BookingService struct {
	tx         *db.Transactor
	instances  *repositories.FlightInstanceRepository
	routes     *repositories.RouteRepository
	passengers *repositories.PassengerRepository
	tickets    *repositories.TicketRepository
	metrics    *metrics.MetricsRegistry
	now        func() time.Time
}

func NewBookingService(tx *db.Transactor, m *metrics.MetricsRegistry) *BookingService {
	conn := tx.DB(context.Background())
	return &BookingService{
		tx:         tx,
		instances:  repositories.NewFlightInstanceRepository(conn),
		routes:     repositories.NewRouteRepository(conn),
		passengers: repositories.NewPassengerRepository(conn),
		tickets:    repositories.NewTicketRepository(conn),
		metrics:    m,
		now:        time.Now,
	}
}

func (s *BookingService) Book(ctx context.Context, req dtos.BookingRequest) (*dtos.TicketResponse, error) {
	switch {
	case req.PassengerID <= 0:
		return nil, apperrors.Validation("passenger_id is required")
	case req.InstanceID <= 0:
		return nil, apperrors.Validation("instance_id is required")
	case req.Price != nil && *req.Price < 0:
		return nil, apperrors.Validation("price must not be negative")
	}

	var ticket *gormModels.Ticket

	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		instance, err := s.lockBookable(ctx, tx, req.InstanceID, req.PassengerID)
		if err != nil {
			return err
		}
		if err := s.guard(ctx, tx, req.PassengerID, instance, 0); err != nil {
			return err
		}

		route, err := s.routes.WithTx(tx).FindByID(ctx, instance.RouteID)
		if err != nil {
			return err
		}
		if route == nil {
			return apperrors.NotFound("route", instance.RouteID)
		}

		ticket = &gormModels.Ticket{
			TicketNo:    ticketNumber(route.FlightNo),
			PassengerID: req.PassengerID,
			InstanceID:  instance.ID,
			Status:      constants.TicketBooked,
			Seat:        req.Seat,
			Price:       req.Price,
			BookingDate: common.NormalizeTime(s.now()),
		}
		if err := s.tickets.WithTx(tx).Create(ctx, ticket); err != nil {
			return apperrors.FromStore(err, constants.ErrCodeAlreadyBooked, constants.MsgAlreadyBooked)
		}
		return nil
	})
	if err != nil {
		return nil, s.reject("book", req.PassengerID, req.InstanceID, err)
	}

	s.metrics.Booking(string(constants.TicketBooked))
	logging.Info("Ticket booked", "ticket_id", ticket.ID, "ticket_no", ticket.TicketNo,
		"passenger_id", ticket.PassengerID, "instance_id", ticket.InstanceID)
	return s.Get(ctx, ticket.ID)
}

// UpdateStatus dispatches a PATCH status request to the matching transition.
func (s *BookingService) UpdateStatus(ctx context.Context, ticketID int64, req dtos.UpdateTicketStatusRequest) (*dtos.TicketResponse, error) {
	switch constants.TicketStatus(req.Status) {
	case constants.TicketCheckedIn:
		return s.CheckIn(ctx, ticketID, req.Seat)
	case constants.TicketCancelled:
		return s.Cancel(ctx, ticketID)
	case constants.TicketBooked:
		return s.Reinstate(ctx, ticketID)
	default:
		return nil, apperrors.Validation("status must be one of booked, checked-in, cancelled")
	}
}

// CheckIn moves a booked ticket to checked-in. Checking in twice succeeds and
// only updates the seat.
func (s *BookingService) CheckIn(ctx context.Context, ticketID int64, seat *string) (*dtos.TicketResponse, error) {
	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		ticket, err := s.lockTicket(ctx, tx, ticketID)
		if err != nil {
			return err
		}
		if ticket.Status == constants.TicketCancelled {
			return apperrors.Conflict(constants.ErrCodeTicketCancelled, constants.MsgTicketCancelled,
				&apperrors.ConflictDetail{ConflictingTicketID: common.Ptr(ticket.ID)})
		}
		return s.tickets.WithTx(tx).UpdateStatus(ctx, ticket.ID, constants.TicketCheckedIn, seat)
	})
	if err != nil {
		return nil, s.reject("check-in", 0, ticketID, err)
	}

	s.metrics.Booking(string(constants.TicketCheckedIn))
	logging.Info("Ticket checked in", "ticket_id", ticketID)
	return s.Get(ctx, ticketID)
}

// Cancel releases the ticket. The instance's gate assignment is left alone.
func (s *BookingService) Cancel(ctx context.Context, ticketID int64) (*dtos.TicketResponse, error) {
	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		ticket, err := s.lockTicket(ctx, tx, ticketID)
		if err != nil {
			return err
		}
		if ticket.Status == constants.TicketCancelled {
			return nil
		}
		return s.tickets.WithTx(tx).UpdateStatus(ctx, ticket.ID, constants.TicketCancelled, nil)
	})
	if err != nil {
		return nil, s.reject("cancel", 0, ticketID, err)
	}

	s.metrics.Booking(string(constants.TicketCancelled))
	logging.Info("Ticket cancelled", "ticket_id", ticketID)
	return s.Get(ctx, ticketID)
}

// Reinstate sets a ticket back to booked. A checked-in ticket simply reverts;
// a cancelled one goes through the same guard as a new booking.
func (s *BookingService) Reinstate(ctx context.Context, ticketID int64) (*dtos.TicketResponse, error) {
	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		ticket, err := s.lockTicket(ctx, tx, ticketID)
		if err != nil {
			return err
		}

		switch ticket.Status {
		case constants.TicketBooked:
			return nil
		case constants.TicketCheckedIn:
			return s.tickets.WithTx(tx).UpdateStatus(ctx, ticket.ID, constants.TicketBooked, nil)
		}

		instance, err := s.lockBookable(ctx, tx, ticket.InstanceID, ticket.PassengerID)
		if err != nil {
			return err
		}
		if err := s.guard(ctx, tx, ticket.PassengerID, instance, ticket.ID); err != nil {
			return err
		}
		if err := s.tickets.WithTx(tx).UpdateStatus(ctx, ticket.ID, constants.TicketBooked, nil); err != nil {
			return apperrors.FromStore(err, constants.ErrCodeAlreadyBooked, constants.MsgAlreadyBooked)
		}
		return nil
	})
	if err != nil {
		return nil, s.reject("reinstate", 0, ticketID, err)
	}

	s.metrics.Booking(string(constants.TicketBooked))
	logging.Info("Ticket reinstated", "ticket_id", ticketID)
	return s.Get(ctx, ticketID)
}

func (s *BookingService) Get(ctx context.Context, ticketID int64) (*dtos.TicketResponse, error) {
	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.Server(err, constants.MsgServerError)
	}
	if ticket == nil {
		return nil, apperrors.NotFound("ticket", ticketID)
	}

	view := ticketView(ticket)
	return &view, nil
}

// List returns tickets newest first; passengerID 0 lists every passenger.
func (s *BookingService) List(ctx context.Context, passengerID int64) ([]dtos.TicketResponse, error) {
	tickets, err := s.tickets.List(ctx, passengerID)
	if err != nil {
		return nil, apperrors.Server(err, constants.MsgServerError)
	}

	views := make([]dtos.TicketResponse, 0, len(tickets))
	for i := range tickets {
		views = append(views, ticketView(&tickets[i]))
	}
	return views, nil
}

// lockBookable takes the instance FOR SHARE and then the passenger FOR UPDATE.
// Every booking path acquires them in this order.
func (s *BookingService) lockBookable(ctx context.Context, tx *gorm.DB, instanceID, passengerID int64) (*gormModels.FlightInstance, error) {
	instance, err := s.instances.WithTx(tx).Lock(ctx, instanceID, "SHARE")
	if err != nil {
		return nil, err
	}
	if instance == nil {
		return nil, apperrors.NotFound("flight instance", instanceID)
	}
	if instance.Status == constants.FlightCancelled {
		return nil, apperrors.Conflict(constants.ErrCodeInstanceCancelled, constants.MsgInstanceCancelled,
			&apperrors.ConflictDetail{ConflictingInstanceID: common.Ptr(instance.ID)})
	}

	passenger, err := s.passengers.WithTx(tx).Lock(ctx, passengerID)
	if err != nil {
		return nil, err
	}
	if passenger == nil {
		return nil, apperrors.NotFound("passenger", passengerID)
	}

	return instance, nil
}

// guard rejects a booking of instance by passengerID that would duplicate or
// overlap one of the passenger's live tickets. excludeTicketID skips the
// ticket being reinstated.
func (s *BookingService) guard(ctx context.Context, tx *gorm.DB, passengerID int64, instance *gormModels.FlightInstance, excludeTicketID int64) error {
	live, err := s.tickets.WithTx(tx).ListLiveByPassenger(ctx, passengerID)
	if err != nil {
		return err
	}

	others := make([]gormModels.Ticket, 0, len(live))
	for _, t := range live {
		if t.ID == excludeTicketID {
			continue
		}
		if t.InstanceID == instance.ID {
			return apperrors.Conflict(constants.ErrCodeAlreadyBooked, constants.MsgAlreadyBooked, ticketConflict(t))
		}
		others = append(others, t)
	}

	if clash, found := interval.FindConflict(instance.Window(), others); found {
		return apperrors.Conflict(constants.ErrCodeTimeOverlap, constants.MsgTimeOverlap, ticketConflict(clash))
	}
	return nil
}

func (s *BookingService) lockTicket(ctx context.Context, tx *gorm.DB, ticketID int64) (*gormModels.Ticket, error) {
	ticket, err := s.tickets.WithTx(tx).Lock(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, apperrors.NotFound("ticket", ticketID)
	}
	return ticket, nil
}

func (s *BookingService) reject(op string, passengerID, id int64, err error) error {
	err = apperrors.FromStore(err, "", "")

	appErr, _ := apperrors.As(err)
	switch appErr.Kind {
	case apperrors.KindConflict:
		s.metrics.Conflict(appErr.Code)
		logging.Info("Booking rejected", "op", op, "passenger_id", passengerID, "id", id, "code", appErr.Code)
	case apperrors.KindServer:
		logging.Error("Booking failed", "op", op, "passenger_id", passengerID, "id", id, "error", err)
	}
	return err
}

func ticketConflict(t gormModels.Ticket) *apperrors.ConflictDetail {
	return &apperrors.ConflictDetail{
		ConflictingTicketID:   common.Ptr(t.ID),
		ConflictingInstanceID: common.Ptr(t.InstanceID),
		Departure:             common.Ptr(t.Instance.DepartureDatetime.UTC()),
		Arrival:               common.Ptr(t.Instance.ArrivalDatetime.UTC()),
	}
}

func ticketNumber(flightNo string) string {
	return fmt.Sprintf("%s-%s", flightNo, uuid.NewString())
}
