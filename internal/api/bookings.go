package api

import (
	"net/http"
	"time"

	"infinite-experiment/flightdeck/internal/auth"
	"infinite-experiment/flightdeck/internal/common"
	"infinite-experiment/flightdeck/internal/constants"
	"infinite-experiment/flightdeck/internal/models/dtos"
)

// CreateBooking handles POST /api/v1/bookings
// Passengers may only book for their own account.
func (h *Handlers) CreateBooking() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.BookingRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		if !auth.CanActFor(auth.GetUserClaims(r.Context()), req.PassengerID) {
			common.RespondError(w, initTime, nil, constants.MsgForbidden+". Cannot book for another passenger", http.StatusForbidden)
			return
		}

		ticket, err := h.deps.Services.Bookings.Book(r.Context(), req)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Ticket booked", ticket, http.StatusCreated)
	}
}

// ListBookings handles GET /api/v1/bookings?passenger_id=
// Passengers always see only their own tickets; operators may filter or list all.
func (h *Handlers) ListBookings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		passengerID, err := queryID(r, "passenger_id")
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		claims := auth.GetUserClaims(r.Context())
		if claims == nil || (!claims.IsOperator() && passengerID == 0) {
			common.RespondError(w, initTime, nil, constants.MsgForbidden+". passenger_id is required", http.StatusForbidden)
			return
		}
		if !auth.CanActFor(claims, passengerID) {
			common.RespondError(w, initTime, nil, constants.MsgForbidden+". Cannot list another passenger's tickets", http.StatusForbidden)
			return
		}

		tickets, err := h.deps.Services.Bookings.List(r.Context(), passengerID)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Tickets fetched", tickets)
	}
}

// UpdateBookingStatus handles PATCH /api/v1/bookings/{id}/status
// Body: {status: booked|checked-in|cancelled, seat?}
func (h *Handlers) UpdateBookingStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		id, err := pathID(r, "id")
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		var req dtos.UpdateTicketStatusRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		current, err := h.deps.Services.Bookings.Get(r.Context(), id)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		if !auth.CanActFor(auth.GetUserClaims(r.Context()), current.PassengerID) {
			common.RespondError(w, initTime, nil, constants.MsgForbidden+". Ticket belongs to another passenger", http.StatusForbidden)
			return
		}

		ticket, err := h.deps.Services.Bookings.UpdateStatus(r.Context(), id, req)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Ticket updated", ticket)
	}
}
