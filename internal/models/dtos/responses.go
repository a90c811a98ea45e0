package dtos

import (
	"time"

	"infinite-experiment/flightdeck/internal/apperrors"
)

type RouteResponse struct {
	RouteID              int64   `json:"route_id"`
	FlightNo             string  `json:"flight_no"`
	AirlineID            int64   `json:"airline_id"`
	AirlineName          string  `json:"airline_name"`
	AirlineCode          string  `json:"airline_code"`
	OriginAirportID      int64   `json:"origin_airport_id"`
	OriginCode           string  `json:"origin_code"`
	DestinationAirportID int64   `json:"destination_airport_id"`
	DestinationCode      string  `json:"destination_code"`
	DurationMinutes      int     `json:"duration_minutes"`
	AircraftType         *string `json:"aircraft_type,omitempty"`
	MaxSeat              *int    `json:"max_seat,omitempty"`
	Status               string  `json:"status"`
}

type InstanceResponse struct {
	InstanceID        int64     `json:"instance_id"`
	RouteID           int64     `json:"route_id"`
	FlightNo          string    `json:"flight_no"`
	AirlineName       string    `json:"airline_name"`
	AirlineCode       string    `json:"airline_code"`
	OriginAirportID   int64     `json:"origin_airport_id"`
	OriginCode        string    `json:"origin_code"`
	DestinationCode   string    `json:"destination_code"`
	DepartureDatetime time.Time `json:"departure_datetime"`
	ArrivalDatetime   time.Time `json:"arrival_datetime"`
	Price             float64   `json:"price"`
	MaxSellableSeat   *int      `json:"max_sellable_seat,omitempty"`
	Status            string    `json:"status"`
	DelayedMinutes    int       `json:"delayed_minutes"`
}

type GateAssignmentResponse struct {
	InstanceID  int64     `json:"instance_id"`
	GateID      int64     `json:"gate_id"`
	GateCode    string    `json:"gate_code"`
	OccupyStart time.Time `json:"occupy_start"`
	OccupyEnd   time.Time `json:"occupy_end"`
}

// CreateInstanceResponse is returned for both 201 and the 409 where the instance
// was stored but no gate could be allocated.
type CreateInstanceResponse struct {
	Instance InstanceResponse          `json:"instance"`
	Gate     *GateAssignmentResponse   `json:"gate"`
	Conflict *apperrors.ConflictDetail `json:"conflict,omitempty"`
}

type GateOption struct {
	GateID      int64  `json:"gate_id"`
	Code        string `json:"code"`
	Status      string `json:"status"`
	IsAvailable bool   `json:"is_available"`
}

type GateOptionsResponse struct {
	OriginAirportID int64        `json:"origin_airport_id"`
	CurrentGateID   *int64       `json:"current_gate_id"`
	Gates           []GateOption `json:"gates"`
}

type TicketResponse struct {
	TicketID          int64     `json:"ticket_id"`
	TicketNo          string    `json:"ticket_no"`
	PassengerID       int64     `json:"passenger_id"`
	InstanceID        int64     `json:"instance_id"`
	Status            string    `json:"status"`
	Seat              *string   `json:"seat"`
	Price             *float64  `json:"price"`
	BookingDate       time.Time `json:"booking_date"`
	FlightNo          string    `json:"flight_no,omitempty"`
	DepartureDatetime time.Time `json:"departure_datetime"`
	ArrivalDatetime   time.Time `json:"arrival_datetime"`
}
