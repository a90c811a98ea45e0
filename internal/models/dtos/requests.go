package dtos

import "time"

type CreateRouteRequest struct {
	FlightNo             string  `json:"flight_no"`
	AirlineID            int64   `json:"airline_id"`
	OriginAirportID      int64   `json:"origin_airport_id"`
	DestinationAirportID int64   `json:"destination_airport_id"`
	DurationMinutes      int     `json:"duration_minutes"`
	AircraftType         *string `json:"aircraft_type,omitempty"`
	MaxSeat              *int    `json:"max_seat,omitempty"`
}

// CreateInstanceRequest carries the scheduled (undelayed) times.
// Departure and arrival are pointers so a missing field can be told apart from the zero time.
type CreateInstanceRequest struct {
	RouteID           int64      `json:"route_id"`
	DepartureDatetime *time.Time `json:"departure_datetime"`
	ArrivalDatetime   *time.Time `json:"arrival_datetime"`
	Price             *float64   `json:"price"`
	Status            string     `json:"status,omitempty"`
	DelayedMinutes    *int       `json:"delayed_minutes,omitempty"`
	MaxSellableSeat   *int       `json:"max_sellable_seat,omitempty"`
}

type UpdateInstanceStatusRequest struct {
	Status         string `json:"status"`
	DelayedMinutes *int   `json:"delayed_minutes,omitempty"`
}

type ReassignGateRequest struct {
	GateID int64 `json:"gate_id"`
}

type BookingRequest struct {
	PassengerID int64    `json:"passenger_id"`
	InstanceID  int64    `json:"instance_id"`
	Seat        *string  `json:"seat,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}

type UpdateTicketStatusRequest struct {
	Status string  `json:"status"`
	Seat   *string `json:"seat,omitempty"`
}

// InstanceSearch filters instance listings. Zero values mean "any".
type InstanceSearch struct {
	OriginAirportID      int64
	DestinationAirportID int64
	DepartureDate        *time.Time
	Status               string
}
