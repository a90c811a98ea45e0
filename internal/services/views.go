package services

import (
	"infinite-experiment/flightdeck/internal/models/dtos"
	gormModels "infinite-experiment/flightdeck/internal/models/gorm"
)

func routeView(r *gormModels.RouteTemplate) dtos.RouteResponse {
	return dtos.RouteResponse{
		RouteID:              r.ID,
		FlightNo:             r.FlightNo,
		AirlineID:            r.AirlineID,
		AirlineName:          r.Airline.Name,
		AirlineCode:          r.Airline.IATACode,
		OriginAirportID:      r.OriginAirportID,
		OriginCode:           r.OriginAirport.IATACode,
		DestinationAirportID: r.DestinationAirportID,
		DestinationCode:      r.DestinationAirport.IATACode,
		DurationMinutes:      r.DurationMinutes,
		AircraftType:         r.AircraftType,
		MaxSeat:              r.MaxSeat,
		Status:               string(r.Status),
	}
}

// instanceView expects the route context to be preloaded.
func instanceView(f *gormModels.FlightInstance) dtos.InstanceResponse {
	return dtos.InstanceResponse{
		InstanceID:        f.ID,
		RouteID:           f.RouteID,
		FlightNo:          f.Route.FlightNo,
		AirlineName:       f.Route.Airline.Name,
		AirlineCode:       f.Route.Airline.IATACode,
		OriginAirportID:   f.Route.OriginAirportID,
		OriginCode:        f.Route.OriginAirport.IATACode,
		DestinationCode:   f.Route.DestinationAirport.IATACode,
		DepartureDatetime: f.DepartureDatetime.UTC(),
		ArrivalDatetime:   f.ArrivalDatetime.UTC(),
		Price:             f.Price,
		MaxSellableSeat:   f.MaxSellableSeat,
		Status:            string(f.Status),
		DelayedMinutes:    f.DelayedMinutes,
	}
}

func assignmentView(a *gormModels.GateAssignment) *dtos.GateAssignmentResponse {
	if a == nil {
		return nil
	}
	return &dtos.GateAssignmentResponse{
		InstanceID:  a.InstanceID,
		GateID:      a.GateID,
		GateCode:    a.Gate.Code,
		OccupyStart: a.OccupyStart.UTC(),
		OccupyEnd:   a.OccupyEnd.UTC(),
	}
}

func ticketView(t *gormModels.Ticket) dtos.TicketResponse {
	return dtos.TicketResponse{
		TicketID:          t.ID,
		TicketNo:          t.TicketNo,
		PassengerID:       t.PassengerID,
		InstanceID:        t.InstanceID,
		Status:            string(t.Status),
		Seat:              t.Seat,
		Price:             t.Price,
		BookingDate:       t.BookingDate.UTC(),
		FlightNo:          t.Instance.Route.FlightNo,
		DepartureDatetime: t.Instance.DepartureDatetime.UTC(),
		ArrivalDatetime:   t.Instance.ArrivalDatetime.UTC(),
	}
}
