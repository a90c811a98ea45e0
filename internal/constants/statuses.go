package constants

// FlightStatus is the lifecycle state of a dated flight instance.
type FlightStatus string

const (
	FlightOnTime    FlightStatus = "on-time"
	FlightDelayed   FlightStatus = "delayed"
	FlightCancelled FlightStatus = "cancelled"
)

func (s FlightStatus) Valid() bool {
	switch s {
	case FlightOnTime, FlightDelayed, FlightCancelled:
		return true
	}
	return false
}

// GateStatus is the operational state of a physical gate.
type GateStatus string

const (
	GateActive      GateStatus = "active"
	GateClosed      GateStatus = "closed"
	GateMaintenance GateStatus = "maintenance"
)

// TicketStatus is the lifecycle state of a passenger ticket.
type TicketStatus string

const (
	TicketBooked    TicketStatus = "booked"
	TicketCheckedIn TicketStatus = "checked-in"
	TicketCancelled TicketStatus = "cancelled"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketBooked, TicketCheckedIn, TicketCancelled:
		return true
	}
	return false
}

// RouteStatus marks whether a route template accepts new instances.
type RouteStatus string

const (
	RouteActive   RouteStatus = "active"
	RouteInactive RouteStatus = "inactive"
)
