package constants

// Error codes carried by apperrors and returned to API clients.
const (
	ErrCodeValidation = "VALIDATION_FAILED"
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeServer     = "SERVER_ERROR"

	ErrCodeNoGateAvailable   = "NO_GATE_AVAILABLE"
	ErrCodeGateConflict      = "GATE_CONFLICT"
	ErrCodeGateInactive      = "GATE_INACTIVE"
	ErrCodeAlreadyBooked     = "ALREADY_BOOKED"
	ErrCodeTimeOverlap       = "TIME_OVERLAP"
	ErrCodeInstanceCancelled = "INSTANCE_CANCELLED"
	ErrCodeTicketCancelled   = "TICKET_CANCELLED"
	ErrCodeFlightNoExists    = "FLIGHT_NO_EXISTS"
	ErrCodeLockUnavailable   = "LOCK_UNAVAILABLE"
)

const (
	MsgServerError       = "Something went wrong. Please try again later"
	MsgNoGateAvailable   = "No gate is free at the origin airport for this departure"
	MsgGateConflict      = "Gate is already occupied during this departure window"
	MsgGateInactive      = "Gate is not active"
	MsgAlreadyBooked     = "Passenger already holds a ticket for this flight"
	MsgTimeOverlap       = "Passenger holds another ticket whose flight overlaps this one"
	MsgInstanceCancelled = "Flight instance is cancelled"
	MsgTicketCancelled   = "Ticket is cancelled"
	MsgFlightNoExists    = "Flight number already exists"
	MsgLockUnavailable   = "Resource is busy, retry the request"
	MsgUnauthorized      = "Unauthorized"
	MsgForbidden         = "Forbidden"
)
