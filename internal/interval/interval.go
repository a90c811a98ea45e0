// Package interval holds the half-open time window type and the single overlap
// predicate shared by gate allocation and passenger scheduling.
package interval

import "time"

const (
	// GateBufferBefore is how long before departure a gate is held for an instance.
	GateBufferBefore = 90 * time.Minute
	// GateBufferAfter is how long after departure the gate stays held.
	GateBufferAfter = 15 * time.Minute
)

// Window is a half-open [Start, End) time interval.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// New builds a window, normalising both ends to UTC.
func New(start, end time.Time) Window {
	return Window{Start: start.UTC(), End: end.UTC()}
}

// GateWindow returns the gate occupancy window for a departure.
func GateWindow(departure time.Time) Window {
	return New(departure.Add(-GateBufferBefore), departure.Add(GateBufferAfter))
}

// Valid reports whether the window has a positive length.
func (w Window) Valid() bool {
	return w.End.After(w.Start)
}

// Duration is the window length.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Overlaps reports whether two half-open windows intersect.
// Windows that only touch (a.End == b.Start) do not overlap.
func Overlaps(a, b Window) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// Overlaps is the method form of the package-level predicate.
func (w Window) Overlaps(other Window) bool {
	return Overlaps(w, other)
}

// OverlapDuration is how much of w falls inside other. Zero when they do not overlap.
func (w Window) OverlapDuration(other Window) time.Duration {
	if !Overlaps(w, other) {
		return 0
	}
	start, end := w.Start, w.End
	if other.Start.After(start) {
		start = other.Start
	}
	if other.End.Before(end) {
		end = other.End
	}
	return end.Sub(start)
}

// Occupant is anything holding a window on a shared resource: a gate
// assignment or a passenger's ticket.
type Occupant interface {
	Window() Window
}

// FindConflict returns the first occupant whose window overlaps w, in slice order.
func FindConflict[T Occupant](w Window, occupants []T) (T, bool) {
	for _, o := range occupants {
		if Overlaps(w, o.Window()) {
			return o, true
		}
	}
	var zero T
	return zero, false
}
