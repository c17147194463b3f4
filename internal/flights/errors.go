package flights

import "errors"

// ErrFlightNotFound is returned when a flight ID does not exist.
// Handlers map this to HTTP 404; it is not retryable.
var ErrFlightNotFound = errors.New("flight not found")

// ErrAssignmentNotFound is returned when an assignment ID does not exist.
var ErrAssignmentNotFound = errors.New("assignment not found")

// ErrNoAssignment is returned by ResolveFlightPair when no active assignment
// exists for the requested (event, group). This is a user-correctable input
// error; handlers map it to HTTP 400 pointing at the departure airport field.
var ErrNoAssignment = errors.New("no active flight assignment for group")

// ErrAmbiguousAssignment means two active assignments share the highest
// priority for the same (event, group). The write-time uniqueness check is
// supposed to prevent this, so resolve surfaces it instead of picking one.
var ErrAmbiguousAssignment = errors.New("multiple active assignments share the highest priority")

// ErrAssignmentFull is returned by IncrementCapacity when the assignment is
// at its configured maximum. Handlers map this to HTTP 409.
var ErrAssignmentFull = errors.New("assignment is at capacity")

// ErrInvalidDirection rejects a flight write whose direction is neither
// outbound nor return.
var ErrInvalidDirection = errors.New("flight direction must be outbound or return")

// InvalidAssignmentError rejects an internally inconsistent assignment write
// (wrong flight direction, mismatched event, mismatched airport). Rule names
// the violated constraint so admins see what to fix.
type InvalidAssignmentError struct {
	Rule string
}

func (e *InvalidAssignmentError) Error() string {
	return "invalid assignment: " + e.Rule
}
