package registration

import (
	"errors"
	"fmt"

	"github.com/tripdesk/registration-api/internal/models"
)

// ErrRegistrationNotFound is returned when no registration exists for the
// requested user/event or reference. Handlers map this to HTTP 404.
var ErrRegistrationNotFound = errors.New("registration not found")

// ErrRegistrationClosed is returned by Submit when the event's registration
// window is closed or its deadline has passed.
var ErrRegistrationClosed = errors.New("registration is closed for this event")

// FieldError points at one offending payload field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError carries every field violation found in a payload, never
// just the first one, so the form can be re-rendered with all messages.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("payload failed validation on %d field(s)", len(e.Fields))
}

// InvalidTransitionError rejects a status change the state machine does not
// allow. It is never coerced into a different transition; handlers map it
// to HTTP 409.
type InvalidTransitionError struct {
	From models.RegistrationStatus
	To   models.RegistrationStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}
