package registration

import (
	"strings"
)

// FormConfig is the validator's view of admin-edited event configuration.
// It is built fresh per request from the event settings and the live
// assignments, passed by value, and never mutated after construction.
type FormConfig struct {
	// RoomTypes lists the selectable room options. Empty means any value
	// is accepted (the event has not constrained them).
	RoomTypes []string

	// DepartureGroups lists the group labels with a live flight assignment.
	// Empty means the cross-field airport check is skipped here and left to
	// the resolver.
	DepartureGroups []string

	// CompanionDisallowed rejects payloads with a companion. Set when the
	// event settings turn the companion section off; the zero value keeps
	// companions available.
	CompanionDisallowed bool

	// BusinessClassDisallowed rejects a business_class "yes" answer. Set
	// when the event has no business class offer.
	BusinessClassDisallowed bool
}

// splitOptions turns the comma-separated option column into a clean slice.
func splitOptions(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func contains(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}
