package models

import (
	"gorm.io/gorm"
)

type AssignmentStatus string

const (
	AssignmentActive   AssignmentStatus = "active"
	AssignmentInactive AssignmentStatus = "inactive"
	AssignmentFull     AssignmentStatus = "full"
)

// GroupFlightAssignment binds a departure group to the outbound/return
// flight pair it travels on, for one event. At most one active assignment
// may exist per (event, group, airport) triple; writes enforce this.
type GroupFlightAssignment struct {
	gorm.Model
	Event            string           `json:"event" gorm:"index:idx_event_group_airport"`
	GroupName        string           `json:"group_name" gorm:"index:idx_event_group_airport"`
	AirportCode      string           `json:"airport_code" gorm:"index:idx_event_group_airport"`
	OutboundFlightID uint             `json:"outbound_flight_id"`
	ReturnFlightID   uint             `json:"return_flight_id"`
	Status           AssignmentStatus `json:"status"`
	Priority         int              `json:"priority"`
	CurrentCount     int              `json:"current_count"`
	MaxCount         *int             `json:"max_count"` // nil means uncapped
}
