package models

import (
	"gorm.io/gorm"
)

// RegistrationHistory is an append-only snapshot taken on every submission,
// so admins can see what a traveller changed between resubmissions.
type RegistrationHistory struct {
	gorm.Model
	RegistrationID   uint               `json:"registration_id"`
	UserID           uint               `json:"user_id"`
	Event            string             `json:"event"`
	OutboundFlightID uint               `json:"outbound_flight_id"`
	ReturnFlightID   uint               `json:"return_flight_id"`
	GroupName        string             `json:"group_name"`
	Status           RegistrationStatus `json:"status"`
	FormFields       `json:"form" gorm:"embedded"`
}
