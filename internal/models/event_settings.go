package models

import (
	"gorm.io/gorm"
)

// EventSettings is admin-edited per-event configuration consumed by the
// registration form: which room types can be picked and whether the
// companion/business-class sections are offered at all.
type EventSettings struct {
	gorm.Model
	Event              string `json:"event" gorm:"uniqueIndex"`
	RoomTypes          string `json:"room_types"` // comma-separated option labels
	CompanionAllowed   bool   `json:"companion_allowed"`
	BusinessClassOffer bool   `json:"business_class_offer"`
	RegistrationOpen   bool   `json:"registration_open"`
	Deadline           string `json:"deadline"` // "2006-01-02", empty means none
}
