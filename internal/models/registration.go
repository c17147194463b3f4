package models

import (
	"time"

	"gorm.io/gorm"
)

type RegistrationStatus string

const (
	StatusPending    RegistrationStatus = "pending"
	StatusConfirmed  RegistrationStatus = "confirmed"
	StatusCancelled  RegistrationStatus = "cancelled"
	StatusWaitlisted RegistrationStatus = "waitlisted"
)

// CompanionFields is the optional travelling-companion sub-record.
// Required by the validator only when the payload sets HasCompanion.
type CompanionFields struct {
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	BirthDate          string `json:"birth_date"`
	Nationality        string `json:"nationality"`
	PassportNumber     string `json:"passport_number"`
	PassportIssueDate  string `json:"passport_issue_date"`
	PassportExpiryDate string `json:"passport_expiry_date"`
	AttendsMeeting     string `json:"attends_meeting"` // "yes" | "no"
}

type FormFields struct {
	CompanyName        string `json:"company_name"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	BirthDate          string `json:"birth_date"` // "2006-01-02"
	Nationality        string `json:"nationality"`
	MobilePhone        string `json:"mobile_phone"`
	Email              string `json:"email"`
	PassportNumber     string `json:"passport_number"`
	PassportIssueDate  string `json:"passport_issue_date"`
	PassportExpiryDate string `json:"passport_expiry_date"`
	PassportInRenewal  bool   `json:"passport_in_renewal"`
	RoomType           string `json:"room_type"`
	DepartureAirport   string `json:"departure_airport"` // departure group label
	BusinessClass      string `json:"business_class"`    // "yes" | "no"
	BillingName        string `json:"billing_name"`
	BillingAddress     string `json:"billing_address"`
	VATNumber          string `json:"vat_number"`
	SDICode            string `json:"sdi_code"`
	DataConsent        bool   `json:"data_consent"`
	PenaltiesAccepted  bool   `json:"penalties_accepted"`
	Notes              string `json:"notes"`

	HasCompanion bool            `json:"has_companion"`
	Companion    CompanionFields `json:"companion" gorm:"embedded;embeddedPrefix:companion_"`
}

type Registration struct {
	gorm.Model
	Reference        string             `json:"reference" gorm:"uniqueIndex"`
	UserID           uint               `json:"user_id" gorm:"uniqueIndex:idx_user_event"`
	Event            string             `json:"event" gorm:"uniqueIndex:idx_user_event"`
	User             User               `json:"-" gorm:"foreignKey:UserID"`
	OutboundFlightID uint               `json:"outbound_flight_id"`
	ReturnFlightID   uint               `json:"return_flight_id"`
	GroupName        string             `json:"group_name"`
	Status           RegistrationStatus `json:"status"`
	SubmittedAt      time.Time          `json:"submitted_at"`
	CancelReason     string             `json:"cancel_reason,omitempty"`
	CancelledAt      *time.Time         `json:"cancelled_at,omitempty"`
	FormFields       `json:"form" gorm:"embedded"`
}
