package registration

import (
	"strings"
	"time"

	"github.com/tripdesk/registration-api/internal/models"
)

const dateLayout = "2006-01-02"

// Validate checks a submitted form payload against the required-field rules.
// It is a pure function of (payload, config): no persistence, no side
// effects. On failure it returns a *ValidationError listing every violation.
//
// When PassportInRenewal is set the passport number is waived; the issue
// and expiry dates stay required.
func Validate(p models.FormFields, cfg FormConfig) error {
	var fields []FieldError
	add := func(field, reason string) {
		fields = append(fields, FieldError{Field: field, Reason: reason})
	}
	require := func(field, value string) bool {
		if strings.TrimSpace(value) == "" {
			add(field, "is required")
			return false
		}
		return true
	}
	requireDate := func(field, value string) {
		if !require(field, value) {
			return
		}
		if _, err := time.Parse(dateLayout, strings.TrimSpace(value)); err != nil {
			add(field, "must be a date in YYYY-MM-DD format")
		}
	}
	requireChoice := func(field, value string) {
		if !require(field, value) {
			return
		}
		if v := strings.TrimSpace(value); v != "yes" && v != "no" {
			add(field, "must be yes or no")
		}
	}

	require("company_name", p.CompanyName)
	require("first_name", p.FirstName)
	require("last_name", p.LastName)
	requireDate("birth_date", p.BirthDate)
	require("nationality", p.Nationality)
	require("mobile_phone", p.MobilePhone)
	if require("email", p.Email) && !strings.Contains(p.Email, "@") {
		add("email", "must be a valid email address")
	}

	if !p.PassportInRenewal {
		require("passport_number", p.PassportNumber)
	}
	requireDate("passport_issue_date", p.PassportIssueDate)
	requireDate("passport_expiry_date", p.PassportExpiryDate)
	if issue, err := time.Parse(dateLayout, strings.TrimSpace(p.PassportIssueDate)); err == nil {
		if expiry, err := time.Parse(dateLayout, strings.TrimSpace(p.PassportExpiryDate)); err == nil {
			if !expiry.After(issue) {
				add("passport_expiry_date", "must be after the issue date")
			}
		}
	}

	if require("room_type", p.RoomType) && len(cfg.RoomTypes) > 0 && !contains(cfg.RoomTypes, strings.TrimSpace(p.RoomType)) {
		add("room_type", "is not an available room type")
	}
	if require("departure_airport", p.DepartureAirport) && len(cfg.DepartureGroups) > 0 && !contains(cfg.DepartureGroups, strings.TrimSpace(p.DepartureAirport)) {
		add("departure_airport", "has no flight assignment for this event")
	}
	requireChoice("business_class", p.BusinessClass)
	if cfg.BusinessClassDisallowed && strings.TrimSpace(p.BusinessClass) == "yes" {
		add("business_class", "is not offered for this event")
	}

	require("billing_name", p.BillingName)
	require("billing_address", p.BillingAddress)
	require("vat_number", p.VATNumber)
	require("sdi_code", p.SDICode)

	if !p.DataConsent {
		add("data_consent", "consent to data processing is required")
	}
	if !p.PenaltiesAccepted {
		add("penalties_accepted", "the penalties policy must be acknowledged")
	}

	if p.HasCompanion && cfg.CompanionDisallowed {
		add("has_companion", "companions are not offered for this event")
	}

	// Companion fields are required only when a companion travels; when
	// HasCompanion is false any companion values present are simply ignored.
	if p.HasCompanion && !cfg.CompanionDisallowed {
		c := p.Companion
		require("companion.first_name", c.FirstName)
		require("companion.last_name", c.LastName)
		requireDate("companion.birth_date", c.BirthDate)
		require("companion.nationality", c.Nationality)
		require("companion.passport_number", c.PassportNumber)
		requireDate("companion.passport_issue_date", c.PassportIssueDate)
		requireDate("companion.passport_expiry_date", c.PassportExpiryDate)
		requireChoice("companion.attends_meeting", c.AttendsMeeting)
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
