package registration

import (
	"errors"
	"testing"

	"github.com/tripdesk/registration-api/internal/models"
)

func validPayload() models.FormFields {
	return models.FormFields{
		CompanyName:        "Rossi Impianti SRL",
		FirstName:          "Mario",
		LastName:           "Rossi",
		BirthDate:          "1978-03-14",
		Nationality:        "Italiana",
		MobilePhone:        "+39 333 1234567",
		Email:              "mario.rossi@example.com",
		PassportNumber:     "YA1234567",
		PassportIssueDate:  "2020-05-01",
		PassportExpiryDate: "2030-05-01",
		RoomType:           "Matrimoniale",
		DepartureAirport:   "Milano Malpensa",
		BusinessClass:      "no",
		BillingName:        "Rossi Impianti SRL",
		BillingAddress:     "Via Roma 1, 20121 Milano",
		VATNumber:          "IT01234567890",
		SDICode:            "M5UXCR1",
		DataConsent:        true,
		PenaltiesAccepted:  true,
	}
}

func validCompanion() models.CompanionFields {
	return models.CompanionFields{
		FirstName:          "Lucia",
		LastName:           "Rossi",
		BirthDate:          "1980-07-22",
		Nationality:        "Italiana",
		PassportNumber:     "YA7654321",
		PassportIssueDate:  "2021-02-01",
		PassportExpiryDate: "2031-02-01",
		AttendsMeeting:     "yes",
	}
}

func testConfig() FormConfig {
	return FormConfig{
		RoomTypes:       []string{"Matrimoniale", "Doppia uso singola"},
		DepartureGroups: []string{"Milano Malpensa", "Roma Fiumicino"},
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	out := map[string]string{}
	for _, f := range verr.Fields {
		out[f.Field] = f.Reason
	}
	return out
}

func TestValidateAcceptsCompletePayload(t *testing.T) {
	if err := Validate(validPayload(), testConfig()); err != nil {
		t.Fatalf("expected valid payload to pass, got %v", err)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(*models.FormFields)
	}{
		{"company_name", func(p *models.FormFields) { p.CompanyName = "" }},
		{"first_name", func(p *models.FormFields) { p.FirstName = "  " }},
		{"last_name", func(p *models.FormFields) { p.LastName = "" }},
		{"birth_date", func(p *models.FormFields) { p.BirthDate = "" }},
		{"nationality", func(p *models.FormFields) { p.Nationality = "" }},
		{"mobile_phone", func(p *models.FormFields) { p.MobilePhone = "" }},
		{"email", func(p *models.FormFields) { p.Email = "" }},
		{"passport_number", func(p *models.FormFields) { p.PassportNumber = "" }},
		{"passport_issue_date", func(p *models.FormFields) { p.PassportIssueDate = "" }},
		{"passport_expiry_date", func(p *models.FormFields) { p.PassportExpiryDate = "" }},
		{"room_type", func(p *models.FormFields) { p.RoomType = "" }},
		{"departure_airport", func(p *models.FormFields) { p.DepartureAirport = "" }},
		{"business_class", func(p *models.FormFields) { p.BusinessClass = "" }},
		{"billing_name", func(p *models.FormFields) { p.BillingName = "" }},
		{"billing_address", func(p *models.FormFields) { p.BillingAddress = "" }},
		{"vat_number", func(p *models.FormFields) { p.VATNumber = "" }},
		{"sdi_code", func(p *models.FormFields) { p.SDICode = "" }},
		{"data_consent", func(p *models.FormFields) { p.DataConsent = false }},
		{"penalties_accepted", func(p *models.FormFields) { p.PenaltiesAccepted = false }},
	}

	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			p := validPayload()
			tc.mutate(&p)
			fields := fieldErrors(t, Validate(p, testConfig()))
			if _, ok := fields[tc.field]; !ok {
				t.Errorf("expected a field error on %s, got %v", tc.field, fields)
			}
		})
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	p := validPayload()
	p.FirstName = ""
	p.Email = "not-an-email"
	p.DataConsent = false

	fields := fieldErrors(t, Validate(p, testConfig()))
	for _, want := range []string{"first_name", "email", "data_consent"} {
		if _, ok := fields[want]; !ok {
			t.Errorf("expected %s in field errors, got %v", want, fields)
		}
	}
}

func TestValidateCompanionConditional(t *testing.T) {
	// Without a companion, companion fields are optional and never rejected.
	p := validPayload()
	p.HasCompanion = false
	p.Companion = models.CompanionFields{FirstName: "Lucia"}
	if err := Validate(p, testConfig()); err != nil {
		t.Fatalf("companion fields must be ignored when HasCompanion is false, got %v", err)
	}

	// With a companion, every companion field becomes required.
	p = validPayload()
	p.HasCompanion = true
	p.Companion = validCompanion()
	if err := Validate(p, testConfig()); err != nil {
		t.Fatalf("expected complete companion to pass, got %v", err)
	}

	p.Companion.FirstName = ""
	fields := fieldErrors(t, Validate(p, testConfig()))
	if _, ok := fields["companion.first_name"]; !ok {
		t.Errorf("expected companion.first_name error, got %v", fields)
	}

	p = validPayload()
	p.HasCompanion = true
	p.Companion = validCompanion()
	p.Companion.PassportNumber = ""
	fields = fieldErrors(t, Validate(p, testConfig()))
	if _, ok := fields["companion.passport_number"]; !ok {
		t.Errorf("expected companion.passport_number error, got %v", fields)
	}
}

func TestValidatePassportInRenewal(t *testing.T) {
	p := validPayload()
	p.PassportInRenewal = true
	p.PassportNumber = ""
	if err := Validate(p, testConfig()); err != nil {
		t.Fatalf("passport number must be waived during renewal, got %v", err)
	}

	// The dates stay required even during renewal.
	p.PassportIssueDate = ""
	fields := fieldErrors(t, Validate(p, testConfig()))
	if _, ok := fields["passport_issue_date"]; !ok {
		t.Errorf("expected passport_issue_date error, got %v", fields)
	}
}

func TestValidateDates(t *testing.T) {
	p := validPayload()
	p.BirthDate = "14/03/1978"
	fields := fieldErrors(t, Validate(p, testConfig()))
	if fields["birth_date"] != "must be a date in YYYY-MM-DD format" {
		t.Errorf("expected date format error, got %v", fields)
	}

	p = validPayload()
	p.PassportIssueDate = "2030-05-01"
	p.PassportExpiryDate = "2020-05-01"
	fields = fieldErrors(t, Validate(p, testConfig()))
	if _, ok := fields["passport_expiry_date"]; !ok {
		t.Errorf("expected expiry-before-issue error, got %v", fields)
	}
}

func TestValidateOptions(t *testing.T) {
	p := validPayload()
	p.RoomType = "Suite Imperiale"
	fields := fieldErrors(t, Validate(p, testConfig()))
	if _, ok := fields["room_type"]; !ok {
		t.Errorf("expected room_type error, got %v", fields)
	}

	p = validPayload()
	p.DepartureAirport = "Venezia"
	fields = fieldErrors(t, Validate(p, testConfig()))
	if _, ok := fields["departure_airport"]; !ok {
		t.Errorf("expected departure_airport error, got %v", fields)
	}

	// An unconstrained config accepts any room type.
	p = validPayload()
	p.RoomType = "Suite Imperiale"
	if err := Validate(p, FormConfig{}); err != nil {
		t.Fatalf("expected unconstrained config to pass, got %v", err)
	}
}

func TestValidateEventPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.CompanionDisallowed = true
	cfg.BusinessClassDisallowed = true

	p := validPayload()
	p.HasCompanion = true
	p.Companion = validCompanion()
	fields := fieldErrors(t, Validate(p, cfg))
	if _, ok := fields["has_companion"]; !ok {
		t.Errorf("expected has_companion error when companions are off, got %v", fields)
	}

	p = validPayload()
	p.BusinessClass = "yes"
	fields = fieldErrors(t, Validate(p, cfg))
	if fields["business_class"] != "is not offered for this event" {
		t.Errorf("expected business_class policy error, got %v", fields)
	}

	// "no" answers pass even when the offers are off.
	p = validPayload()
	if err := Validate(p, cfg); err != nil {
		t.Fatalf("expected payload without companion or business class to pass, got %v", err)
	}
}
