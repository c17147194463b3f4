package handlers

import (
	"context"
	"testing"

	"github.com/tripdesk/registration-api/internal/models"
)

func TestHandleSaveAssignmentRequiresAdmin(t *testing.T) {
	f := setupHandlers(t)
	seeded := f.seedGroup(t, "Milano Malpensa", "MXP")

	traveller := models.User{ExternalID: "traveller"}
	f.db.Create(&traveller)

	req := SaveAssignmentRequest{}
	req.Cookie = f.cookieFor(t, traveller.ID)
	req.Body.Event = "incentive-2026"
	req.Body.GroupName = "Milano Malpensa"
	req.Body.AirportCode = "MXP"
	req.Body.OutboundFlightID = seeded.OutboundFlightID
	req.Body.ReturnFlightID = seeded.ReturnFlightID

	if _, err := f.adminHandler.HandleSaveAssignment(context.Background(), &req); err == nil {
		t.Fatal("expected non-admin to be rejected, got nil")
	}
}

func TestHandleSaveAssignment(t *testing.T) {
	f := setupHandlers(t)
	seeded := f.seedGroup(t, "Milano Malpensa", "MXP")

	admin := models.User{ExternalID: "admin", IsAdmin: true}
	f.db.Create(&admin)
	cookie := f.cookieFor(t, admin.ID)

	// A second active assignment for the same triple violates the invariant.
	dup := SaveAssignmentRequest{}
	dup.Cookie = cookie
	dup.Body.Event = "incentive-2026"
	dup.Body.GroupName = "Milano Malpensa"
	dup.Body.AirportCode = "MXP"
	dup.Body.OutboundFlightID = seeded.OutboundFlightID
	dup.Body.ReturnFlightID = seeded.ReturnFlightID
	if _, err := f.adminHandler.HandleSaveAssignment(context.Background(), &dup); err == nil {
		t.Fatal("expected duplicate active assignment to be rejected, got nil")
	}

	// Editing the existing assignment is fine.
	edit := SaveAssignmentRequest{}
	edit.Cookie = cookie
	edit.Body.ID = seeded.ID
	edit.Body.Event = "incentive-2026"
	edit.Body.GroupName = "Milano Malpensa"
	edit.Body.AirportCode = "MXP"
	edit.Body.OutboundFlightID = seeded.OutboundFlightID
	edit.Body.ReturnFlightID = seeded.ReturnFlightID
	edit.Body.Priority = 2
	resp, err := f.adminHandler.HandleSaveAssignment(context.Background(), &edit)
	if err != nil {
		t.Fatalf("HandleSaveAssignment returned error: %v", err)
	}
	if resp.Body.Priority != 2 {
		t.Errorf("expected priority 2, got %d", resp.Body.Priority)
	}
}

func TestHandleSaveFlightRejectsBadDirection(t *testing.T) {
	f := setupHandlers(t)

	admin := models.User{ExternalID: "admin", IsAdmin: true}
	f.db.Create(&admin)

	req := CreateFlightRequest{}
	req.Cookie = f.cookieFor(t, admin.ID)
	req.Body.Event = "incentive-2026"
	req.Body.Direction = "sideways"
	req.Body.GroupName = "Milano Malpensa"

	if _, err := f.adminHandler.HandleSaveFlight(context.Background(), &req); err == nil {
		t.Fatal("expected invalid direction to be rejected, got nil")
	}
}

func TestHandleSetRegistrationStatus(t *testing.T) {
	f := setupHandlers(t)
	f.seedGroup(t, "Milano Malpensa", "MXP")

	admin := models.User{ExternalID: "admin", IsAdmin: true}
	f.db.Create(&admin)
	traveller := models.User{ExternalID: "traveller"}
	f.db.Create(&traveller)

	submit := SubmitRegistrationRequest{}
	submit.Cookie = f.cookieFor(t, traveller.ID)
	submit.Body.Form = submitPayload()
	submitted, err := f.registrationHandler.HandleSubmit(context.Background(), &submit)
	if err != nil {
		t.Fatalf("HandleSubmit returned error: %v", err)
	}

	req := SetRegistrationStatusRequest{}
	req.Cookie = f.cookieFor(t, admin.ID)
	req.Reference = submitted.Body.Reference
	req.Body.Status = models.StatusConfirmed

	resp, err := f.adminHandler.HandleSetRegistrationStatus(context.Background(), &req)
	if err != nil {
		t.Fatalf("HandleSetRegistrationStatus returned error: %v", err)
	}
	if resp.Body.Status != models.StatusConfirmed {
		t.Errorf("expected status confirmed, got %s", resp.Body.Status)
	}

	// Confirmed cannot go back to waitlisted.
	req.Body.Status = models.StatusWaitlisted
	if _, err := f.adminHandler.HandleSetRegistrationStatus(context.Background(), &req); err == nil {
		t.Fatal("expected illegal transition to be rejected, got nil")
	}
}

func TestHandleSaveEventSettings(t *testing.T) {
	f := setupHandlers(t)

	admin := models.User{ExternalID: "admin", IsAdmin: true}
	f.db.Create(&admin)

	req := SaveEventSettingsRequest{}
	req.Cookie = f.cookieFor(t, admin.ID)
	req.Body.Event = "incentive-2026"
	req.Body.RoomTypes = []string{"Matrimoniale", "Doppia uso singola"}
	req.Body.RegistrationOpen = true

	resp, err := f.adminHandler.HandleSaveEventSettings(context.Background(), &req)
	if err != nil {
		t.Fatalf("HandleSaveEventSettings returned error: %v", err)
	}
	if resp.Body.RoomTypes != "Matrimoniale,Doppia uso singola" {
		t.Errorf("unexpected room types %q", resp.Body.RoomTypes)
	}

	// Saving again updates the same row.
	req.Body.RoomTypes = []string{"Matrimoniale"}
	if _, err := f.adminHandler.HandleSaveEventSettings(context.Background(), &req); err != nil {
		t.Fatalf("second HandleSaveEventSettings returned error: %v", err)
	}

	var count int64
	f.db.Model(&models.EventSettings{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 settings row, got %d", count)
	}
}
