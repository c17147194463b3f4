package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/tripdesk/registration-api/internal/auth"
	"github.com/tripdesk/registration-api/internal/flights"
	"github.com/tripdesk/registration-api/internal/models"
	"github.com/tripdesk/registration-api/internal/registration"
	"gorm.io/gorm"
)

// AdminHandler carries the operations behind the admin pages: flight edits,
// group-flight assignments, registration status changes and the per-event
// form settings.
type AdminHandler struct {
	db          *gorm.DB
	directory   *flights.Directory
	resolver    *flights.Resolver
	service     *registration.Service
	authHandler *auth.AuthHandler
}

func NewAdminHandler(db *gorm.DB, directory *flights.Directory, resolver *flights.Resolver, service *registration.Service, authHandler *auth.AuthHandler) *AdminHandler {
	return &AdminHandler{db: db, directory: directory, resolver: resolver, service: service, authHandler: authHandler}
}

type CreateFlightRequest struct {
	auth.AuthInput
	Body struct {
		ID           uint                   `json:"id,omitempty" doc:"Set to edit an existing flight"`
		Event        string                 `json:"event" required:"true"`
		Direction    models.FlightDirection `json:"direction" required:"true" doc:"outbound or return"`
		GroupName    string                 `json:"group_name" required:"true"`
		Departure    models.FlightEndpoint  `json:"departure"`
		Arrival      models.FlightEndpoint  `json:"arrival"`
		Carrier      string                 `json:"carrier"`
		FlightNumber string                 `json:"flight_number"`
		Duration     string                 `json:"duration"`
	}
}

type FlightResponse struct {
	Body models.Flight
}

func (h *AdminHandler) HandleSaveFlight(ctx context.Context, input *CreateFlightRequest) (*FlightResponse, error) {
	if _, err := h.authHandler.AuthorizeAdmin(ctx, input.Cookie); err != nil {
		return nil, err
	}

	flight := models.Flight{
		Event:        input.Body.Event,
		Direction:    input.Body.Direction,
		GroupName:    input.Body.GroupName,
		Departure:    input.Body.Departure,
		Arrival:      input.Body.Arrival,
		Carrier:      input.Body.Carrier,
		FlightNumber: input.Body.FlightNumber,
		Duration:     input.Body.Duration,
	}

	var err error
	if input.Body.ID != 0 {
		flight.ID = input.Body.ID
		err = h.directory.UpdateFlight(ctx, &flight)
	} else {
		err = h.directory.CreateFlight(ctx, &flight)
	}
	if err != nil {
		return nil, mapAdminError(err)
	}

	return &FlightResponse{Body: flight}, nil
}

type ListFlightsRequest struct {
	auth.AuthInput
	Event     string `query:"event" required:"true"`
	Direction string `query:"direction" doc:"Filter by outbound or return"`
	Group     string `query:"group" doc:"Filter by departure group label"`
}

type ListFlightsResponse struct {
	Body []models.Flight
}

func (h *AdminHandler) HandleListFlights(ctx context.Context, input *ListFlightsRequest) (*ListFlightsResponse, error) {
	if _, err := h.authHandler.AuthorizeAdmin(ctx, input.Cookie); err != nil {
		return nil, err
	}

	var (
		result []models.Flight
		err    error
	)
	if input.Direction != "" && input.Group != "" {
		result, err = h.directory.FindByDirectionAndGroup(ctx, input.Event, models.FlightDirection(input.Direction), input.Group)
	} else {
		result, err = h.directory.ListByEvent(ctx, input.Event)
	}
	if err != nil {
		return nil, mapAdminError(err)
	}

	return &ListFlightsResponse{Body: result}, nil
}

type SaveAssignmentRequest struct {
	auth.AuthInput
	Body struct {
		ID               uint   `json:"id,omitempty" doc:"Set to edit an existing assignment"`
		Event            string `json:"event" required:"true"`
		GroupName        string `json:"group_name" required:"true"`
		AirportCode      string `json:"airport_code" required:"true" doc:"IATA code the group departs from"`
		OutboundFlightID uint   `json:"outbound_flight_id" required:"true"`
		ReturnFlightID   uint   `json:"return_flight_id" required:"true"`
		Status           string `json:"status,omitempty" doc:"active, inactive or full; defaults to active"`
		Priority         int    `json:"priority,omitempty"`
		MaxCount         *int   `json:"max_count,omitempty" doc:"Seat cap for the group, omit for uncapped"`
	}
}

type AssignmentResponse struct {
	Body models.GroupFlightAssignment
}

func (h *AdminHandler) HandleSaveAssignment(ctx context.Context, input *SaveAssignmentRequest) (*AssignmentResponse, error) {
	if _, err := h.authHandler.AuthorizeAdmin(ctx, input.Cookie); err != nil {
		return nil, err
	}

	assignment := models.GroupFlightAssignment{
		Event:            input.Body.Event,
		GroupName:        input.Body.GroupName,
		AirportCode:      input.Body.AirportCode,
		OutboundFlightID: input.Body.OutboundFlightID,
		ReturnFlightID:   input.Body.ReturnFlightID,
		Status:           models.AssignmentStatus(input.Body.Status),
		Priority:         input.Body.Priority,
		MaxCount:         input.Body.MaxCount,
	}
	assignment.ID = input.Body.ID

	if err := h.resolver.SaveAssignment(ctx, &assignment); err != nil {
		return nil, mapAdminError(err)
	}

	return &AssignmentResponse{Body: assignment}, nil
}

type ListAssignmentsRequest struct {
	auth.AuthInput
	Event string `query:"event" required:"true"`
}

type ListAssignmentsResponse struct {
	Body []models.GroupFlightAssignment
}

func (h *AdminHandler) HandleListAssignments(ctx context.Context, input *ListAssignmentsRequest) (*ListAssignmentsResponse, error) {
	if _, err := h.authHandler.AuthorizeAdmin(ctx, input.Cookie); err != nil {
		return nil, err
	}

	assignments, err := h.resolver.ListByEvent(ctx, input.Event)
	if err != nil {
		return nil, mapAdminError(err)
	}

	return &ListAssignmentsResponse{Body: assignments}, nil
}

type SetRegistrationStatusRequest struct {
	auth.AuthInput
	Reference string `path:"reference" doc:"Registration reference code"`
	Body      struct {
		Status models.RegistrationStatus `json:"status" required:"true" doc:"pending, confirmed, cancelled or waitlisted"`
	}
}

func (h *AdminHandler) HandleSetRegistrationStatus(ctx context.Context, input *SetRegistrationStatusRequest) (*RegistrationResponse, error) {
	if _, err := h.authHandler.AuthorizeAdmin(ctx, input.Cookie); err != nil {
		return nil, err
	}

	updated, err := h.service.SetStatus(ctx, input.Reference, input.Body.Status)
	if err != nil {
		return nil, mapRegistrationError(err)
	}

	return &RegistrationResponse{Body: updated}, nil
}

type SaveEventSettingsRequest struct {
	auth.AuthInput
	Body struct {
		Event              string   `json:"event" required:"true"`
		RoomTypes          []string `json:"room_types,omitempty"`
		CompanionAllowed   bool     `json:"companion_allowed,omitempty"`
		BusinessClassOffer bool     `json:"business_class_offer,omitempty"`
		RegistrationOpen   bool     `json:"registration_open,omitempty"`
		Deadline           string   `json:"deadline,omitempty" doc:"Last day to register, YYYY-MM-DD"`
	}
}

type EventSettingsResponse struct {
	Body models.EventSettings
}

func (h *AdminHandler) HandleSaveEventSettings(ctx context.Context, input *SaveEventSettingsRequest) (*EventSettingsResponse, error) {
	if _, err := h.authHandler.AuthorizeAdmin(ctx, input.Cookie); err != nil {
		return nil, err
	}

	var settings models.EventSettings
	err := h.db.WithContext(ctx).
		Where("event = ?", input.Body.Event).
		FirstOrInit(&settings, models.EventSettings{Event: input.Body.Event}).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load event settings: " + err.Error())
	}

	settings.RoomTypes = strings.Join(input.Body.RoomTypes, ",")
	settings.CompanionAllowed = input.Body.CompanionAllowed
	settings.BusinessClassOffer = input.Body.BusinessClassOffer
	settings.RegistrationOpen = input.Body.RegistrationOpen
	settings.Deadline = input.Body.Deadline

	if err := h.db.WithContext(ctx).Save(&settings).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to save event settings: " + err.Error())
	}

	return &EventSettingsResponse{Body: settings}, nil
}

func mapAdminError(err error) error {
	if errors.Is(err, flights.ErrInvalidDirection) {
		return huma.Error400BadRequest(err.Error())
	}
	return mapRegistrationError(err)
}
