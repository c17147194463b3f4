package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/tripdesk/registration-api/internal/auth"
	"github.com/tripdesk/registration-api/internal/config"
	"github.com/tripdesk/registration-api/internal/flights"
	"github.com/tripdesk/registration-api/internal/models"
	"github.com/tripdesk/registration-api/internal/registration"
)

type RegistrationHandler struct {
	service     *registration.Service
	authHandler *auth.AuthHandler
	cfg         *config.Config
}

func NewRegistrationHandler(service *registration.Service, authHandler *auth.AuthHandler, cfg *config.Config) *RegistrationHandler {
	return &RegistrationHandler{service: service, authHandler: authHandler, cfg: cfg}
}

// eventOrDefault applies the deployment's default event when the caller
// sent none and rejects events outside the enabled list. The default lives
// here in the API layer; core components always get an explicit event.
func (h *RegistrationHandler) eventOrDefault(event string) (string, error) {
	if event == "" {
		event = h.cfg.DefaultEvent
	}
	if len(h.cfg.EnabledEvents) > 0 {
		for _, enabled := range h.cfg.EnabledEvents {
			if enabled == event {
				return event, nil
			}
		}
		return "", huma.Error400BadRequest(fmt.Sprintf("Event %q is not enabled", event))
	}
	return event, nil
}

type SubmitRegistrationRequest struct {
	auth.AuthInput
	Body struct {
		Event string            `json:"event,omitempty" doc:"Event to register for, defaults to the configured event"`
		Form  models.FormFields `json:"form" doc:"Registration form payload"`
	}
}

type RegistrationResponse struct {
	Body models.Registration
}

func (h *RegistrationHandler) HandleSubmit(ctx context.Context, input *SubmitRegistrationRequest) (*RegistrationResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	event, err := h.eventOrDefault(input.Body.Event)
	if err != nil {
		return nil, err
	}

	stored, err := h.service.Submit(ctx, userID, event, input.Body.Form)
	if err != nil {
		return nil, mapRegistrationError(err)
	}

	return &RegistrationResponse{Body: stored}, nil
}

type MyRegistrationRequest struct {
	auth.AuthInput
	Event string `query:"event" doc:"Event to look up, defaults to the configured event"`
}

func (h *RegistrationHandler) HandleMyRegistration(ctx context.Context, input *MyRegistrationRequest) (*RegistrationResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	event, err := h.eventOrDefault(input.Event)
	if err != nil {
		return nil, err
	}

	reg, err := h.service.Get(ctx, userID, event)
	if err != nil {
		return nil, mapRegistrationError(err)
	}

	return &RegistrationResponse{Body: reg}, nil
}

type CancelRegistrationRequest struct {
	auth.AuthInput
	Body struct {
		Event  string `json:"event,omitempty" doc:"Event of the registration to cancel"`
		Reason string `json:"reason,omitempty" doc:"Why the registration is cancelled"`
	}
}

func (h *RegistrationHandler) HandleCancel(ctx context.Context, input *CancelRegistrationRequest) (*RegistrationResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	event, err := h.eventOrDefault(input.Body.Event)
	if err != nil {
		return nil, err
	}

	cancelled, err := h.service.Cancel(ctx, userID, event, input.Body.Reason)
	if err != nil {
		return nil, mapRegistrationError(err)
	}

	return &RegistrationResponse{Body: cancelled}, nil
}

type RegistrationHistoryRequest struct {
	auth.AuthInput
	Event string `query:"event" doc:"Event to look up, defaults to the configured event"`
}

type RegistrationHistoryResponse struct {
	Body []models.RegistrationHistory
}

func (h *RegistrationHandler) HandleHistory(ctx context.Context, input *RegistrationHistoryRequest) (*RegistrationHistoryResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	event, err := h.eventOrDefault(input.Event)
	if err != nil {
		return nil, err
	}

	entries, err := h.service.History(ctx, userID, event)
	if err != nil {
		return nil, mapRegistrationError(err)
	}

	res := &RegistrationHistoryResponse{Body: entries}
	return res, nil
}

type RegistrationQRRequest struct {
	auth.AuthInput
	Event string `query:"event" doc:"Event to look up, defaults to the configured event"`
}

type RegistrationQRResponse struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// HandleQR renders the caller's registration reference as a QR code, so the
// on-site staff can scan travellers in at the departure gate.
func (h *RegistrationHandler) HandleQR(ctx context.Context, input *RegistrationQRRequest) (*RegistrationQRResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	event, err := h.eventOrDefault(input.Event)
	if err != nil {
		return nil, err
	}

	reg, err := h.service.Get(ctx, userID, event)
	if err != nil {
		return nil, mapRegistrationError(err)
	}

	url := fmt.Sprintf("%s?ref=%s", h.cfg.FrontendURL, reg.Reference)
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate QR code")
	}

	return &RegistrationQRResponse{ContentType: "image/png", Body: png}, nil
}

// mapRegistrationError translates the typed errors of the core packages
// into HTTP responses. Field-level failures carry per-field details so the
// form can be re-rendered with specific messages.
func mapRegistrationError(err error) error {
	var verr *registration.ValidationError
	if errors.As(err, &verr) {
		details := make([]error, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			details = append(details, &huma.ErrorDetail{
				Message:  f.Reason,
				Location: "body.form." + f.Field,
			})
		}
		return huma.Error400BadRequest("Registration payload failed validation", details...)
	}

	var terr *registration.InvalidTransitionError
	if errors.As(err, &terr) {
		return huma.Error409Conflict(terr.Error())
	}

	var aerr *flights.InvalidAssignmentError
	if errors.As(err, &aerr) {
		return huma.Error400BadRequest(aerr.Error())
	}

	switch {
	case errors.Is(err, flights.ErrNoAssignment):
		return huma.Error400BadRequest("No flight assignment found for the chosen departure airport", &huma.ErrorDetail{
			Message:  "has no flight assignment for this event",
			Location: "body.form.departure_airport",
		})
	case errors.Is(err, flights.ErrAmbiguousAssignment):
		return huma.Error500InternalServerError("Conflicting flight assignments exist for this departure airport")
	case errors.Is(err, flights.ErrAssignmentFull):
		return huma.Error409Conflict("The departure group is at capacity")
	case errors.Is(err, flights.ErrFlightNotFound),
		errors.Is(err, flights.ErrAssignmentNotFound),
		errors.Is(err, registration.ErrRegistrationNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, registration.ErrRegistrationClosed):
		return huma.Error403Forbidden("Registration is closed for this event")
	default:
		return huma.Error500InternalServerError("Failed to process registration: " + err.Error())
	}
}
