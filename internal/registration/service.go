package registration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/tripdesk/registration-api/internal/flights"
	"github.com/tripdesk/registration-api/internal/models"
	"gorm.io/gorm"
)

// Service orchestrates a submission: resolve the flight pair for the chosen
// group, validate the payload, then upsert. It is the only entry point the
// HTTP layer calls; collaborator errors pass through typed and unwrapped so
// handlers can render field-specific messages.
type Service struct {
	db       *gorm.DB
	resolver *flights.Resolver
	store    *Store
}

func NewService(db *gorm.DB, resolver *flights.Resolver, store *Store) *Service {
	return &Service{db: db, resolver: resolver, store: store}
}

func seatHeld(status models.RegistrationStatus) bool {
	return status == models.StatusPending || status == models.StatusConfirmed
}

// FormConfigFor assembles a fresh, immutable FormConfig for the event from
// the admin-edited settings and the live assignments. A new value is built
// per call; nothing shared is ever mutated.
func (s *Service) FormConfigFor(ctx context.Context, event string) (FormConfig, error) {
	cfg := FormConfig{}

	var settings models.EventSettings
	err := s.db.WithContext(ctx).Where("event = ?", event).First(&settings).Error
	if err == nil {
		cfg.RoomTypes = splitOptions(settings.RoomTypes)
		cfg.CompanionDisallowed = !settings.CompanionAllowed
		cfg.BusinessClassDisallowed = !settings.BusinessClassOffer
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return FormConfig{}, err
	}

	groups, err := s.resolver.LiveGroups(ctx, event)
	if err != nil {
		return FormConfig{}, err
	}
	cfg.DepartureGroups = groups

	return cfg, nil
}

// submissionOpen checks the event's registration window. Events without a
// settings row are open.
func (s *Service) submissionOpen(ctx context.Context, event string) error {
	var settings models.EventSettings
	err := s.db.WithContext(ctx).Where("event = ?", event).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !settings.RegistrationOpen {
		return ErrRegistrationClosed
	}
	if settings.Deadline != "" {
		deadline, err := time.Parse(dateLayout, settings.Deadline)
		if err == nil && time.Now().After(deadline.Add(24*time.Hour)) {
			return ErrRegistrationClosed
		}
	}
	return nil
}

// Submit is the whole submission pipeline. Steps 1 and 2 (resolve, validate)
// are read-only; only the final upsert mutates state, so a failure anywhere
// earlier leaves nothing inconsistent behind.
func (s *Service) Submit(ctx context.Context, userID uint, event string, payload models.FormFields) (models.Registration, error) {
	if err := s.submissionOpen(ctx, event); err != nil {
		return models.Registration{}, err
	}

	// Step 1: resolve the current flight pair for the chosen group. Admins
	// may have reassigned flights since the user first picked the group.
	pair, err := s.resolver.ResolveFlightPair(ctx, event, payload.DepartureAirport)
	if err != nil {
		return models.Registration{}, fmt.Errorf("resolve flight pair: %w", err)
	}

	// Step 2: validate against a config assembled for this request.
	cfg, err := s.FormConfigFor(ctx, event)
	if err != nil {
		return models.Registration{}, fmt.Errorf("load form config: %w", err)
	}
	if err := Validate(payload, cfg); err != nil {
		return models.Registration{}, fmt.Errorf("validate payload: %w", err)
	}

	// Step 3: capacity accounting, then the upsert.
	prior, priorErr := s.store.FindByUser(ctx, userID, event)
	if priorErr != nil && !errors.Is(priorErr, ErrRegistrationNotFound) {
		return models.Registration{}, fmt.Errorf("load prior registration: %w", priorErr)
	}
	hasPrior := priorErr == nil

	status := models.StatusPending
	needsSeat := !hasPrior || prior.GroupName != payload.DepartureAirport || !seatHeld(prior.Status)
	tookSeat := false
	if needsSeat {
		switch err := s.resolver.IncrementCapacity(ctx, pair.AssignmentID); {
		case err == nil:
			tookSeat = true
		case errors.Is(err, flights.ErrAssignmentFull):
			// The group is full; park the registration instead of failing.
			status = models.StatusWaitlisted
		default:
			return models.Registration{}, fmt.Errorf("reserve group seat: %w", err)
		}
	}

	rec := models.Registration{
		OutboundFlightID: pair.OutboundFlightID,
		ReturnFlightID:   pair.ReturnFlightID,
		GroupName:        payload.DepartureAirport,
		Status:           status,
		FormFields:       payload,
	}

	stored, err := s.store.Upsert(ctx, userID, event, rec)
	if err != nil {
		if tookSeat {
			if derr := s.resolver.DecrementCapacity(ctx, pair.AssignmentID); derr != nil {
				log.Printf("Failed to release seat after upsert error: %v", derr)
			}
		}
		return models.Registration{}, fmt.Errorf("store registration: %w", err)
	}

	// Release the old group's seat once the move is durable.
	if hasPrior && seatHeld(prior.Status) && prior.GroupName != payload.DepartureAirport {
		s.releaseSeat(ctx, event, prior.GroupName)
	}

	s.copyProfile(ctx, userID, payload)

	return stored, nil
}

// Get returns the caller's own registration for the event.
func (s *Service) Get(ctx context.Context, userID uint, event string) (models.Registration, error) {
	return s.store.FindByUser(ctx, userID, event)
}

// History returns the caller's submission snapshots, oldest first.
func (s *Service) History(ctx context.Context, userID uint, event string) ([]models.RegistrationHistory, error) {
	return s.store.History(ctx, userID, event)
}

// Cancel transitions the caller's registration to cancelled and gives the
// group seat back when one was held.
func (s *Service) Cancel(ctx context.Context, userID uint, event, reason string) (models.Registration, error) {
	prior, err := s.store.FindByUser(ctx, userID, event)
	if err != nil {
		return models.Registration{}, err
	}

	cancelled, err := s.store.Cancel(ctx, prior.ID, reason)
	if err != nil {
		return models.Registration{}, err
	}

	if seatHeld(prior.Status) {
		s.releaseSeat(ctx, event, prior.GroupName)
	}

	return cancelled, nil
}

// SetStatus is the admin path through the state machine, keeping the seat
// counter in step: entering a seat-holding status takes a seat (and fails
// with ErrAssignmentFull when none is left), leaving one releases it.
func (s *Service) SetStatus(ctx context.Context, reference string, to models.RegistrationStatus) (models.Registration, error) {
	reg, err := s.store.FindByReference(ctx, reference)
	if err != nil {
		return models.Registration{}, err
	}
	if !canTransition(reg.Status, to) {
		return models.Registration{}, &InvalidTransitionError{From: reg.Status, To: to}
	}

	tookSeat := false
	if !seatHeld(reg.Status) && seatHeld(to) {
		pair, err := s.resolver.ResolveFlightPair(ctx, reg.Event, reg.GroupName)
		if err != nil {
			return models.Registration{}, fmt.Errorf("resolve flight pair: %w", err)
		}
		if err := s.resolver.IncrementCapacity(ctx, pair.AssignmentID); err != nil {
			return models.Registration{}, err
		}
		tookSeat = true
	}

	updated, err := s.store.UpdateStatus(ctx, reg.ID, to)
	if err != nil {
		if tookSeat {
			s.releaseSeat(ctx, reg.Event, reg.GroupName)
		}
		return models.Registration{}, err
	}

	if seatHeld(reg.Status) && !seatHeld(to) {
		s.releaseSeat(ctx, reg.Event, reg.GroupName)
	}

	return updated, nil
}

// releaseSeat decrements the capacity counter of the group's current
// assignment. Failures are logged, not propagated: the registration change
// already happened and a stale counter is admin-correctable.
func (s *Service) releaseSeat(ctx context.Context, event, group string) {
	pair, err := s.resolver.ResolveFlightPair(ctx, event, group)
	if err != nil {
		log.Printf("Failed to resolve assignment while releasing seat for group %q: %v", group, err)
		return
	}
	if err := s.resolver.DecrementCapacity(ctx, pair.AssignmentID); err != nil {
		log.Printf("Failed to release seat for group %q: %v", group, err)
	}
}

// copyProfile mirrors the submitted identity fields onto the user record so
// the profile collaborators see current contact data. Best effort.
func (s *Service) copyProfile(ctx context.Context, userID uint, payload models.FormFields) {
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"first_name":   payload.FirstName,
		"last_name":    payload.LastName,
		"email":        payload.Email,
		"mobile_phone": payload.MobilePhone,
	}).Error
	if err != nil {
		log.Printf("Failed to copy profile fields to user %d: %v", userID, err)
	}
}
