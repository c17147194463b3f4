package registration

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tripdesk/registration-api/internal/models"
	"gorm.io/gorm"
)

// transitions is the full status state machine. cancelled is terminal.
var transitions = map[models.RegistrationStatus][]models.RegistrationStatus{
	models.StatusPending:    {models.StatusConfirmed, models.StatusCancelled, models.StatusWaitlisted},
	models.StatusConfirmed:  {models.StatusCancelled},
	models.StatusWaitlisted: {models.StatusConfirmed, models.StatusCancelled},
	models.StatusCancelled:  {},
}

func canTransition(from, to models.RegistrationStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Store is the durable home of registrations. The (user_id, event) unique
// index is what enforces one registration per user per event; application
// code only decides between the create and update paths.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Upsert creates the user's registration for the event, or replaces its
// flights, group, form data and status if one already exists, refreshing
// SubmittedAt either way. A history snapshot is written per call. Two
// concurrent first submissions race on the unique index; the loser retries
// as an update, so exactly one record survives.
func (s *Store) Upsert(ctx context.Context, userID uint, event string, rec models.Registration) (models.Registration, error) {
	stored, err := s.upsertOnce(ctx, userID, event, rec)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		stored, err = s.upsertOnce(ctx, userID, event, rec)
	}
	return stored, err
}

func (s *Store) upsertOnce(ctx context.Context, userID uint, event string, rec models.Registration) (models.Registration, error) {
	var registration models.Registration
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND event = ?", userID, event).
			FirstOrInit(&registration, models.Registration{UserID: userID, Event: event}).Error; err != nil {
			return err
		}

		if registration.Reference == "" {
			registration.Reference = uuid.NewString()
		}
		registration.OutboundFlightID = rec.OutboundFlightID
		registration.ReturnFlightID = rec.ReturnFlightID
		registration.GroupName = rec.GroupName
		registration.FormFields = rec.FormFields
		registration.Status = rec.Status
		if registration.Status == "" {
			registration.Status = models.StatusPending
		}
		registration.SubmittedAt = time.Now()
		registration.CancelReason = ""
		registration.CancelledAt = nil

		if err := tx.Save(&registration).Error; err != nil {
			return err
		}

		history := models.RegistrationHistory{
			RegistrationID:   registration.ID,
			UserID:           registration.UserID,
			Event:            registration.Event,
			OutboundFlightID: registration.OutboundFlightID,
			ReturnFlightID:   registration.ReturnFlightID,
			GroupName:        registration.GroupName,
			Status:           registration.Status,
			FormFields:       registration.FormFields,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return models.Registration{}, err
	}
	return registration, nil
}

func (s *Store) FindByUser(ctx context.Context, userID uint, event string) (models.Registration, error) {
	var registration models.Registration
	err := s.db.WithContext(ctx).Where("user_id = ? AND event = ?", userID, event).First(&registration).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Registration{}, ErrRegistrationNotFound
		}
		return models.Registration{}, err
	}
	return registration, nil
}

func (s *Store) FindByReference(ctx context.Context, reference string) (models.Registration, error) {
	var registration models.Registration
	err := s.db.WithContext(ctx).Where("reference = ?", reference).First(&registration).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Registration{}, ErrRegistrationNotFound
		}
		return models.Registration{}, err
	}
	return registration, nil
}

// History returns the submission snapshots for (user, event), oldest first.
func (s *Store) History(ctx context.Context, userID uint, event string) ([]models.RegistrationHistory, error) {
	var entries []models.RegistrationHistory
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND event = ?", userID, event).
		Order("created_at asc, id asc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// UpdateStatus moves a registration through the state machine. Transitions
// not in the table fail with InvalidTransitionError; in particular nothing
// leaves cancelled.
func (s *Store) UpdateStatus(ctx context.Context, id uint, to models.RegistrationStatus) (models.Registration, error) {
	var registration models.Registration
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&registration, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRegistrationNotFound
			}
			return err
		}
		if !canTransition(registration.Status, to) {
			return &InvalidTransitionError{From: registration.Status, To: to}
		}
		registration.Status = to
		if to == models.StatusCancelled {
			now := time.Now()
			registration.CancelledAt = &now
		}
		return tx.Save(&registration).Error
	})
	if err != nil {
		return models.Registration{}, err
	}
	return registration, nil
}

// Cancel transitions to cancelled recording the reason and timestamp.
// Registrations are never hard-deleted in normal operation.
func (s *Store) Cancel(ctx context.Context, id uint, reason string) (models.Registration, error) {
	var registration models.Registration
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&registration, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRegistrationNotFound
			}
			return err
		}
		if !canTransition(registration.Status, models.StatusCancelled) {
			return &InvalidTransitionError{From: registration.Status, To: models.StatusCancelled}
		}
		now := time.Now()
		registration.Status = models.StatusCancelled
		registration.CancelReason = reason
		registration.CancelledAt = &now
		return tx.Save(&registration).Error
	})
	if err != nil {
		return models.Registration{}, err
	}
	return registration, nil
}
