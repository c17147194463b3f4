package flights

import (
	"context"
	"errors"

	"github.com/tripdesk/registration-api/internal/models"
	"gorm.io/gorm"
)

// FlightPair is the result of resolving a departure group to its currently
// assigned flights. AssignmentID identifies the assignment that produced the
// pair so callers can run capacity operations against it.
type FlightPair struct {
	AssignmentID     uint
	OutboundFlightID uint
	ReturnFlightID   uint
}

// Resolver answers "which flight pair does this group use right now" and
// guards the assignment invariants at write time.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// ResolveFlightPair returns the flight pair for the highest-priority live
// assignment of (event, group). Full assignments still resolve; whether the
// caller waitlists is a capacity decision, not a routing one.
func (r *Resolver) ResolveFlightPair(ctx context.Context, event, group string) (FlightPair, error) {
	var assignments []models.GroupFlightAssignment
	err := r.db.WithContext(ctx).
		Where("event = ? AND group_name = ? AND status <> ?", event, group, models.AssignmentInactive).
		Order("priority desc").
		Limit(2).
		Find(&assignments).Error
	if err != nil {
		return FlightPair{}, err
	}

	if len(assignments) == 0 {
		return FlightPair{}, ErrNoAssignment
	}
	if len(assignments) > 1 && assignments[0].Priority == assignments[1].Priority {
		// The write-time uniqueness check should make this unreachable.
		return FlightPair{}, ErrAmbiguousAssignment
	}

	a := assignments[0]
	return FlightPair{
		AssignmentID:     a.ID,
		OutboundFlightID: a.OutboundFlightID,
		ReturnFlightID:   a.ReturnFlightID,
	}, nil
}

// SaveAssignment creates or updates an assignment after validating it:
// the referenced flights must exist, point the right way, belong to the
// assignment's event, and the outbound departure code must match the
// assignment's airport code. A second live assignment for the same
// (event, group, airport) triple is rejected.
func (r *Resolver) SaveAssignment(ctx context.Context, a *models.GroupFlightAssignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var outbound, ret models.Flight
		if err := tx.First(&outbound, a.OutboundFlightID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &InvalidAssignmentError{Rule: "outbound flight does not exist"}
			}
			return err
		}
		if err := tx.First(&ret, a.ReturnFlightID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &InvalidAssignmentError{Rule: "return flight does not exist"}
			}
			return err
		}

		if outbound.Direction != models.DirectionOutbound {
			return &InvalidAssignmentError{Rule: "outbound flight must have direction outbound"}
		}
		if ret.Direction != models.DirectionReturn {
			return &InvalidAssignmentError{Rule: "return flight must have direction return"}
		}
		if outbound.Event != a.Event {
			return &InvalidAssignmentError{Rule: "outbound flight belongs to a different event"}
		}
		if ret.Event != a.Event {
			return &InvalidAssignmentError{Rule: "return flight belongs to a different event"}
		}
		if outbound.Departure.IATACode != a.AirportCode {
			return &InvalidAssignmentError{Rule: "outbound departure airport code does not match assignment airport code"}
		}

		switch a.Status {
		case "":
			a.Status = models.AssignmentActive
		case models.AssignmentActive, models.AssignmentInactive, models.AssignmentFull:
		default:
			return &InvalidAssignmentError{Rule: "status must be active, inactive or full"}
		}

		if a.ID != 0 {
			var existing models.GroupFlightAssignment
			if err := tx.First(&existing, a.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrAssignmentNotFound
				}
				return err
			}
			// Admin edits must not reset the audit timestamp or the seat counter.
			a.CreatedAt = existing.CreatedAt
			if a.CurrentCount == 0 {
				a.CurrentCount = existing.CurrentCount
			}
		}

		if a.Status != models.AssignmentInactive {
			var clash int64
			err := tx.Model(&models.GroupFlightAssignment{}).
				Where("event = ? AND group_name = ? AND airport_code = ? AND status <> ? AND id <> ?",
					a.Event, a.GroupName, a.AirportCode, models.AssignmentInactive, a.ID).
				Count(&clash).Error
			if err != nil {
				return err
			}
			if clash > 0 {
				return &InvalidAssignmentError{Rule: "an active assignment already exists for this event, group and airport"}
			}
		}

		return tx.Save(a).Error
	})
}

// IncrementCapacity takes one seat on the assignment. The counter bump is a
// single guarded UPDATE so concurrent registrations cannot lose updates.
// When the last seat goes, status flips to full.
func (r *Resolver) IncrementCapacity(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.GroupFlightAssignment{}).
			Where("id = ? AND (max_count IS NULL OR current_count < max_count)", id).
			Update("current_count", gorm.Expr("current_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var a models.GroupFlightAssignment
			if err := tx.First(&a, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrAssignmentNotFound
				}
				return err
			}
			if a.Status == models.AssignmentActive {
				if err := tx.Model(&a).Update("status", models.AssignmentFull).Error; err != nil {
					return err
				}
			}
			return ErrAssignmentFull
		}

		return tx.Model(&models.GroupFlightAssignment{}).
			Where("id = ? AND max_count IS NOT NULL AND current_count >= max_count AND status = ?",
				id, models.AssignmentActive).
			Update("status", models.AssignmentFull).Error
	})
}

// DecrementCapacity releases one seat. It never fails on an empty counter,
// it just clamps at zero; dropping below max reverts full back to active.
func (r *Resolver) DecrementCapacity(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.GroupFlightAssignment{}).
			Where("id = ? AND current_count > 0", id).
			Update("current_count", gorm.Expr("current_count - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.GroupFlightAssignment{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrAssignmentNotFound
			}
			return nil
		}

		return tx.Model(&models.GroupFlightAssignment{}).
			Where("id = ? AND status = ? AND (max_count IS NULL OR current_count < max_count)",
				id, models.AssignmentFull).
			Update("status", models.AssignmentActive).Error
	})
}

// LiveGroups lists the departure group labels that currently have a live
// assignment for the event. Feeds the per-request form configuration.
func (r *Resolver) LiveGroups(ctx context.Context, event string) ([]string, error) {
	var groups []string
	err := r.db.WithContext(ctx).
		Model(&models.GroupFlightAssignment{}).
		Where("event = ? AND status <> ?", event, models.AssignmentInactive).
		Distinct().
		Order("group_name asc").
		Pluck("group_name", &groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// ListByEvent returns every assignment for an event, live or not.
func (r *Resolver) ListByEvent(ctx context.Context, event string) ([]models.GroupFlightAssignment, error) {
	var assignments []models.GroupFlightAssignment
	err := r.db.WithContext(ctx).
		Where("event = ?", event).
		Order("group_name asc, priority desc").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}
