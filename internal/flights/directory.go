package flights

import (
	"context"
	"errors"

	"github.com/tripdesk/registration-api/internal/models"
	"gorm.io/gorm"
)

// Directory stores and retrieves flight records. It has no logic beyond
// lookup; resolving which flight a group should use lives in Resolver.
type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

func (d *Directory) GetFlight(ctx context.Context, id uint) (models.Flight, error) {
	var flight models.Flight
	if err := d.db.WithContext(ctx).First(&flight, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Flight{}, ErrFlightNotFound
		}
		return models.Flight{}, err
	}
	return flight, nil
}

// FindByDirectionAndGroup returns every leg for a group in one direction.
// Multiple legs are possible, e.g. a connecting flight for a group routed
// through a different departure airport.
func (d *Directory) FindByDirectionAndGroup(ctx context.Context, event string, direction models.FlightDirection, group string) ([]models.Flight, error) {
	var result []models.Flight
	err := d.db.WithContext(ctx).
		Where("event = ? AND direction = ? AND group_name = ?", event, direction, group).
		Order("departure_date asc, departure_local_time asc").
		Find(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (d *Directory) ListByEvent(ctx context.Context, event string) ([]models.Flight, error) {
	var result []models.Flight
	if err := d.db.WithContext(ctx).Where("event = ?", event).Order("group_name asc").Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// CreateFlight persists a new flight after checking the direction value.
// Flights are immutable afterwards except through UpdateFlight (admin edit).
func (d *Directory) CreateFlight(ctx context.Context, flight *models.Flight) error {
	if flight.Direction != models.DirectionOutbound && flight.Direction != models.DirectionReturn {
		return ErrInvalidDirection
	}
	return d.db.WithContext(ctx).Create(flight).Error
}

func (d *Directory) UpdateFlight(ctx context.Context, flight *models.Flight) error {
	if flight.Direction != models.DirectionOutbound && flight.Direction != models.DirectionReturn {
		return ErrInvalidDirection
	}
	var existing models.Flight
	if err := d.db.WithContext(ctx).First(&existing, flight.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFlightNotFound
		}
		return err
	}
	flight.CreatedAt = existing.CreatedAt
	return d.db.WithContext(ctx).Save(flight).Error
}
