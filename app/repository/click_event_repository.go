package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/JonasWeidner/StayAtlas/app/models"
)

// clickEventRepository implements the ClickEventRepository interface
type clickEventRepository struct {
	db *gorm.DB
}

// NewClickEventRepository creates a new click event repository instance
func NewClickEventRepository(db *gorm.DB) ClickEventRepository {
	return &clickEventRepository{db: db}
}

// Create appends one click to the log. Rows are never updated or deleted.
func (r *clickEventRepository) Create(event *models.ClickEvent) error {
	return r.db.Create(event).Error
}

// GetByPropertyIDs retrieves clicks for a set of properties. A zero `since`
// returns the full history.
func (r *clickEventRepository) GetByPropertyIDs(propertyIDs []uint, since time.Time) ([]models.ClickEvent, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}
	var events []models.ClickEvent
	q := r.db.Where("property_id IN ?", propertyIDs)
	if !since.IsZero() {
		q = q.Where("occurred_at >= ?", since)
	}
	err := q.Order("occurred_at ASC").Find(&events).Error
	return events, err
}

// Count returns the all-time click total across the whole directory
func (r *clickEventRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.ClickEvent{}).Count(&count).Error
	return count, err
}
