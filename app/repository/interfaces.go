package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/JonasWeidner/StayAtlas/app/models"
)

// PropertyRepository defines the interface for property-related database operations
type PropertyRepository interface {
	Create(property *models.Property) error
	GetByID(id uint) (*models.Property, error)
	GetBySlug(slug string) (*models.Property, error)
	GetByHostID(hostID uint) ([]models.Property, error)
	ListVisible() ([]models.Property, error)
	Update(property *models.Property) error
	Delete(id uint) error
	Count() (int64, error)
	CountVisible() (int64, error)
	SlugExists(slug string) (bool, error)
}

// HostRepository defines the interface for host-related database operations
type HostRepository interface {
	Create(host *models.Host) error
	GetByID(id uint) (*models.Host, error)
	GetByAuthSubject(subject string) (*models.Host, error)
	GetOrCreateByAuthSubject(subject, email, name string) (*models.Host, error)
	Update(host *models.Host) error
}

// ClickEventRepository defines the interface for the append-only click log
type ClickEventRepository interface {
	Create(event *models.ClickEvent) error
	GetByPropertyIDs(propertyIDs []uint, since time.Time) ([]models.ClickEvent, error)
	Count() (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Property   PropertyRepository
	Host       HostRepository
	ClickEvent ClickEventRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Property:   NewPropertyRepository(db),
		Host:       NewHostRepository(db),
		ClickEvent: NewClickEventRepository(db),
	}
}
