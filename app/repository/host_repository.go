package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/JonasWeidner/StayAtlas/app/models"
)

// hostRepository implements the HostRepository interface
type hostRepository struct {
	db *gorm.DB
}

// NewHostRepository creates a new host repository instance
func NewHostRepository(db *gorm.DB) HostRepository {
	return &hostRepository{db: db}
}

// Create inserts a new host account
func (r *hostRepository) Create(host *models.Host) error {
	return r.db.Create(host).Error
}

// GetByID retrieves a host by its ID
func (r *hostRepository) GetByID(id uint) (*models.Host, error) {
	var host models.Host
	if err := r.db.First(&host, id).Error; err != nil {
		return nil, err
	}
	return &host, nil
}

// GetByAuthSubject retrieves a host by its identity-provider subject
func (r *hostRepository) GetByAuthSubject(subject string) (*models.Host, error) {
	var host models.Host
	if err := r.db.Where("auth_subject = ?", subject).First(&host).Error; err != nil {
		return nil, err
	}
	return &host, nil
}

// GetOrCreateByAuthSubject resolves the host record for a verified token
// subject, provisioning one on first sight.
func (r *hostRepository) GetOrCreateByAuthSubject(subject, email, name string) (*models.Host, error) {
	host, err := r.GetByAuthSubject(subject)
	if err == nil {
		return host, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	host = &models.Host{
		AuthSubject: subject,
		Email:       email,
		Name:        name,
	}
	if err := r.db.Create(host).Error; err != nil {
		// Lost a create race: another request provisioned the same subject.
		if existing, lookupErr := r.GetByAuthSubject(subject); lookupErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return host, nil
}

// Update saves all fields of an existing host
func (r *hostRepository) Update(host *models.Host) error {
	return r.db.Save(host).Error
}
