package repository

import (
	"gorm.io/gorm"

	"github.com/JonasWeidner/StayAtlas/app/models"
)

// propertyRepository implements the PropertyRepository interface
type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new property repository instance
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

// Create inserts a new property listing
func (r *propertyRepository) Create(property *models.Property) error {
	return r.db.Create(property).Error
}

// GetByID retrieves a property by its ID
func (r *propertyRepository) GetByID(id uint) (*models.Property, error) {
	var property models.Property
	if err := r.db.First(&property, id).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

// GetBySlug retrieves a property by its public slug
func (r *propertyRepository) GetBySlug(slug string) (*models.Property, error) {
	var property models.Property
	if err := r.db.Where("slug = ?", slug).First(&property).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

// GetByHostID retrieves all properties belonging to a host, including hidden ones
func (r *propertyRepository) GetByHostID(hostID uint) ([]models.Property, error) {
	var properties []models.Property
	err := r.db.Where("host_id = ?", hostID).Order("created_at DESC").Find(&properties).Error
	return properties, err
}

// ListVisible retrieves every directory-visible property. Visibility is the
// billing-owned is_active flag; the directory never inspects subscription
// status directly.
func (r *propertyRepository) ListVisible() ([]models.Property, error) {
	var properties []models.Property
	err := r.db.Where("is_active = ?", true).Find(&properties).Error
	return properties, err
}

// Update saves all fields of an existing property
func (r *propertyRepository) Update(property *models.Property) error {
	return r.db.Save(property).Error
}

// Delete soft deletes a property by its ID
func (r *propertyRepository) Delete(id uint) error {
	return r.db.Delete(&models.Property{}, id).Error
}

// Count returns the total number of properties
func (r *propertyRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Property{}).Count(&count).Error
	return count, err
}

// CountVisible returns the number of directory-visible properties
func (r *propertyRepository) CountVisible() (int64, error) {
	var count int64
	err := r.db.Model(&models.Property{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

// SlugExists checks if a slug already exists
func (r *propertyRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Property{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}
