package controllers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JonasWeidner/StayAtlas/app/models"
	"github.com/JonasWeidner/StayAtlas/app/repository"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/hostcontext"
)

// propertyInput is the host-editable subset of a listing. Billing-linked
// columns are absent on purpose: only the subscription state machine writes
// them.
type propertyInput struct {
	Title      string  `json:"title" validate:"required,max=200"`
	City       string  `json:"city" validate:"required,max=100"`
	State      string  `json:"state" validate:"required,max=50"`
	PostalCode string  `json:"postal_code" validate:"max=20"`
	Latitude   float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude  float64 `json:"longitude" validate:"gte=-180,lte=180"`

	BaseNightlyRate int64 `json:"base_nightly_rate" validate:"gte=0"`
	CleaningFee     int64 `json:"cleaning_fee" validate:"gte=0"`

	PropertyType string   `json:"property_type" validate:"required,oneof=house apartment condo cabin villa"`
	Experiences  []string `json:"experiences"`
	Amenities    []string `json:"amenities"`
	Bedrooms     int      `json:"bedrooms" validate:"gte=0,lte=50"`

	QuickResponseHost bool   `json:"quick_response_host"`
	BookingURL        string `json:"booking_url" validate:"omitempty,url,max=500"`
}

// HandleGetProperty returns one listing by slug. Hidden listings are only
// visible to their owner.
func HandleGetProperty(c *fiber.Ctx) error {
	slug := strings.TrimSpace(c.Params("slug"))
	property, err := repository.GetGlobalFactory().GetPropertyRepository().GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return propertyNotFound(c)
		}
		log.Printf("property lookup failed for slug %q: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}

	if !property.IsActive && hostcontext.GetHostID(c) != property.HostID {
		return propertyNotFound(c)
	}
	return c.JSON(property)
}

// HandleHostProperties lists the authenticated host's own listings, hidden
// ones included, with their subscription state.
func HandleHostProperties(c *fiber.Ctx) error {
	hostID := hostcontext.GetHostID(c)
	properties, err := repository.GetGlobalFactory().GetPropertyRepository().GetByHostID(hostID)
	if err != nil {
		log.Printf("listing properties for host %d failed: %v", hostID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}
	return c.JSON(fiber.Map{"count": len(properties), "properties": properties})
}

// HandleCreateProperty creates a listing in the pending_payment state. It
// becomes visible only once its subscription checkout completes.
func HandleCreateProperty(c *fiber.Ctx) error {
	var in propertyInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_body", "message": err.Error()})
	}
	if err := validate.Struct(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	property := &models.Property{
		Slug:              newSlug(in.Title),
		HostID:            hostcontext.GetHostID(c),
		Title:             in.Title,
		City:              in.City,
		State:             in.State,
		PostalCode:        in.PostalCode,
		Latitude:          in.Latitude,
		Longitude:         in.Longitude,
		BaseNightlyRate:   in.BaseNightlyRate,
		CleaningFee:       in.CleaningFee,
		PropertyType:      strings.ToLower(in.PropertyType),
		Experiences:       in.Experiences,
		Amenities:         in.Amenities,
		Bedrooms:          in.Bedrooms,
		QuickResponseHost: in.QuickResponseHost,
		BookingURL:        in.BookingURL,

		SubscriptionStatus: models.SubscriptionStatusPendingPayment,
		IsActive:           false,
	}
	repo := repository.GetGlobalFactory().GetPropertyRepository()
	if err := repo.Create(property); err != nil {
		// The slug may have been taken between the availability check and
		// the insert; one suffixed retry settles the race.
		property.Slug = property.Slug + "-" + uuid.NewString()[:8]
		if err := repo.Create(property); err != nil {
			log.Printf("creating property failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(property)
}

// HandleUpdateProperty updates a listing's host-editable fields. Billing
// columns on the loaded row are carried through untouched.
func HandleUpdateProperty(c *fiber.Ctx) error {
	property, respErr := ownedPropertyFromParams(c)
	if property == nil {
		return respErr
	}

	var in propertyInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_body", "message": err.Error()})
	}
	if err := validate.Struct(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	property.Title = in.Title
	property.City = in.City
	property.State = in.State
	property.PostalCode = in.PostalCode
	property.Latitude = in.Latitude
	property.Longitude = in.Longitude
	property.BaseNightlyRate = in.BaseNightlyRate
	property.CleaningFee = in.CleaningFee
	property.PropertyType = strings.ToLower(in.PropertyType)
	property.Experiences = in.Experiences
	property.Amenities = in.Amenities
	property.Bedrooms = in.Bedrooms
	property.QuickResponseHost = in.QuickResponseHost
	property.BookingURL = in.BookingURL

	if err := repository.GetGlobalFactory().GetPropertyRepository().Update(property); err != nil {
		log.Printf("updating property %d failed: %v", property.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}
	return c.JSON(property)
}

// HandleDeleteProperty removes a listing. The upstream subscription, if any,
// keeps running until the host cancels it via the billing portal.
func HandleDeleteProperty(c *fiber.Ctx) error {
	property, respErr := ownedPropertyFromParams(c)
	if property == nil {
		return respErr
	}
	if err := repository.GetGlobalFactory().GetPropertyRepository().Delete(property.ID); err != nil {
		log.Printf("deleting property %d failed: %v", property.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ownedPropertyFromParams loads the :slug listing and enforces ownership. On
// a nil property the returned error is the already-rendered response.
func ownedPropertyFromParams(c *fiber.Ctx) (*models.Property, error) {
	slug := strings.TrimSpace(c.Params("slug"))
	property, err := repository.GetGlobalFactory().GetPropertyRepository().GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, propertyNotFound(c)
		}
		log.Printf("property lookup failed for slug %q: %v", slug, err)
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}
	if property.HostID != hostcontext.GetHostID(c) {
		// 404 rather than 403 so slugs cannot be probed for existence.
		return nil, propertyNotFound(c)
	}
	return property, nil
}

func propertyNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "property not found"})
}

// newSlug derives a URL slug from the title. The plain slug is used while it
// is free; a random suffix keeps the unique index happy across identical
// titles.
func newSlug(title string) string {
	base := slugify(title)
	exists, err := repository.GetGlobalFactory().GetPropertyRepository().SlugExists(base)
	if err == nil && !exists {
		return base
	}
	return base + "-" + uuid.NewString()[:8]
}

func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	base := strings.Trim(b.String(), "-")
	if base == "" {
		base = "listing"
	}
	if len(base) > 60 {
		base = base[:60]
	}
	return base
}
