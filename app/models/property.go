package models

import (
	"strings"
	"time"
)

// Subscription status values owned by the billing state machine. Billing
// columns on Property are only ever written by internal/pkg/billing; UI and
// CRUD surfaces treat them as read-only.
const (
	SubscriptionStatusPendingPayment = "pending_payment"
	SubscriptionStatusTrial          = "trial"
	SubscriptionStatusActive         = "active"
	SubscriptionStatusPaused         = "paused"
	SubscriptionStatusCanceled       = "canceled"
)

// Property types shown in the directory.
const (
	PropertyTypeHouse     = "house"
	PropertyTypeApartment = "apartment"
	PropertyTypeCondo     = "condo"
	PropertyTypeCabin     = "cabin"
	PropertyTypeVilla     = "villa"
)

// AmenityPetFriendly is the amenity tag the pet filter checks for.
const AmenityPetFriendly = "pet-friendly"

// Property is a directory entry submitted by a host. Listing data is edited
// through the host CRUD screens; the billing-linked columns (subscription
// status, visibility, trial bookkeeping, processor ids) belong to the
// subscription state machine and are updated in a single atomic write.
type Property struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Slug   string `gorm:"type:varchar(191);not null;uniqueIndex" json:"slug"`
	HostID uint   `gorm:"not null;index" json:"host_id"`
	Title  string `gorm:"type:varchar(200);not null" json:"title"`

	City       string  `gorm:"type:varchar(100);not null;index" json:"city"`
	State      string  `gorm:"type:varchar(50);not null;index" json:"state"`
	PostalCode string  `gorm:"type:varchar(20);default:''" json:"postal_code"`
	Latitude   float64 `gorm:"type:double;default:0" json:"latitude"`
	Longitude  float64 `gorm:"type:double;default:0" json:"longitude"`

	// Money amounts are stored in cents.
	BaseNightlyRate int64 `gorm:"not null;default:0" json:"base_nightly_rate"`
	CleaningFee     int64 `gorm:"not null;default:0" json:"cleaning_fee"`

	PropertyType string   `gorm:"type:varchar(50);not null;default:'house';index" json:"property_type"`
	Experiences  []string `gorm:"serializer:json" json:"experiences"`
	Amenities    []string `gorm:"serializer:json" json:"amenities"`
	Bedrooms     int      `gorm:"not null;default:0" json:"bedrooms"`

	Verified          bool     `gorm:"default:false;index" json:"verified"`
	Featured          bool     `gorm:"default:false" json:"featured"`
	FifaFeatured      bool     `gorm:"default:false;index" json:"fifa_featured"`
	QuickResponseHost bool     `gorm:"default:false" json:"quick_response_host"`
	DistanceToStadium *float64 `gorm:"type:double;default:null" json:"distance_to_stadium,omitempty"`

	RatingAverage float64 `gorm:"type:double;default:0" json:"rating_average"`
	RatingCount   int     `gorm:"default:0" json:"rating_count"`
	BookingURL    string  `gorm:"type:varchar(500);default:''" json:"booking_url"`
	ClickCount    int64   `gorm:"default:0" json:"click_count"`

	// Billing-linked columns, owned by internal/pkg/billing.
	SubscriptionStatus   string     `gorm:"type:varchar(32);not null;default:'pending_payment';index" json:"subscription_status"`
	IsActive             bool       `gorm:"default:false;index" json:"is_active"`
	TrialEndsAt          *time.Time `gorm:"type:timestamp;default:null" json:"trial_ends_at,omitempty"`
	CancelScheduled      bool       `gorm:"default:false" json:"cancel_scheduled"`
	CancelEffectiveAt    *time.Time `gorm:"type:timestamp;default:null" json:"cancel_effective_at,omitempty"`
	StripeSubscriptionID string     `gorm:"type:varchar(191);default:'';index" json:"stripe_subscription_id"`
	StripeCustomerID     string     `gorm:"type:varchar(191);default:'';index" json:"stripe_customer_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// HasAmenity reports whether the property carries the given amenity tag
// (case-insensitive).
func (p *Property) HasAmenity(tag string) bool {
	for _, a := range p.Amenities {
		if strings.EqualFold(a, tag) {
			return true
		}
	}
	return false
}

// IsPetFriendly reports whether the property carries the pet-friendly tag.
func (p *Property) IsPetFriendly() bool {
	return p.HasAmenity(AmenityPetFriendly)
}
