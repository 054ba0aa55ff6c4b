package models

import "time"

// Host owns zero or more properties. AuthSubject is the external auth
// provider's subject id; StripeCustomerID is shared across all of a host's
// properties once first payment setup occurs.
type Host struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	AuthSubject      string    `gorm:"type:varchar(191);not null;uniqueIndex" json:"auth_subject"`
	Email            string    `gorm:"type:varchar(200);not null;index" json:"email"`
	Name             string    `gorm:"type:varchar(100);default:''" json:"name"`
	StripeCustomerID string    `gorm:"type:varchar(191);default:'';index" json:"stripe_customer_id"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Properties []Property `gorm:"foreignKey:HostID" json:"properties,omitempty"`
}
