package models

import "time"

// ClickEvent records a guest following a property's outbound booking link.
// Rows are append-only and never deduplicated: the dashboards report
// click-through volume, not unique visitors.
type ClickEvent struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	PropertyID uint      `gorm:"not null;index:idx_click_events_property_time,priority:1" json:"property_id"`
	OccurredAt time.Time `gorm:"not null;index:idx_click_events_property_time,priority:2" json:"occurred_at"`
	Source     string    `gorm:"type:varchar(50);default:''" json:"source"`
}
