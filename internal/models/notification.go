package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is a house-scoped broadcast emitted after every mutating
// governance operation. Notifications are fire-and-forget for external
// consumers and are persisted so the reward reconciliation path can replay
// reward_failed events.
type Notification struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	HouseID   uint              `gorm:"not null;index" json:"house_id"`
	Type      string            `gorm:"size:64;not null;index" json:"type"`
	Message   string            `gorm:"type:text;not null" json:"message"`
	Metadata  datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}
