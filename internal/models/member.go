package models

import "time"

// Member is an avatar's participation record inside exactly one house.
// Leaving marks the record inactive instead of deleting it, so contribution
// history survives the membership.
type Member struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	HouseID           uint       `gorm:"not null;index" json:"house_id"`
	Wallet            string     `gorm:"size:64;not null;index" json:"wallet"`
	AvatarRef         string     `gorm:"size:128;not null;index" json:"avatar_ref"`
	ContributionScore int64      `gorm:"not null;default:0" json:"contribution_score"`
	IsActive          bool       `gorm:"not null;default:true" json:"is_active"`
	LeftAt            *time.Time `json:"left_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
