package models

import "time"

// House is a bounded community of members organized around an external event.
type House struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	EventRef        string    `gorm:"size:128;not null;index" json:"event_ref"`
	ProducerWallet  string    `gorm:"size:64;not null" json:"producer_wallet"`
	LeaderWallet    string    `gorm:"size:64;not null;index" json:"leader_wallet"`
	Capacity        int       `gorm:"not null" json:"capacity"`
	MemberCount     int       `gorm:"not null;default:0" json:"member_count"`
	TotalExperience int64     `gorm:"not null;default:0" json:"total_experience"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// HasRoom reports whether the house can accept another member.
func (h House) HasRoom() bool {
	return h.MemberCount < h.Capacity
}
