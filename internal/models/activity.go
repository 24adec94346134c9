package models

import "time"

// Activity statuses. Pending is the only non-terminal status: once an
// activity is approved or rejected it never changes again.
const (
	ActivityStatusPending  = "pending"
	ActivityStatusApproved = "approved"
	ActivityStatusRejected = "rejected"
)

// Activity is a house activity across its whole lifecycle. A proposal in a
// multi-member house starts pending and is decided by weighted votes; in a
// leader-only house it is created approved outright. Approval is a status
// transition on the same row, so the completable record keeps the proposal's
// identifier.
type Activity struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	HouseID          uint       `gorm:"not null;index" json:"house_id"`
	Title            string     `gorm:"size:255;not null" json:"title"`
	Description      string     `gorm:"type:text" json:"description"`
	ExperienceReward int        `gorm:"not null" json:"experience_reward"`
	ProposerWallet   string     `gorm:"size:64;not null" json:"proposer_wallet"`
	Status           string     `gorm:"size:16;not null;index" json:"status"`
	VotesFor         int        `gorm:"not null;default:0" json:"votes_for"`
	VotesAgainst     int        `gorm:"not null;default:0" json:"votes_against"`
	DecidedAt        *time.Time `json:"decided_at,omitempty"`
	IsActive         bool       `gorm:"not null;default:true" json:"is_active"`
	CompletedBy      int        `gorm:"not null;default:0" json:"completed_by"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Decided reports whether the activity reached a terminal status.
func (a Activity) Decided() bool {
	return a.Status != ActivityStatusPending
}

// Completable reports whether members may record completions against the activity.
func (a Activity) Completable() bool {
	return a.Status == ActivityStatusApproved && a.IsActive
}
