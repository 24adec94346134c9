package models

import "time"

// Vote is a single ballot on a pending activity. The composite unique index
// enforces at most one ballot per (activity, voter) pair. Weight records how
// much the ballot counted for at cast time; a leader's favorable ballot
// carries weight 2.
type Vote struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ActivityID  uint      `gorm:"not null;uniqueIndex:idx_votes_activity_voter" json:"activity_id"`
	VoterWallet string    `gorm:"size:64;not null;uniqueIndex:idx_votes_activity_voter" json:"voter_wallet"`
	InFavor     bool      `gorm:"not null" json:"in_favor"`
	Weight      int       `gorm:"not null;default:1" json:"weight"`
	CreatedAt   time.Time `json:"created_at"`
}
