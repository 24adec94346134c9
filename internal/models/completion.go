package models

import "time"

// Reward statuses for a completion. Paid means the token mint went through;
// failed means the mint call errored and the payout awaits reconciliation.
// Pending is used when no token issuer is configured for the deployment.
const (
	RewardStatusPaid    = "paid"
	RewardStatusPending = "pending"
	RewardStatusFailed  = "failed"
)

// ActivityCompletion is the idempotent proof that a member completed an
// approved activity. The composite unique index rejects a second completion
// for the same (activity, member) pair. RewardStatus is the only field that
// may change after creation, via the reconciliation path.
type ActivityCompletion struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ActivityID   uint      `gorm:"not null;uniqueIndex:idx_completions_activity_member" json:"activity_id"`
	MemberID     uint      `gorm:"not null;uniqueIndex:idx_completions_activity_member" json:"member_id"`
	Wallet       string    `gorm:"size:64;not null;index" json:"wallet"`
	RewardTokens int64     `gorm:"not null" json:"reward_tokens"`
	RewardStatus string    `gorm:"size:16;not null" json:"reward_status"`
	MintTxHash   string    `gorm:"size:128" json:"mint_tx_hash,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
