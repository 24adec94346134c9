package dto

import (
	"time"

	"github.com/haus-gg/haus-api/internal/models"
)

// ActivityProposeRequest describes the payload for proposing a house activity.
type ActivityProposeRequest struct {
	Title            string `json:"title" validate:"required,min=3,max=255"`
	Description      string `json:"description" validate:"max=2000"`
	ExperienceReward int    `json:"experience_reward" validate:"required,min=1,max=500"`
}

// VoteRequest describes a ballot on a pending activity.
type VoteRequest struct {
	InFavor *bool `json:"in_favor" validate:"required"`
}

// ActivityListRequest narrows the activity listing.
type ActivityListRequest struct {
	Status   string `query:"status" validate:"omitempty,oneof=pending approved rejected"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
	PageSize int    `query:"page_size" validate:"omitempty,min=1,max=100"`
}

// ActivityResponse is the serialized activity returned to API clients.
type ActivityResponse struct {
	ID               uint       `json:"id"`
	HouseID          uint       `json:"house_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	ExperienceReward int        `json:"experience_reward"`
	ProposerWallet   string     `json:"proposer_wallet"`
	Status           string     `json:"status"`
	VotesFor         int        `json:"votes_for"`
	VotesAgainst     int        `json:"votes_against"`
	DecidedAt        *time.Time `json:"decided_at,omitempty"`
	IsActive         bool       `json:"is_active"`
	CompletedBy      int        `json:"completed_by"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ActivityListResponse wraps a paginated activity listing.
type ActivityListResponse struct {
	Items      []ActivityResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}

// CompletionResponse is the serialized completion record, including the
// reward payout outcome.
type CompletionResponse struct {
	ID           uint      `json:"id"`
	ActivityID   uint      `json:"activity_id"`
	MemberID     uint      `json:"member_id"`
	Wallet       string    `json:"wallet"`
	RewardTokens int64     `json:"reward_tokens"`
	RewardStatus string    `json:"reward_status"`
	MintTxHash   string    `json:"mint_tx_hash,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewActivityResponse converts a model into a DTO.
func NewActivityResponse(model models.Activity) ActivityResponse {
	return ActivityResponse{
		ID:               model.ID,
		HouseID:          model.HouseID,
		Title:            model.Title,
		Description:      model.Description,
		ExperienceReward: model.ExperienceReward,
		ProposerWallet:   model.ProposerWallet,
		Status:           model.Status,
		VotesFor:         model.VotesFor,
		VotesAgainst:     model.VotesAgainst,
		DecidedAt:        model.DecidedAt,
		IsActive:         model.IsActive,
		CompletedBy:      model.CompletedBy,
		CreatedAt:        model.CreatedAt,
	}
}

// NewActivityResponseSlice converts a slice of models into DTOs.
func NewActivityResponseSlice(activities []models.Activity) []ActivityResponse {
	responses := make([]ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		responses = append(responses, NewActivityResponse(activity))
	}

	return responses
}

// NewCompletionResponse converts a model into a DTO.
func NewCompletionResponse(model models.ActivityCompletion) CompletionResponse {
	return CompletionResponse{
		ID:           model.ID,
		ActivityID:   model.ActivityID,
		MemberID:     model.MemberID,
		Wallet:       model.Wallet,
		RewardTokens: model.RewardTokens,
		RewardStatus: model.RewardStatus,
		MintTxHash:   model.MintTxHash,
		CreatedAt:    model.CreatedAt,
	}
}
