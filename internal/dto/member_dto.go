package dto

import (
	"time"

	"github.com/haus-gg/haus-api/internal/models"
)

// MemberResponse is the serialized membership record returned to API clients.
type MemberResponse struct {
	ID                uint       `json:"id"`
	HouseID           uint       `json:"house_id"`
	Wallet            string     `json:"wallet"`
	AvatarRef         string     `json:"avatar_ref"`
	ContributionScore int64      `json:"contribution_score"`
	IsActive          bool       `json:"is_active"`
	JoinedAt          time.Time  `json:"joined_at"`
	LeftAt            *time.Time `json:"left_at,omitempty"`
}

// NewMemberResponse converts a model into a DTO.
func NewMemberResponse(model models.Member) MemberResponse {
	return MemberResponse{
		ID:                model.ID,
		HouseID:           model.HouseID,
		Wallet:            model.Wallet,
		AvatarRef:         model.AvatarRef,
		ContributionScore: model.ContributionScore,
		IsActive:          model.IsActive,
		JoinedAt:          model.CreatedAt,
		LeftAt:            model.LeftAt,
	}
}

// NewMemberResponseSlice converts a slice of models into DTOs.
func NewMemberResponseSlice(members []models.Member) []MemberResponse {
	responses := make([]MemberResponse, 0, len(members))
	for _, member := range members {
		responses = append(responses, NewMemberResponse(member))
	}

	return responses
}
