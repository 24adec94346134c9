package dto

import (
	"time"

	"github.com/haus-gg/haus-api/internal/models"
)

// HouseCreateRequest describes the payload for creating a new house.
type HouseCreateRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=255"`
	Description string `json:"description" validate:"max=2000"`
	EventRef    string `json:"event_ref" validate:"required,max=128"`
	Capacity    int    `json:"capacity" validate:"required,min=1,max=50"`
}

// LeadershipTransferRequest describes the payload for reassigning a house leader.
type LeadershipTransferRequest struct {
	NewLeaderWallet string `json:"new_leader_wallet" validate:"required,min=4,max=64"`
}

// HouseResponse is the serialized representation returned to API clients.
type HouseResponse struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	EventRef        string    `json:"event_ref"`
	LeaderWallet    string    `json:"leader_wallet"`
	Capacity        int       `json:"capacity"`
	MemberCount     int       `json:"member_count"`
	TotalExperience int64     `json:"total_experience"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewHouseResponse converts a model into a DTO.
func NewHouseResponse(model models.House) HouseResponse {
	return HouseResponse{
		ID:              model.ID,
		Name:            model.Name,
		Description:     model.Description,
		EventRef:        model.EventRef,
		LeaderWallet:    model.LeaderWallet,
		Capacity:        model.Capacity,
		MemberCount:     model.MemberCount,
		TotalExperience: model.TotalExperience,
		IsActive:        model.IsActive,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}
