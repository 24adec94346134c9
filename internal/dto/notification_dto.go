package dto

import (
	"time"

	"github.com/haus-gg/haus-api/internal/models"
)

// NotificationResponse is the serialized notification streamed to clients.
type NotificationResponse struct {
	ID        uint                   `json:"id"`
	HouseID   uint                   `json:"house_id"`
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// NewNotificationResponse converts a model into a DTO.
func NewNotificationResponse(model models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        model.ID,
		HouseID:   model.HouseID,
		Type:      model.Type,
		Message:   model.Message,
		Metadata:  model.Metadata,
		CreatedAt: model.CreatedAt,
	}
}

// NewNotificationResponseSlice converts a slice of models into DTOs.
func NewNotificationResponseSlice(notifications []models.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		responses = append(responses, NewNotificationResponse(notification))
	}

	return responses
}
