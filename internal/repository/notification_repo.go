package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/haus-gg/haus-api/internal/models"
)

// NotificationRepository persists house-scoped governance notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByHouse(ctx context.Context, houseID uint, limit, offset int) ([]models.Notification, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository constructs the notification repository.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) ListByHouse(ctx context.Context, houseID uint, limit, offset int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("house_id = ?", houseID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	return notifications, err
}
