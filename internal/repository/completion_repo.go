package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/haus-gg/haus-api/internal/models"
)

// CompletionRepository persists activity completion records.
type CompletionRepository interface {
	Create(ctx context.Context, completion *models.ActivityCompletion) error
	Exists(ctx context.Context, activityID, memberID uint) (bool, error)
	CountByActivity(ctx context.Context, activityID uint) (int64, error)
	// UpdateRewardStatus records the outcome of the mint attempt. It runs
	// outside the completion transaction on purpose: the completion itself is
	// already committed when the mint result arrives.
	UpdateRewardStatus(ctx context.Context, id uint, status, txHash string) error
	ListByRewardStatus(ctx context.Context, status string, limit int) ([]models.ActivityCompletion, error)
}

type completionRepository struct {
	db *gorm.DB
}

// NewCompletionRepository constructs the completion repository.
func NewCompletionRepository(db *gorm.DB) CompletionRepository {
	return &completionRepository{db: db}
}

func (r *completionRepository) Create(ctx context.Context, completion *models.ActivityCompletion) error {
	return r.db.WithContext(ctx).Create(completion).Error
}

func (r *completionRepository) Exists(ctx context.Context, activityID, memberID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ActivityCompletion{}).
		Where("activity_id = ? AND member_id = ?", activityID, memberID).
		Count(&count).Error
	return count > 0, err
}

func (r *completionRepository) CountByActivity(ctx context.Context, activityID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ActivityCompletion{}).
		Where("activity_id = ?", activityID).
		Count(&count).Error
	return count, err
}

func (r *completionRepository) UpdateRewardStatus(ctx context.Context, id uint, status, txHash string) error {
	updates := map[string]interface{}{"reward_status": status}
	if txHash != "" {
		updates["mint_tx_hash"] = txHash
	}

	return r.db.WithContext(ctx).
		Model(&models.ActivityCompletion{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *completionRepository) ListByRewardStatus(ctx context.Context, status string, limit int) ([]models.ActivityCompletion, error) {
	query := r.db.WithContext(ctx).
		Where("reward_status = ?", status).
		Order("created_at ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	var completions []models.ActivityCompletion
	err := query.Find(&completions).Error
	return completions, err
}
