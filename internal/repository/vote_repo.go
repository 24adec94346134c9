package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/haus-gg/haus-api/internal/models"
)

// VoteRepository persists ballots.
type VoteRepository interface {
	Create(ctx context.Context, vote *models.Vote) error
	Exists(ctx context.Context, activityID uint, voterWallet string) (bool, error)
	ListByActivity(ctx context.Context, activityID uint) ([]models.Vote, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository constructs the vote repository.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Create(ctx context.Context, vote *models.Vote) error {
	return r.db.WithContext(ctx).Create(vote).Error
}

func (r *voteRepository) Exists(ctx context.Context, activityID uint, voterWallet string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("activity_id = ? AND voter_wallet = ?", activityID, voterWallet).
		Count(&count).Error
	return count > 0, err
}

func (r *voteRepository) ListByActivity(ctx context.Context, activityID uint) ([]models.Vote, error) {
	var votes []models.Vote
	err := r.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("created_at ASC").
		Find(&votes).Error
	return votes, err
}
