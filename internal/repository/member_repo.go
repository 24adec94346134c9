package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/haus-gg/haus-api/internal/models"
)

// MemberRepository persists house membership records.
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	// GetActiveByWallet finds the wallet's active membership anywhere. This
	// backs the global one-house-per-avatar invariant.
	GetActiveByWallet(ctx context.Context, wallet string) (models.Member, error)
	GetActiveInHouse(ctx context.Context, houseID uint, wallet string) (models.Member, error)
	ListActiveByHouse(ctx context.Context, houseID uint) ([]models.Member, error)
	CountActiveByHouse(ctx context.Context, houseID uint) (int64, error)
	TopContributors(ctx context.Context, houseID uint, limit int) ([]models.Member, error)
	Save(ctx context.Context, member *models.Member) error
}

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository constructs the member repository.
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepository) GetActiveByWallet(ctx context.Context, wallet string) (models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).
		Where("wallet = ? AND is_active = ?", wallet, true).
		First(&member).Error
	return member, err
}

func (r *memberRepository) GetActiveInHouse(ctx context.Context, houseID uint, wallet string) (models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).
		Where("house_id = ? AND wallet = ? AND is_active = ?", houseID, wallet, true).
		First(&member).Error
	return member, err
}

func (r *memberRepository) ListActiveByHouse(ctx context.Context, houseID uint) ([]models.Member, error) {
	var members []models.Member
	err := r.db.WithContext(ctx).
		Where("house_id = ? AND is_active = ?", houseID, true).
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}

func (r *memberRepository) CountActiveByHouse(ctx context.Context, houseID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Member{}).
		Where("house_id = ? AND is_active = ?", houseID, true).
		Count(&count).Error
	return count, err
}

func (r *memberRepository) TopContributors(ctx context.Context, houseID uint, limit int) ([]models.Member, error) {
	if limit <= 0 {
		limit = 5
	}

	var members []models.Member
	err := r.db.WithContext(ctx).
		Where("house_id = ? AND is_active = ?", houseID, true).
		Order("contribution_score DESC").
		Limit(limit).
		Find(&members).Error
	return members, err
}

func (r *memberRepository) Save(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}
