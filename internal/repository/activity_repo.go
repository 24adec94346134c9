package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/haus-gg/haus-api/internal/models"
)

// ActivityFilter narrows activity listings.
type ActivityFilter struct {
	Status   string
	Page     int
	PageSize int
}

// ActivityRepository persists house activities.
type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	GetByID(ctx context.Context, id uint) (models.Activity, error)
	// GetForUpdate loads the activity under a row lock, serializing votes and
	// completions against the same activity.
	GetForUpdate(ctx context.Context, id uint) (models.Activity, error)
	ListByHouse(ctx context.Context, houseID uint, filter ActivityFilter) ([]models.Activity, int64, error)
	CountByStatus(ctx context.Context, houseID uint, status string) (int64, error)
	Save(ctx context.Context, activity *models.Activity) error
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository constructs the activity repository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepository) GetByID(ctx context.Context, id uint) (models.Activity, error) {
	var activity models.Activity
	err := r.db.WithContext(ctx).First(&activity, id).Error
	return activity, err
}

func (r *activityRepository) GetForUpdate(ctx context.Context, id uint) (models.Activity, error) {
	var activity models.Activity
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&activity, id).Error
	return activity, err
}

func (r *activityRepository) ListByHouse(ctx context.Context, houseID uint, filter ActivityFilter) ([]models.Activity, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Where("house_id = ?", houseID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var activities []models.Activity
	if err := query.Order("created_at DESC").Find(&activities).Error; err != nil {
		return nil, 0, err
	}

	return activities, total, nil
}

func (r *activityRepository) CountByStatus(ctx context.Context, houseID uint, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Where("house_id = ? AND status = ?", houseID, status).
		Count(&count).Error
	return count, err
}

func (r *activityRepository) Save(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Save(activity).Error
}
