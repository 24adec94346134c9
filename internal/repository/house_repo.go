package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/haus-gg/haus-api/internal/models"
)

// HouseRepository persists houses.
type HouseRepository interface {
	Create(ctx context.Context, house *models.House) error
	GetByID(ctx context.Context, id uint) (models.House, error)
	// GetForUpdate loads the house under a row lock. Callers must be inside
	// Store.Atomic; the lock serializes membership and proposal transitions
	// against the same house.
	GetForUpdate(ctx context.Context, id uint) (models.House, error)
	Save(ctx context.Context, house *models.House) error
}

type houseRepository struct {
	db *gorm.DB
}

// NewHouseRepository constructs the house repository.
func NewHouseRepository(db *gorm.DB) HouseRepository {
	return &houseRepository{db: db}
}

func (r *houseRepository) Create(ctx context.Context, house *models.House) error {
	return r.db.WithContext(ctx).Create(house).Error
}

func (r *houseRepository) GetByID(ctx context.Context, id uint) (models.House, error) {
	var house models.House
	err := r.db.WithContext(ctx).First(&house, id).Error
	return house, err
}

func (r *houseRepository) GetForUpdate(ctx context.Context, id uint) (models.House, error) {
	var house models.House
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&house, id).Error
	return house, err
}

func (r *houseRepository) Save(ctx context.Context, house *models.House) error {
	return r.db.WithContext(ctx).Save(house).Error
}
