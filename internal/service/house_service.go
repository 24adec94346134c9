package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/haus-gg/haus-api/internal/dto"
	"github.com/haus-gg/haus-api/internal/models"
	"github.com/haus-gg/haus-api/internal/observability"
	"github.com/haus-gg/haus-api/internal/repository"
)

// HouseService exposes house lifecycle use cases: creation by a verified
// event producer, deactivation and leadership transfer by the leader.
type HouseService interface {
	Create(ctx context.Context, actor Identity, payload dto.HouseCreateRequest) (dto.HouseResponse, error)
	Get(ctx context.Context, houseID uint) (dto.HouseResponse, error)
	Deactivate(ctx context.Context, actor Identity, houseID uint) (dto.HouseResponse, error)
	TransferLeadership(ctx context.Context, actor Identity, houseID uint, payload dto.LeadershipTransferRequest) (dto.HouseResponse, error)
}

type houseService struct {
	store     repository.Store
	producers ProducerRegistry
	notifier  NotificationPublisher
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewHouseService builds the house service.
func NewHouseService(store repository.Store, producers ProducerRegistry, notifier NotificationPublisher, validate *validator.Validate, logger zerolog.Logger) HouseService {
	return &houseService{
		store:     store,
		producers: producers,
		notifier:  notifier,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "house_service").Logger(),
	}
}

func (s *houseService) Create(ctx context.Context, actor Identity, payload dto.HouseCreateRequest) (dto.HouseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.HouseResponse{}, err
	}

	verified, err := s.producers.IsVerifiedProducer(ctx, actor.Wallet)
	if err != nil {
		return dto.HouseResponse{}, err
	}
	if !verified {
		return dto.HouseResponse{}, ErrUnauthorized
	}

	owned, err := s.producers.EventBelongsToProducer(ctx, payload.EventRef, actor.Wallet)
	if err != nil {
		return dto.HouseResponse{}, err
	}
	if !owned {
		return dto.HouseResponse{}, ErrUnauthorized
	}

	name := strings.TrimSpace(s.sanitizer.Sanitize(payload.Name))
	if name == "" {
		return dto.HouseResponse{}, ErrEmptyContent
	}

	house := models.House{
		Name:           name,
		Description:    strings.TrimSpace(s.sanitizer.Sanitize(payload.Description)),
		EventRef:       strings.TrimSpace(payload.EventRef),
		ProducerWallet: actor.Wallet,
		LeaderWallet:   actor.Wallet,
		Capacity:       payload.Capacity,
		IsActive:       true,
	}

	if err := s.store.Houses().Create(ctx, &house); err != nil {
		return dto.HouseResponse{}, err
	}

	s.logger.Info().Uint("house_id", house.ID).Str("leader", house.LeaderWallet).Msg("house created")
	observability.HousesCreatedTotal().Inc()
	s.notifier.Notify(ctx, house.ID, EventHouseCreated, "house "+house.Name+" created", map[string]interface{}{
		"leader_wallet": house.LeaderWallet,
		"capacity":      house.Capacity,
	})

	return dto.NewHouseResponse(house), nil
}

func (s *houseService) Get(ctx context.Context, houseID uint) (dto.HouseResponse, error) {
	house, err := s.store.Houses().GetByID(ctx, houseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.HouseResponse{}, ErrHouseNotFound
		}
		return dto.HouseResponse{}, err
	}

	return dto.NewHouseResponse(house), nil
}

func (s *houseService) Deactivate(ctx context.Context, actor Identity, houseID uint) (dto.HouseResponse, error) {
	var house models.House

	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		var err error
		house, err = tx.Houses().GetForUpdate(ctx, houseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHouseNotFound
			}
			return err
		}

		if house.LeaderWallet != actor.Wallet {
			return ErrUnauthorized
		}
		if !house.IsActive {
			return ErrHouseInactive
		}

		house.IsActive = false
		return tx.Houses().Save(ctx, &house)
	})
	if err != nil {
		return dto.HouseResponse{}, err
	}

	s.logger.Info().Uint("house_id", house.ID).Msg("house deactivated")
	s.notifier.Notify(ctx, house.ID, EventHouseDeactivated, "house "+house.Name+" deactivated", nil)

	return dto.NewHouseResponse(house), nil
}

func (s *houseService) TransferLeadership(ctx context.Context, actor Identity, houseID uint, payload dto.LeadershipTransferRequest) (dto.HouseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.HouseResponse{}, err
	}

	newLeader := strings.TrimSpace(payload.NewLeaderWallet)

	var house models.House
	var previous string

	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		var err error
		house, err = tx.Houses().GetForUpdate(ctx, houseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHouseNotFound
			}
			return err
		}

		if house.LeaderWallet != actor.Wallet {
			return ErrUnauthorized
		}

		previous = house.LeaderWallet
		house.LeaderWallet = newLeader
		return tx.Houses().Save(ctx, &house)
	})
	if err != nil {
		return dto.HouseResponse{}, err
	}

	s.logger.Info().Uint("house_id", house.ID).Str("new_leader", newLeader).Msg("house leadership transferred")
	s.notifier.Notify(ctx, house.ID, EventLeadershipTransferred, "house leadership transferred", map[string]interface{}{
		"previous_leader": previous,
		"new_leader":      newLeader,
	})

	return dto.NewHouseResponse(house), nil
}
