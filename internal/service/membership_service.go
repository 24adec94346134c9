package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/haus-gg/haus-api/internal/dto"
	"github.com/haus-gg/haus-api/internal/models"
	"github.com/haus-gg/haus-api/internal/repository"
)

// MembershipService manages joining and leaving houses. A wallet holds at
// most one active membership across all houses at any time.
type MembershipService interface {
	Join(ctx context.Context, actor Identity, houseID uint) (dto.MemberResponse, error)
	Leave(ctx context.Context, actor Identity, houseID uint) (dto.MemberResponse, error)
	ListMembers(ctx context.Context, houseID uint) ([]dto.MemberResponse, error)
}

type membershipService struct {
	store    repository.Store
	avatars  AvatarDirectory
	notifier NotificationPublisher
	logger   zerolog.Logger
	now      func() time.Time
}

// NewMembershipService builds the membership service.
func NewMembershipService(store repository.Store, avatars AvatarDirectory, notifier NotificationPublisher, logger zerolog.Logger) MembershipService {
	return &membershipService{
		store:    store,
		avatars:  avatars,
		notifier: notifier,
		logger:   logger.With().Str("component", "membership_service").Logger(),
		now:      time.Now,
	}
}

func (s *membershipService) Join(ctx context.Context, actor Identity, houseID uint) (dto.MemberResponse, error) {
	avatarRef := actor.AvatarRef
	if avatarRef == "" && s.avatars != nil {
		resolved, err := s.avatars.Resolve(ctx, actor.Wallet)
		if err != nil {
			return dto.MemberResponse{}, err
		}
		avatarRef = resolved
	}

	var member models.Member

	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		house, err := tx.Houses().GetForUpdate(ctx, houseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHouseNotFound
			}
			return err
		}

		if !house.IsActive {
			return ErrHouseInactive
		}
		if !house.HasRoom() {
			return ErrHouseFull
		}

		_, err = tx.Members().GetActiveByWallet(ctx, actor.Wallet)
		if err == nil {
			return ErrAlreadyMember
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		member = models.Member{
			HouseID:   houseID,
			Wallet:    actor.Wallet,
			AvatarRef: avatarRef,
			IsActive:  true,
		}
		if err := tx.Members().Create(ctx, &member); err != nil {
			return err
		}

		house.MemberCount++
		return tx.Houses().Save(ctx, &house)
	})
	if err != nil {
		return dto.MemberResponse{}, err
	}

	s.logger.Info().Uint("house_id", houseID).Str("wallet", actor.Wallet).Msg("member joined house")
	s.notifier.Notify(ctx, houseID, EventMemberJoined, "a new member joined the house", map[string]interface{}{
		"member_id": member.ID,
		"wallet":    member.Wallet,
	})

	return dto.NewMemberResponse(member), nil
}

func (s *membershipService) Leave(ctx context.Context, actor Identity, houseID uint) (dto.MemberResponse, error) {
	var member models.Member

	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		house, err := tx.Houses().GetForUpdate(ctx, houseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHouseNotFound
			}
			return err
		}

		member, err = tx.Members().GetActiveInHouse(ctx, houseID, actor.Wallet)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotAMember
			}
			return err
		}

		left := s.now()
		member.IsActive = false
		member.LeftAt = &left
		if err := tx.Members().Save(ctx, &member); err != nil {
			return err
		}

		house.MemberCount--
		return tx.Houses().Save(ctx, &house)
	})
	if err != nil {
		return dto.MemberResponse{}, err
	}

	s.logger.Info().Uint("house_id", houseID).Str("wallet", actor.Wallet).Msg("member left house")
	s.notifier.Notify(ctx, houseID, EventMemberLeft, "a member left the house", map[string]interface{}{
		"member_id": member.ID,
		"wallet":    member.Wallet,
	})

	return dto.NewMemberResponse(member), nil
}

func (s *membershipService) ListMembers(ctx context.Context, houseID uint) ([]dto.MemberResponse, error) {
	if _, err := s.store.Houses().GetByID(ctx, houseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHouseNotFound
		}
		return nil, err
	}

	members, err := s.store.Members().ListActiveByHouse(ctx, houseID)
	if err != nil {
		return nil, err
	}

	return dto.NewMemberResponseSlice(members), nil
}
