package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/haus-gg/haus-api/internal/dto"
	"github.com/haus-gg/haus-api/internal/models"
	"github.com/haus-gg/haus-api/internal/observability"
	"github.com/haus-gg/haus-api/internal/repository"
)

// ProposalService accepts activity proposals and decides, at proposal time,
// whether voting is needed. A house with at most one member has no quorum to
// gather, so the proposal is approved outright; otherwise it enters the
// pending state and waits for ballots.
type ProposalService interface {
	Propose(ctx context.Context, actor Identity, houseID uint, payload dto.ActivityProposeRequest) (dto.ActivityResponse, error)
	List(ctx context.Context, houseID uint, req dto.ActivityListRequest) (dto.ActivityListResponse, error)
	Get(ctx context.Context, houseID, activityID uint) (dto.ActivityResponse, error)
}

type proposalService struct {
	store     repository.Store
	notifier  NotificationPublisher
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewProposalService builds the proposal service.
func NewProposalService(store repository.Store, notifier NotificationPublisher, validate *validator.Validate, logger zerolog.Logger) ProposalService {
	return &proposalService{
		store:     store,
		notifier:  notifier,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "proposal_service").Logger(),
		now:       time.Now,
	}
}

func (s *proposalService) Propose(ctx context.Context, actor Identity, houseID uint, payload dto.ActivityProposeRequest) (dto.ActivityResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ActivityResponse{}, err
	}

	title := strings.TrimSpace(s.sanitizer.Sanitize(payload.Title))
	if title == "" {
		return dto.ActivityResponse{}, ErrEmptyContent
	}
	description := strings.TrimSpace(s.sanitizer.Sanitize(payload.Description))

	var activity models.Activity

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

		if house.LeaderWallet != actor.Wallet {
			if _, err := tx.Members().GetActiveInHouse(ctx, houseID, actor.Wallet); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotAMember
				}
				return err
			}
		}

		activity = models.Activity{
			HouseID:          houseID,
			Title:            title,
			Description:      description,
			ExperienceReward: payload.ExperienceReward,
			ProposerWallet:   actor.Wallet,
			Status:           models.ActivityStatusPending,
			IsActive:         true,
		}

		// A solo leader should not have to vote on their own proposal;
		// quorum only applies once the house has real membership.
		if house.MemberCount <= 1 {
			decided := s.now()
			activity.Status = models.ActivityStatusApproved
			activity.DecidedAt = &decided
		}

		return tx.Activities().Create(ctx, &activity)
	})
	if err != nil {
		return dto.ActivityResponse{}, err
	}

	s.logger.Info().
		Uint("house_id", houseID).
		Uint("activity_id", activity.ID).
		Str("status", activity.Status).
		Msg("activity proposed")

	if activity.Status == models.ActivityStatusApproved {
		observability.ActivitiesDecidedTotal().WithLabelValues(models.ActivityStatusApproved).Inc()
		s.notifier.Notify(ctx, houseID, EventActivityApproved, "activity "+activity.Title+" approved", map[string]interface{}{
			"activity_id": activity.ID,
			"auto":        true,
		})
	} else {
		s.notifier.Notify(ctx, houseID, EventActivityProposed, "activity "+activity.Title+" proposed", map[string]interface{}{
			"activity_id": activity.ID,
			"proposer":    activity.ProposerWallet,
		})
	}

	return dto.NewActivityResponse(activity), nil
}

func (s *proposalService) List(ctx context.Context, houseID uint, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ActivityListResponse{}, err
	}

	if _, err := s.store.Houses().GetByID(ctx, houseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityListResponse{}, ErrHouseNotFound
		}
		return dto.ActivityListResponse{}, err
	}

	filter := repository.ActivityFilter{
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	activities, total, err := s.store.Activities().ListByHouse(ctx, houseID, filter)
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	pagination := dto.PaginationMeta{
		Page:       maxInt(req.Page, 1),
		PageSize:   req.PageSize,
		TotalItems: total,
	}
	if req.PageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(req.PageSize)))
	} else {
		pagination.TotalPages = 1
	}

	return dto.ActivityListResponse{
		Items:      dto.NewActivityResponseSlice(activities),
		Pagination: pagination,
	}, nil
}

func (s *proposalService) Get(ctx context.Context, houseID, activityID uint) (dto.ActivityResponse, error) {
	activity, err := s.store.Activities().GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityResponse{}, ErrActivityNotFound
		}
		return dto.ActivityResponse{}, err
	}

	if activity.HouseID != houseID {
		return dto.ActivityResponse{}, ErrActivityNotFound
	}

	return dto.NewActivityResponse(activity), nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
