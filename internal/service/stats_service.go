package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/haus-gg/haus-api/internal/dto"
	"github.com/haus-gg/haus-api/internal/models"
	"github.com/haus-gg/haus-api/internal/repository"
)

const topContributorLimit = 5

// HouseStatsService produces the aggregated dashboard view of a house.
type HouseStatsService interface {
	GetStats(ctx context.Context, houseID uint) (dto.HouseStatsResponse, error)
	Invalidate(ctx context.Context, houseID uint)
}

type houseStatsService struct {
	store    repository.Store
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewHouseStatsService builds the stats aggregator. The redis cache is
// optional; without it every call hits the store.
func NewHouseStatsService(store repository.Store, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) HouseStatsService {
	return &houseStatsService{
		store:    store,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "house_stats_service").Logger(),
	}
}

func statsCacheKey(houseID uint) string {
	return fmt.Sprintf("stats:house:%d", houseID)
}

func (s *houseStatsService) GetStats(ctx context.Context, houseID uint) (dto.HouseStatsResponse, error) {
	cacheKey := statsCacheKey(houseID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.HouseStatsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("house_id", houseID).Msg("house stats cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read house stats cache")
		}
	}

	house, err := s.store.Houses().GetByID(ctx, houseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.HouseStatsResponse{}, ErrHouseNotFound
		}
		return dto.HouseStatsResponse{}, err
	}

	pending, err := s.store.Activities().CountByStatus(ctx, houseID, models.ActivityStatusPending)
	if err != nil {
		return dto.HouseStatsResponse{}, err
	}
	approved, err := s.store.Activities().CountByStatus(ctx, houseID, models.ActivityStatusApproved)
	if err != nil {
		return dto.HouseStatsResponse{}, err
	}
	rejected, err := s.store.Activities().CountByStatus(ctx, houseID, models.ActivityStatusRejected)
	if err != nil {
		return dto.HouseStatsResponse{}, err
	}

	contributors, err := s.store.Members().TopContributors(ctx, houseID, topContributorLimit)
	if err != nil {
		return dto.HouseStatsResponse{}, err
	}

	response := dto.HouseStatsResponse{
		House:              dto.NewHouseResponse(house),
		PendingActivities:  pending,
		ApprovedActivities: approved,
		RejectedActivities: rejected,
		TopContributors:    make([]dto.ContributorSummary, 0, len(contributors)),
	}
	for _, contributor := range contributors {
		response.TopContributors = append(response.TopContributors, dto.ContributorSummary{
			Wallet:            contributor.Wallet,
			AvatarRef:         contributor.AvatarRef,
			ContributionScore: contributor.ContributionScore,
		})
	}

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store house stats cache")
			}
		}
	}

	return response, nil
}

func (s *houseStatsService) Invalidate(ctx context.Context, houseID uint) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, statsCacheKey(houseID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("house_id", houseID).Msg("failed to invalidate house stats cache")
	}
}
