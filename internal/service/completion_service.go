package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/haus-gg/haus-api/internal/dto"
	"github.com/haus-gg/haus-api/internal/models"
	"github.com/haus-gg/haus-api/internal/observability"
	"github.com/haus-gg/haus-api/internal/repository"
)

// StatsInvalidator drops cached aggregates for a house after its counters
// change.
type StatsInvalidator interface {
	Invalidate(ctx context.Context, houseID uint)
}

// CompletionService records idempotent per-member completion of approved
// activities and triggers the token reward payout.
//
// The completion itself (record, counters, contribution score, house
// experience) commits in one transaction. The mint call runs after that
// commit and its failure never rolls the completion back: progress state
// outranks the payout, and a broken token contract must not block the house.
// A failed mint leaves the completion in the failed reward state and emits a
// reward_failed notification for later reconciliation.
type CompletionService interface {
	Complete(ctx context.Context, actor Identity, houseID, activityID uint) (dto.CompletionResponse, error)
}

type completionService struct {
	store      repository.Store
	issuer     TokenIssuer
	notifier   NotificationPublisher
	stats      StatsInvalidator
	rewardRate int
	logger     zerolog.Logger
	tracer     trace.Tracer
}

// NewCompletionService builds the completion service. rewardRate is the
// number of experience points worth one reward token; values below 1 fall
// back to the default of 100. The issuer and stats invalidator are optional.
func NewCompletionService(store repository.Store, issuer TokenIssuer, notifier NotificationPublisher, stats StatsInvalidator, rewardRate int, logger zerolog.Logger) CompletionService {
	if rewardRate < 1 {
		rewardRate = 100
	}

	return &completionService{
		store:      store,
		issuer:     issuer,
		notifier:   notifier,
		stats:      stats,
		rewardRate: rewardRate,
		logger:     logger.With().Str("component", "completion_service").Logger(),
		tracer:     otel.Tracer("github.com/haus-gg/haus-api/internal/service/completion"),
	}
}

func (s *completionService) Complete(ctx context.Context, actor Identity, houseID, activityID uint) (dto.CompletionResponse, error) {
	attrs := []attribute.KeyValue{
		attribute.Int64("activity.id", int64(activityID)),
		attribute.Int64("house.id", int64(houseID)),
	}
	spanCtx, span := s.tracer.Start(ctx, "governance.complete_activity", trace.WithAttributes(attrs...))
	defer span.End()

	var completion models.ActivityCompletion
	var reward int

	err := s.store.Atomic(spanCtx, func(tx repository.Store) error {
		activity, err := tx.Activities().GetForUpdate(spanCtx, activityID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrActivityNotFound
			}
			return err
		}
		if activity.HouseID != houseID {
			return ErrActivityNotFound
		}
		if !activity.Completable() {
			return ErrActivityNotApproved
		}

		house, err := tx.Houses().GetForUpdate(spanCtx, houseID)
		if err != nil {
			return err
		}
		if !house.IsActive {
			return ErrHouseInactive
		}

		member, err := tx.Members().GetActiveInHouse(spanCtx, houseID, actor.Wallet)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotAMember
			}
			return err
		}

		done, err := tx.Completions().Exists(spanCtx, activityID, member.ID)
		if err != nil {
			return err
		}
		if done {
			return ErrAlreadyCompleted
		}

		reward = activity.ExperienceReward
		tokens := int64(reward / s.rewardRate)

		status := models.RewardStatusPending
		if tokens == 0 {
			// Rewards below the conversion rate owe no tokens.
			status = models.RewardStatusPaid
		}

		completion = models.ActivityCompletion{
			ActivityID:   activityID,
			MemberID:     member.ID,
			Wallet:       member.Wallet,
			RewardTokens: tokens,
			RewardStatus: status,
		}
		if err := tx.Completions().Create(spanCtx, &completion); err != nil {
			return err
		}

		activity.CompletedBy++
		if err := tx.Activities().Save(spanCtx, &activity); err != nil {
			return err
		}

		member.ContributionScore += int64(reward)
		if err := tx.Members().Save(spanCtx, &member); err != nil {
			return err
		}

		house.TotalExperience += int64(reward)
		return tx.Houses().Save(spanCtx, &house)
	})
	if err != nil {
		span.RecordError(err)
		return dto.CompletionResponse{}, err
	}

	s.logger.Info().
		Uint("activity_id", activityID).
		Uint("member_id", completion.MemberID).
		Int("experience", reward).
		Msg("activity completed")

	s.notifier.Notify(spanCtx, houseID, EventActivityCompleted, "activity completed", map[string]interface{}{
		"activity_id": activityID,
		"member_id":   completion.MemberID,
		"experience":  reward,
	})

	if s.stats != nil {
		s.stats.Invalidate(spanCtx, houseID)
	}

	if completion.RewardTokens > 0 {
		s.payReward(spanCtx, houseID, &completion)
	}

	return dto.NewCompletionResponse(completion), nil
}

// payReward runs after the completion is committed; its outcome only mutates
// the reward status of the already-recorded completion.
func (s *completionService) payReward(ctx context.Context, houseID uint, completion *models.ActivityCompletion) {
	if s.issuer == nil {
		s.logger.Warn().Uint("completion_id", completion.ID).Msg("no token issuer configured, reward left pending")
		observability.RewardFailuresTotal().Inc()
		s.notifier.Notify(ctx, houseID, EventRewardFailed, "reward payout pending", map[string]interface{}{
			"completion_id": completion.ID,
			"reason":        "token issuer not configured",
		})
		return
	}

	txHash, err := s.issuer.MintTo(ctx, completion.Wallet, completion.RewardTokens)
	if err != nil {
		s.logger.Error().Err(err).Uint("completion_id", completion.ID).Msg("reward mint failed")
		observability.RewardFailuresTotal().Inc()

		if updateErr := s.store.Completions().UpdateRewardStatus(ctx, completion.ID, models.RewardStatusFailed, ""); updateErr != nil {
			s.logger.Error().Err(updateErr).Uint("completion_id", completion.ID).Msg("failed to mark reward as failed")
		} else {
			completion.RewardStatus = models.RewardStatusFailed
		}

		s.notifier.Notify(ctx, houseID, EventRewardFailed, "reward payout failed", map[string]interface{}{
			"completion_id": completion.ID,
			"error":         err.Error(),
		})
		return
	}

	if err := s.store.Completions().UpdateRewardStatus(ctx, completion.ID, models.RewardStatusPaid, txHash); err != nil {
		s.logger.Error().Err(err).Uint("completion_id", completion.ID).Msg("failed to mark reward as paid")
	} else {
		completion.RewardStatus = models.RewardStatusPaid
		completion.MintTxHash = txHash
	}

	observability.RewardsMintedTotal().Add(float64(completion.RewardTokens))
	s.notifier.Notify(ctx, houseID, EventRewardIssued, "reward tokens issued", map[string]interface{}{
		"completion_id": completion.ID,
		"tokens":        completion.RewardTokens,
		"tx_hash":       txHash,
	})
}
