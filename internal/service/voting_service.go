package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/haus-gg/haus-api/internal/dto"
	"github.com/haus-gg/haus-api/internal/models"
	"github.com/haus-gg/haus-api/internal/observability"
	"github.com/haus-gg/haus-api/internal/repository"
)

const leaderVoteWeight = 2

// VotingService records ballots on pending activities and applies the quorum
// decision rule after every ballot. The activity row lock serializes
// concurrent ballots, so the vote that flips the decision is determined by
// commit order alone.
//
// Decision rule, evaluated against weighted tallies:
//   - approve once votesFor reaches the configured minimum;
//   - reject once votesAgainst exceeds votesFor and the combined tally
//     reaches the minimum;
//   - otherwise the activity stays pending.
//
// A leader's favorable ballot counts double. The weight is resolved against
// the leader at vote time, not at proposal time, so a leadership transfer
// mid-vote shifts the extra weight to the new leader.
type VotingService interface {
	Vote(ctx context.Context, actor Identity, houseID, activityID uint, inFavor bool) (dto.ActivityResponse, error)
	LeaderApprove(ctx context.Context, actor Identity, houseID, activityID uint) (dto.ActivityResponse, error)
}

type votingService struct {
	store            repository.Store
	notifier         NotificationPublisher
	minVotesRequired int
	logger           zerolog.Logger
	now              func() time.Time
}

// NewVotingService builds the voting service. minVotesRequired below 1 falls
// back to the default quorum of 2.
func NewVotingService(store repository.Store, notifier NotificationPublisher, minVotesRequired int, logger zerolog.Logger) VotingService {
	if minVotesRequired < 1 {
		minVotesRequired = 2
	}

	return &votingService{
		store:            store,
		notifier:         notifier,
		minVotesRequired: minVotesRequired,
		logger:           logger.With().Str("component", "voting_service").Logger(),
		now:              time.Now,
	}
}

func (s *votingService) Vote(ctx context.Context, actor Identity, houseID, activityID uint, inFavor bool) (dto.ActivityResponse, error) {
	var activity models.Activity

	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		var err error
		activity, err = tx.Activities().GetForUpdate(ctx, activityID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrActivityNotFound
			}
			return err
		}
		if activity.HouseID != houseID {
			return ErrActivityNotFound
		}
		if activity.Decided() {
			return ErrActivityDecided
		}

		house, err := tx.Houses().GetByID(ctx, houseID)
		if err != nil {
			return err
		}

		if _, err := tx.Members().GetActiveInHouse(ctx, houseID, actor.Wallet); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotAMember
			}
			return err
		}

		voted, err := tx.Votes().Exists(ctx, activityID, actor.Wallet)
		if err != nil {
			return err
		}
		if voted {
			return ErrAlreadyVoted
		}

		weight := 1
		if inFavor && actor.Wallet == house.LeaderWallet {
			weight = leaderVoteWeight
		}

		vote := models.Vote{
			ActivityID:  activityID,
			VoterWallet: actor.Wallet,
			InFavor:     inFavor,
			Weight:      weight,
		}
		if err := tx.Votes().Create(ctx, &vote); err != nil {
			return err
		}

		if inFavor {
			activity.VotesFor += weight
		} else {
			activity.VotesAgainst += weight
		}

		s.applyDecisionRule(&activity)

		return tx.Activities().Save(ctx, &activity)
	})
	if err != nil {
		return dto.ActivityResponse{}, err
	}

	observability.VotesCastTotal().Inc()
	s.notifier.Notify(ctx, houseID, EventActivityVoted, "a ballot was cast", map[string]interface{}{
		"activity_id":   activity.ID,
		"votes_for":     activity.VotesFor,
		"votes_against": activity.VotesAgainst,
	})
	s.announceDecision(ctx, activity)

	return dto.NewActivityResponse(activity), nil
}

func (s *votingService) LeaderApprove(ctx context.Context, actor Identity, houseID, activityID uint) (dto.ActivityResponse, error) {
	var activity models.Activity

	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		var err error
		activity, err = tx.Activities().GetForUpdate(ctx, activityID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrActivityNotFound
			}
			return err
		}
		if activity.HouseID != houseID {
			return ErrActivityNotFound
		}
		if activity.Decided() {
			return ErrActivityDecided
		}

		house, err := tx.Houses().GetByID(ctx, houseID)
		if err != nil {
			return err
		}
		if house.LeaderWallet != actor.Wallet {
			return ErrUnauthorized
		}

		decided := s.now()
		activity.Status = models.ActivityStatusApproved
		activity.DecidedAt = &decided

		return tx.Activities().Save(ctx, &activity)
	})
	if err != nil {
		return dto.ActivityResponse{}, err
	}

	s.logger.Info().Uint("activity_id", activity.ID).Msg("activity approved by leader override")
	s.announceDecision(ctx, activity)

	return dto.NewActivityResponse(activity), nil
}

func (s *votingService) applyDecisionRule(activity *models.Activity) {
	total := activity.VotesFor + activity.VotesAgainst

	switch {
	case activity.VotesFor >= s.minVotesRequired:
		decided := s.now()
		activity.Status = models.ActivityStatusApproved
		activity.DecidedAt = &decided
	case activity.VotesAgainst > activity.VotesFor && total >= s.minVotesRequired:
		decided := s.now()
		activity.Status = models.ActivityStatusRejected
		activity.DecidedAt = &decided
	}
}

func (s *votingService) announceDecision(ctx context.Context, activity models.Activity) {
	switch activity.Status {
	case models.ActivityStatusApproved:
		observability.ActivitiesDecidedTotal().WithLabelValues(models.ActivityStatusApproved).Inc()
		s.notifier.Notify(ctx, activity.HouseID, EventActivityApproved, "activity "+activity.Title+" approved", map[string]interface{}{
			"activity_id": activity.ID,
		})
	case models.ActivityStatusRejected:
		observability.ActivitiesDecidedTotal().WithLabelValues(models.ActivityStatusRejected).Inc()
		s.notifier.Notify(ctx, activity.HouseID, EventActivityRejected, "activity "+activity.Title+" rejected", map[string]interface{}{
			"activity_id": activity.ID,
		})
	}
}
