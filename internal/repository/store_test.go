package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/haus-gg/haus-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.House{},
		&models.Member{},
		&models.Activity{},
		&models.Vote{},
		&models.ActivityCompletion{},
		&models.Notification{},
	))
	return db
}

func TestStoreAtomicRollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	sentinel := errors.New("boom")
	err := store.Atomic(context.Background(), func(tx Store) error {
		house := models.House{Name: "Doomed", EventRef: "event-1", LeaderWallet: "0xleader", Capacity: 5, IsActive: true}
		if err := tx.Houses().Create(context.Background(), &house); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	var count int64
	require.NoError(t, db.Model(&models.House{}).Count(&count).Error)
	require.Equal(t, int64(0), count)
}

func TestStoreAtomicCommits(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	err := store.Atomic(context.Background(), func(tx Store) error {
		house := models.House{Name: "Kept", EventRef: "event-1", LeaderWallet: "0xleader", Capacity: 5, IsActive: true}
		return tx.Houses().Create(context.Background(), &house)
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.House{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestVoteRepositoryUniquePerVoter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVoteRepository(db)

	first := models.Vote{ActivityID: 1, VoterWallet: "0xalice", InFavor: true, Weight: 1}
	require.NoError(t, repo.Create(context.Background(), &first))

	duplicate := models.Vote{ActivityID: 1, VoterWallet: "0xalice", InFavor: false, Weight: 1}
	require.Error(t, repo.Create(context.Background(), &duplicate))

	// Same voter on a different activity is fine.
	other := models.Vote{ActivityID: 2, VoterWallet: "0xalice", InFavor: true, Weight: 1}
	require.NoError(t, repo.Create(context.Background(), &other))

	exists, err := repo.Exists(context.Background(), 1, "0xalice")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.Exists(context.Background(), 1, "0xbob")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestCompletionRepositoryUniquePerMember(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCompletionRepository(db)

	first := models.ActivityCompletion{ActivityID: 1, MemberID: 1, Wallet: "0xalice", RewardTokens: 2, RewardStatus: models.RewardStatusPending}
	require.NoError(t, repo.Create(context.Background(), &first))

	duplicate := models.ActivityCompletion{ActivityID: 1, MemberID: 1, Wallet: "0xalice", RewardTokens: 2, RewardStatus: models.RewardStatusPending}
	require.Error(t, repo.Create(context.Background(), &duplicate))

	count, err := repo.CountByActivity(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestCompletionRepositoryRewardStatusLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCompletionRepository(db)

	completion := models.ActivityCompletion{ActivityID: 1, MemberID: 1, Wallet: "0xalice", RewardTokens: 2, RewardStatus: models.RewardStatusPending}
	require.NoError(t, repo.Create(context.Background(), &completion))

	pending, err := repo.ListByRewardStatus(context.Background(), models.RewardStatusPending, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, repo.UpdateRewardStatus(context.Background(), completion.ID, models.RewardStatusPaid, "0xtx"))

	pending, err = repo.ListByRewardStatus(context.Background(), models.RewardStatusPending, 10)
	require.NoError(t, err)
	require.Empty(t, pending)

	var stored models.ActivityCompletion
	require.NoError(t, db.First(&stored, completion.ID).Error)
	require.Equal(t, models.RewardStatusPaid, stored.RewardStatus)
	require.Equal(t, "0xtx", stored.MintTxHash)
}

func TestActivityRepositoryListFiltersAndPaginates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityRepository(db)

	now := time.Now()
	for i := 0; i < 3; i++ {
		activity := models.Activity{
			HouseID:          1,
			Title:            fmt.Sprintf("Approved %d", i),
			ExperienceReward: 100,
			ProposerWallet:   "0xalice",
			Status:           models.ActivityStatusApproved,
			IsActive:         true,
			CreatedAt:        now.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(context.Background(), &activity))
	}
	pendingActivity := models.Activity{
		HouseID: 1, Title: "Pending", ExperienceReward: 100, ProposerWallet: "0xbob",
		Status: models.ActivityStatusPending, IsActive: true, CreatedAt: now.Add(time.Hour),
	}
	require.NoError(t, repo.Create(context.Background(), &pendingActivity))
	otherHouse := models.Activity{
		HouseID: 2, Title: "Elsewhere", ExperienceReward: 100, ProposerWallet: "0xbob",
		Status: models.ActivityStatusPending, IsActive: true,
	}
	require.NoError(t, repo.Create(context.Background(), &otherHouse))

	all, total, err := repo.ListByHouse(context.Background(), 1, ActivityFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(4), total)
	require.Len(t, all, 4)
	require.Equal(t, "Pending", all[0].Title, "newest activity should appear first")

	approved, total, err := repo.ListByHouse(context.Background(), 1, ActivityFilter{Status: models.ActivityStatusApproved})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, approved, 3)

	paged, total, err := repo.ListByHouse(context.Background(), 1, ActivityFilter{Status: models.ActivityStatusApproved, Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, paged, 1)

	count, err := repo.CountByStatus(context.Background(), 1, models.ActivityStatusPending)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestMemberRepositoryActiveQueries(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMemberRepository(db)

	active := models.Member{HouseID: 1, Wallet: "0xalice", AvatarRef: "a", ContributionScore: 100, IsActive: true}
	require.NoError(t, repo.Create(context.Background(), &active))

	left := time.Now()
	former := models.Member{HouseID: 1, Wallet: "0xbob", AvatarRef: "b", ContributionScore: 900, IsActive: false, LeftAt: &left}
	require.NoError(t, repo.Create(context.Background(), &former))

	topScorer := models.Member{HouseID: 1, Wallet: "0xcarol", AvatarRef: "c", ContributionScore: 500, IsActive: true}
	require.NoError(t, repo.Create(context.Background(), &topScorer))

	_, err := repo.GetActiveByWallet(context.Background(), "0xbob")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	found, err := repo.GetActiveByWallet(context.Background(), "0xalice")
	require.NoError(t, err)
	require.Equal(t, active.ID, found.ID)

	members, err := repo.ListActiveByHouse(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, members, 2)

	count, err := repo.CountActiveByHouse(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	// Former members do not appear on the leaderboard no matter the score.
	top, err := repo.TopContributors(context.Background(), 1, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	require.Equal(t, "0xcarol", top[0].Wallet)
}

func TestNotificationRepositoryListOrdersAndLimits(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)

	base := time.Now()
	for i := 0; i < 3; i++ {
		notification := models.Notification{
			HouseID:   1,
			Type:      "activity.proposed",
			Message:   fmt.Sprintf("proposal %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.Create(context.Background(), &notification))
	}

	notifications, err := repo.ListByHouse(context.Background(), 1, 2, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	require.Equal(t, "proposal 2", notifications[0].Message)

	rest, err := repo.ListByHouse(context.Background(), 1, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	require.Equal(t, "proposal 0", rest[0].Message)
}
