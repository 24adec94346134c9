package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/haus-gg/haus-api/internal/models"
)

func TestHouseStatsServiceAggregates(t *testing.T) {
	store := newMemoryStore()
	svc := NewHouseStatsService(store, nil, time.Minute, testLogger())

	house := seedHouse(t, store, 5)

	require.NoError(t, store.Activities().Create(context.Background(), &models.Activity{
		HouseID: house.ID, Title: "A", Status: models.ActivityStatusPending, IsActive: true,
	}))
	require.NoError(t, store.Activities().Create(context.Background(), &models.Activity{
		HouseID: house.ID, Title: "B", Status: models.ActivityStatusApproved, IsActive: true,
	}))
	require.NoError(t, store.Activities().Create(context.Background(), &models.Activity{
		HouseID: house.ID, Title: "C", Status: models.ActivityStatusApproved, IsActive: true,
	}))
	require.NoError(t, store.Members().Create(context.Background(), &models.Member{
		HouseID: house.ID, Wallet: "0xalice", ContributionScore: 300, IsActive: true,
	}))
	require.NoError(t, store.Members().Create(context.Background(), &models.Member{
		HouseID: house.ID, Wallet: "0xbob", ContributionScore: 500, IsActive: true,
	}))

	stats, err := svc.GetStats(context.Background(), house.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.PendingActivities)
	require.Equal(t, int64(2), stats.ApprovedActivities)
	require.Equal(t, int64(0), stats.RejectedActivities)
	require.Len(t, stats.TopContributors, 2)
	require.Equal(t, "0xbob", stats.TopContributors[0].Wallet)
}

func TestHouseStatsServiceMissingHouse(t *testing.T) {
	store := newMemoryStore()
	svc := NewHouseStatsService(store, nil, time.Minute, testLogger())

	_, err := svc.GetStats(context.Background(), 12)
	require.ErrorIs(t, err, ErrHouseNotFound)
}

func TestHouseStatsServiceCache(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer redisClient.Close()

	store := newMemoryStore()
	svc := NewHouseStatsService(store, redisClient, time.Minute, testLogger())

	house := seedHouse(t, store, 5)
	require.NoError(t, store.Activities().Create(context.Background(), &models.Activity{
		HouseID: house.ID, Title: "A", Status: models.ActivityStatusApproved, IsActive: true,
	}))

	first, err := svc.GetStats(context.Background(), house.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), first.ApprovedActivities)

	// mutate the store to prove the next read comes from cache
	require.NoError(t, store.Activities().Create(context.Background(), &models.Activity{
		HouseID: house.ID, Title: "B", Status: models.ActivityStatusApproved, IsActive: true,
	}))

	cached, err := svc.GetStats(context.Background(), house.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), cached.ApprovedActivities)

	svc.Invalidate(context.Background(), house.ID)

	refreshed, err := svc.GetStats(context.Background(), house.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), refreshed.ApprovedActivities)
}
