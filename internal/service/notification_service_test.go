package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNotificationServicePersistsAndLists(t *testing.T) {
	store := newMemoryStore()
	svc := NewNotificationService(store, nil, "", nil, testLogger())

	svc.Notify(context.Background(), 7, EventMemberJoined, "a new member joined the house", map[string]interface{}{
		"wallet": "0xalice",
	})
	svc.Notify(context.Background(), 7, EventActivityProposed, "activity proposed", nil)
	svc.Notify(context.Background(), 9, EventHouseCreated, "house created", nil)

	notifications, err := svc.List(context.Background(), 7, 10, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	// Newest first.
	require.Equal(t, EventActivityProposed, notifications[0].Type)
	require.Equal(t, EventMemberJoined, notifications[1].Type)
	require.Equal(t, "0xalice", notifications[1].Metadata["wallet"])
}

func TestNotificationServiceSanitizesMessage(t *testing.T) {
	store := newMemoryStore()
	svc := NewNotificationService(store, nil, "", nil, testLogger())

	svc.Notify(context.Background(), 3, EventActivityProposed, "<script>alert(1)</script>", nil)

	notifications, err := svc.List(context.Background(), 3, 10, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	// A message that sanitizes to nothing falls back to the event type.
	require.Equal(t, EventActivityProposed, notifications[0].Message)
}

func TestNotificationServiceSubscribe(t *testing.T) {
	store := newMemoryStore()
	svc := NewNotificationService(store, nil, "", nil, testLogger())

	stream, cleanup := svc.Subscribe(5)
	defer cleanup()

	svc.Notify(context.Background(), 5, EventActivityApproved, "activity approved", nil)
	svc.Notify(context.Background(), 6, EventActivityApproved, "other house", nil)

	select {
	case notification := <-stream:
		require.Equal(t, uint(5), notification.HouseID)
		require.Equal(t, EventActivityApproved, notification.Type)
	case <-time.After(time.Second):
		t.Fatal("expected a streamed notification")
	}

	select {
	case notification := <-stream:
		t.Fatalf("unexpected cross-house notification: %+v", notification)
	default:
	}
}

func TestNotificationServiceUnsubscribeClosesStream(t *testing.T) {
	store := newMemoryStore()
	svc := NewNotificationService(store, nil, "", nil, testLogger())

	stream, cleanup := svc.Subscribe(5)
	cleanup()

	_, open := <-stream
	require.False(t, open)
}
