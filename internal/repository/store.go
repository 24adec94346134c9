package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store aggregates the governance repositories behind a single transaction
// boundary. Every mutating governance operation runs inside Atomic so the
// engine behaves as a serialized state machine: the transaction either
// applies the whole transition or none of it, and row locks taken through
// the ForUpdate accessors make concurrent submissions resolve in commit
// order.
type Store interface {
	Houses() HouseRepository
	Members() MemberRepository
	Activities() ActivityRepository
	Votes() VoteRepository
	Completions() CompletionRepository
	Notifications() NotificationRepository

	// Atomic runs fn against a Store bound to a single database transaction.
	Atomic(ctx context.Context, fn func(Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore builds the gorm-backed store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Houses() HouseRepository { return NewHouseRepository(s.db) }

func (s *gormStore) Members() MemberRepository { return NewMemberRepository(s.db) }

func (s *gormStore) Activities() ActivityRepository { return NewActivityRepository(s.db) }

func (s *gormStore) Votes() VoteRepository { return NewVoteRepository(s.db) }

func (s *gormStore) Completions() CompletionRepository { return NewCompletionRepository(s.db) }

func (s *gormStore) Notifications() NotificationRepository { return NewNotificationRepository(s.db) }

func (s *gormStore) Atomic(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
