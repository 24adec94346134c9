package service

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/haus-gg/haus-api/internal/models"
	"github.com/haus-gg/haus-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// memoryStore is an in-memory repository.Store for service tests. Atomic
// runs the callback against the same store: the tests that exercise failure
// paths all fail before mutating, so rollback semantics are not needed.
type memoryStore struct {
	houses        map[uint]models.House
	members       map[uint]models.Member
	activities    map[uint]models.Activity
	votes         map[uint]models.Vote
	completions   map[uint]models.ActivityCompletion
	notifications map[uint]models.Notification
	nextID        uint
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		houses:        make(map[uint]models.House),
		members:       make(map[uint]models.Member),
		activities:    make(map[uint]models.Activity),
		votes:         make(map[uint]models.Vote),
		completions:   make(map[uint]models.ActivityCompletion),
		notifications: make(map[uint]models.Notification),
		nextID:        1,
	}
}

func (m *memoryStore) allocateID() uint {
	id := m.nextID
	m.nextID++
	return id
}

func (m *memoryStore) Houses() repository.HouseRepository { return &memoryHouseRepo{store: m} }

func (m *memoryStore) Members() repository.MemberRepository { return &memoryMemberRepo{store: m} }

func (m *memoryStore) Activities() repository.ActivityRepository {
	return &memoryActivityRepo{store: m}
}

func (m *memoryStore) Votes() repository.VoteRepository { return &memoryVoteRepo{store: m} }

func (m *memoryStore) Completions() repository.CompletionRepository {
	return &memoryCompletionRepo{store: m}
}

func (m *memoryStore) Notifications() repository.NotificationRepository {
	return &memoryNotificationRepo{store: m}
}

func (m *memoryStore) Atomic(_ context.Context, fn func(repository.Store) error) error {
	return fn(m)
}

type memoryHouseRepo struct {
	store *memoryStore
}

func (r *memoryHouseRepo) Create(_ context.Context, house *models.House) error {
	house.ID = r.store.allocateID()
	house.CreatedAt = time.Now()
	house.UpdatedAt = time.Now()
	r.store.houses[house.ID] = *house
	return nil
}

func (r *memoryHouseRepo) GetByID(_ context.Context, id uint) (models.House, error) {
	house, ok := r.store.houses[id]
	if !ok {
		return models.House{}, gorm.ErrRecordNotFound
	}
	return house, nil
}

func (r *memoryHouseRepo) GetForUpdate(ctx context.Context, id uint) (models.House, error) {
	return r.GetByID(ctx, id)
}

func (r *memoryHouseRepo) Save(_ context.Context, house *models.House) error {
	if _, ok := r.store.houses[house.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	house.UpdatedAt = time.Now()
	r.store.houses[house.ID] = *house
	return nil
}

type memoryMemberRepo struct {
	store *memoryStore
}

func (r *memoryMemberRepo) Create(_ context.Context, member *models.Member) error {
	member.ID = r.store.allocateID()
	member.CreatedAt = time.Now()
	member.UpdatedAt = time.Now()
	r.store.members[member.ID] = *member
	return nil
}

func (r *memoryMemberRepo) GetActiveByWallet(_ context.Context, wallet string) (models.Member, error) {
	for _, member := range r.store.members {
		if member.Wallet == wallet && member.IsActive {
			return member, nil
		}
	}
	return models.Member{}, gorm.ErrRecordNotFound
}

func (r *memoryMemberRepo) GetActiveInHouse(_ context.Context, houseID uint, wallet string) (models.Member, error) {
	for _, member := range r.store.members {
		if member.HouseID == houseID && member.Wallet == wallet && member.IsActive {
			return member, nil
		}
	}
	return models.Member{}, gorm.ErrRecordNotFound
}

func (r *memoryMemberRepo) ListActiveByHouse(_ context.Context, houseID uint) ([]models.Member, error) {
	var members []models.Member
	for _, member := range r.store.members {
		if member.HouseID == houseID && member.IsActive {
			members = append(members, member)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, nil
}

func (r *memoryMemberRepo) CountActiveByHouse(ctx context.Context, houseID uint) (int64, error) {
	members, _ := r.ListActiveByHouse(ctx, houseID)
	return int64(len(members)), nil
}

func (r *memoryMemberRepo) TopContributors(ctx context.Context, houseID uint, limit int) ([]models.Member, error) {
	members, _ := r.ListActiveByHouse(ctx, houseID)
	sort.Slice(members, func(i, j int) bool {
		return members[i].ContributionScore > members[j].ContributionScore
	})
	if limit <= 0 {
		limit = 5
	}
	if len(members) > limit {
		members = members[:limit]
	}
	return members, nil
}

func (r *memoryMemberRepo) Save(_ context.Context, member *models.Member) error {
	if _, ok := r.store.members[member.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	member.UpdatedAt = time.Now()
	r.store.members[member.ID] = *member
	return nil
}

type memoryActivityRepo struct {
	store *memoryStore
}

func (r *memoryActivityRepo) Create(_ context.Context, activity *models.Activity) error {
	activity.ID = r.store.allocateID()
	activity.CreatedAt = time.Now()
	activity.UpdatedAt = time.Now()
	r.store.activities[activity.ID] = *activity
	return nil
}

func (r *memoryActivityRepo) GetByID(_ context.Context, id uint) (models.Activity, error) {
	activity, ok := r.store.activities[id]
	if !ok {
		return models.Activity{}, gorm.ErrRecordNotFound
	}
	return activity, nil
}

func (r *memoryActivityRepo) GetForUpdate(ctx context.Context, id uint) (models.Activity, error) {
	return r.GetByID(ctx, id)
}

func (r *memoryActivityRepo) ListByHouse(_ context.Context, houseID uint, filter repository.ActivityFilter) ([]models.Activity, int64, error) {
	var activities []models.Activity
	for _, activity := range r.store.activities {
		if activity.HouseID != houseID {
			continue
		}
		if filter.Status != "" && activity.Status != filter.Status {
			continue
		}
		activities = append(activities, activity)
	}
	sort.Slice(activities, func(i, j int) bool { return activities[i].ID > activities[j].ID })

	total := int64(len(activities))
	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		start := (page - 1) * filter.PageSize
		if start >= len(activities) {
			return []models.Activity{}, total, nil
		}
		end := start + filter.PageSize
		if end > len(activities) {
			end = len(activities)
		}
		activities = activities[start:end]
	}

	return activities, total, nil
}

func (r *memoryActivityRepo) CountByStatus(_ context.Context, houseID uint, status string) (int64, error) {
	var count int64
	for _, activity := range r.store.activities {
		if activity.HouseID == houseID && activity.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *memoryActivityRepo) Save(_ context.Context, activity *models.Activity) error {
	if _, ok := r.store.activities[activity.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	activity.UpdatedAt = time.Now()
	r.store.activities[activity.ID] = *activity
	return nil
}

type memoryVoteRepo struct {
	store *memoryStore
}

func (r *memoryVoteRepo) Create(_ context.Context, vote *models.Vote) error {
	for _, existing := range r.store.votes {
		if existing.ActivityID == vote.ActivityID && existing.VoterWallet == vote.VoterWallet {
			return gorm.ErrDuplicatedKey
		}
	}
	vote.ID = r.store.allocateID()
	vote.CreatedAt = time.Now()
	r.store.votes[vote.ID] = *vote
	return nil
}

func (r *memoryVoteRepo) Exists(_ context.Context, activityID uint, voterWallet string) (bool, error) {
	for _, vote := range r.store.votes {
		if vote.ActivityID == activityID && vote.VoterWallet == voterWallet {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryVoteRepo) ListByActivity(_ context.Context, activityID uint) ([]models.Vote, error) {
	var votes []models.Vote
	for _, vote := range r.store.votes {
		if vote.ActivityID == activityID {
			votes = append(votes, vote)
		}
	}
	sort.Slice(votes, func(i, j int) bool { return votes[i].ID < votes[j].ID })
	return votes, nil
}

type memoryCompletionRepo struct {
	store *memoryStore
}

func (r *memoryCompletionRepo) Create(_ context.Context, completion *models.ActivityCompletion) error {
	for _, existing := range r.store.completions {
		if existing.ActivityID == completion.ActivityID && existing.MemberID == completion.MemberID {
			return gorm.ErrDuplicatedKey
		}
	}
	completion.ID = r.store.allocateID()
	completion.CreatedAt = time.Now()
	completion.UpdatedAt = time.Now()
	r.store.completions[completion.ID] = *completion
	return nil
}

func (r *memoryCompletionRepo) Exists(_ context.Context, activityID, memberID uint) (bool, error) {
	for _, completion := range r.store.completions {
		if completion.ActivityID == activityID && completion.MemberID == memberID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryCompletionRepo) CountByActivity(_ context.Context, activityID uint) (int64, error) {
	var count int64
	for _, completion := range r.store.completions {
		if completion.ActivityID == activityID {
			count++
		}
	}
	return count, nil
}

func (r *memoryCompletionRepo) UpdateRewardStatus(_ context.Context, id uint, status, txHash string) error {
	completion, ok := r.store.completions[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	completion.RewardStatus = status
	if txHash != "" {
		completion.MintTxHash = txHash
	}
	completion.UpdatedAt = time.Now()
	r.store.completions[id] = completion
	return nil
}

func (r *memoryCompletionRepo) ListByRewardStatus(_ context.Context, status string, limit int) ([]models.ActivityCompletion, error) {
	var completions []models.ActivityCompletion
	for _, completion := range r.store.completions {
		if completion.RewardStatus == status {
			completions = append(completions, completion)
		}
	}
	sort.Slice(completions, func(i, j int) bool { return completions[i].ID < completions[j].ID })
	if limit > 0 && len(completions) > limit {
		completions = completions[:limit]
	}
	return completions, nil
}

type memoryNotificationRepo struct {
	store *memoryStore
}

func (r *memoryNotificationRepo) Create(_ context.Context, notification *models.Notification) error {
	notification.ID = r.store.allocateID()
	notification.CreatedAt = time.Now()
	r.store.notifications[notification.ID] = *notification
	return nil
}

func (r *memoryNotificationRepo) ListByHouse(_ context.Context, houseID uint, limit, offset int) ([]models.Notification, error) {
	var notifications []models.Notification
	for _, notification := range r.store.notifications {
		if notification.HouseID == houseID {
			notifications = append(notifications, notification)
		}
	}
	sort.Slice(notifications, func(i, j int) bool { return notifications[i].ID > notifications[j].ID })

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(notifications) {
		return []models.Notification{}, nil
	}
	end := offset + limit
	if end > len(notifications) {
		end = len(notifications)
	}
	return notifications[offset:end], nil
}

// stubNotifier records published events for assertion.
type stubNotifier struct {
	events []string
}

func (s *stubNotifier) Notify(_ context.Context, _ uint, eventType, _ string, _ map[string]interface{}) {
	s.events = append(s.events, eventType)
}

func (s *stubNotifier) published(eventType string) bool {
	for _, event := range s.events {
		if event == eventType {
			return true
		}
	}
	return false
}

// stubIssuer mints successfully unless err is set.
type stubIssuer struct {
	err    error
	mints  int
	lastTo string
	lastN  int64
}

func (s *stubIssuer) MintTo(_ context.Context, recipient string, amount int64) (string, error) {
	s.mints++
	s.lastTo = recipient
	s.lastN = amount
	if s.err != nil {
		return "", s.err
	}
	return "0xmint0000", nil
}

// stubRegistry treats every wallet in verified as a producer owning every
// event in owned.
type stubRegistry struct {
	verified map[string]bool
	owned    map[string]string
}

func (s *stubRegistry) IsVerifiedProducer(_ context.Context, wallet string) (bool, error) {
	return s.verified[wallet], nil
}

func (s *stubRegistry) EventBelongsToProducer(_ context.Context, eventRef, wallet string) (bool, error) {
	return s.owned[eventRef] == wallet, nil
}

type stubAvatars struct {
	refs map[string]string
}

func (s *stubAvatars) Resolve(_ context.Context, wallet string) (string, error) {
	return s.refs[wallet], nil
}

type stubStats struct {
	invalidated []uint
}

func (s *stubStats) Invalidate(_ context.Context, houseID uint) {
	s.invalidated = append(s.invalidated, houseID)
}
