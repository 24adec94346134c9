package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/haus-gg/haus-api/internal/dto"
	"github.com/haus-gg/haus-api/internal/models"
	"github.com/haus-gg/haus-api/internal/observability"
	"github.com/haus-gg/haus-api/internal/repository"
)

const notificationBufferSize = 16

// Governance notification types emitted after mutating operations.
const (
	EventHouseCreated          = "house.created"
	EventHouseDeactivated      = "house.deactivated"
	EventLeadershipTransferred = "house.leadership_transferred"
	EventMemberJoined          = "member.joined"
	EventMemberLeft            = "member.left"
	EventActivityProposed      = "activity.proposed"
	EventActivityVoted         = "activity.voted"
	EventActivityApproved      = "activity.approved"
	EventActivityRejected      = "activity.rejected"
	EventActivityCompleted     = "activity.completed"
	EventRewardIssued          = "reward.issued"
	EventRewardFailed          = "reward.failed"
)

// NotificationPublisher is the broadcast seam the governance services use.
// Publishing is fire-and-forget: it is not part of the transactional
// contract, so failures are logged and never abort the operation.
type NotificationPublisher interface {
	Notify(ctx context.Context, houseID uint, eventType, message string, metadata map[string]interface{})
}

// NotificationService persists and streams house notifications via SSE.
type NotificationService interface {
	NotificationPublisher
	List(ctx context.Context, houseID uint, limit, offset int) ([]dto.NotificationResponse, error)
	Subscribe(houseID uint) (<-chan dto.NotificationResponse, func())
	Start(ctx context.Context)
}

type notificationService struct {
	store       repository.Store
	redis       *redis.Client
	redisStream string
	nats        *nats.Conn
	natsSubject string
	logger      zerolog.Logger
	tracer      trace.Tracer
	sanitizer   *bluemonday.Policy
	broker      *notificationBroker
	nodeID      string
}

type notificationEvent struct {
	Source       string                   `json:"source"`
	Notification dto.NotificationResponse `json:"notification"`
	SentAt       time.Time                `json:"sent_at"`
}

type notificationBroker struct {
	mu          sync.RWMutex
	subscribers map[uint]map[chan dto.NotificationResponse]struct{}
}

// NewNotificationService constructs a notification service. The redis client
// and NATS connection are optional; when present they fan events out to
// other nodes and to external consumers such as the client cache and the
// reward reconciliation indexer.
func NewNotificationService(store repository.Store, redisClient *redis.Client, channelBase string, natsConn *nats.Conn, logger zerolog.Logger) NotificationService {
	stream := ""
	subject := ""
	if channelBase != "" {
		stream = channelBase + ":governance"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".governance"
	}

	return &notificationService{
		store:       store,
		redis:       redisClient,
		redisStream: stream,
		nats:        natsConn,
		natsSubject: subject,
		logger:      logger.With().Str("component", "notification_service").Logger(),
		tracer:      otel.Tracer("github.com/haus-gg/haus-api/internal/service/notification"),
		sanitizer:   bluemonday.StrictPolicy(),
		broker: &notificationBroker{
			subscribers: make(map[uint]map[chan dto.NotificationResponse]struct{}),
		},
		nodeID: uuid.NewString(),
	}
}

func (s *notificationService) Start(ctx context.Context) {
	if s.redis != nil && s.redisStream != "" {
		go s.consumeRedis(ctx)
	}
	if s.nats != nil && s.natsSubject != "" {
		go s.consumeNATS(ctx)
	}
}

func (s *notificationService) Notify(ctx context.Context, houseID uint, eventType, message string, metadata map[string]interface{}) {
	cleanMessage := strings.TrimSpace(s.sanitizer.Sanitize(message))
	if cleanMessage == "" {
		cleanMessage = eventType
	}

	attrs := []attribute.KeyValue{
		attribute.String("notification.type", eventType),
		attribute.String("notification.house_id", strconv.FormatUint(uint64(houseID), 10)),
	}

	spanCtx, span := s.tracer.Start(ctx, "notifications.publish", trace.WithAttributes(attrs...))
	defer span.End()

	meta := datatypes.JSONMap{}
	for key, value := range metadata {
		meta[key] = value
	}

	model := models.Notification{
		HouseID:  houseID,
		Type:     eventType,
		Message:  cleanMessage,
		Metadata: meta,
	}

	if err := s.store.Notifications().Create(spanCtx, &model); err != nil {
		span.RecordError(err)
		s.logger.Error().Err(err).Str("type", eventType).Msg("failed to persist notification")
		return
	}

	response := dto.NewNotificationResponse(model)
	s.broker.broadcast(houseID, response)
	if err := s.publish(spanCtx, response); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish notification to broker")
	}

	observability.NotificationsPublishedTotal().WithLabelValues(eventType).Inc()
}

func (s *notificationService) List(ctx context.Context, houseID uint, limit, offset int) ([]dto.NotificationResponse, error) {
	notifications, err := s.store.Notifications().ListByHouse(ctx, houseID, limit, offset)
	if err != nil {
		return nil, err
	}

	return dto.NewNotificationResponseSlice(notifications), nil
}

func (s *notificationService) Subscribe(houseID uint) (<-chan dto.NotificationResponse, func()) {
	channel := make(chan dto.NotificationResponse, notificationBufferSize)

	s.broker.subscribe(houseID, channel)
	observability.SSEClientsActive().Inc()

	cleanup := func() {
		s.broker.unsubscribe(houseID, channel)
		observability.SSEClientsActive().Dec()
	}

	return channel, cleanup
}

func (s *notificationService) publish(ctx context.Context, notification dto.NotificationResponse) error {
	event := notificationEvent{
		Source:       s.nodeID,
		Notification: notification,
		SentAt:       time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if s.redis != nil && s.redisStream != "" {
		if err := s.redis.Publish(ctx, s.redisStream, payload).Err(); err != nil {
			return err
		}
	}

	if s.nats != nil && s.natsSubject != "" {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			return err
		}
	}

	return nil
}

func (s *notificationService) consumeRedis(ctx context.Context) {
	pubsub := s.redis.Subscribe(ctx, s.redisStream)
	defer func() { _ = pubsub.Close() }()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Error().Err(err).Msg("notification redis subscription closed")
			return
		}
		s.handleEvent([]byte(msg.Payload))
	}
}

func (s *notificationService) consumeNATS(ctx context.Context) {
	sub, err := s.nats.QueueSubscribe(s.natsSubject, "haus-governance", func(msg *nats.Msg) {
		s.handleEvent(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to nats governance subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain governance nats subscription")
		}
	}()
}

func (s *notificationService) handleEvent(payload []byte) {
	var event notificationEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		s.logger.Warn().Err(err).Msg("invalid notification event payload")
		return
	}

	if event.Source == s.nodeID {
		return
	}

	s.broker.broadcast(event.Notification.HouseID, event.Notification)
}

func (b *notificationBroker) subscribe(houseID uint, ch chan dto.NotificationResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscribers[houseID]; !exists {
		b.subscribers[houseID] = make(map[chan dto.NotificationResponse]struct{})
	}
	b.subscribers[houseID][ch] = struct{}{}
}

func (b *notificationBroker) unsubscribe(houseID uint, ch chan dto.NotificationResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subscribers, ok := b.subscribers[houseID]; ok {
		delete(subscribers, ch)
		close(ch)
		if len(subscribers) == 0 {
			delete(b.subscribers, houseID)
		}
	}
}

func (b *notificationBroker) broadcast(houseID uint, notification dto.NotificationResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	subscribers := b.subscribers[houseID]
	for ch := range subscribers {
		select {
		case ch <- notification:
		default:
		}
	}
}
