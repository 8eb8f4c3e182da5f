package notification

import (
	"context"
	"encoding/json"

	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
)

// OutboxSender queues notifications in the outbox table; the worker publishes them to kafka.
type OutboxSender struct {
	repo kafka.OutboxRepository
}

func NewOutboxSender(repo kafka.OutboxRepository) *OutboxSender {
	return &OutboxSender{repo: repo}
}

func (s *OutboxSender) Send(ctx context.Context, event events.LeaveNotificationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	outbox := kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave",
		AggregateID:   event.LeaveID,
		EventType:     event.EventType,
		Topic:         events.LeaveNotificationTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := kafka.ValidateOutboxEvent(outbox); err != nil {
		return err
	}
	return s.repo.Create(ctx, outbox)
}
