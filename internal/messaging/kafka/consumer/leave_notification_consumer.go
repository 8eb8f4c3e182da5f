package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go-leave/internal/events"
	"go-leave/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

func ConsumeLeaveNotifications(
	ctx context.Context,
	reader MessageReader,
	sender notification.Sender,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_notification")
	log.Info("leave notification consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave notification consumer stopped")
				return
			}
			log.Error("fetch leave notification message failed", zap.Error(err))
			continue
		}

		handleLeaveNotification(ctx, reader, sender, msg, log)
	}
}

// handleLeaveNotification commits delivered and undeliverable messages. Transport failures are left
// uncommitted so the message is redelivered after a rebalance or restart.
func handleLeaveNotification(
	ctx context.Context,
	reader MessageReader,
	sender notification.Sender,
	msg kafkago.Message,
	log *zap.Logger,
) {
	var event events.LeaveNotificationEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode leave notification event failed", zap.Error(err))
		_ = reader.CommitMessages(ctx, msg)
		return
	}

	if err := sender.Send(ctx, event); err != nil {
		if errors.Is(err, notification.ErrUndeliverable) {
			log.Warn("leave notification dropped",
				zap.String("leave_id", event.LeaveID),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			return
		}
		log.Error("send leave notification failed",
			zap.String("leave_id", event.LeaveID),
			zap.String("recipient_id", event.RecipientID),
			zap.Error(err),
		)
		return
	}

	if err := reader.CommitMessages(ctx, msg); err != nil {
		log.Error("commit leave notification message failed", zap.Error(err))
		return
	}

	log.Info("leave notification delivered",
		zap.String("leave_id", event.LeaveID),
		zap.String("event_type", event.EventType),
		zap.String("recipient_id", event.RecipientID),
	)
}
