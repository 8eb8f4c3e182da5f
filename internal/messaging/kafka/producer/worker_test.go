package producer

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-leave/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeOutboxRepository struct {
	pending []kafka.OutboxEvent
	listErr error
	sent    []string
	failed  map[string]string
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.pending = append(f.pending, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return f.pending, f.listErr
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	if f.failed == nil {
		f.failed = map[string]string{}
	}
	f.failed[id] = reason
	return nil
}

type fakeWriter struct {
	messages []kafkago.Message
	failKey  string
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if string(m.Key) == w.failKey {
			return errors.New("broker unavailable")
		}
		w.messages = append(w.messages, m)
	}
	return nil
}

func header(m kafkago.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestProcessPendingEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes and marks", func(t *testing.T) {
		repo := &fakeOutboxRepository{pending: []kafka.OutboxEvent{
			{ID: "o-1", RequestID: "req-1", AggregateType: "leave", AggregateID: "leave-1", EventType: "LEAVE_SUBMITTED", Topic: "t", Payload: []byte("{}")},
			{ID: "o-2", AggregateType: "leave", AggregateID: "leave-2", EventType: "LEAVE_REVIEWED", Topic: "t", Payload: []byte("{}")},
		}}
		writer := &fakeWriter{failKey: "leave-2"}

		sent, err := ProcessPendingEvents(ctx, repo, writer, zap.NewNop())

		assert.NoError(t, err)
		assert.Equal(t, 1, sent)
		assert.Equal(t, []string{"o-1"}, repo.sent)
		assert.Equal(t, "broker unavailable", repo.failed["o-2"])
		if assert.Len(t, writer.messages, 1) {
			m := writer.messages[0]
			assert.Equal(t, "leave-1", string(m.Key))
			assert.Equal(t, "LEAVE_SUBMITTED", header(m, "event_type"))
			assert.Equal(t, "req-1", header(m, "request_id"))
			assert.Equal(t, "o-1", header(m, "outbox_id"))
		}
	})

	t.Run("nothing pending", func(t *testing.T) {
		sent, err := ProcessPendingEvents(ctx, &fakeOutboxRepository{}, &fakeWriter{}, zap.NewNop())

		assert.NoError(t, err)
		assert.Zero(t, sent)
	})

	t.Run("list error", func(t *testing.T) {
		_, err := ProcessPendingEvents(ctx, &fakeOutboxRepository{listErr: errors.New("db down")}, &fakeWriter{}, zap.NewNop())

		assert.Error(t, err)
	})
}
