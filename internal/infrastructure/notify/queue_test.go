package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domain "github.com/campusbazaar/marketplace/internal/domain/notify"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []domain.Message
	err  error
}

func (s *fakeSender) Send(ctx context.Context, msg domain.Message) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *fakeSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func TestQueueDeliversAndDrainsOnStop(t *testing.T) {
	sender := &fakeSender{}
	q := NewQueue(sender, zap.NewNop(), nil)
	q.Start(context.Background())

	for i := 0; i < 5; i++ {
		q.Enqueue(context.Background(), domain.Message{To: "a@x.com", Subject: "s"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	q.Stop(ctx)

	require.Equal(t, 5, sender.count())
}

func TestQueueSwallowsSendFailures(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp down")}
	q := NewQueue(sender, zap.NewNop(), nil)
	q.Start(context.Background())

	// Enqueue never reports the failure to the caller.
	q.Enqueue(context.Background(), domain.Message{To: "a@x.com", Subject: "s"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	q.Stop(ctx)

	require.Zero(t, sender.count())
}

func TestQueueDropsAfterStop(t *testing.T) {
	sender := &fakeSender{}
	q := NewQueue(sender, zap.NewNop(), nil)
	q.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	q.Stop(ctx)

	q.Enqueue(context.Background(), domain.Message{To: "a@x.com", Subject: "s"})
	require.Zero(t, sender.count())
}
