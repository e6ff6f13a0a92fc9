package notify

import (
	"context"
	"sync"
	"sync/atomic"

	domain "github.com/campusbazaar/marketplace/internal/domain/notify"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Queue is an in-memory best-effort mail dispatch queue. State changes
// commit before their notification is enqueued; a failed or dropped
// delivery is logged and counted, never surfaced to the caller.
type Queue struct {
	sender    domain.Sender
	queue     chan domain.Message
	startOnce sync.Once
	stopOnce  sync.Once
	stopped   atomic.Bool
	cancel    context.CancelFunc
	done      chan struct{}
	log       *zap.Logger
	failures  prometheus.Counter
}

// NewQueue creates a queue with a buffered backlog. failures may be nil.
func NewQueue(sender domain.Sender, logger *zap.Logger, failures prometheus.Counter) *Queue {
	if logger == nil {
		logger = zap.L()
	}
	return &Queue{
		sender:   sender,
		queue:    make(chan domain.Message, 256),
		done:     make(chan struct{}),
		log:      logger.With(zap.String("component", "notify_queue")),
		failures: failures,
	}
}

func (q *Queue) Start(ctx context.Context) {
	q.startOnce.Do(func() {
		bg, cancel := context.WithCancel(context.WithoutCancel(ctx))
		q.cancel = cancel
		go q.dispatchLoop(bg)
		q.log.Info("notify_queue_started")
	})
}

// Stop drains the backlog and shuts the dispatch loop down.
func (q *Queue) Stop(ctx context.Context) {
	q.stopOnce.Do(func() {
		q.stopped.Store(true)
		close(q.queue)
		select {
		case <-q.done:
		case <-ctx.Done():
			if q.cancel != nil {
				q.cancel()
			}
			<-q.done
		}
		q.log.Info("notify_queue_stopped")
	})
}

func (q *Queue) Enqueue(ctx context.Context, msg domain.Message) {
	_ = ctx
	if q.stopped.Load() {
		q.drop(msg)
		return
	}
	select {
	case q.queue <- msg:
	default:
		q.drop(msg)
	}
}

func (q *Queue) drop(msg domain.Message) {
	q.log.Warn("notification_dropped",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	if q.failures != nil {
		q.failures.Inc()
	}
}

func (q *Queue) dispatchLoop(ctx context.Context) {
	defer close(q.done)
	for msg := range q.queue {
		if err := q.sender.Send(ctx, msg); err != nil {
			q.log.Error("notification_send_failed",
				zap.String("to", msg.To),
				zap.String("subject", msg.Subject),
				zap.Error(err),
			)
			if q.failures != nil {
				q.failures.Inc()
			}
		}
	}
}
