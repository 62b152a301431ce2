package notifications

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

const dequeueWait = 5 * time.Second

// Worker drains the queue and hands messages to the sender. A delivery
// failure parks the message on the failed list; it never stops the loop.
type Worker struct {
	queue  *Queue
	sender Sender
	log    *zap.Logger
}

func NewWorker(queue *Queue, sender Sender, log *zap.Logger) *Worker {
	return &Worker{queue: queue, sender: sender, log: log}
}

// Run consumes messages until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.log.Info("notification worker started")
	for {
		select {
		case <-ctx.Done():
			w.log.Info("notification worker stopped")
			return
		default:
		}

		msg, err := w.queue.Dequeue(ctx, dequeueWait)
		if err != nil {
			if errors.Is(err, ErrEmpty) || ctx.Err() != nil {
				continue
			}
			w.log.Error("dequeue failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		w.Process(ctx, *msg)
	}
}

// Process delivers a single message.
func (w *Worker) Process(ctx context.Context, msg Message) {
	if err := w.sender.Send(ctx, msg); err != nil {
		w.log.Error("notification delivery failed",
			zap.String("id", msg.ID),
			zap.String("kind", string(msg.Kind)),
			zap.String("recipient", msg.Recipient),
			zap.Error(err),
		)
		if ferr := w.queue.Fail(ctx, msg); ferr != nil {
			w.log.Error("failed to park notification", zap.String("id", msg.ID), zap.Error(ferr))
		}
		return
	}

	w.log.Info("notification sent",
		zap.String("id", msg.ID),
		zap.String("kind", string(msg.Kind)),
		zap.String("recipient", msg.Recipient),
	)
}
