package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey  = "notify:queue"  // pending messages, LPUSH / BRPOP
	failedKey = "notify:failed" // messages whose delivery failed
)

// ErrEmpty is returned by Dequeue when no message arrived within the wait
// window.
var ErrEmpty = errors.New("notification queue is empty")

// Queue is a Redis-backed notification job queue. Enqueue is cheap enough to
// call inline after a transition commits; consumption happens in the worker.
type Queue struct {
	client *redis.Client
}

func NewQueue(client *redis.Client) *Queue {
	return &Queue{client: client}
}

func (q *Queue) Enqueue(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := q.client.LPush(ctx, queueKey, data).Err(); err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}

// Dequeue blocks up to wait for the next message.
func (q *Queue) Dequeue(ctx context.Context, wait time.Duration) (*Message, error) {
	res, err := q.client.BRPop(ctx, wait, queueKey).Result()
	if err == redis.Nil {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("dequeue notification: %w", err)
	}

	// BRPop returns [key, value]
	var msg Message
	if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
		return nil, fmt.Errorf("unmarshal notification: %w", err)
	}
	return &msg, nil
}

// Fail parks a message whose delivery failed. Failed messages are not
// retried automatically; operators can inspect the list.
func (q *Queue) Fail(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	return q.client.RPush(ctx, failedKey, data).Err()
}

// Len reports the number of pending messages.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, queueKey).Result()
}

// FailedLen reports the number of parked messages.
func (q *Queue) FailedLen(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, failedKey).Result()
}
