package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces the queue's Redis keys.
const keyPrefix = "taskboard:queue:"

// RedisQueue implements Publisher and Receiver over a Redis list per
// topic: LPUSH to enqueue, BRPOP to consume, LLEN for the job-count
// probe.
type RedisQueue struct {
	client redis.Cmdable
	policy RetryPolicy
	logger *slog.Logger
}

// Ensure RedisQueue satisfies both queue capabilities
var (
	_ Publisher = (*RedisQueue)(nil)
	_ Receiver  = (*RedisQueue)(nil)
)

// NewRedisQueue creates a queue adapter over the given Redis client.
// If logger is nil, a default logger will be used.
func NewRedisQueue(client redis.Cmdable, policy RetryPolicy, logger *slog.Logger) *RedisQueue {
	if client == nil {
		panic("client cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &RedisQueue{
		client: client,
		policy: policy,
		logger: logger.With(slog.String("component", "redis_queue")),
	}
}

// Publish implements Publisher.
// Serialization failures are terminal (ErrRejected); transport failures
// are retried per the adapter's policy and surface as ErrUnavailable
// once the attempts are exhausted.
func (q *RedisQueue) Publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRejected, err)
	}

	key := keyPrefix + topic
	err = withRetry(ctx, q.policy, q.logger, func(ctx context.Context) error {
		return q.client.LPush(ctx, key, data).Err()
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	q.logger.Debug("message enqueued", slog.String("topic", topic))
	return nil
}

// Receive implements Receiver.
// It blocks up to timeout for the next message and returns ErrEmpty when
// the window elapses without one.
func (q *RedisQueue) Receive(ctx context.Context, topic string, timeout time.Duration) ([]byte, error) {
	result, err := q.client.BRPop(ctx, timeout, keyPrefix+topic).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// BRPOP returns [key, value].
	if len(result) != 2 {
		return nil, fmt.Errorf("%w: unexpected BRPOP reply of length %d", ErrUnavailable, len(result))
	}

	return []byte(result[1]), nil
}

// JobCount implements Receiver.
// It reports the number of messages waiting on the topic.
func (q *RedisQueue) JobCount(ctx context.Context, topic string) (int64, error) {
	count, err := q.client.LLen(ctx, keyPrefix+topic).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return count, nil
}
