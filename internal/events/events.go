// Package events publishes job lifecycle notifications on Redis pub/sub.
// Subscribers (search indexers, notification fan-out) are outside this
// service; publishing is best-effort.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Channel names, one per event type.
const (
	JobCreated = "EVENT_JOB_CREATED"
	JobUpdated = "EVENT_JOB_UPDATED"
	JobDeleted = "EVENT_JOB_DELETED"
)

// Event is the JSON payload of a notification.
type Event struct {
	Type          string    `json:"type"`
	JobID         int       `json:"jobId"`
	CompanyHandle string    `json:"companyHandle,omitempty"`
	Actor         string    `json:"actor,omitempty"`
	At            time.Time `json:"at"`
}

// Publisher sends events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// RedisPublisher publishes each event on the channel named by its type.
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher returns a publisher backed by rdb.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// Publish implements Publisher.
func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", e.Type, err)
	}
	if err := p.rdb.Publish(ctx, e.Type, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	return nil
}

// Nop discards events. Used when no Redis URL is configured.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, Event) error { return nil }
