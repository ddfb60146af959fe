package council

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Client provides instance-scoped Redis operations for the council.
// All keys and channels are automatically namespaced with the instance name.
// The client is thread-safe and can be used concurrently from multiple goroutines.
type Client struct {
	rdb          *redis.Client
	instanceName string
}

// NewClient creates a new council client for the specified instance.
// The client automatically namespaces all keys and channels with the instance name.
//
// Parameters:
//   - redisOpts: Redis connection options (address, password, DB, etc.)
//   - instanceName: Moot instance identifier (validated against DNS naming rules)
func NewClient(redisOpts *redis.Options, instanceName string) (*Client, error) {
	if err := ValidateInstanceName(instanceName); err != nil {
		return nil, err
	}

	return &Client{
		rdb:          redis.NewClient(redisOpts),
		instanceName: instanceName,
	}, nil
}

// Close closes the Redis connection. Implements io.Closer.
// After calling Close(), the client should not be used.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping verifies Redis connectivity. Useful for health checks.
// Returns an error if Redis is not reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// SaveSession writes a session's StageState to Redis and indexes its ID.
// Validates the state before writing. Safe to call repeatedly for the same
// session - the pipeline saves after every stage so interrupted runs keep
// whatever state was accumulated.
//
// The state is stored as a Redis hash at moot:{instance}:session:{id}.
func (c *Client) SaveSession(ctx context.Context, state *StageState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("invalid session state: %w", err)
	}

	hash, err := StageStateToHash(state)
	if err != nil {
		return fmt.Errorf("failed to serialize session state: %w", err)
	}

	key := SessionKey(c.instanceName, state.SessionID)
	if err := c.rdb.HSet(ctx, key, hash).Err(); err != nil {
		return fmt.Errorf("failed to write session to Redis: %w", err)
	}

	indexKey := SessionIndexKey(c.instanceName)
	if err := c.rdb.SAdd(ctx, indexKey, state.SessionID).Err(); err != nil {
		return fmt.Errorf("failed to index session ID: %w", err)
	}

	return nil
}

// GetSession retrieves a session's StageState by ID.
// Returns (nil, redis.Nil) if the session doesn't exist.
// Use IsNotFound() to check for not-found errors.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*StageState, error) {
	key := SessionKey(c.instanceName, sessionID)

	hashData, err := c.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read session from Redis: %w", err)
	}

	// HGetAll returns an empty map for non-existent keys
	if len(hashData) == 0 {
		return nil, redis.Nil
	}

	state, err := HashToStageState(hashData)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize session: %w", err)
	}

	return state, nil
}

// SessionExists checks if a session exists without fetching it.
// More efficient than GetSession when you only need to check existence.
func (c *Client) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	key := SessionKey(c.instanceName, sessionID)
	exists, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session existence: %w", err)
	}
	return exists > 0, nil
}

// ListSessionIDs returns all known session IDs for this instance.
// Order is unspecified; callers sort after fetching the full records.
func (c *Client) ListSessionIDs(ctx context.Context) ([]string, error) {
	indexKey := SessionIndexKey(c.instanceName)
	ids, err := c.rdb.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list session IDs: %w", err)
	}
	return ids, nil
}

// PublishProgress publishes a progress event for real-time watchers.
// Events are fire-and-forget: Redis Pub/Sub is at-most-once, so watchers that
// need a complete picture read the session hash instead.
func (c *Client) PublishProgress(ctx context.Context, ev *ProgressEvent) error {
	if err := ev.Validate(); err != nil {
		return fmt.Errorf("invalid progress event: %w", err)
	}

	eventJSON, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal progress event: %w", err)
	}

	channel := ProgressEventsChannel(c.instanceName)
	if err := c.rdb.Publish(ctx, channel, eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish progress event: %w", err)
	}

	return nil
}

// ProgressSubscription represents an active Pub/Sub subscription to progress
// events. Caller must call Close() when done to clean up resources.
type ProgressSubscription struct {
	events <-chan *ProgressEvent
	errors <-chan error
	cancel func()
	once   sync.Once
}

// Events returns the channel of progress events.
// The channel will be closed when the subscription is closed or the context is cancelled.
func (s *ProgressSubscription) Events() <-chan *ProgressEvent {
	return s.events
}

// Errors returns the channel of subscription errors.
// Errors include JSON unmarshaling failures and other non-fatal issues.
// The subscription continues after errors - messages are skipped.
func (s *ProgressSubscription) Errors() <-chan error {
	return s.errors
}

// Close stops the subscription and cleans up resources. Implements io.Closer.
// Safe to call multiple times - subsequent calls are no-ops.
func (s *ProgressSubscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}

// SubscribeProgress subscribes to progress events for this instance.
// Returns a ProgressSubscription that delivers full event objects.
// Caller must call subscription.Close() when done.
// Context cancellation also stops the subscription.
//
// Events are delivered on a buffered channel (size 10) to prevent blocking.
// If the subscriber is too slow, events may be dropped by Redis Pub/Sub
// (at-most-once delivery).
func (c *Client) SubscribeProgress(ctx context.Context) (*ProgressSubscription, error) {
	channel := ProgressEventsChannel(c.instanceName)
	pubsub := c.rdb.Subscribe(ctx, channel)

	eventsChan := make(chan *ProgressEvent, 10)
	errorsChan := make(chan error, 10)

	subCtx, cancelFunc := context.WithCancel(ctx)

	go func() {
		defer close(eventsChan)
		defer close(errorsChan)
		defer pubsub.Close()

		ch := pubsub.Channel()

		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var ev ProgressEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					// Send error on error channel, skip message
					select {
					case errorsChan <- fmt.Errorf("failed to unmarshal progress event: %w", err):
					case <-subCtx.Done():
						return
					}
					continue
				}

				select {
				case eventsChan <- &ev:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &ProgressSubscription{
		events: eventsChan,
		errors: errorsChan,
		cancel: cancelFunc,
	}, nil
}

// IsNotFound returns true if the error is a Redis "key not found" error (redis.Nil).
// Use this to check if GetSession returned "not found".
func IsNotFound(err error) bool {
	return errors.Is(err, redis.Nil)
}
