// File: internal/provider/events.go
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	redisclient "local_services_backend/internal/platform/redis"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ChangeFeedChannel is the pub/sub channel provider events travel on.
const ChangeFeedChannel = "providers:changes"

const subscriberBuffer = 32

// EventType names a provider mutation.
type EventType string

const (
	EventCreated EventType = "provider.created"
	EventUpdated EventType = "provider.updated"
	EventDeleted EventType = "provider.deleted"
)

// Event tells subscribers a listing changed. Provider is nil for deletes.
type Event struct {
	Type       EventType `json:"type"`
	ProviderID string    `json:"providerId"`
	Provider   *Provider `json:"provider,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// EventBus carries provider events to change-feed subscribers.
type EventBus interface {
	Publish(ctx context.Context, ev Event) error
	// Subscribe returns a channel that is closed when ctx ends or the bus closes.
	// Events are dropped for subscribers whose buffer is full.
	Subscribe(ctx context.Context) (<-chan Event, error)
	Close() error
}

// NewEventBus returns a Redis-backed bus, or an in-process one when client is nil.
func NewEventBus(client *redisclient.Client, logger *zap.Logger) EventBus {
	log := logger.Named("provider_events")
	if client == nil {
		return &localEventBus{fanout: newFanout(log)}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &redisEventBus{
		client: client.Client(),
		fanout: newFanout(log),
		logger: log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// fanout delivers events to local subscriber channels.
type fanout struct {
	mu     sync.RWMutex
	subs   map[chan Event]struct{}
	closed bool
	logger *zap.Logger
}

func newFanout(logger *zap.Logger) *fanout {
	return &fanout{subs: make(map[chan Event]struct{}), logger: logger}
}

func (f *fanout) add(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, subscriberBuffer)
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, fmt.Errorf("event bus closed")
	}
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.remove(ch)
	}()
	return ch, nil
}

func (f *fanout) remove(ch chan Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subs[ch]; !ok {
		return
	}
	delete(f.subs, ch)
	close(ch)
}

func (f *fanout) broadcast(ev Event) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for ch := range f.subs {
		select {
		case ch <- ev:
		default:
			f.logger.Warn("Subscriber buffer full, dropping provider event",
				zap.String("type", string(ev.Type)),
				zap.String("providerID", ev.ProviderID),
			)
		}
	}
}

func (f *fanout) size() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

func (f *fanout) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	for ch := range f.subs {
		delete(f.subs, ch)
		close(ch)
	}
}

type localEventBus struct {
	fanout *fanout
}

func (b *localEventBus) Publish(_ context.Context, ev Event) error {
	b.fanout.broadcast(ev)
	return nil
}

func (b *localEventBus) Subscribe(ctx context.Context) (<-chan Event, error) {
	return b.fanout.add(ctx)
}

func (b *localEventBus) Close() error {
	b.fanout.closeAll()
	return nil
}

// redisEventBus publishes on ChangeFeedChannel and keeps one Redis subscription
// per process, fanned out to local subscribers.
type redisEventBus struct {
	client *goredis.Client
	fanout *fanout
	logger *zap.Logger

	mu     sync.Mutex
	pubsub *goredis.PubSub
	ctx    context.Context
	cancel context.CancelFunc
}

func (b *redisEventBus) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal provider event: %w", err)
	}
	if err := b.client.Publish(ctx, ChangeFeedChannel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish provider event: %w", err)
	}
	return nil
}

func (b *redisEventBus) Subscribe(ctx context.Context) (<-chan Event, error) {
	b.mu.Lock()
	if b.pubsub == nil {
		b.pubsub = b.client.Subscribe(b.ctx, ChangeFeedChannel)
		go b.receive(b.pubsub)
		b.logger.Info("Subscribed to provider change feed", zap.String("channel", ChangeFeedChannel))
	}
	b.mu.Unlock()
	return b.fanout.add(ctx)
}

func (b *redisEventBus) receive(pubsub *goredis.PubSub) {
	ch := pubsub.Channel()
	for {
		select {
		case <-b.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.logger.Warn("Dropping malformed provider event", zap.Error(err))
				continue
			}
			b.fanout.broadcast(ev)
		}
	}
}

func (b *redisEventBus) Close() error {
	b.cancel()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fanout.closeAll()
	if b.pubsub != nil {
		if err := b.pubsub.Close(); err != nil {
			return fmt.Errorf("failed to close provider change feed subscription: %w", err)
		}
		b.pubsub = nil
	}
	return nil
}
