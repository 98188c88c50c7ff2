// Package bus is the in-process invalidation bus. Mutations publish to a
// resource topic once they succeed; list queries subscribe to it and refetch.
package bus

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/whiteelite/cookadmin/internal/domain/entities"
	"github.com/whiteelite/cookadmin/internal/domain/repositories"
)

// AllTopics subscribes to every topic.
const AllTopics = "*"

const DefaultBufferSize = 16

// Counter counts invalidations per topic.
type Counter interface {
	IncInvalidation(topic string)
}

type Bus struct {
	mu     sync.RWMutex
	subs   map[string]map[uint64]*Subscription
	nextID uint64

	origin  string
	bufSize int
	counter Counter
	logger  *zap.Logger
}

type Option func(*Bus)

// WithOrigin tags events created by this bus, so relays can tell local
// invalidations from remote ones.
func WithOrigin(origin string) Option {
	return func(b *Bus) { b.origin = origin }
}

func WithBufferSize(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.bufSize = n
		}
	}
}

func WithCounter(c Counter) Option {
	return func(b *Bus) { b.counter = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(b *Bus) { b.logger = l }
}

func New(opts ...Option) *Bus {
	b := &Bus{
		subs:    make(map[string]map[uint64]*Subscription),
		origin:  uuid.NewString(),
		bufSize: DefaultBufferSize,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bus) Origin() string {
	return b.origin
}

// Invalidate publishes a fresh event for topic and returns it.
func (b *Bus) Invalidate(topic, source string) domain.Invalidation {
	event := domain.Invalidation{
		ID:     uuid.New(),
		Topic:  topic,
		Source: source,
		Origin: b.origin,
		At:     time.Now().UTC(),
	}
	b.Publish(event)
	return event
}

// Publish delivers event to the topic's subscribers and to AllTopics
// subscribers. A subscriber whose buffer is full misses the event.
func (b *Bus) Publish(event domain.Invalidation) {
	if b.counter != nil {
		b.counter.IncInvalidation(event.Topic)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	deliver := func(subs map[uint64]*Subscription) {
		for _, sub := range subs {
			select {
			case sub.ch <- event:
			default:
				b.logger.Warn("invalidation dropped, subscriber buffer full",
					zap.String("topic", event.Topic),
					zap.Uint64("subscription", sub.id))
			}
		}
	}
	deliver(b.subs[event.Topic])
	if event.Topic != AllTopics {
		deliver(b.subs[AllTopics])
	}
}

func (b *Bus) Subscribe(topic string) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		id:    b.nextID,
		topic: topic,
		ch:    make(chan domain.Invalidation, b.bufSize),
		bus:   b,
	}
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[uint64]*Subscription)
	}
	b.subs[topic][sub.id] = sub
	return sub
}

func (b *Bus) SubscribeAll() *Subscription {
	return b.Subscribe(AllTopics)
}

func (b *Bus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[sub.topic]
	if _, ok := subs[sub.id]; !ok {
		return
	}
	delete(subs, sub.id)
	if len(subs) == 0 {
		delete(b.subs, sub.topic)
	}
	close(sub.ch)
}

// Subscription receives the events of one topic until Close.
type Subscription struct {
	id    uint64
	topic string
	ch    chan domain.Invalidation
	bus   *Bus
	once  sync.Once
}

func (s *Subscription) C() <-chan domain.Invalidation {
	return s.ch
}

// Close unsubscribes and closes the channel. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() { s.bus.unsubscribe(s) })
}

var _ repositories.Invalidator = (*Bus)(nil)
