// Package query caches list results per invalidation topic. A snapshot is
// replaced by refetching, never patched.
package query

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	domain "github.com/whiteelite/cookadmin/internal/domain/entities"
	"github.com/whiteelite/cookadmin/internal/infrastructure/messaging/bus"
)

type Fetcher[T any] func(ctx context.Context) (T, error)

// Snapshot is what watchers receive after every refetch.
type Snapshot[T any] struct {
	Data      T
	Err       error
	FetchedAt time.Time
}

type Query[T any] struct {
	topic  string
	fetch  Fetcher[T]
	sub    *bus.Subscription
	group  singleflight.Group
	logger *zap.Logger

	mu        sync.Mutex
	data      T
	hasData   bool
	stale     bool
	gen       uint64
	dataGen   uint64
	fetchedAt time.Time
	watchers  map[uint64]chan Snapshot[T]
	nextID    uint64
}

func New[T any](b *bus.Bus, topic string, fetch Fetcher[T], logger *zap.Logger) *Query[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Query[T]{
		topic:    topic,
		fetch:    fetch,
		sub:      b.Subscribe(topic),
		logger:   logger,
		watchers: make(map[uint64]chan Snapshot[T]),
	}
}

func (q *Query[T]) Topic() string {
	return q.topic
}

// Get returns the cached snapshot, fetching first when there is none or it
// is stale. Concurrent fetches share one backend call.
func (q *Query[T]) Get(ctx context.Context) (T, error) {
	q.drain()

	q.mu.Lock()
	if q.hasData && !q.stale {
		data := q.data
		q.mu.Unlock()
		return data, nil
	}
	q.mu.Unlock()

	return q.Refetch(ctx)
}

// Refetch always goes to the backend and notifies watchers. Callers share
// a fetch only when no invalidation came between them, and each caller
// stops waiting when its own ctx is done.
func (q *Query[T]) Refetch(ctx context.Context) (T, error) {
	q.mu.Lock()
	gen := q.gen
	q.mu.Unlock()

	key := q.topic + "#" + strconv.FormatUint(gen, 10)
	// The shared fetch must not die with whichever caller started it.
	fetchCtx := context.WithoutCancel(ctx)
	ch := q.group.DoChan(key, func() (any, error) {
		data, err := q.fetch(fetchCtx)
		q.store(data, err, gen)
		return data, err
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// store keeps the snapshot stale if an invalidation arrived while the
// fetch was in flight, and drops results older than the current snapshot.
func (q *Query[T]) store(data T, err error, gen uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.hasData && gen < q.dataGen {
		return
	}

	now := time.Now()
	if err == nil {
		q.data = data
		q.dataGen = gen
		q.hasData = true
		q.stale = q.gen != gen
		q.fetchedAt = now
	} else {
		q.logger.Warn("list fetch failed", zap.String("topic", q.topic), zap.Error(err))
	}

	snap := Snapshot[T]{Data: q.data, Err: err, FetchedAt: now}
	for _, ch := range q.watchers {
		// Keep only the newest snapshot for slow watchers.
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

// drain applies invalidations already queued on the subscription, so a Get
// right after a mutation refetches even when Run is not active.
func (q *Query[T]) drain() {
	for {
		select {
		case event, ok := <-q.sub.C():
			if !ok {
				return
			}
			q.Invalidate()
			q.logger.Debug("list invalidated",
				zap.String("topic", q.topic),
				zap.String("source", event.Source))
		default:
			return
		}
	}
}

// Invalidate marks the snapshot stale so the next Get refetches.
func (q *Query[T]) Invalidate() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stale = true
	q.gen++
}

func (q *Query[T]) FetchedAt() time.Time {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.fetchedAt
}

func (q *Query[T]) Stale() bool {
	q.drain()

	q.mu.Lock()
	defer q.mu.Unlock()
	return !q.hasData || q.stale
}

// Watch returns a channel of snapshots produced by later fetches and a
// func to stop watching. While at least one watcher exists, Run refetches
// as soon as the topic is invalidated.
func (q *Query[T]) Watch() (<-chan Snapshot[T], func()) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.nextID++
	id := q.nextID
	ch := make(chan Snapshot[T], 1)
	q.watchers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			q.mu.Lock()
			defer q.mu.Unlock()
			delete(q.watchers, id)
			close(ch)
		})
	}
}

func (q *Query[T]) watched() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.watchers) > 0
}

// Run reacts to invalidations of the topic until ctx is done or Close.
func (q *Query[T]) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-q.sub.C():
			if !ok {
				return
			}
			q.onInvalidation(ctx, event)
		}
	}
}

func (q *Query[T]) onInvalidation(ctx context.Context, event domain.Invalidation) {
	q.Invalidate()
	q.logger.Debug("list invalidated",
		zap.String("topic", q.topic),
		zap.String("source", event.Source))

	if !q.watched() {
		return
	}
	if _, err := q.Refetch(ctx); err != nil {
		q.logger.Debug("refetch after invalidation failed", zap.String("topic", q.topic), zap.Error(err))
	}
}

// Close stops listening to the bus.
func (q *Query[T]) Close() {
	q.sub.Close()
}
