// Package mutation wraps create/update/delete calls so that a successful
// call invalidates the list topic of its resource.
package mutation

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/whiteelite/cookadmin/internal/domain/repositories"
)

type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is the observable state of a Mutation, reflecting its latest invocation.
type State[I any, O any] struct {
	Status    Status
	Variables I
	Data      O
	Err       error
}

// Callbacks run after the call settles, in the order OnSuccess/OnError then
// OnSettled. OnSuccess runs after the invalidation has been published.
type Callbacks[O any] struct {
	OnSuccess func(O)
	OnError   func(error)
	OnSettled func(O, error)
}

type Mutation[I any, O any] struct {
	fn          func(ctx context.Context, input I) (O, error)
	invalidator repositories.Invalidator
	topic       string
	source      string
	logger      *zap.Logger

	mu    sync.Mutex
	seq   uint64
	state State[I, O]
}

func New[I any, O any](fn func(ctx context.Context, input I) (O, error), invalidator repositories.Invalidator, topic, source string, logger *zap.Logger) *Mutation[I, O] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mutation[I, O]{
		fn:          fn,
		invalidator: invalidator,
		topic:       topic,
		source:      source,
		logger:      logger,
	}
}

// Mutate runs the call. Concurrent invocations do not wait for each other;
// each successful one invalidates the topic.
func (m *Mutation[I, O]) Mutate(ctx context.Context, input I, callbacks ...Callbacks[O]) (O, error) {
	m.mu.Lock()
	m.seq++
	seq := m.seq
	m.state = State[I, O]{Status: StatusPending, Variables: input}
	m.mu.Unlock()

	out, err := m.fn(ctx, input)

	if err == nil {
		event := m.invalidator.Invalidate(m.topic, m.source)
		m.logger.Debug("mutation succeeded",
			zap.String("source", m.source),
			zap.String("invalidation", event.ID.String()))
	} else {
		m.logger.Debug("mutation failed", zap.String("source", m.source), zap.Error(err))
	}

	m.settle(seq, input, out, err)

	for _, cb := range callbacks {
		if err == nil && cb.OnSuccess != nil {
			cb.OnSuccess(out)
		}
		if err != nil && cb.OnError != nil {
			cb.OnError(err)
		}
		if cb.OnSettled != nil {
			cb.OnSettled(out, err)
		}
	}
	return out, err
}

// settle records the outcome unless a newer invocation or a Reset came since.
func (m *Mutation[I, O]) settle(seq uint64, input I, out O, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if seq != m.seq {
		return
	}
	if err != nil {
		m.state = State[I, O]{Status: StatusError, Variables: input, Err: err}
		return
	}
	m.state = State[I, O]{Status: StatusSuccess, Variables: input, Data: out}
}

func (m *Mutation[I, O]) State() State[I, O] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Reset returns the mutation to idle. Invocations still in flight no longer
// update the state but still invalidate on success.
func (m *Mutation[I, O]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.state = State[I, O]{}
}
