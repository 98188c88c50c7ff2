// Package relay shares invalidations between consoles through a message
// queue: local events go out, remote events are republished on the local bus.
package relay

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/whiteelite/cookadmin/internal/domain/entities"
	"github.com/whiteelite/cookadmin/internal/domain/repositories"
	"github.com/whiteelite/cookadmin/internal/infrastructure/messaging/bus"
)

type Relay struct {
	bus    *bus.Bus
	sub    *bus.Subscription
	queue  repositories.MessageQueue
	logger *zap.Logger
}

// New subscribes to the bus right away, so invalidations published before
// Run starts are still shared.
func New(b *bus.Bus, queue repositories.MessageQueue, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{bus: b, sub: b.SubscribeAll(), queue: queue, logger: logger}
}

// Run relays until ctx is done or the queue closes its consumer channel.
// When ctx is done, local invalidations still pending are handed to the
// queue before returning.
func (r *Relay) Run(ctx context.Context) error {
	sub := r.sub
	defer sub.Close()

	inbound := r.queue.ToConsumeBuffered()
	for {
		select {
		case <-ctx.Done():
			r.drainLocal()
			return ctx.Err()

		case event, ok := <-sub.C():
			if !ok {
				return nil
			}
			if event.Origin != r.bus.Origin() {
				continue
			}
			r.forward(event)

		case event, ok := <-inbound:
			if !ok {
				return nil
			}
			if event.Origin == r.bus.Origin() {
				continue
			}
			r.logger.Debug("remote invalidation",
				zap.String("topic", event.Topic),
				zap.String("origin", event.Origin))
			r.bus.Publish(event)
		}
	}
}

func (r *Relay) drainLocal() {
	for {
		select {
		case event, ok := <-r.sub.C():
			if !ok {
				return
			}
			if event.Origin == r.bus.Origin() {
				r.forward(event)
			}
		default:
			return
		}
	}
}

func (r *Relay) forward(event domain.Invalidation) {
	select {
	case r.queue.ToProduceBuffered() <- event:
	default:
		r.logger.Warn("relay queue full, invalidation not shared", zap.String("topic", event.Topic))
	}
}
