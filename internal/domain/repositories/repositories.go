package repositories

import (
	"context"

	domain "github.com/whiteelite/cookadmin/internal/domain/entities"
	shared "github.com/whiteelite/cookadmin/pkg/shared/domain/entities"
)

// Resource is the list/create/update/delete surface of one backend resource.
// T is the record shape, C the create payload and U the update payload.
type Resource[T shared.Entity, C any, U any] interface {
	Name() string
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, payload C) (C, error)
	Update(ctx context.Context, payload U) (U, error)
	Delete(ctx context.Context, payload domain.DeleteRequest) (domain.DeleteRequest, error)
}

// Invalidator marks a list topic stale.
type Invalidator interface {
	Invalidate(topic, source string) domain.Invalidation
}

type MessageQueueParams interface {
	Get() map[string]any
}

type InitializeMessageQueue func(MessageQueueParams) MessageQueue

type MessageQueueConsumer interface {
	ToConsumeBuffered() <-chan domain.Invalidation
	Close()
}

type MessageQueueProducer interface {
	ToProduceBuffered() chan<- domain.Invalidation
	Close()
}

type MessageQueue interface {
	MessageQueueProducer
	MessageQueueConsumer
}
