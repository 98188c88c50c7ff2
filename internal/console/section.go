package console

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/whiteelite/cookadmin/internal/domain/entities"
	"github.com/whiteelite/cookadmin/internal/domain/repositories"
	"github.com/whiteelite/cookadmin/internal/domain/validation"
	"github.com/whiteelite/cookadmin/internal/infrastructure/messaging/bus"
	"github.com/whiteelite/cookadmin/internal/mutation"
	"github.com/whiteelite/cookadmin/internal/query"
	shared "github.com/whiteelite/cookadmin/pkg/shared/domain/entities"
)

// Section is one resource screen: its cached list plus the mutations that
// invalidate it.
type Section[T shared.Entity, C any, U any] struct {
	list      *query.Query[[]T]
	mutations *mutation.Bindings[C, U]
	validate  *validation.Validator

	// Extra checks run after validation and before the call is sent.
	checkCreate func(ctx context.Context, payload C) error
	checkUpdate func(ctx context.Context, payload U) error
}

func newSection[T shared.Entity, C any, U any](
	resource repositories.Resource[T, C, U],
	b *bus.Bus,
	validate *validation.Validator,
	logger *zap.Logger,
) *Section[T, C, U] {
	return &Section[T, C, U]{
		list:      query.New[[]T](b, resource.Name(), resource.List, logger),
		mutations: mutation.NewBindings[T, C, U](resource, b, logger),
		validate:  validate,
	}
}

func (s *Section[T, C, U]) Name() string {
	return s.list.Topic()
}

// List returns the cached list, loading it when missing or invalidated.
func (s *Section[T, C, U]) List(ctx context.Context) ([]T, error) {
	return s.list.Get(ctx)
}

func (s *Section[T, C, U]) Refresh(ctx context.Context) ([]T, error) {
	return s.list.Refetch(ctx)
}

func (s *Section[T, C, U]) Watch() (<-chan query.Snapshot[[]T], func()) {
	return s.list.Watch()
}

func (s *Section[T, C, U]) Stale() bool {
	return s.list.Stale()
}

func (s *Section[T, C, U]) Add(ctx context.Context, payload C, callbacks ...mutation.Callbacks[C]) (C, error) {
	if err := s.validate.Struct(payload); err != nil {
		var zero C
		return zero, err
	}
	if s.checkCreate != nil {
		if err := s.checkCreate(ctx, payload); err != nil {
			var zero C
			return zero, err
		}
	}
	return s.mutations.Create.Mutate(ctx, payload, callbacks...)
}

func (s *Section[T, C, U]) Update(ctx context.Context, payload U, callbacks ...mutation.Callbacks[U]) (U, error) {
	if err := s.validate.Struct(payload); err != nil {
		var zero U
		return zero, err
	}
	if s.checkUpdate != nil {
		if err := s.checkUpdate(ctx, payload); err != nil {
			var zero U
			return zero, err
		}
	}
	return s.mutations.Update.Mutate(ctx, payload, callbacks...)
}

func (s *Section[T, C, U]) Delete(ctx context.Context, id int64, callbacks ...mutation.Callbacks[domain.DeleteRequest]) error {
	payload := domain.DeleteRequest{ID: id}
	if err := s.validate.Struct(payload); err != nil {
		return err
	}
	_, err := s.mutations.Delete.Mutate(ctx, payload, callbacks...)
	return err
}

// Mutations exposes the bindings for callers that track mutation state.
func (s *Section[T, C, U]) Mutations() *mutation.Bindings[C, U] {
	return s.mutations
}

func (s *Section[T, C, U]) run(ctx context.Context) {
	s.list.Run(ctx)
}

func (s *Section[T, C, U]) close() {
	s.list.Close()
}
