package mutation

import (
	"go.uber.org/zap"

	domain "github.com/whiteelite/cookadmin/internal/domain/entities"
	"github.com/whiteelite/cookadmin/internal/domain/repositories"
	shared "github.com/whiteelite/cookadmin/pkg/shared/domain/entities"
)

// Bindings are the create/update/delete mutations of one resource, all
// invalidating the resource's list topic.
type Bindings[C any, U any] struct {
	Create *Mutation[C, C]
	Update *Mutation[U, U]
	Delete *Mutation[domain.DeleteRequest, domain.DeleteRequest]
}

func NewBindings[T shared.Entity, C any, U any](
	resource repositories.Resource[T, C, U],
	invalidator repositories.Invalidator,
	logger *zap.Logger,
) *Bindings[C, U] {
	topic := resource.Name()
	return &Bindings[C, U]{
		Create: New[C, C](resource.Create, invalidator, topic, topic+".add", logger),
		Update: New[U, U](resource.Update, invalidator, topic, topic+".update", logger),
		Delete: New[domain.DeleteRequest, domain.DeleteRequest](resource.Delete, invalidator, topic, topic+".delete", logger),
	}
}
