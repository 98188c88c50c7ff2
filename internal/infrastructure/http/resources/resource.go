package resources

import (
	"context"

	domain "github.com/whiteelite/cookadmin/internal/domain/entities"
	"github.com/whiteelite/cookadmin/internal/domain/repositories"
	"github.com/whiteelite/cookadmin/internal/infrastructure/http/request"
)

// Backend resource names. They double as the invalidation topic of each list.
const (
	IngredientCategoriesName = "ingredientsCategories"
	IngredientsName          = "ingredients"
	DishCategoriesName       = "dishCategories"
)

// Resource maps list/create/update/delete onto the fixed
// /{name}/getList|add|update|delete endpoints.
type Resource[T any, C any, U any] struct {
	core *request.Client
	name string
}

func New[T any, C any, U any](core *request.Client, name string) *Resource[T, C, U] {
	return &Resource[T, C, U]{core: core, name: name}
}

func (r *Resource[T, C, U]) Name() string {
	return r.name
}

func (r *Resource[T, C, U]) path(action string) string {
	return "/" + r.name + "/" + action
}

func (r *Resource[T, C, U]) List(ctx context.Context) ([]T, error) {
	env, err := request.Get[[]T](ctx, r.core, r.path("getList"), nil)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (r *Resource[T, C, U]) Create(ctx context.Context, payload C) (C, error) {
	env, err := request.Post[C](ctx, r.core, r.path("add"), payload)
	if err != nil {
		var zero C
		return zero, err
	}
	return env.Data, nil
}

func (r *Resource[T, C, U]) Update(ctx context.Context, payload U) (U, error) {
	env, err := request.Put[U](ctx, r.core, r.path("update"), payload)
	if err != nil {
		var zero U
		return zero, err
	}
	return env.Data, nil
}

func (r *Resource[T, C, U]) Delete(ctx context.Context, payload domain.DeleteRequest) (domain.DeleteRequest, error) {
	env, err := request.Delete[domain.DeleteRequest](ctx, r.core, r.path("delete"), payload)
	if err != nil {
		return domain.DeleteRequest{}, err
	}
	return env.Data, nil
}

type (
	IngredientCategories = Resource[domain.IngredientCategory, domain.CreateIngredientCategory, domain.UpdateIngredientCategory]
	Ingredients          = Resource[domain.Ingredient, domain.CreateIngredient, domain.UpdateIngredient]
	DishCategories       = Resource[domain.DishCategory, domain.CreateDishCategory, domain.UpdateDishCategory]
)

func NewIngredientCategories(core *request.Client) *IngredientCategories {
	return New[domain.IngredientCategory, domain.CreateIngredientCategory, domain.UpdateIngredientCategory](core, IngredientCategoriesName)
}

func NewIngredients(core *request.Client) *Ingredients {
	return New[domain.Ingredient, domain.CreateIngredient, domain.UpdateIngredient](core, IngredientsName)
}

func NewDishCategories(core *request.Client) *DishCategories {
	return New[domain.DishCategory, domain.CreateDishCategory, domain.UpdateDishCategory](core, DishCategoriesName)
}

var (
	_ repositories.Resource[domain.IngredientCategory, domain.CreateIngredientCategory, domain.UpdateIngredientCategory] = (*IngredientCategories)(nil)
	_ repositories.Resource[domain.Ingredient, domain.CreateIngredient, domain.UpdateIngredient]                         = (*Ingredients)(nil)
	_ repositories.Resource[domain.DishCategory, domain.CreateDishCategory, domain.UpdateDishCategory]                   = (*DishCategories)(nil)
)
