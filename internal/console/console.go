// Package console is the presentation layer of the admin tool: one section
// per resource, each combining a cached list with its mutations.
package console

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	domain "github.com/whiteelite/cookadmin/internal/domain/entities"
	"github.com/whiteelite/cookadmin/internal/domain/validation"
	"github.com/whiteelite/cookadmin/internal/infrastructure/http/request"
	"github.com/whiteelite/cookadmin/internal/infrastructure/http/resources"
	"github.com/whiteelite/cookadmin/internal/infrastructure/messaging/bus"
)

// ErrUnknownCategory is returned when an ingredient references a category
// that is not in the loaded category list.
var ErrUnknownCategory = errors.New("unknown ingredient category")

type (
	IngredientCategories = Section[domain.IngredientCategory, domain.CreateIngredientCategory, domain.UpdateIngredientCategory]
	Ingredients          = Section[domain.Ingredient, domain.CreateIngredient, domain.UpdateIngredient]
	DishCategories       = Section[domain.DishCategory, domain.CreateDishCategory, domain.UpdateDishCategory]
)

type Console struct {
	IngredientCategories *IngredientCategories
	Ingredients          *Ingredients
	DishCategories       *DishCategories
}

func New(core *request.Client, b *bus.Bus, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := validation.New()

	c := &Console{
		IngredientCategories: newSection[domain.IngredientCategory, domain.CreateIngredientCategory, domain.UpdateIngredientCategory](
			resources.NewIngredientCategories(core), b, validate, logger),
		Ingredients: newSection[domain.Ingredient, domain.CreateIngredient, domain.UpdateIngredient](
			resources.NewIngredients(core), b, validate, logger),
		DishCategories: newSection[domain.DishCategory, domain.CreateDishCategory, domain.UpdateDishCategory](
			resources.NewDishCategories(core), b, validate, logger),
	}

	c.Ingredients.checkCreate = func(ctx context.Context, in domain.CreateIngredient) error {
		return c.requireCategory(ctx, in.TypeID)
	}
	c.Ingredients.checkUpdate = func(ctx context.Context, in domain.UpdateIngredient) error {
		return c.requireCategory(ctx, in.TypeID)
	}
	return c
}

func (c *Console) requireCategory(ctx context.Context, typeID int64) error {
	cats, err := c.IngredientCategories.List(ctx)
	if err != nil {
		return fmt.Errorf("load ingredient categories: %w", err)
	}
	for _, cat := range cats {
		if cat.ID == typeID {
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrUnknownCategory, typeID)
}

// CategoryName resolves the display name of an ingredient's category,
// preferring the server snapshot and falling back to the loaded list.
func (c *Console) CategoryName(ctx context.Context, ing domain.Ingredient) string {
	if ing.IngredientType != nil {
		return ing.IngredientType.TypeName
	}
	cats, err := c.IngredientCategories.List(ctx)
	if err != nil {
		return ""
	}
	for _, cat := range cats {
		if cat.ID == ing.TypeID {
			return cat.TypeName
		}
	}
	return ""
}

// Run keeps every section's list in step with the bus until ctx is done.
func (c *Console) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, run := range []func(context.Context){
		c.IngredientCategories.run,
		c.Ingredients.run,
		c.DishCategories.run,
	} {
		wg.Add(1)
		go func(run func(context.Context)) {
			defer wg.Done()
			run(ctx)
		}(run)
	}
	wg.Wait()
}

// Close detaches every section from the bus. Run returns once it is called.
func (c *Console) Close() {
	c.IngredientCategories.close()
	c.Ingredients.close()
	c.DishCategories.close()
}
