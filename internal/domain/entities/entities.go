package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/whiteelite/cookadmin/pkg/shared/domain/entities"
)

type IngredientCategory struct {
	ID        int64      `json:"id"`
	TypeName  string     `json:"typeName"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func (c IngredientCategory) GetID() int64 { return c.ID }

type CreateIngredientCategory struct {
	TypeName string `json:"typeName" validate:"required,notblank"`
}

type UpdateIngredientCategory struct {
	ID       int64  `json:"id" validate:"gt=0"`
	TypeName string `json:"typeName" validate:"required,notblank"`
}

// Ingredient references its category through TypeID. IngredientType is a
// read-only snapshot filled in by the server for display.
type Ingredient struct {
	ID             int64               `json:"id"`
	IngredientName string              `json:"ingredientName"`
	TypeID         int64               `json:"typeId"`
	IngredientType *IngredientCategory `json:"ingredientType,omitempty"`
}

func (i Ingredient) GetID() int64 { return i.ID }

type CreateIngredient struct {
	IngredientName string `json:"ingredientName" validate:"required,notblank"`
	TypeID         int64  `json:"typeId" validate:"gt=0"`
}

type UpdateIngredient struct {
	ID             int64  `json:"id" validate:"gt=0"`
	IngredientName string `json:"ingredientName" validate:"required,notblank"`
	TypeID         int64  `json:"typeId" validate:"gt=0"`
}

type DishCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (d DishCategory) GetID() int64 { return d.ID }

type CreateDishCategory struct {
	Name string `json:"name" validate:"required,notblank"`
}

type UpdateDishCategory struct {
	ID   int64  `json:"id" validate:"gt=0"`
	Name string `json:"name" validate:"required,notblank"`
}

// DeleteRequest is shared by every resource: deletes are keyed by id only.
type DeleteRequest struct {
	ID int64 `json:"id" validate:"gt=0"`
}

// Invalidation marks the list behind Topic as stale.
type Invalidation struct {
	ID     uuid.UUID `json:"id"`
	Topic  string    `json:"topic"`
	Source string    `json:"source"`
	Origin string    `json:"origin"`
	At     time.Time `json:"at"`
}

var (
	_ entities.Identified = IngredientCategory{}
	_ entities.Identified = Ingredient{}
	_ entities.Identified = DishCategory{}
)
