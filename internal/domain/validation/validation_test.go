package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/whiteelite/cookadmin/internal/domain/entities"
	"github.com/whiteelite/cookadmin/internal/domain/validation"
)

func TestStruct(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name    string
		payload any
		wantErr string
	}{
		{"valid category", domain.CreateIngredientCategory{TypeName: "Dairy"}, ""},
		{"empty name", domain.CreateIngredientCategory{}, "TypeName must not be empty"},
		{"blank name", domain.CreateDishCategory{Name: "   "}, "Name must not be empty"},
		{"missing type", domain.CreateIngredient{IngredientName: "Milk"}, "TypeID must be greater than 0"},
		{"update without id", domain.UpdateDishCategory{Name: "Soups"}, "ID must be greater than 0"},
		{"delete", domain.DeleteRequest{ID: 3}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.payload)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, validation.ErrInvalid)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
