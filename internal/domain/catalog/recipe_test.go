package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIngredientLine(t *testing.T) {
	productID := uuid.New()
	ingredientID := uuid.New()

	t.Run("creates valid line", func(t *testing.T) {
		line, err := NewIngredientLine(productID, ingredientID, decimal.NewFromInt(2))

		require.NoError(t, err)
		assert.Equal(t, productID, line.ProductID)
		require.NotNil(t, line.IngredientID)
		assert.Equal(t, ingredientID, *line.IngredientID)
		assert.Nil(t, line.ChildProductID)

		childID, kind := line.ChildID()
		assert.Equal(t, ingredientID, childID)
		assert.Equal(t, ComponentKindIngredient, kind)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		line, err := NewIngredientLine(productID, ingredientID, decimal.Zero)

		require.Error(t, err)
		assert.Nil(t, line)
	})
}

func TestNewChildProductLine(t *testing.T) {
	productID := uuid.New()
	childID := uuid.New()

	t.Run("creates valid line", func(t *testing.T) {
		line, err := NewChildProductLine(productID, childID, decimal.NewFromInt(1))

		require.NoError(t, err)
		id, kind := line.ChildID()
		assert.Equal(t, childID, id)
		assert.Equal(t, ComponentKindProduct, kind)
	})

	t.Run("rejects self-reference", func(t *testing.T) {
		line, err := NewChildProductLine(productID, productID, decimal.NewFromInt(1))

		require.Error(t, err)
		assert.Nil(t, line)
	})
}

func TestRecipeLine_Validate(t *testing.T) {
	productID := uuid.New()
	ingredientID := uuid.New()
	childID := uuid.New()

	t.Run("rejects line with both references set", func(t *testing.T) {
		line := &RecipeLine{
			ProductID:       productID,
			IngredientID:    &ingredientID,
			ChildProductID:  &childID,
			QuantityPerUnit: decimal.NewFromInt(1),
		}

		err := line.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one")
	})

	t.Run("rejects line with neither reference set", func(t *testing.T) {
		line := &RecipeLine{
			ProductID:       productID,
			QuantityPerUnit: decimal.NewFromInt(1),
		}

		err := line.Validate()
		require.Error(t, err)
	})
}

func TestRecipe_IsEmpty(t *testing.T) {
	var nilRecipe *Recipe
	assert.True(t, nilRecipe.IsEmpty())
	assert.True(t, (&Recipe{ProductID: uuid.New()}).IsEmpty())

	line, err := NewIngredientLine(uuid.New(), uuid.New(), decimal.NewFromInt(1))
	require.NoError(t, err)
	recipe := &Recipe{ProductID: line.ProductID, Lines: []RecipeLine{*line}}
	assert.False(t, recipe.IsEmpty())
}
