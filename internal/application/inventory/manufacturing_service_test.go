package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/provisio/backend/internal/domain/catalog"
	"github.com/provisio/backend/internal/domain/inventory"
	"github.com/provisio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addIngredientLine(t *testing.T, store *memStore, productID, ingredientID uuid.UUID, perUnit string) {
	t.Helper()
	line, err := catalog.NewIngredientLine(productID, ingredientID, decimal.RequireFromString(perUnit))
	require.NoError(t, err)
	store.addRecipeLine(line)
}

func addChildProductLine(t *testing.T, store *memStore, productID, childID uuid.UUID, perUnit string) {
	t.Helper()
	line, err := catalog.NewChildProductLine(productID, childID, decimal.RequireFromString(perUnit))
	require.NoError(t, err)
	store.addRecipeLine(line)
}

func TestManufacturingService_Manufacture(t *testing.T) {
	ctx := context.Background()
	mfgDate := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	t.Run("consumes recipe ingredients and lands output", func(t *testing.T) {
		store := newMemStore()
		warehouse := setupWarehouse(t, store, "MAIN")
		flour := setupIngredient(t, store, "FLOUR", 0, warehouse)
		bread := setupProduct(t, store, "BREAD", 3, warehouse)
		addIngredientLine(t, store, bread.ID, flour.ID, "2")
		seedStock(t, store, warehouse.ID, flour.ID, catalog.ComponentKindIngredient, "10", "2.00", nil)
		service := NewManufacturingService(store.scope())

		result, err := service.Manufacture(ctx, ManufactureRequest{
			ProductID:         bread.ID,
			WarehouseID:       warehouse.ID,
			Quantity:          decimal.NewFromInt(3),
			ManufacturingDate: mfgDate,
		})
		require.NoError(t, err)

		flourBalance := store.findBalance(warehouse.ID, flour.ID)
		assert.True(t, flourBalance.QuantityOnHand.Equal(decimal.NewFromInt(4)), "6 of 10 consumed")

		breadBalance := store.findBalance(warehouse.ID, bread.ID)
		require.NotNil(t, breadBalance)
		assert.True(t, breadBalance.QuantityOnHand.Equal(decimal.NewFromInt(3)))

		flourMoves := store.movementsOf(flourBalance.ID)
		require.Len(t, flourMoves, 1)
		assert.Equal(t, inventory.MovementDecrease, flourMoves[0].Direction)
		assert.Equal(t, inventory.ReasonConsumption, flourMoves[0].Reason)

		breadMoves := store.movementsOf(breadBalance.ID)
		require.Len(t, breadMoves, 1)
		assert.Equal(t, inventory.MovementIncrease, breadMoves[0].Direction)
		assert.Equal(t, inventory.ReasonManufacture, breadMoves[0].Reason)

		// 6 units at 2.00 spread over 3 units of output
		assert.True(t, result.UnitCost.Equal(decimal.RequireFromString("4.00")), "got %s", result.UnitCost)
		require.NotNil(t, result.ExpirationDate)
		assert.Equal(t, mfgDate.AddDate(0, 0, 3), *result.ExpirationDate)

		lot, err := (&memBatchRepo{store}).FindByID(ctx, result.BatchID)
		require.NoError(t, err)
		assert.True(t, lot.Quantity.Equal(decimal.NewFromInt(3)))
		assert.Equal(t, breadBalance.ID, lot.BalanceID)
	})

	t.Run("recurses into nested product recipes", func(t *testing.T) {
		store := newMemStore()
		warehouse := setupWarehouse(t, store, "MAIN")
		flour := setupIngredient(t, store, "FLOUR", 0, warehouse)
		dough := setupProduct(t, store, "DOUGH", 0, warehouse)
		bread := setupProduct(t, store, "BREAD", 3, warehouse)
		// bread needs 2 dough per unit; dough needs 3 flour per unit
		addChildProductLine(t, store, bread.ID, dough.ID, "2")
		addIngredientLine(t, store, dough.ID, flour.ID, "3")
		seedStock(t, store, warehouse.ID, flour.ID, catalog.ComponentKindIngredient, "20", "1.00", nil)
		seedStock(t, store, warehouse.ID, dough.ID, catalog.ComponentKindProduct, "10", "5.00", nil)
		service := NewManufacturingService(store.scope())

		_, err := service.Manufacture(ctx, ManufactureRequest{
			ProductID:         bread.ID,
			WarehouseID:       warehouse.ID,
			Quantity:          decimal.NewFromInt(2),
			ManufacturingDate: mfgDate,
		})
		require.NoError(t, err)

		// 2 bread -> 4 dough -> 12 flour
		assert.True(t, store.findBalance(warehouse.ID, flour.ID).QuantityOnHand.Equal(decimal.NewFromInt(8)))
		assert.True(t, store.findBalance(warehouse.ID, dough.ID).QuantityOnHand.Equal(decimal.NewFromInt(6)))
		assert.True(t, store.findBalance(warehouse.ID, bread.ID).QuantityOnHand.Equal(decimal.NewFromInt(2)))
	})

	t.Run("consumes extra non-recipe components", func(t *testing.T) {
		store := newMemStore()
		warehouse := setupWarehouse(t, store, "MAIN")
		box := setupIngredient(t, store, "BOX", 0, warehouse)
		bread := setupProduct(t, store, "BREAD", 0, warehouse)
		seedStock(t, store, warehouse.ID, box.ID, catalog.ComponentKindIngredient, "10", "0.50", nil)
		service := NewManufacturingService(store.scope())

		_, err := service.Manufacture(ctx, ManufactureRequest{
			ProductID:         bread.ID,
			WarehouseID:       warehouse.ID,
			Quantity:          decimal.NewFromInt(4),
			ManufacturingDate: mfgDate,
			ExtraComponents: []ExtraComponent{
				{ComponentID: box.ID, Kind: catalog.ComponentKindIngredient, QuantityPerUnit: decimal.NewFromInt(1)},
			},
		})
		require.NoError(t, err)

		assert.True(t, store.findBalance(warehouse.ID, box.ID).QuantityOnHand.Equal(decimal.NewFromInt(6)))
	})

	t.Run("detects recipe cycles without mutating stock", func(t *testing.T) {
		store := newMemStore()
		warehouse := setupWarehouse(t, store, "MAIN")
		a := setupProduct(t, store, "PROD-A", 0, warehouse)
		b := setupProduct(t, store, "PROD-B", 0, warehouse)
		addChildProductLine(t, store, a.ID, b.ID, "1")
		addChildProductLine(t, store, b.ID, a.ID, "1")
		seedStock(t, store, warehouse.ID, b.ID, catalog.ComponentKindProduct, "100", "1.00", nil)
		service := NewManufacturingService(store.scope())

		_, err := service.Manufacture(ctx, ManufactureRequest{
			ProductID:         a.ID,
			WarehouseID:       warehouse.ID,
			Quantity:          decimal.NewFromInt(1),
			ManufacturingDate: mfgDate,
		})

		assert.True(t, errors.Is(err, shared.ErrCyclicRecipe))
		assert.True(t, store.findBalance(warehouse.ID, b.ID).QuantityOnHand.Equal(decimal.NewFromInt(100)))
		assert.Empty(t, store.movements)
	})

	t.Run("allows diamond-shaped reuse across sibling branches", func(t *testing.T) {
		store := newMemStore()
		warehouse := setupWarehouse(t, store, "MAIN")
		flour := setupIngredient(t, store, "FLOUR", 0, warehouse)
		dough := setupProduct(t, store, "DOUGH", 0, warehouse)
		glaze := setupProduct(t, store, "GLAZE", 0, warehouse)
		cake := setupProduct(t, store, "CAKE", 0, warehouse)
		// both dough and glaze consume flour; that is a diamond, not a cycle
		addChildProductLine(t, store, cake.ID, dough.ID, "1")
		addChildProductLine(t, store, cake.ID, glaze.ID, "1")
		addIngredientLine(t, store, dough.ID, flour.ID, "2")
		addIngredientLine(t, store, glaze.ID, flour.ID, "1")
		seedStock(t, store, warehouse.ID, flour.ID, catalog.ComponentKindIngredient, "10", "1.00", nil)
		seedStock(t, store, warehouse.ID, dough.ID, catalog.ComponentKindProduct, "5", "3.00", nil)
		seedStock(t, store, warehouse.ID, glaze.ID, catalog.ComponentKindProduct, "5", "2.00", nil)
		service := NewManufacturingService(store.scope())

		_, err := service.Manufacture(ctx, ManufactureRequest{
			ProductID:         cake.ID,
			WarehouseID:       warehouse.ID,
			Quantity:          decimal.NewFromInt(1),
			ManufacturingDate: mfgDate,
		})
		require.NoError(t, err)

		// 2 flour via dough + 1 via glaze
		assert.True(t, store.findBalance(warehouse.ID, flour.ID).QuantityOnHand.Equal(decimal.NewFromInt(7)))
	})

	t.Run("missing default warehouse is invalid data", func(t *testing.T) {
		store := newMemStore()
		warehouse := setupWarehouse(t, store, "MAIN")
		flour := setupIngredient(t, store, "FLOUR", 0, nil)
		bread := setupProduct(t, store, "BREAD", 0, warehouse)
		addIngredientLine(t, store, bread.ID, flour.ID, "1")
		service := NewManufacturingService(store.scope())

		_, err := service.Manufacture(ctx, ManufactureRequest{
			ProductID:         bread.ID,
			WarehouseID:       warehouse.ID,
			Quantity:          decimal.NewFromInt(1),
			ManufacturingDate: mfgDate,
		})

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_DATA", domainErr.Code)
	})

	t.Run("insufficient ingredient stock rejects the run", func(t *testing.T) {
		store := newMemStore()
		warehouse := setupWarehouse(t, store, "MAIN")
		flour := setupIngredient(t, store, "FLOUR", 0, warehouse)
		bread := setupProduct(t, store, "BREAD", 0, warehouse)
		addIngredientLine(t, store, bread.ID, flour.ID, "5")
		seedStock(t, store, warehouse.ID, flour.ID, catalog.ComponentKindIngredient, "3", "1.00", nil)
		service := NewManufacturingService(store.scope())

		_, err := service.Manufacture(ctx, ManufactureRequest{
			ProductID:         bread.ID,
			WarehouseID:       warehouse.ID,
			Quantity:          decimal.NewFromInt(1),
			ManufacturingDate: mfgDate,
		})

		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
	})

	t.Run("empty recipe yields zero-cost output", func(t *testing.T) {
		store := newMemStore()
		warehouse := setupWarehouse(t, store, "MAIN")
		bread := setupProduct(t, store, "BREAD", 0, warehouse)
		service := NewManufacturingService(store.scope())

		result, err := service.Manufacture(ctx, ManufactureRequest{
			ProductID:         bread.ID,
			WarehouseID:       warehouse.ID,
			Quantity:          decimal.NewFromInt(2),
			ManufacturingDate: mfgDate,
		})
		require.NoError(t, err)

		assert.True(t, result.UnitCost.IsZero())
		assert.Nil(t, result.ExpirationDate)
		assert.True(t, store.findBalance(warehouse.ID, bread.ID).QuantityOnHand.Equal(decimal.NewFromInt(2)))
	})

	t.Run("output cost spans lots with different costs", func(t *testing.T) {
		store := newMemStore()
		warehouse := setupWarehouse(t, store, "MAIN")
		flour := setupIngredient(t, store, "FLOUR", 0, warehouse)
		bread := setupProduct(t, store, "BREAD", 0, warehouse)
		addIngredientLine(t, store, bread.ID, flour.ID, "3")
		seedStock(t, store, warehouse.ID, flour.ID, catalog.ComponentKindIngredient, "2", "1.00", datePtr(2026, 9, 1))
		seedStock(t, store, warehouse.ID, flour.ID, catalog.ComponentKindIngredient, "4", "2.50", datePtr(2026, 10, 1))
		service := NewManufacturingService(store.scope())

		result, err := service.Manufacture(ctx, ManufactureRequest{
			ProductID:         bread.ID,
			WarehouseID:       warehouse.ID,
			Quantity:          decimal.NewFromInt(2),
			ManufacturingDate: mfgDate,
		})
		require.NoError(t, err)

		// 2 at 1.00 + 4 at 2.50 = 12.00 over 2 units of output
		assert.True(t, result.UnitCost.Equal(decimal.RequireFromString("6.00")), "got %s", result.UnitCost)
	})

	t.Run("non-positive quantity is invalid", func(t *testing.T) {
		store := newMemStore()
		service := NewManufacturingService(store.scope())

		_, err := service.Manufacture(ctx, ManufactureRequest{
			ProductID:   uuid.New(),
			WarehouseID: uuid.New(),
			Quantity:    decimal.Zero,
		})

		assert.Error(t, err)
	})

	t.Run("unknown product is not found", func(t *testing.T) {
		store := newMemStore()
		warehouse := setupWarehouse(t, store, "MAIN")
		service := NewManufacturingService(store.scope())

		_, err := service.Manufacture(ctx, ManufactureRequest{
			ProductID:         uuid.New(),
			WarehouseID:       warehouse.ID,
			Quantity:          decimal.NewFromInt(1),
			ManufacturingDate: mfgDate,
		})

		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}
