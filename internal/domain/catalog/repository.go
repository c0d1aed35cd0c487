package catalog

import (
	"context"

	"github.com/google/uuid"
)

// WarehouseRepository defines the interface for warehouse persistence
type WarehouseRepository interface {
	// FindByID finds a warehouse by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Warehouse, error)

	// FindByCode finds a warehouse by its code
	FindByCode(ctx context.Context, code string) (*Warehouse, error)

	// ExistsByID checks whether a warehouse exists
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// Save creates or updates a warehouse
	Save(ctx context.Context, warehouse *Warehouse) error
}

// ComponentRepository defines the interface for component persistence
type ComponentRepository interface {
	// FindByID finds a component by ID and kind
	FindByID(ctx context.Context, id uuid.UUID, kind ComponentKind) (*Component, error)

	// FindByIDAnyKind finds a component by ID regardless of kind
	FindByIDAnyKind(ctx context.Context, id uuid.UUID) (*Component, error)

	// Save creates or updates a component
	Save(ctx context.Context, component *Component) error
}

// RecipeRepository loads recipe graphs for products
type RecipeRepository interface {
	// FindByProduct returns the product's recipe, ordered by sort order.
	// A product without lines yields an empty (non-nil) recipe.
	FindByProduct(ctx context.Context, productID uuid.UUID) (*Recipe, error)

	// SaveLine creates or updates a single recipe line
	SaveLine(ctx context.Context, line *RecipeLine) error
}
