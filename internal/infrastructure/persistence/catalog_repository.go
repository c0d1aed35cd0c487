package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/provisio/backend/internal/domain/catalog"
	"github.com/provisio/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormWarehouseRepository implements WarehouseRepository using GORM
type GormWarehouseRepository struct {
	db *gorm.DB
}

// NewGormWarehouseRepository creates a new GormWarehouseRepository
func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

// FindByID finds a warehouse by its ID
func (r *GormWarehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Warehouse, error) {
	var warehouse catalog.Warehouse
	if err := r.db.WithContext(ctx).First(&warehouse, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &warehouse, nil
}

// FindByCode finds a warehouse by its code
func (r *GormWarehouseRepository) FindByCode(ctx context.Context, code string) (*catalog.Warehouse, error) {
	var warehouse catalog.Warehouse
	if err := r.db.WithContext(ctx).First(&warehouse, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &warehouse, nil
}

// ExistsByID checks whether a warehouse exists
func (r *GormWarehouseRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Warehouse{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a warehouse
func (r *GormWarehouseRepository) Save(ctx context.Context, warehouse *catalog.Warehouse) error {
	return r.db.WithContext(ctx).Save(warehouse).Error
}

// GormComponentRepository implements ComponentRepository using GORM
type GormComponentRepository struct {
	db *gorm.DB
}

// NewGormComponentRepository creates a new GormComponentRepository
func NewGormComponentRepository(db *gorm.DB) *GormComponentRepository {
	return &GormComponentRepository{db: db}
}

// FindByID finds a component by ID and kind
func (r *GormComponentRepository) FindByID(ctx context.Context, id uuid.UUID, kind catalog.ComponentKind) (*catalog.Component, error) {
	var component catalog.Component
	if err := r.db.WithContext(ctx).
		Where("id = ? AND kind = ?", id, kind).
		First(&component).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &component, nil
}

// FindByIDAnyKind finds a component by ID regardless of kind
func (r *GormComponentRepository) FindByIDAnyKind(ctx context.Context, id uuid.UUID) (*catalog.Component, error) {
	var component catalog.Component
	if err := r.db.WithContext(ctx).First(&component, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &component, nil
}

// Save creates or updates a component
func (r *GormComponentRepository) Save(ctx context.Context, component *catalog.Component) error {
	return r.db.WithContext(ctx).Save(component).Error
}

// GormRecipeRepository implements RecipeRepository using GORM
type GormRecipeRepository struct {
	db *gorm.DB
}

// NewGormRecipeRepository creates a new GormRecipeRepository
func NewGormRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

// FindByProduct returns the product's recipe, ordered by sort order.
// A product without lines yields an empty (non-nil) recipe.
func (r *GormRecipeRepository) FindByProduct(ctx context.Context, productID uuid.UUID) (*catalog.Recipe, error) {
	var lines []catalog.RecipeLine
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("sort_order ASC, created_at ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return &catalog.Recipe{ProductID: productID, Lines: lines}, nil
}

// SaveLine creates or updates a single recipe line
func (r *GormRecipeRepository) SaveLine(ctx context.Context, line *catalog.RecipeLine) error {
	if err := line.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(line).Error
}

// Ensure interface compliance
var _ catalog.WarehouseRepository = (*GormWarehouseRepository)(nil)
var _ catalog.ComponentRepository = (*GormComponentRepository)(nil)
var _ catalog.RecipeRepository = (*GormRecipeRepository)(nil)
