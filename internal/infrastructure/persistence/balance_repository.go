package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/provisio/backend/internal/domain/catalog"
	"github.com/provisio/backend/internal/domain/inventory"
	"github.com/provisio/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBalanceRepository implements BalanceRepository using GORM
type GormBalanceRepository struct {
	db *gorm.DB
}

// NewGormBalanceRepository creates a new GormBalanceRepository
func NewGormBalanceRepository(db *gorm.DB) *GormBalanceRepository {
	return &GormBalanceRepository{db: db}
}

// FindByID finds a balance by its ID
func (r *GormBalanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Balance, error) {
	var balance inventory.Balance
	if err := r.db.WithContext(ctx).First(&balance, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &balance, nil
}

// FindByWarehouseAndComponent finds a balance by its composite key
func (r *GormBalanceRepository) FindByWarehouseAndComponent(ctx context.Context, warehouseID, componentID uuid.UUID, kind catalog.ComponentKind) (*inventory.Balance, error) {
	var balance inventory.Balance
	if err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND component_id = ? AND kind = ?", warehouseID, componentID, kind).
		First(&balance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &balance, nil
}

// GetOrCreate gets the existing balance or creates a zero-quantity one
func (r *GormBalanceRepository) GetOrCreate(ctx context.Context, warehouseID, componentID uuid.UUID, kind catalog.ComponentKind) (*inventory.Balance, error) {
	balance, err := r.FindByWarehouseAndComponent(ctx, warehouseID, componentID, kind)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	balance, err = inventory.NewBalance(warehouseID, componentID, kind)
	if err != nil {
		return nil, err
	}

	// ON CONFLICT handles the race where two callers create the same row
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "warehouse_id"}, {Name: "component_id"}, {Name: "kind"}},
			DoNothing: true,
		}).
		Create(balance)
	if result.Error != nil {
		return nil, result.Error
	}

	// Nothing inserted means another caller won the race, fetch theirs
	if result.RowsAffected == 0 {
		return r.FindByWarehouseAndComponent(ctx, warehouseID, componentID, kind)
	}

	return balance, nil
}

// Save creates or updates a balance
func (r *GormBalanceRepository) Save(ctx context.Context, balance *inventory.Balance) error {
	return r.db.WithContext(ctx).Omit("Batches").Save(balance).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormBalanceRepository) SaveWithLock(ctx context.Context, balance *inventory.Balance) error {
	result := r.db.WithContext(ctx).
		Model(balance).
		Where("id = ? AND version = ?", balance.ID, balance.Version-1).
		Updates(map[string]interface{}{
			"quantity_on_hand": balance.QuantityOnHand,
			"version":          balance.Version,
			"updated_at":       balance.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure interface compliance
var _ inventory.BalanceRepository = (*GormBalanceRepository)(nil)
