package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/provisio/backend/internal/domain/inventory"
	"github.com/provisio/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBatchRepository implements BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByID finds a batch by its ID
func (r *GormBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Batch, error) {
	var batch inventory.Batch
	if err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByBalanceOrderedByExpiration returns the balance's lots in depletion
// order. NULLS LAST keeps never-expiring lots at the end of the FIFO queue.
func (r *GormBatchRepository) FindByBalanceOrderedByExpiration(ctx context.Context, balanceID uuid.UUID) ([]inventory.Batch, error) {
	var batches []inventory.Batch
	if err := r.db.WithContext(ctx).
		Where("balance_id = ?", balanceID).
		Order("expiration_date ASC NULLS LAST, created_at ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindByBalanceAndExpiration finds the lot on a balance carrying exactly the
// given expiration date; nil matches the lot that never expires.
func (r *GormBatchRepository) FindByBalanceAndExpiration(ctx context.Context, balanceID uuid.UUID, expiration *time.Time) (*inventory.Batch, error) {
	query := r.db.WithContext(ctx).Where("balance_id = ?", balanceID)
	if expiration == nil {
		query = query.Where("expiration_date IS NULL")
	} else {
		query = query.Where("expiration_date = ?", *expiration)
	}

	var batch inventory.Batch
	if err := query.First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// Save creates or updates a batch
func (r *GormBatchRepository) Save(ctx context.Context, batch *inventory.Batch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// Ensure interface compliance
var _ inventory.BatchRepository = (*GormBatchRepository)(nil)
