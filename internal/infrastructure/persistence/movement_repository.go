package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/provisio/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormMovementRepository implements the append-only MovementRepository using GORM
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Create appends a movement; movements are never updated or deleted
func (r *GormMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByBalance returns the movements recorded for a balance, most recent first
func (r *GormMovementRepository) FindByBalance(ctx context.Context, balanceID uuid.UUID, limit int) ([]inventory.StockMovement, error) {
	query := r.db.WithContext(ctx).
		Where("balance_id = ?", balanceID).
		Order("occurred_at DESC, created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var movements []inventory.StockMovement
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// GormTransferRecordRepository implements the append-only TransferRecordRepository using GORM
type GormTransferRecordRepository struct {
	db *gorm.DB
}

// NewGormTransferRecordRepository creates a new GormTransferRecordRepository
func NewGormTransferRecordRepository(db *gorm.DB) *GormTransferRecordRepository {
	return &GormTransferRecordRepository{db: db}
}

// Create appends a transfer record
func (r *GormTransferRecordRepository) Create(ctx context.Context, record *inventory.TransferRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// Ensure interface compliance
var _ inventory.MovementRepository = (*GormMovementRepository)(nil)
var _ inventory.TransferRecordRepository = (*GormTransferRecordRepository)(nil)
