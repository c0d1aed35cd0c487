package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/provisio/backend/internal/domain/catalog"
)

// BalanceRepository defines the interface for balance persistence.
// One row exists per (warehouse, component, kind); balances are created
// lazily and never deleted, only driven to zero.
type BalanceRepository interface {
	// FindByID finds a balance by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Balance, error)

	// FindByWarehouseAndComponent finds a balance by its composite key.
	// Returns shared.ErrNotFound when no balance exists yet.
	FindByWarehouseAndComponent(ctx context.Context, warehouseID, componentID uuid.UUID, kind catalog.ComponentKind) (*Balance, error)

	// GetOrCreate returns the existing balance or creates a zero-quantity one
	GetOrCreate(ctx context.Context, warehouseID, componentID uuid.UUID, kind catalog.ComponentKind) (*Balance, error)

	// Save creates or updates a balance
	Save(ctx context.Context, balance *Balance) error

	// SaveWithLock saves a balance with an optimistic version check.
	// Returns shared.ErrConcurrencyConflict when the row moved underneath.
	SaveWithLock(ctx context.Context, balance *Balance) error
}

// BatchRepository defines the interface for batch (lot) persistence.
// Batches belong to the Balance aggregate; this repository exists because
// depletion works on explicitly ordered lot sets rather than lazy association
// loading.
type BatchRepository interface {
	// FindByID finds a batch by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Batch, error)

	// FindByBalanceOrderedByExpiration returns the balance's lots in
	// depletion order: expiration ascending, nulls last, then creation date.
	FindByBalanceOrderedByExpiration(ctx context.Context, balanceID uuid.UUID) ([]Batch, error)

	// FindByBalanceAndExpiration finds a lot on the balance carrying exactly
	// the given expiration date (nil matches the never-expires lot).
	// Returns shared.ErrNotFound when no such lot exists.
	FindByBalanceAndExpiration(ctx context.Context, balanceID uuid.UUID, expiration *time.Time) (*Batch, error)

	// Save creates or updates a batch
	Save(ctx context.Context, batch *Batch) error
}

// MovementRepository is the append-only store for stock movements
type MovementRepository interface {
	// Create appends a movement; movements are never updated or deleted
	Create(ctx context.Context, movement *StockMovement) error

	// FindByBalance returns the movements recorded for a balance,
	// most recent first.
	FindByBalance(ctx context.Context, balanceID uuid.UUID, limit int) ([]StockMovement, error)
}

// TransferRecordRepository is the append-only store for transfer records
type TransferRecordRepository interface {
	// Create appends a transfer record
	Create(ctx context.Context, record *TransferRecord) error
}
