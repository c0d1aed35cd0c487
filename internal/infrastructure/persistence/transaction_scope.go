package persistence

import (
	"context"

	appinv "github.com/provisio/backend/internal/application/inventory"
	"github.com/provisio/backend/internal/domain/catalog"
	"github.com/provisio/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormTransactionScope implements the application TransactionScope using GORM
// transactions. Every stock operation runs inside Execute so its balance,
// batch and history writes commit or roll back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Balances returns the balance repository scoped to the current transaction
func (r *gormTransactionalRepositories) Balances() inventory.BalanceRepository {
	return NewGormBalanceRepository(r.tx)
}

// Batches returns the batch repository scoped to the current transaction
func (r *gormTransactionalRepositories) Batches() inventory.BatchRepository {
	return NewGormBatchRepository(r.tx)
}

// Movements returns the stock movement repository scoped to the current transaction
func (r *gormTransactionalRepositories) Movements() inventory.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

// Transfers returns the transfer record repository scoped to the current transaction
func (r *gormTransactionalRepositories) Transfers() inventory.TransferRecordRepository {
	return NewGormTransferRecordRepository(r.tx)
}

// Components returns the component repository scoped to the current transaction
func (r *gormTransactionalRepositories) Components() catalog.ComponentRepository {
	return NewGormComponentRepository(r.tx)
}

// Warehouses returns the warehouse repository scoped to the current transaction
func (r *gormTransactionalRepositories) Warehouses() catalog.WarehouseRepository {
	return NewGormWarehouseRepository(r.tx)
}

// Recipes returns the recipe repository scoped to the current transaction
func (r *gormTransactionalRepositories) Recipes() catalog.RecipeRepository {
	return NewGormRecipeRepository(r.tx)
}

// Ensure interface compliance
var _ appinv.TransactionScope = (*GormTransactionScope)(nil)
var _ appinv.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
