package inventory

import (
	"context"

	"github.com/provisio/backend/internal/domain/catalog"
	"github.com/provisio/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the repositories a stock
// operation touches. When a function is executed within a transaction scope,
// all repository operations are part of the same database transaction and
// commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a
// transaction. All repositories returned share the same underlying database
// transaction.
//
// Aggregate boundary notes:
//   - Balances: repository for the Balance aggregate root. Balance saves go
//     through SaveWithLock so concurrent mutations of the same
//     (warehouse, component) row surface a version conflict.
//   - Batches: lots are child entities of Balance but have their own
//     repository because depletion and transfer work on explicitly ordered
//     lot sets rather than association loading.
//   - Movements and Transfers are append-only history.
//   - Components, Warehouses and Recipes are catalog reads; the stock
//     operations never mutate them.
type TransactionalRepositories interface {
	// Balances returns the balance repository scoped to the current transaction
	Balances() inventory.BalanceRepository
	// Batches returns the batch repository scoped to the current transaction
	Batches() inventory.BatchRepository
	// Movements returns the stock movement repository scoped to the current transaction
	Movements() inventory.MovementRepository
	// Transfers returns the transfer record repository scoped to the current transaction
	Transfers() inventory.TransferRecordRepository
	// Components returns the component repository scoped to the current transaction
	Components() catalog.ComponentRepository
	// Warehouses returns the warehouse repository scoped to the current transaction
	Warehouses() catalog.WarehouseRepository
	// Recipes returns the recipe repository scoped to the current transaction
	Recipes() catalog.RecipeRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is
// not required.
type NoOpTransactionScope struct {
	balanceRepo   inventory.BalanceRepository
	batchRepo     inventory.BatchRepository
	movementRepo  inventory.MovementRepository
	transferRepo  inventory.TransferRecordRepository
	componentRepo catalog.ComponentRepository
	warehouseRepo catalog.WarehouseRepository
	recipeRepo    catalog.RecipeRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	balanceRepo inventory.BalanceRepository,
	batchRepo inventory.BatchRepository,
	movementRepo inventory.MovementRepository,
	transferRepo inventory.TransferRecordRepository,
	componentRepo catalog.ComponentRepository,
	warehouseRepo catalog.WarehouseRepository,
	recipeRepo catalog.RecipeRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		balanceRepo:   balanceRepo,
		batchRepo:     batchRepo,
		movementRepo:  movementRepo,
		transferRepo:  transferRepo,
		componentRepo: componentRepo,
		warehouseRepo: warehouseRepo,
		recipeRepo:    recipeRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Balances returns the balance repository.
func (s *NoOpTransactionScope) Balances() inventory.BalanceRepository {
	return s.balanceRepo
}

// Batches returns the batch repository.
func (s *NoOpTransactionScope) Batches() inventory.BatchRepository {
	return s.batchRepo
}

// Movements returns the stock movement repository.
func (s *NoOpTransactionScope) Movements() inventory.MovementRepository {
	return s.movementRepo
}

// Transfers returns the transfer record repository.
func (s *NoOpTransactionScope) Transfers() inventory.TransferRecordRepository {
	return s.transferRepo
}

// Components returns the component repository.
func (s *NoOpTransactionScope) Components() catalog.ComponentRepository {
	return s.componentRepo
}

// Warehouses returns the warehouse repository.
func (s *NoOpTransactionScope) Warehouses() catalog.WarehouseRepository {
	return s.warehouseRepo
}

// Recipes returns the recipe repository.
func (s *NoOpTransactionScope) Recipes() catalog.RecipeRepository {
	return s.recipeRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
