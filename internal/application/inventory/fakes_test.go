package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/provisio/backend/internal/domain/catalog"
	"github.com/provisio/backend/internal/domain/inventory"
	"github.com/provisio/backend/internal/domain/shared"
)

// memStore is an in-memory backing store shared by the fake repositories.
// It mimics database semantics closely enough for service tests: reads hand
// out copies, saves copy back, and SaveWithLock enforces the version column.
type memStore struct {
	balances   map[uuid.UUID]*inventory.Balance
	batches    map[uuid.UUID]*inventory.Batch
	movements  []*inventory.StockMovement
	transfers  []*inventory.TransferRecord
	components map[uuid.UUID]*catalog.Component
	warehouses map[uuid.UUID]*catalog.Warehouse
	recipes    map[uuid.UUID][]catalog.RecipeLine
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func newMemStore() *memStore {
	return &memStore{
		balances:   make(map[uuid.UUID]*inventory.Balance),
		batches:    make(map[uuid.UUID]*inventory.Batch),
		components: make(map[uuid.UUID]*catalog.Component),
		warehouses: make(map[uuid.UUID]*catalog.Warehouse),
		recipes:    make(map[uuid.UUID][]catalog.RecipeLine),
	}
}

// scope builds a no-op transaction scope over the store's fake repositories
func (s *memStore) scope() *NoOpTransactionScope {
	return NewNoOpTransactionScope(
		&memBalanceRepo{s},
		&memBatchRepo{s},
		&memMovementRepo{s},
		&memTransferRepo{s},
		&memComponentRepo{s},
		&memWarehouseRepo{s},
		&memRecipeRepo{s},
	)
}

func (s *memStore) addWarehouse(w *catalog.Warehouse) {
	s.warehouses[w.ID] = w
}

func (s *memStore) addComponent(c *catalog.Component) {
	s.components[c.ID] = c
}

func (s *memStore) addRecipeLine(line *catalog.RecipeLine) {
	s.recipes[line.ProductID] = append(s.recipes[line.ProductID], *line)
}

func (s *memStore) findBalance(warehouseID, componentID uuid.UUID) *inventory.Balance {
	for _, b := range s.balances {
		if b.WarehouseID == warehouseID && b.ComponentID == componentID {
			return b
		}
	}
	return nil
}

func (s *memStore) batchesOf(balanceID uuid.UUID) []inventory.Batch {
	var out []inventory.Batch
	for _, b := range s.batches {
		if b.BalanceID == balanceID {
			out = append(out, *b)
		}
	}
	return out
}

func (s *memStore) movementsOf(balanceID uuid.UUID) []*inventory.StockMovement {
	var out []*inventory.StockMovement
	for _, m := range s.movements {
		if m.BalanceID == balanceID {
			out = append(out, m)
		}
	}
	return out
}

type memBalanceRepo struct{ store *memStore }

func (r *memBalanceRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.Balance, error) {
	b, ok := r.store.balances[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *memBalanceRepo) FindByWarehouseAndComponent(_ context.Context, warehouseID, componentID uuid.UUID, kind catalog.ComponentKind) (*inventory.Balance, error) {
	for _, b := range r.store.balances {
		if b.WarehouseID == warehouseID && b.ComponentID == componentID && b.Kind == kind {
			copied := *b
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memBalanceRepo) GetOrCreate(ctx context.Context, warehouseID, componentID uuid.UUID, kind catalog.ComponentKind) (*inventory.Balance, error) {
	if b, err := r.FindByWarehouseAndComponent(ctx, warehouseID, componentID, kind); err == nil {
		return b, nil
	}
	b, err := inventory.NewBalance(warehouseID, componentID, kind)
	if err != nil {
		return nil, err
	}
	stored := *b
	r.store.balances[b.ID] = &stored
	return b, nil
}

func (r *memBalanceRepo) Save(_ context.Context, balance *inventory.Balance) error {
	copied := *balance
	r.store.balances[balance.ID] = &copied
	return nil
}

func (r *memBalanceRepo) SaveWithLock(_ context.Context, balance *inventory.Balance) error {
	existing, ok := r.store.balances[balance.ID]
	if ok && existing.Version >= balance.Version {
		return shared.ErrConcurrencyConflict
	}
	copied := *balance
	r.store.balances[balance.ID] = &copied
	return nil
}

type memBatchRepo struct{ store *memStore }

func (r *memBatchRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.Batch, error) {
	b, ok := r.store.batches[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *memBatchRepo) FindByBalanceOrderedByExpiration(_ context.Context, balanceID uuid.UUID) ([]inventory.Batch, error) {
	return inventory.SortByExpiration(r.store.batchesOf(balanceID)), nil
}

func (r *memBatchRepo) FindByBalanceAndExpiration(_ context.Context, balanceID uuid.UUID, expiration *time.Time) (*inventory.Batch, error) {
	for _, b := range r.store.batches {
		if b.BalanceID == balanceID && b.SameExpiration(expiration) {
			copied := *b
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memBatchRepo) Save(_ context.Context, batch *inventory.Batch) error {
	copied := *batch
	r.store.batches[batch.ID] = &copied
	return nil
}

type memMovementRepo struct{ store *memStore }

func (r *memMovementRepo) Create(_ context.Context, movement *inventory.StockMovement) error {
	copied := *movement
	r.store.movements = append(r.store.movements, &copied)
	return nil
}

func (r *memMovementRepo) FindByBalance(_ context.Context, balanceID uuid.UUID, limit int) ([]inventory.StockMovement, error) {
	var out []inventory.StockMovement
	for _, m := range r.store.movements {
		if m.BalanceID == balanceID {
			out = append(out, *m)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type memTransferRepo struct{ store *memStore }

func (r *memTransferRepo) Create(_ context.Context, record *inventory.TransferRecord) error {
	copied := *record
	r.store.transfers = append(r.store.transfers, &copied)
	return nil
}

type memComponentRepo struct{ store *memStore }

func (r *memComponentRepo) FindByID(_ context.Context, id uuid.UUID, kind catalog.ComponentKind) (*catalog.Component, error) {
	c, ok := r.store.components[id]
	if !ok || c.Kind != kind {
		return nil, shared.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *memComponentRepo) FindByIDAnyKind(_ context.Context, id uuid.UUID) (*catalog.Component, error) {
	c, ok := r.store.components[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *memComponentRepo) Save(_ context.Context, component *catalog.Component) error {
	copied := *component
	r.store.components[component.ID] = &copied
	return nil
}

type memWarehouseRepo struct{ store *memStore }

func (r *memWarehouseRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Warehouse, error) {
	w, ok := r.store.warehouses[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *w
	return &copied, nil
}

func (r *memWarehouseRepo) FindByCode(_ context.Context, code string) (*catalog.Warehouse, error) {
	for _, w := range r.store.warehouses {
		if w.Code == code {
			copied := *w
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memWarehouseRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.store.warehouses[id]
	return ok, nil
}

func (r *memWarehouseRepo) Save(_ context.Context, warehouse *catalog.Warehouse) error {
	copied := *warehouse
	r.store.warehouses[warehouse.ID] = &copied
	return nil
}

type memRecipeRepo struct{ store *memStore }

func (r *memRecipeRepo) FindByProduct(_ context.Context, productID uuid.UUID) (*catalog.Recipe, error) {
	lines := r.store.recipes[productID]
	out := make([]catalog.RecipeLine, len(lines))
	copy(out, lines)
	return &catalog.Recipe{ProductID: productID, Lines: out}, nil
}

func (r *memRecipeRepo) SaveLine(_ context.Context, line *catalog.RecipeLine) error {
	r.store.addRecipeLine(line)
	return nil
}
