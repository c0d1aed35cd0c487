package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/provisio/backend/internal/domain/catalog"
	"github.com/provisio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Balance is the current quantity-on-hand of one component in one warehouse.
// It is the aggregate root for stock operations; its batches subdivide the
// quantity into dated lots for expiry-aware FIFO depletion.
//
// The composite identifier is WarehouseID + ComponentID + Kind. At rest,
// QuantityOnHand equals the sum of the batch quantities; the invariant is
// maintained by disciplined mutation, not by a database constraint.
type Balance struct {
	shared.BaseAggregateRoot
	WarehouseID    uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_balance_warehouse_component,priority:1"`
	ComponentID    uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_balance_warehouse_component,priority:2"`
	Kind           catalog.ComponentKind `gorm:"type:varchar(20);not null;uniqueIndex:idx_balance_warehouse_component,priority:3"`
	QuantityOnHand decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`

	// Associations - loaded explicitly through repositories
	Batches []Batch `gorm:"foreignKey:BalanceID;references:ID"`
}

// TableName returns the table name for GORM
func (Balance) TableName() string {
	return "balances"
}

// NewBalance creates a zero-quantity balance for a warehouse-component pair
func NewBalance(warehouseID, componentID uuid.UUID, kind catalog.ComponentKind) (*Balance, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if componentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPONENT", "Component ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Component kind must be INGREDIENT or PRODUCT")
	}

	return &Balance{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		WarehouseID:       warehouseID,
		ComponentID:       componentID,
		Kind:              kind,
		QuantityOnHand:    decimal.Zero,
		Batches:           make([]Batch, 0),
	}, nil
}

// Adjust applies a signed delta to the quantity on hand. It performs no sign
// validation of the result; callers gate against under-consumption before
// calling (see TransferService and ManufacturingService).
func (b *Balance) Adjust(delta decimal.Decimal) {
	b.QuantityOnHand = b.QuantityOnHand.Add(delta)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// CanFulfill returns true if the quantity on hand covers the requested quantity
func (b *Balance) CanFulfill(quantity decimal.Decimal) bool {
	return b.QuantityOnHand.GreaterThanOrEqual(quantity)
}

// HasStock returns true if there is any quantity on hand
func (b *Balance) HasStock() bool {
	return b.QuantityOnHand.GreaterThan(decimal.Zero)
}

// BatchQuantityTotal sums the quantities of the loaded batches
func (b *Balance) BatchQuantityTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range b.Batches {
		total = total.Add(b.Batches[i].Quantity)
	}
	return total
}
