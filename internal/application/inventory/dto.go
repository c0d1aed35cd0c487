package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/provisio/backend/internal/domain/catalog"
	"github.com/provisio/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// ReceiveRequest is one line of a receiving event arriving into stock.
// EventLines carries every line of the event (including this one) together
// with the event's ancillary expenses, so the unit cost can be computed by
// proportional allocation. When EventLines is empty the request is priced
// as a single-line event.
type ReceiveRequest struct {
	WarehouseID       uuid.UUID
	ComponentID       uuid.UUID
	Kind              catalog.ComponentKind
	Quantity          decimal.Decimal
	BasePrice         decimal.Decimal
	ImportDate        time.Time
	ManufacturingDate time.Time
	SourceRef         string

	LineID        uuid.UUID
	EventLines    []inventory.ReceiptLine
	TotalExpenses decimal.Decimal
}

// line returns this request's pricing line within its event
func (r ReceiveRequest) line() inventory.ReceiptLine {
	return inventory.ReceiptLine{
		LineID:    r.LineID,
		BasePrice: r.BasePrice,
		Quantity:  r.Quantity,
	}
}

// BatchResult describes the lot created by a receive operation.
// A zero-quantity request yields a zero-value result.
type BatchResult struct {
	BatchID        uuid.UUID
	UnitCost       decimal.Decimal
	ExpirationDate *time.Time
	Quantity       decimal.Decimal
}

// TransferRequest moves stock of one component between two warehouses
type TransferRequest struct {
	ComponentID     uuid.UUID
	Kind            catalog.ComponentKind
	FromWarehouseID uuid.UUID
	ToWarehouseID   uuid.UUID
	Quantity        decimal.Decimal
	TransferDate    time.Time
}

// ExtraComponent is an additional, non-recipe input consumed by a
// manufacture run, expressed per unit of output.
type ExtraComponent struct {
	ComponentID     uuid.UUID
	Kind            catalog.ComponentKind
	QuantityPerUnit decimal.Decimal
}

// ManufactureRequest produces a quantity of a product, consuming its recipe
// graph (and any extra components) from stock.
type ManufactureRequest struct {
	ProductID         uuid.UUID
	WarehouseID       uuid.UUID
	Quantity          decimal.Decimal
	ManufacturingDate time.Time
	ExtraComponents   []ExtraComponent
}

// ManufactureResult describes the output lot of a manufacture run.
// UnitCost is the weighted cost of everything consumed spread over the
// output quantity.
type ManufactureResult struct {
	BatchID        uuid.UUID
	ExpirationDate *time.Time
	UnitCost       decimal.Decimal
}
