package inventory

import (
	"github.com/google/uuid"
	"github.com/provisio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type constants
const (
	EventTypeStockReceived       = "inventory.stock_received"
	EventTypeStockTransferred    = "inventory.stock_transferred"
	EventTypeStockConsumed       = "inventory.stock_consumed"
	EventTypeProductManufactured = "inventory.product_manufactured"
)

const aggregateTypeBalance = "Balance"

// StockReceivedEvent is emitted when new stock is received into a warehouse
type StockReceivedEvent struct {
	shared.BaseDomainEvent
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ComponentID uuid.UUID       `json:"component_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	BatchID     uuid.UUID       `json:"batch_id"`
}

// NewStockReceivedEvent creates a StockReceivedEvent
func NewStockReceivedEvent(balance *Balance, batch *Batch) *StockReceivedEvent {
	return &StockReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReceived, aggregateTypeBalance, balance.ID),
		WarehouseID:     balance.WarehouseID,
		ComponentID:     balance.ComponentID,
		Quantity:        batch.Quantity,
		UnitCost:        batch.UnitCost,
		BatchID:         batch.ID,
	}
}

// StockTransferredEvent is emitted when stock moves between warehouses
type StockTransferredEvent struct {
	shared.BaseDomainEvent
	ComponentID     uuid.UUID       `json:"component_id"`
	FromWarehouseID uuid.UUID       `json:"from_warehouse_id"`
	ToWarehouseID   uuid.UUID       `json:"to_warehouse_id"`
	Quantity        decimal.Decimal `json:"quantity"`
}

// NewStockTransferredEvent creates a StockTransferredEvent
func NewStockTransferredEvent(record *TransferRecord, sourceBalanceID uuid.UUID) *StockTransferredEvent {
	return &StockTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTransferred, aggregateTypeBalance, sourceBalanceID),
		ComponentID:     record.ComponentID,
		FromWarehouseID: record.FromWarehouseID,
		ToWarehouseID:   record.ToWarehouseID,
		Quantity:        record.Quantity,
	}
}

// StockConsumedEvent is emitted for each component consumed by manufacturing
type StockConsumedEvent struct {
	shared.BaseDomainEvent
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ComponentID uuid.UUID       `json:"component_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// NewStockConsumedEvent creates a StockConsumedEvent
func NewStockConsumedEvent(balance *Balance, quantity decimal.Decimal) *StockConsumedEvent {
	return &StockConsumedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockConsumed, aggregateTypeBalance, balance.ID),
		WarehouseID:     balance.WarehouseID,
		ComponentID:     balance.ComponentID,
		Quantity:        quantity,
	}
}

// ProductManufacturedEvent is emitted when manufacturing output lands in stock
type ProductManufacturedEvent struct {
	shared.BaseDomainEvent
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	BatchID     uuid.UUID       `json:"batch_id"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// NewProductManufacturedEvent creates a ProductManufacturedEvent
func NewProductManufacturedEvent(balance *Balance, batch *Batch) *ProductManufacturedEvent {
	return &ProductManufacturedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductManufactured, aggregateTypeBalance, balance.ID),
		WarehouseID:     balance.WarehouseID,
		ProductID:       balance.ComponentID,
		Quantity:        batch.Quantity,
		BatchID:         batch.ID,
		UnitCost:        batch.UnitCost,
	}
}
