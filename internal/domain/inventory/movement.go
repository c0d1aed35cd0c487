package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/provisio/backend/internal/domain/catalog"
	"github.com/provisio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementDirection represents the sign of a stock movement
type MovementDirection string

const (
	// MovementIncrease adds to the quantity on hand
	MovementIncrease MovementDirection = "INCREASE"
	// MovementDecrease removes from the quantity on hand
	MovementDecrease MovementDirection = "DECREASE"
)

// String returns the string representation
func (d MovementDirection) String() string {
	return string(d)
}

// IsValid returns true if the direction is known
func (d MovementDirection) IsValid() bool {
	return d == MovementIncrease || d == MovementDecrease
}

// MovementReason identifies the operation that produced a movement
type MovementReason string

const (
	// ReasonReceipt is new stock received into a warehouse
	ReasonReceipt MovementReason = "RECEIPT"
	// ReasonTransferOut is stock leaving a warehouse for another
	ReasonTransferOut MovementReason = "TRANSFER_OUT"
	// ReasonTransferIn is stock arriving from another warehouse
	ReasonTransferIn MovementReason = "TRANSFER_IN"
	// ReasonConsumption is stock consumed by manufacturing
	ReasonConsumption MovementReason = "CONSUMPTION"
	// ReasonManufacture is manufactured output added to stock
	ReasonManufacture MovementReason = "MANUFACTURE"
)

// String returns the string representation
func (r MovementReason) String() string {
	return string(r)
}

// IsValid returns true if the reason is known
func (r MovementReason) IsValid() bool {
	switch r {
	case ReasonReceipt, ReasonTransferOut, ReasonTransferIn, ReasonConsumption, ReasonManufacture:
		return true
	}
	return false
}

// StockMovement is an immutable record of one balance mutation. Once created
// it is never updated or deleted; corrections are made with new movements.
type StockMovement struct {
	shared.BaseEntity
	BalanceID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	WarehouseID    uuid.UUID             `gorm:"type:uuid;not null;index"`
	ComponentID    uuid.UUID             `gorm:"type:uuid;not null;index"`
	Kind           catalog.ComponentKind `gorm:"type:varchar(20);not null"`
	Direction      MovementDirection     `gorm:"type:varchar(20);not null;index"`
	Reason         MovementReason        `gorm:"type:varchar(30);not null;index"`
	Quantity       decimal.Decimal       `gorm:"type:decimal(18,4);not null"` // always positive
	QuantityBefore decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	QuantityAfter  decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Note           string                `gorm:"type:varchar(255)"`
	OccurredAt     time.Time             `gorm:"type:timestamptz;not null;index"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates an immutable movement record
func NewStockMovement(
	balance *Balance,
	direction MovementDirection,
	reason MovementReason,
	quantity decimal.Decimal,
	quantityBefore, quantityAfter decimal.Decimal,
	occurredAt time.Time,
) (*StockMovement, error) {
	if balance == nil {
		return nil, shared.NewDomainError("INVALID_BALANCE", "Balance cannot be nil")
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Invalid movement direction")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", "Invalid movement reason")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity must be positive")
	}

	return &StockMovement{
		BaseEntity:     shared.NewBaseEntity(),
		BalanceID:      balance.ID,
		WarehouseID:    balance.WarehouseID,
		ComponentID:    balance.ComponentID,
		Kind:           balance.Kind,
		Direction:      direction,
		Reason:         reason,
		Quantity:       quantity,
		QuantityBefore: quantityBefore,
		QuantityAfter:  quantityAfter,
		OccurredAt:     occurredAt,
	}, nil
}

// WithNote attaches a human-readable note to the movement
func (m *StockMovement) WithNote(note string) *StockMovement {
	m.Note = note
	return m
}

// Delta returns the signed quantity change of the movement
func (m *StockMovement) Delta() decimal.Decimal {
	if m.Direction == MovementDecrease {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// TransferRecord is an immutable record of one inter-warehouse transfer
type TransferRecord struct {
	shared.BaseEntity
	ComponentID     uuid.UUID             `gorm:"type:uuid;not null;index"`
	Kind            catalog.ComponentKind `gorm:"type:varchar(20);not null"`
	FromWarehouseID uuid.UUID             `gorm:"type:uuid;not null;index"`
	ToWarehouseID   uuid.UUID             `gorm:"type:uuid;not null;index"`
	Quantity        decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	TransferDate    time.Time             `gorm:"type:timestamptz;not null"`
}

// TableName returns the table name for GORM
func (TransferRecord) TableName() string {
	return "transfer_records"
}

// NewTransferRecord creates an immutable transfer record
func NewTransferRecord(
	componentID uuid.UUID,
	kind catalog.ComponentKind,
	fromWarehouseID, toWarehouseID uuid.UUID,
	quantity decimal.Decimal,
	transferDate time.Time,
) (*TransferRecord, error) {
	if componentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPONENT", "Component ID cannot be empty")
	}
	if fromWarehouseID == uuid.Nil || toWarehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse IDs cannot be empty")
	}
	if fromWarehouseID == toWarehouseID {
		return nil, shared.NewDomainError("INVALID_TRANSFER", "Source and destination warehouses must differ")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Transfer quantity must be positive")
	}

	return &TransferRecord{
		BaseEntity:      shared.NewBaseEntity(),
		ComponentID:     componentID,
		Kind:            kind,
		FromWarehouseID: fromWarehouseID,
		ToWarehouseID:   toWarehouseID,
		Quantity:        quantity,
		TransferDate:    transferDate,
	}, nil
}
