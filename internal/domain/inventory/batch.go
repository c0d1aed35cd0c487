package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/provisio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Batch is a dated lot backing part of a balance. Batches are created on
// receipt, manufacture output, or transfer-in, depleted FIFO by expiration
// date, and retained at zero quantity rather than deleted.
type Batch struct {
	shared.BaseEntity
	BalanceID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ImportDate        time.Time       `gorm:"type:timestamptz;not null"`
	ManufacturingDate time.Time       `gorm:"type:timestamptz;not null"`
	ExpirationDate    *time.Time      `gorm:"type:timestamptz;index"` // nil = never expires, depleted last
	SourceRef         string          `gorm:"type:varchar(100)"`      // originating receipt/manufacture reference
}

// TableName returns the table name for GORM
func (Batch) TableName() string {
	return "batches"
}

// NewBatch creates a new lot for a balance
func NewBatch(
	balanceID uuid.UUID,
	quantity decimal.Decimal,
	unitCost decimal.Decimal,
	importDate, manufacturingDate time.Time,
	expirationDate *time.Time,
	sourceRef string,
) (*Batch, error) {
	if balanceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BALANCE", "Balance ID cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Batch quantity cannot be negative")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Batch unit cost cannot be negative")
	}

	return &Batch{
		BaseEntity:        shared.NewBaseEntity(),
		BalanceID:         balanceID,
		Quantity:          quantity,
		UnitCost:          unitCost,
		ImportDate:        importDate,
		ManufacturingDate: manufacturingDate,
		ExpirationDate:    expirationDate,
		SourceRef:         sourceRef,
	}, nil
}

// Deduct reduces the batch quantity, capped at what the batch holds.
// Returns the quantity actually deducted.
func (b *Batch) Deduct(quantity decimal.Decimal) decimal.Decimal {
	if quantity.GreaterThan(b.Quantity) {
		deducted := b.Quantity
		b.Quantity = decimal.Zero
		b.UpdatedAt = time.Now()
		return deducted
	}
	b.Quantity = b.Quantity.Sub(quantity)
	b.UpdatedAt = time.Now()
	return quantity
}

// Add increases the batch quantity (transfer-in merge)
func (b *Batch) Add(quantity decimal.Decimal) {
	b.Quantity = b.Quantity.Add(quantity)
	b.UpdatedAt = time.Now()
}

// HasStock returns true if the batch has remaining quantity
func (b *Batch) HasStock() bool {
	return b.Quantity.GreaterThan(decimal.Zero)
}

// IsExpired returns true if the batch has expired at the given time
func (b *Batch) IsExpired(now time.Time) bool {
	if b.ExpirationDate == nil {
		return false
	}
	return b.ExpirationDate.Before(now)
}

// SameExpiration reports whether the batch carries the given expiration date.
// Two nil dates match; a nil and a non-nil date do not.
func (b *Batch) SameExpiration(expiration *time.Time) bool {
	if b.ExpirationDate == nil || expiration == nil {
		return b.ExpirationDate == nil && expiration == nil
	}
	return b.ExpirationDate.Equal(*expiration)
}

// TotalValue returns quantity times unit cost
func (b *Batch) TotalValue() decimal.Decimal {
	return b.Quantity.Mul(b.UnitCost)
}
