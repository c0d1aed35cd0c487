package catalog

import (
	"strings"
	"time"

	"github.com/provisio/backend/internal/domain/shared"
)

// Warehouse represents a named storage location holding component balances
type Warehouse struct {
	shared.BaseAggregateRoot
	Code    string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name    string `gorm:"type:varchar(200);not null"`
	Address string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a new warehouse
func NewWarehouse(code, name string) (*Warehouse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE_CODE", "Warehouse code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE_NAME", "Warehouse name cannot be empty")
	}

	return &Warehouse{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
	}, nil
}

// Rename updates the warehouse name
func (w *Warehouse) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_WAREHOUSE_NAME", "Warehouse name cannot be empty")
	}
	w.Name = name
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
	return nil
}
