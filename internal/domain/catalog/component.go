package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/provisio/backend/internal/domain/shared"
)

// ComponentKind distinguishes raw ingredients from manufactured products
type ComponentKind string

const (
	// ComponentKindIngredient is a raw material consumed by recipes
	ComponentKindIngredient ComponentKind = "INGREDIENT"
	// ComponentKindProduct is a manufactured good; it may have a recipe of its own
	ComponentKindProduct ComponentKind = "PRODUCT"
)

// String returns the string representation
func (k ComponentKind) String() string {
	return string(k)
}

// IsValid returns true if the kind is a known component kind
func (k ComponentKind) IsValid() bool {
	return k == ComponentKindIngredient || k == ComponentKindProduct
}

// Component represents a stockable item: an ingredient or a manufactured product.
// It is the aggregate root for catalog operations; recipes belong to product
// components and are read-only to the consumption side.
type Component struct {
	shared.BaseAggregateRoot
	Kind ComponentKind `gorm:"type:varchar(20);not null;index"`
	Code string        `gorm:"type:varchar(50);not null;uniqueIndex:idx_component_kind_code,priority:2"`
	Name string        `gorm:"type:varchar(200);not null"`
	Unit string        `gorm:"type:varchar(20);not null"` // Base unit (e.g., "kg", "pcs", "l")

	// ShelfLifeDays is the offset from manufacturing date to expiry.
	// Zero means the component does not expire.
	ShelfLifeDays int `gorm:"not null;default:0"`

	// DefaultWarehouseID is where consumption draws this component from
	// when the caller does not name a warehouse explicitly.
	DefaultWarehouseID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Component) TableName() string {
	return "components"
}

// NewComponent creates a new component of the given kind
func NewComponent(kind ComponentKind, code, name, unit string) (*Component, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Component kind must be INGREDIENT or PRODUCT")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Component code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Component name cannot be empty")
	}
	if strings.TrimSpace(unit) == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Component unit cannot be empty")
	}

	return &Component{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
		Code:              strings.ToUpper(code),
		Name:              name,
		Unit:              unit,
	}, nil
}

// NewIngredient creates a new ingredient component
func NewIngredient(code, name, unit string) (*Component, error) {
	return NewComponent(ComponentKindIngredient, code, name, unit)
}

// NewProduct creates a new product component
func NewProduct(code, name, unit string) (*Component, error) {
	return NewComponent(ComponentKindProduct, code, name, unit)
}

// IsProduct returns true if the component is a manufactured product
func (c *Component) IsProduct() bool {
	return c.Kind == ComponentKindProduct
}

// IsIngredient returns true if the component is a raw ingredient
func (c *Component) IsIngredient() bool {
	return c.Kind == ComponentKindIngredient
}

// SetShelfLife sets the expiration offset in days
func (c *Component) SetShelfLife(days int) error {
	if days < 0 {
		return shared.NewDomainError("INVALID_SHELF_LIFE", "Shelf life cannot be negative")
	}
	c.ShelfLifeDays = days
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetDefaultWarehouse sets the warehouse consumption draws this component from
func (c *Component) SetDefaultWarehouse(warehouseID uuid.UUID) error {
	if warehouseID == uuid.Nil {
		return shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	c.DefaultWarehouseID = &warehouseID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// ExpirationFrom computes the expiration date for a batch manufactured on the
// given date. Returns nil when the component does not expire.
func (c *Component) ExpirationFrom(manufacturingDate time.Time) *time.Time {
	if c.ShelfLifeDays <= 0 {
		return nil
	}
	exp := manufacturingDate.AddDate(0, 0, c.ShelfLifeDays)
	return &exp
}
