package catalog

import (
	"github.com/google/uuid"
	"github.com/provisio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RecipeLine is a single edge of a product's recipe graph: the product
// consumes QuantityPerUnit of either an ingredient (leaf) or another
// product (which may recurse into its own recipe).
//
// Exactly one of IngredientID / ChildProductID must be set.
type RecipeLine struct {
	shared.BaseEntity
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	IngredientID    *uuid.UUID      `gorm:"type:uuid;index"`
	ChildProductID  *uuid.UUID      `gorm:"type:uuid;index"`
	QuantityPerUnit decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SortOrder       int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (RecipeLine) TableName() string {
	return "recipe_lines"
}

// NewIngredientLine creates a recipe line consuming an ingredient
func NewIngredientLine(productID, ingredientID uuid.UUID, quantityPerUnit decimal.Decimal) (*RecipeLine, error) {
	line := &RecipeLine{
		BaseEntity:      shared.NewBaseEntity(),
		ProductID:       productID,
		IngredientID:    &ingredientID,
		QuantityPerUnit: quantityPerUnit,
	}
	if err := line.Validate(); err != nil {
		return nil, err
	}
	return line, nil
}

// NewChildProductLine creates a recipe line consuming another product
func NewChildProductLine(productID, childProductID uuid.UUID, quantityPerUnit decimal.Decimal) (*RecipeLine, error) {
	line := &RecipeLine{
		BaseEntity:      shared.NewBaseEntity(),
		ProductID:       productID,
		ChildProductID:  &childProductID,
		QuantityPerUnit: quantityPerUnit,
	}
	if err := line.Validate(); err != nil {
		return nil, err
	}
	return line, nil
}

// Validate enforces the structural invariants of a recipe line
func (l *RecipeLine) Validate() error {
	if l.ProductID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Recipe line product ID cannot be empty")
	}
	hasIngredient := l.IngredientID != nil && *l.IngredientID != uuid.Nil
	hasChild := l.ChildProductID != nil && *l.ChildProductID != uuid.Nil
	if hasIngredient == hasChild {
		return shared.NewDomainError("INVALID_RECIPE_LINE",
			"Recipe line must reference exactly one of ingredient or child product")
	}
	if hasChild && *l.ChildProductID == l.ProductID {
		return shared.NewDomainError("INVALID_RECIPE_LINE", "Recipe line cannot reference its own product")
	}
	if l.QuantityPerUnit.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity per unit must be positive")
	}
	return nil
}

// ChildID returns the referenced component ID and its kind
func (l *RecipeLine) ChildID() (uuid.UUID, ComponentKind) {
	if l.IngredientID != nil && *l.IngredientID != uuid.Nil {
		return *l.IngredientID, ComponentKindIngredient
	}
	return *l.ChildProductID, ComponentKindProduct
}

// Recipe is the ordered set of lines required to manufacture one unit of a
// product. It is read-only to the consumption engine.
type Recipe struct {
	ProductID uuid.UUID
	Lines     []RecipeLine
}

// IsEmpty returns true when the product has no recipe lines
func (r *Recipe) IsEmpty() bool {
	return r == nil || len(r.Lines) == 0
}

// Validate validates every line of the recipe
func (r *Recipe) Validate() error {
	for i := range r.Lines {
		if err := r.Lines[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
