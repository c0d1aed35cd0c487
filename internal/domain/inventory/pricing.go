package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CostScale is the decimal scale monetary values are rounded to (round-half-even)
const CostScale = 2

// ReceiptLine is one line of a receiving event: quantity of a component
// bought at a base price. LineID ties the computed unit cost back to the line.
type ReceiptLine struct {
	LineID    uuid.UUID
	BasePrice decimal.Decimal
	Quantity  decimal.Decimal
}

// BaseAmount returns price times quantity for the line
func (l ReceiptLine) BaseAmount() decimal.Decimal {
	return l.BasePrice.Mul(l.Quantity)
}

// AllocateExpenses distributes the ancillary expenses of one receiving event
// across its lines in proportion to each line's base monetary amount:
//
//	lineExtra = (lineAmount/totalAmount) * expenses
//
// rounded half-even to CostScale. Rounding happens once per line at the
// monetary level, so the sum of the returned extras stays within one cent
// per line of the total regardless of quantities. A zero total amount or
// zero expenses yields a zero extra for every line.
func AllocateExpenses(lines []ReceiptLine, totalExpenses decimal.Decimal) map[uuid.UUID]decimal.Decimal {
	extras := make(map[uuid.UUID]decimal.Decimal, len(lines))

	totalAmount := decimal.Zero
	for _, line := range lines {
		totalAmount = totalAmount.Add(line.BaseAmount())
	}

	for _, line := range lines {
		extras[line.LineID] = lineExtra(line, totalAmount, totalExpenses)
	}

	return extras
}

// UnitCostFor computes the effective unit cost of a single line of an event:
// the base price plus the line's allocated expense share spread over its
// quantity, rounded half-even to CostScale. A zero-quantity line keeps its
// base price.
func UnitCostFor(line ReceiptLine, allLines []ReceiptLine, totalExpenses decimal.Decimal) decimal.Decimal {
	totalAmount := decimal.Zero
	for _, l := range allLines {
		totalAmount = totalAmount.Add(l.BaseAmount())
	}

	extra := lineExtra(line, totalAmount, totalExpenses)
	if extra.IsZero() || line.Quantity.IsZero() {
		return line.BasePrice.RoundBank(CostScale)
	}
	return line.BasePrice.Add(extra.Div(line.Quantity)).RoundBank(CostScale)
}

func lineExtra(line ReceiptLine, totalAmount, totalExpenses decimal.Decimal) decimal.Decimal {
	if totalAmount.IsZero() || totalExpenses.IsZero() {
		return decimal.Zero
	}
	return line.BaseAmount().Div(totalAmount).Mul(totalExpenses).RoundBank(CostScale)
}
