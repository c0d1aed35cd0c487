package inventory

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/provisio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DepletionSlice records how much was taken from a single batch
type DepletionSlice struct {
	BatchID        uuid.UUID
	Deducted       decimal.Decimal
	UnitCost       decimal.Decimal
	TotalCost      decimal.Decimal
	ExpirationDate *time.Time
	RemainingInLot decimal.Decimal
	FullyConsumed  bool
}

// DepletionResult is the complete plan of a FIFO depletion over a balance's
// batches. Remaining > 0 means the available lots could not cover the request.
type DepletionResult struct {
	Slices              []DepletionSlice
	TotalDeducted       decimal.Decimal
	TotalCost           decimal.Decimal
	WeightedAverageCost decimal.Decimal
	Remaining           decimal.Decimal
	FullyFulfilled      bool
}

// SortByExpiration orders batches for depletion: expiration date ascending,
// nil expirations last, creation date as tiebreak. The input is not mutated.
func SortByExpiration(batches []Batch) []Batch {
	sorted := make([]Batch, len(batches))
	copy(sorted, batches)
	sort.SliceStable(sorted, func(i, j int) bool {
		ei, ej := sorted[i].ExpirationDate, sorted[j].ExpirationDate
		if ei != nil && ej != nil {
			if !ei.Equal(*ej) {
				return ei.Before(*ej)
			}
		} else if ei != nil {
			return true
		} else if ej != nil {
			return false
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}

// DepleteFIFO plans the depletion of requiredQuantity across the batches in
// earliest-expiration-first order. It takes min(lot quantity, remaining) from
// each lot and stops once the request is covered. The plan does not mutate
// the batches; use ApplyDepletion to execute it.
func DepleteFIFO(requiredQuantity decimal.Decimal, batches []Batch) (*DepletionResult, error) {
	if requiredQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Required quantity must be positive")
	}

	sorted := SortByExpiration(batches)

	slices := make([]DepletionSlice, 0)
	remaining := requiredQuantity
	totalDeducted := decimal.Zero
	totalCost := decimal.Zero

	for i := range sorted {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		lot := &sorted[i]
		if lot.Quantity.LessThanOrEqual(decimal.Zero) {
			continue
		}

		deduct := decimal.Min(remaining, lot.Quantity)
		remainingInLot := lot.Quantity.Sub(deduct)
		cost := deduct.Mul(lot.UnitCost)

		slices = append(slices, DepletionSlice{
			BatchID:        lot.ID,
			Deducted:       deduct,
			UnitCost:       lot.UnitCost,
			TotalCost:      cost,
			ExpirationDate: lot.ExpirationDate,
			RemainingInLot: remainingInLot,
			FullyConsumed:  remainingInLot.IsZero(),
		})

		totalDeducted = totalDeducted.Add(deduct)
		totalCost = totalCost.Add(cost)
		remaining = remaining.Sub(deduct)
	}

	var weightedAvg decimal.Decimal
	if totalDeducted.GreaterThan(decimal.Zero) {
		weightedAvg = totalCost.Div(totalDeducted).RoundBank(4)
	}

	return &DepletionResult{
		Slices:              slices,
		TotalDeducted:       totalDeducted,
		TotalCost:           totalCost,
		WeightedAverageCost: weightedAvg,
		Remaining:           remaining,
		FullyFulfilled:      remaining.LessThanOrEqual(decimal.Zero),
	}, nil
}

// ApplyDepletion executes a depletion plan against the actual batch entities
func ApplyDepletion(batches []*Batch, result *DepletionResult) error {
	if result == nil {
		return shared.NewDomainError("INVALID_RESULT", "Depletion result cannot be nil")
	}

	byID := make(map[uuid.UUID]*Batch, len(batches))
	for _, b := range batches {
		byID[b.ID] = b
	}

	for _, slice := range result.Slices {
		lot, ok := byID[slice.BatchID]
		if !ok {
			return shared.NewDomainError("BATCH_NOT_FOUND", "Batch not found: "+slice.BatchID.String())
		}
		actual := lot.Deduct(slice.Deducted)
		if !actual.Equal(slice.Deducted) {
			return shared.NewDomainError("DEDUCTION_MISMATCH", "Batch deduction amount mismatch")
		}
	}

	return nil
}

// AvailableQuantity sums the remaining quantity across batches
func AvailableQuantity(batches []Batch) decimal.Decimal {
	total := decimal.Zero
	for i := range batches {
		if batches[i].Quantity.GreaterThan(decimal.Zero) {
			total = total.Add(batches[i].Quantity)
		}
	}
	return total
}
