package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeBatch(t *testing.T, quantity, unitCost string, expiration *time.Time) Batch {
	t.Helper()
	now := time.Now()
	b, err := NewBatch(uuid.New(), decimal.RequireFromString(quantity), decimal.RequireFromString(unitCost), now, now, expiration, "")
	require.NoError(t, err)
	return *b
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestSortByExpiration(t *testing.T) {
	t.Run("earliest expiration first", func(t *testing.T) {
		late := makeBatch(t, "1", "1", datePtr(2026, 12, 1))
		early := makeBatch(t, "1", "1", datePtr(2026, 9, 1))
		mid := makeBatch(t, "1", "1", datePtr(2026, 10, 15))

		sorted := SortByExpiration([]Batch{late, early, mid})

		assert.Equal(t, early.ID, sorted[0].ID)
		assert.Equal(t, mid.ID, sorted[1].ID)
		assert.Equal(t, late.ID, sorted[2].ID)
	})

	t.Run("nil expiration sorts last", func(t *testing.T) {
		forever := makeBatch(t, "1", "1", nil)
		dated := makeBatch(t, "1", "1", datePtr(2030, 1, 1))

		sorted := SortByExpiration([]Batch{forever, dated})

		assert.Equal(t, dated.ID, sorted[0].ID)
		assert.Equal(t, forever.ID, sorted[1].ID)
	})

	t.Run("equal expirations break tie by creation date", func(t *testing.T) {
		exp := datePtr(2026, 9, 1)
		older := makeBatch(t, "1", "1", exp)
		older.CreatedAt = time.Now().Add(-time.Hour)
		newer := makeBatch(t, "1", "1", exp)

		sorted := SortByExpiration([]Batch{newer, older})

		assert.Equal(t, older.ID, sorted[0].ID)
	})

	t.Run("does not mutate input", func(t *testing.T) {
		a := makeBatch(t, "1", "1", datePtr(2026, 12, 1))
		b := makeBatch(t, "1", "1", datePtr(2026, 9, 1))
		input := []Batch{a, b}

		SortByExpiration(input)

		assert.Equal(t, a.ID, input[0].ID)
	})
}

func TestDepleteFIFO(t *testing.T) {
	t.Run("spans batches leaving partial middle lot", func(t *testing.T) {
		b1 := makeBatch(t, "5", "2.00", datePtr(2026, 9, 1))
		b2 := makeBatch(t, "5", "3.00", datePtr(2026, 10, 1))
		b3 := makeBatch(t, "5", "4.00", datePtr(2026, 11, 1))

		result, err := DepleteFIFO(decimal.NewFromInt(7), []Batch{b3, b1, b2})
		require.NoError(t, err)

		assert.True(t, result.FullyFulfilled)
		assert.True(t, result.Remaining.IsZero())
		require.Len(t, result.Slices, 2)

		assert.Equal(t, b1.ID, result.Slices[0].BatchID)
		assert.True(t, result.Slices[0].Deducted.Equal(decimal.NewFromInt(5)))
		assert.True(t, result.Slices[0].FullyConsumed)

		assert.Equal(t, b2.ID, result.Slices[1].BatchID)
		assert.True(t, result.Slices[1].Deducted.Equal(decimal.NewFromInt(2)))
		assert.True(t, result.Slices[1].RemainingInLot.Equal(decimal.NewFromInt(3)))
		assert.False(t, result.Slices[1].FullyConsumed)

		// 5*2.00 + 2*3.00 = 16.00
		assert.True(t, result.TotalCost.Equal(decimal.RequireFromString("16.00")))
	})

	t.Run("insufficient lots report remaining", func(t *testing.T) {
		b1 := makeBatch(t, "3", "2.00", datePtr(2026, 9, 1))

		result, err := DepleteFIFO(decimal.NewFromInt(10), []Batch{b1})
		require.NoError(t, err)

		assert.False(t, result.FullyFulfilled)
		assert.True(t, result.Remaining.Equal(decimal.NewFromInt(7)))
		assert.True(t, result.TotalDeducted.Equal(decimal.NewFromInt(3)))
	})

	t.Run("skips empty lots", func(t *testing.T) {
		empty := makeBatch(t, "0", "2.00", datePtr(2026, 9, 1))
		full := makeBatch(t, "4", "3.00", datePtr(2026, 10, 1))

		result, err := DepleteFIFO(decimal.NewFromInt(2), []Batch{empty, full})
		require.NoError(t, err)

		require.Len(t, result.Slices, 1)
		assert.Equal(t, full.ID, result.Slices[0].BatchID)
	})

	t.Run("weighted average cost across lots", func(t *testing.T) {
		b1 := makeBatch(t, "2", "10.00", datePtr(2026, 9, 1))
		b2 := makeBatch(t, "2", "20.00", datePtr(2026, 10, 1))

		result, err := DepleteFIFO(decimal.NewFromInt(4), []Batch{b1, b2})
		require.NoError(t, err)

		// (2*10 + 2*20) / 4 = 15
		assert.True(t, result.WeightedAverageCost.Equal(decimal.NewFromInt(15)))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := DepleteFIFO(decimal.Zero, nil)
		assert.Error(t, err)

		_, err = DepleteFIFO(decimal.NewFromInt(-1), nil)
		assert.Error(t, err)
	})
}

func TestApplyDepletion(t *testing.T) {
	t.Run("mutates planned batches", func(t *testing.T) {
		b1 := makeBatch(t, "5", "2.00", datePtr(2026, 9, 1))
		b2 := makeBatch(t, "5", "3.00", datePtr(2026, 10, 1))
		b3 := makeBatch(t, "5", "4.00", datePtr(2026, 11, 1))

		result, err := DepleteFIFO(decimal.NewFromInt(7), []Batch{b1, b2, b3})
		require.NoError(t, err)

		err = ApplyDepletion([]*Batch{&b1, &b2, &b3}, result)
		require.NoError(t, err)

		assert.True(t, b1.Quantity.IsZero())
		assert.True(t, b2.Quantity.Equal(decimal.NewFromInt(3)))
		assert.True(t, b3.Quantity.Equal(decimal.NewFromInt(5)))
	})

	t.Run("fails on missing batch", func(t *testing.T) {
		b1 := makeBatch(t, "5", "2.00", nil)

		result, err := DepleteFIFO(decimal.NewFromInt(2), []Batch{b1})
		require.NoError(t, err)

		err = ApplyDepletion([]*Batch{}, result)
		assert.Error(t, err)
	})

	t.Run("rejects nil result", func(t *testing.T) {
		assert.Error(t, ApplyDepletion(nil, nil))
	})
}

func TestAvailableQuantity(t *testing.T) {
	b1 := makeBatch(t, "5", "1", nil)
	b2 := makeBatch(t, "0", "1", nil)
	b3 := makeBatch(t, "2.5", "1", nil)

	total := AvailableQuantity([]Batch{b1, b2, b3})

	assert.True(t, total.Equal(decimal.RequireFromString("7.5")))
}
