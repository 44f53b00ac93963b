package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"autobooks/src/models"
	"autobooks/src/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func method(m models.DepreciationMethod) *models.DepreciationMethod { return &m }

func intPtr(i int) *int { return &i }

func nd(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestComputeCharge(t *testing.T) {
	tests := []struct {
		name     string
		asset    models.Asset
		expected string
	}{
		{
			name: "straight line by rate",
			asset: models.Asset{DepreciationMethod: method(models.DepreciationStraightLine),
				PurchaseValue: nd("12000"), CurrentValue: nd("12000"), DepreciationRate: nd("20")},
			expected: "200",
		},
		{
			name: "straight line by period",
			asset: models.Asset{DepreciationMethod: method(models.DepreciationStraightLine),
				PurchaseValue: nd("1000"), CurrentValue: nd("1000"), DepreciationPeriod: intPtr(36)},
			expected: "27.78",
		},
		{
			name: "reducing balance",
			asset: models.Asset{DepreciationMethod: method(models.DepreciationReducingBalance),
				PurchaseValue: nd("10000"), CurrentValue: nd("6000"), DepreciationRate: nd("30")},
			expected: "150",
		},
		{
			name: "capped at current value",
			asset: models.Asset{DepreciationMethod: method(models.DepreciationStraightLine),
				PurchaseValue: nd("1200"), CurrentValue: nd("15"), DepreciationPeriod: intPtr(12)},
			expected: "15",
		},
		{
			name: "reducing balance without rate",
			asset: models.Asset{DepreciationMethod: method(models.DepreciationReducingBalance),
				CurrentValue: nd("6000")},
			expected: "0",
		},
		{
			name:     "method none",
			asset:    models.Asset{DepreciationMethod: method(models.DepreciationNone), PurchaseValue: nd("100"), CurrentValue: nd("100")},
			expected: "0",
		},
		{
			name: "fully depreciated",
			asset: models.Asset{DepreciationMethod: method(models.DepreciationStraightLine),
				PurchaseValue: nd("100"), CurrentValue: nd("0"), DepreciationPeriod: intPtr(10)},
			expected: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := services.ComputeCharge(tt.asset)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.expected)), "got %s", got)
		})
	}
}

type fakeLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func (l *fakeLocker) AcquireLock(_ context.Context, key string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func TestDepreciationRun(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	straight := e.createRequest("Truck")
	straight.PurchaseValue = dec("1200")
	straight.DepreciationMethod = method(models.DepreciationStraightLine)
	straight.DepreciationPeriod = intPtr(12)
	truck := e.create(t, straight)

	reducing := e.createRequest("Machine")
	reducing.PurchaseValue = dec("6000")
	reducing.DepreciationMethod = method(models.DepreciationReducingBalance)
	reducing.DepreciationRate = dec("20")
	machine := e.create(t, reducing)

	e.create(t, e.createRequest("Land"))

	svc := services.NewDepreciationService(e.store.AssetRepository(), e.store.AssetTransactionRepository(), e.valuation, nil)
	asOf := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	result, err := svc.Run(ctx, asOf)
	require.NoError(t, err)
	assert.Equal(t, "2024-03", result.Period)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 2, result.Recorded)
	assert.Zero(t, result.Failed)

	assert.True(t, e.currentValue(t, truck.ID).Equal(decimal.NewFromInt(1100)))
	assert.True(t, e.currentValue(t, machine.ID).Equal(decimal.NewFromInt(5900)))

	history := e.store.Transactions(truck.ID)
	last := history[len(history)-1]
	assert.Equal(t, models.TransactionDepreciation, last.Type)
	assert.Equal(t, "Scheduled depreciation 2024-03", *last.Notes)
	assert.Equal(t, "2024-03-31", last.TransactionDate.String())

	t.Run("rerun in the same month is a no-op", func(t *testing.T) {
		result, err := svc.Run(ctx, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, 0, result.Recorded)
		assert.Equal(t, 2, result.Skipped)
		assert.True(t, e.currentValue(t, truck.ID).Equal(decimal.NewFromInt(1100)))
	})

	t.Run("next month depreciates again", func(t *testing.T) {
		result, err := svc.Run(ctx, time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, 2, result.Recorded)
		assert.True(t, e.currentValue(t, truck.ID).Equal(decimal.NewFromInt(1000)))
	})

	t.Run("held lock skips the asset", func(t *testing.T) {
		locked := services.NewDepreciationService(e.store.AssetRepository(), e.store.AssetTransactionRepository(), e.valuation,
			&fakeLocker{held: map[string]bool{}})
		may := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

		first, err := locked.Run(ctx, may)
		require.NoError(t, err)
		assert.Equal(t, 2, first.Recorded)

		second, err := locked.Run(ctx, may)
		require.NoError(t, err)
		assert.Equal(t, 0, second.Recorded)
		assert.Equal(t, 2, second.Skipped)
	})
}
