package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"autobooks/src/models"
	"autobooks/src/schemas"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTransactionEffects(t *testing.T) {
	e := newEnv(t)
	req := e.createRequest("Truck")
	req.PurchaseValue = dec("30000")
	asset := e.create(t, req)

	t.Run("depreciation subtracts the magnitude whatever the sign", func(t *testing.T) {
		e.addTransaction(t, asset.ID, models.TransactionDepreciation, "500")
		assert.True(t, e.currentValue(t, asset.ID).Equal(decimal.NewFromInt(29500)))

		e.addTransaction(t, asset.ID, models.TransactionDepreciation, "-500")
		assert.True(t, e.currentValue(t, asset.ID).Equal(decimal.NewFromInt(29000)))

		history := e.store.Transactions(asset.ID)
		for _, h := range history {
			assert.False(t, h.Amount.IsNegative(), h.Amount.String())
		}
	})

	t.Run("revaluation sets the value", func(t *testing.T) {
		e.addTransaction(t, asset.ID, models.TransactionRevaluation, "12345.67")
		assert.True(t, e.currentValue(t, asset.ID).Equal(decimal.RequireFromString("12345.67")))
	})

	t.Run("purchase and sale leave the value", func(t *testing.T) {
		e.addTransaction(t, asset.ID, models.TransactionPurchase, "100")
		e.addTransaction(t, asset.ID, models.TransactionSale, "100")
		assert.True(t, e.currentValue(t, asset.ID).Equal(decimal.RequireFromString("12345.67")))
	})

	t.Run("no floor at zero", func(t *testing.T) {
		e.addTransaction(t, asset.ID, models.TransactionRevaluation, "10")
		e.addTransaction(t, asset.ID, models.TransactionDepreciation, "25")
		assert.True(t, e.currentValue(t, asset.ID).Equal(decimal.NewFromInt(-15)))
	})
}

func TestAddTransactionErrors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	req := e.createRequest("Van")
	req.PurchaseValue = dec("1000")
	asset := e.create(t, req)

	t.Run("validation", func(t *testing.T) {
		_, err := e.valuation.AddTransaction(ctx, e.scope, &schemas.AddTransactionRequest{AssetID: asset.ID, Type: models.TransactionDepreciation})
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"amount"}, verr.Fields)
	})

	t.Run("signed or unscaled amounts write nothing", func(t *testing.T) {
		before := len(e.store.Transactions(asset.ID))
		for _, tc := range []struct {
			txType models.TransactionType
			amount string
		}{
			{models.TransactionRevaluation, "-1500"},
			{models.TransactionPurchase, "-10"},
			{models.TransactionSale, "-10"},
			{models.TransactionRevaluation, "0.005"},
			{models.TransactionDepreciation, "1.001"},
		} {
			_, err := e.valuation.AddTransaction(ctx, e.scope, &schemas.AddTransactionRequest{
				AssetID: asset.ID, Type: tc.txType, Amount: dec(tc.amount),
			})
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr, tc.amount)
			assert.Equal(t, []string{"amount"}, verr.Fields)
		}
		assert.Len(t, e.store.Transactions(asset.ID), before)
		assert.True(t, e.currentValue(t, asset.ID).Equal(decimal.NewFromInt(1000)))
	})

	t.Run("unknown asset", func(t *testing.T) {
		_, err := e.valuation.AddTransaction(ctx, e.scope, &schemas.AddTransactionRequest{
			AssetID: uuid.NewString(), Type: models.TransactionSale, Amount: dec("1"),
		})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("failed value update keeps no transaction", func(t *testing.T) {
		e.store.FailOn("assets.AdjustCurrentValue", errors.New("update failed"))
		defer e.store.FailOn("assets.AdjustCurrentValue", nil)

		before := len(e.store.Transactions(asset.ID))
		_, err := e.valuation.AddTransaction(ctx, e.scope, &schemas.AddTransactionRequest{
			AssetID: asset.ID, Type: models.TransactionDepreciation, Amount: dec("10"),
		})
		assert.EqualError(t, err, "update failed")
		assert.Len(t, e.store.Transactions(asset.ID), before)
		assert.True(t, e.currentValue(t, asset.ID).Equal(decimal.NewFromInt(1000)))
	})
}

func TestConcurrentDepreciation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	req := e.createRequest("Server")
	req.PurchaseValue = dec("10000")
	asset := e.create(t, req)

	amounts := []string{"10", "-20", "30.5", "40", "-50.25", "60", "70", "80", "90", "100"}
	expected := decimal.NewFromInt(10000)
	for _, a := range amounts {
		expected = expected.Sub(decimal.RequireFromString(a).Abs())
	}

	var wg sync.WaitGroup
	for _, a := range amounts {
		wg.Add(1)
		go func(amount string) {
			defer wg.Done()
			_, err := e.valuation.AddTransaction(ctx, e.scope, &schemas.AddTransactionRequest{
				AssetID: asset.ID, Type: models.TransactionDepreciation, Amount: dec(amount),
			})
			assert.NoError(t, err)
		}(a)
	}
	wg.Wait()

	assert.True(t, e.currentValue(t, asset.ID).Equal(expected), e.currentValue(t, asset.ID).String())
	assert.Len(t, e.store.Transactions(asset.ID), len(amounts)+1)
}

func TestListTransactionsOrder(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	asset := e.create(t, e.createRequest("Bike"))

	for _, d := range []string{"2024-02-01", "2024-03-01", "2024-01-01"} {
		_, err := e.valuation.AddTransaction(ctx, e.scope, &schemas.AddTransactionRequest{
			AssetID: asset.ID, Type: models.TransactionSale, Amount: dec("1"), TransactionDate: date(t, d),
		})
		require.NoError(t, err)
	}

	history, err := e.valuation.ListTransactions(ctx, e.scope, asset.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "2024-03-01", history[0].TransactionDate.String())
	assert.Equal(t, "2024-02-01", history[1].TransactionDate.String())
	assert.Equal(t, "2024-01-01", history[2].TransactionDate.String())
}
