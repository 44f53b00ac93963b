package services_test

import (
	"context"
	"testing"

	"autobooks/src/models"
	"autobooks/src/repositories"
	"autobooks/src/repositories/memory"
	"autobooks/src/schemas"
	"autobooks/src/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type env struct {
	store       *memory.Store
	assets      *services.AssetService
	valuation   *services.ValuationService
	userID      string
	workspaceID string
	categoryID  string
	accountID   string
	scope       repositories.Scope
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	e := &env{
		store:       store,
		userID:      uuid.NewString(),
		workspaceID: uuid.NewString(),
		accountID:   uuid.NewString(),
	}
	e.scope = repositories.UserScope(e.userID)
	store.AddWorkspace(models.Workspace{ID: e.workspaceID, Name: "Home", Type: models.WorkspacePersonal}, e.userID)
	store.AddAccount(e.workspaceID, models.AccountRef{ID: e.accountID, Name: "Fixed assets"})

	category := &models.AssetCategory{Name: "Electronics", Type: models.WorkspaceBoth}
	require.NoError(t, store.AssetCategoryRepository().Create(context.Background(), category))
	e.categoryID = category.ID

	e.assets = services.NewAssetService(store.AssetRepository(), store.AssetTransactionRepository(), store.TxRunner())
	e.valuation = services.NewValuationService(store.AssetRepository(), store.AssetTransactionRepository(), store.TxRunner())
	return e
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func date(t *testing.T, s string) *models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return &d
}

func (e *env) createRequest(name string) *schemas.CreateAssetRequest {
	return &schemas.CreateAssetRequest{
		WorkspaceID: e.workspaceID,
		CategoryID:  e.categoryID,
		AccountID:   e.accountID,
		Name:        name,
	}
}

func (e *env) create(t *testing.T, req *schemas.CreateAssetRequest) *models.Asset {
	t.Helper()
	asset, err := e.assets.CreateAsset(context.Background(), e.scope, req)
	require.NoError(t, err)
	return asset
}

func (e *env) addTransaction(t *testing.T, assetID string, txType models.TransactionType, amount string) {
	t.Helper()
	_, err := e.valuation.AddTransaction(context.Background(), e.scope, &schemas.AddTransactionRequest{
		AssetID: assetID,
		Type:    txType,
		Amount:  dec(amount),
	})
	require.NoError(t, err)
}

func (e *env) currentValue(t *testing.T, assetID string) decimal.Decimal {
	t.Helper()
	a, ok := e.store.Asset(assetID)
	require.True(t, ok)
	return a.CurrentValue.Decimal
}

// addForeignAccount registers an account in a workspace the env user is not a member of.
func (e *env) addForeignAccount() string {
	workspaceID, accountID := uuid.NewString(), uuid.NewString()
	e.store.AddWorkspace(models.Workspace{ID: workspaceID, Name: "Other", Type: models.WorkspaceBusiness}, uuid.NewString())
	e.store.AddAccount(workspaceID, models.AccountRef{ID: accountID, Name: "Other ledger"})
	return accountID
}
