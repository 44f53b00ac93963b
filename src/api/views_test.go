package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"autobooks/src/api"
	"autobooks/src/api/handlers"
	"autobooks/src/auth"
	"autobooks/src/models"
	"autobooks/src/repositories/memory"
	"autobooks/src/services"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticVerifier map[string]string

func (v staticVerifier) Verify(_ context.Context, token string) (*auth.Session, error) {
	userID, ok := v[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return &auth.Session{UserID: userID}, nil
}

type fixture struct {
	server      *api.Server
	workspaceID string
	categoryID  string
	accountID   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	userID := uuid.NewString()
	f := &fixture{
		workspaceID: uuid.NewString(),
		accountID:   uuid.NewString(),
	}
	store.AddWorkspace(models.Workspace{ID: f.workspaceID, Name: "Acme", Type: models.WorkspaceBusiness}, userID)
	store.AddAccount(f.workspaceID, models.AccountRef{ID: f.accountID, Name: "Equipment"})
	category := &models.AssetCategory{Name: "Computers", Type: models.WorkspaceBusiness}
	require.NoError(t, store.AssetCategoryRepository().Create(context.Background(), category))
	f.categoryID = category.ID

	categories := services.NewCategoryService(store.AssetCategoryRepository(), store.WorkspaceRepository(), nil)
	assets := services.NewAssetService(store.AssetRepository(), store.AssetTransactionRepository(), store.TxRunner())
	valuation := services.NewValuationService(store.AssetRepository(), store.AssetTransactionRepository(), store.TxRunner())
	handler, err := handlers.NewHandler(categories, assets, valuation, services.NewRegisterService(assets), 5*time.Second)
	require.NoError(t, err)

	logger, _ := test.NewNullLogger()
	f.server = api.NewServer(handler, staticVerifier{"good-token": userID}, logger, "asset-management")
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}, authorized bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if authorized {
		req.Header.Set("Authorization", "Bearer good-token")
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthcheckIsPublic(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/alive", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Im alive!", rec.Body.String())
}

func TestUnauthorized(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/assets?workspace_id="+f.workspaceID, nil, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", decode(t, rec)["error"])

	req := httptest.NewRequest(http.MethodGet, "/assets?workspace_id="+f.workspaceID, nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec = httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPreflightAndUnmatchedRoutes(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodOptions, "/create", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodOptions, "/create", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = f.do(t, http.MethodGet, "/nowhere", nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", decode(t, rec)["error"])

	rec = f.do(t, http.MethodGet, "/asset-management/nowhere", nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", decode(t, rec)["error"])

	rec = f.do(t, http.MethodGet, "/create", nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssetLifecycle(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/create", map[string]interface{}{
		"workspace_id":   f.workspaceID,
		"category_id":    f.categoryID,
		"account_id":     f.accountID,
		"name":           "Laptop",
		"purchase_value": 2000,
		"purchase_date":  "2024-01-01",
	}, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	assetID := created["id"].(string)
	assert.Equal(t, 2000.0, created["current_value"])
	assert.Equal(t, "CAD", created["currency"])

	rec = f.do(t, http.MethodPost, "/transaction", map[string]interface{}{
		"asset_id": assetID,
		"type":     "depreciation",
		"amount":   300,
	}, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "depreciation", decode(t, rec)["type"])

	rec = f.do(t, http.MethodGet, "/asset?id="+assetID, nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode(t, rec)
	assert.Equal(t, 1700.0, detail["current_value"])
	transactions := detail["transactions"].([]interface{})
	require.Len(t, transactions, 2)

	rec = f.do(t, http.MethodPost, "/asset-management/transaction", map[string]interface{}{
		"asset_id": assetID,
		"type":     "revaluation",
		"amount":   1500,
	}, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/update", map[string]interface{}{
		"id":   assetID,
		"name": "Work laptop",
	}, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode(t, rec)
	assert.Equal(t, "Work laptop", updated["name"])
	assert.Equal(t, 1500.0, updated["current_value"])

	rec = f.do(t, http.MethodPost, "/delete", map[string]interface{}{"id": assetID}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{"success": true, "id": assetID}, decode(t, rec))

	rec = f.do(t, http.MethodGet, "/assets?workspace_id="+f.workspaceID, nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = f.do(t, http.MethodGet, "/asset?id="+assetID, nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateAssetValidation(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/create", map[string]interface{}{"name": "Laptop"}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required fields: workspace_id, category_id, account_id", decode(t, rec)["error"])

	req := httptest.NewRequest(http.MethodPost, "/create", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer good-token")
	rec = httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransactionForUnknownAsset(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/transaction", map[string]interface{}{
		"asset_id": uuid.NewString(),
		"type":     "revaluation",
		"amount":   10,
	}, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategoriesForWorkspace(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/categories?workspace_id="+f.workspaceID, nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var tree []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tree))
	require.Len(t, tree, 1)
	assert.Equal(t, "Computers", tree[0]["name"])
	assert.Equal(t, []interface{}{}, tree[0]["children"])

	rec = f.do(t, http.MethodGet, "/categories?workspace_id="+uuid.NewString(), nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/categories", nil, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMalformedIdentifiersAreBadRequests(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{
		"/assets?workspace_id=w1",
		"/asset?id=a1",
		"/categories?workspace_id=w1",
		"/export?workspace_id=w1",
	} {
		rec := f.do(t, http.MethodGet, path, nil, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestExportAssets(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/create", map[string]interface{}{
		"workspace_id":   f.workspaceID,
		"category_id":    f.categoryID,
		"account_id":     f.accountID,
		"name":           "Printer",
		"purchase_value": 400,
	}, true)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodGet, "/export?workspace_id="+f.workspaceID, nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "asset-register-")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestRequestLoggerAddsRequestFields(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.InfoLevel)
	handler := api.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets", nil))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "request completed", entry.Message)
	assert.Equal(t, http.StatusTeapot, entry.Data["status"])
	assert.Equal(t, "/assets", entry.Data["path"])
}
