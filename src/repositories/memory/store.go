// Package memory implements the repository interfaces over process memory
// for the service, façade and worker tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"autobooks/src/models"
	"autobooks/src/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type Store struct {
	mu           sync.Mutex
	workspaces   map[string]models.Workspace
	members      map[string]map[string]bool
	categories   []models.AssetCategory
	accounts     map[string]account
	assets       map[string]*models.Asset
	transactions []models.AssetTransaction
	failures     map[string]error
	now          func() time.Time
}

func NewStore() *Store {
	return &Store{
		workspaces: map[string]models.Workspace{},
		members:    map[string]map[string]bool{},
		accounts:   map[string]account{},
		assets:     map[string]*models.Asset{},
		failures:   map[string]error{},
		now:        time.Now,
	}
}

// AddWorkspace registers a workspace and its member users.
func (s *Store) AddWorkspace(ws models.Workspace, userIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaces[ws.ID] = ws
	if s.members[ws.ID] == nil {
		s.members[ws.ID] = map[string]bool{}
	}
	for _, u := range userIDs {
		s.members[ws.ID][u] = true
	}
}

type account struct {
	workspaceID string
	ref         models.AccountRef
}

// AddAccount registers a ledger account owned by the workspace.
func (s *Store) AddAccount(workspaceID string, acc models.AccountRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[acc.ID] = account{workspaceID: workspaceID, ref: acc}
}

// ownsAccount reports whether the account belongs to the workspace.
func (s *Store) ownsAccount(workspaceID, accountID string) bool {
	acc, ok := s.accounts[accountID]
	return ok && acc.workspaceID == workspaceID
}

// Asset returns the stored row regardless of scope or deletion.
func (s *Store) Asset(id string) (models.Asset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assets[id]
	if !ok {
		return models.Asset{}, false
	}
	return *a, true
}

// Transactions returns every stored transaction of the asset in insertion order.
func (s *Store) Transactions(assetID string) []models.AssetTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.AssetTransaction{}
	for _, t := range s.transactions {
		if t.AssetID == assetID {
			out = append(out, t)
		}
	}
	return out
}

// FailOn makes every later call of the named operation return err until cleared with a nil err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

func (s *Store) failure(op string) error {
	return s.failures[op]
}

func (s *Store) isMember(userID, workspaceID string) bool {
	return s.members[workspaceID][userID]
}

func (s *Store) visible(scope repositories.Scope, workspaceID string) bool {
	return scope.Permits(workspaceID, s.isMember)
}

func (s *Store) live(scope repositories.Scope, id string) (*models.Asset, error) {
	if !scope.Valid() {
		return nil, repositories.ErrInvalidScope
	}
	a, ok := s.assets[id]
	if !ok || a.IsDeleted || !s.visible(scope, a.WorkspaceID) {
		return nil, models.NewNotFound("asset", id)
	}
	return a, nil
}

func (s *Store) withRefs(a models.Asset) models.Asset {
	a.Category, a.Account = nil, nil
	for _, c := range s.categories {
		if c.ID == a.CategoryID {
			a.Category = &models.CategoryRef{ID: c.ID, Name: c.Name}
		}
	}
	if acc, ok := s.accounts[a.AccountID]; ok && acc.workspaceID == a.WorkspaceID {
		ref := acc.ref
		a.Account = &ref
	}
	return a
}

type snapshot struct {
	assets       map[string]models.Asset
	transactions []models.AssetTransaction
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{assets: make(map[string]models.Asset, len(s.assets))}
	for id, a := range s.assets {
		snap.assets[id] = *a
	}
	snap.transactions = append([]models.AssetTransaction(nil), s.transactions...)
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.assets = make(map[string]*models.Asset, len(snap.assets))
	for id, a := range snap.assets {
		a := a
		s.assets[id] = &a
	}
	s.transactions = snap.transactions
}

// TxRunner rolls the store back to its state at the start of the transaction when fn fails.
// Rollback assumes no concurrent writer committed in between.
func (s *Store) TxRunner() repositories.TxRunner {
	return txRunner{s: s}
}

type txRunner struct {
	s *Store
}

func (r txRunner) InTx(_ context.Context, fn func(tx pgx.Tx) error) error {
	r.s.mu.Lock()
	snap := r.s.snapshot()
	r.s.mu.Unlock()

	if err := fn(nil); err != nil {
		r.s.mu.Lock()
		r.s.restore(snap)
		r.s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) WorkspaceRepository() repositories.WorkspaceRepository {
	return workspaceRepo{s: s}
}

type workspaceRepo struct {
	s *Store
}

func (r workspaceRepo) GetByID(_ context.Context, scope repositories.Scope, id string) (*models.Workspace, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !scope.Valid() {
		return nil, repositories.ErrInvalidScope
	}
	ws, ok := r.s.workspaces[id]
	if !ok || !r.s.visible(scope, id) {
		return nil, models.NewNotFound("workspace", id)
	}
	return &ws, nil
}

func (s *Store) AssetCategoryRepository() repositories.AssetCategoryRepository {
	return categoryRepo{s: s}
}

type categoryRepo struct {
	s *Store
}

func (r categoryRepo) GetByKind(_ context.Context, kind models.WorkspaceType) ([]models.AssetCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("categories.GetByKind"); err != nil {
		return nil, err
	}
	out := []models.AssetCategory{}
	for _, c := range r.s.categories {
		if c.Type.Matches(kind) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r categoryRepo) Create(_ context.Context, ac *models.AssetCategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if ac.ID == "" {
		ac.ID = uuid.NewString()
	}
	r.s.categories = append(r.s.categories, *ac)
	return nil
}

func (s *Store) AssetRepository() repositories.AssetRepository {
	return assetRepo{s: s}
}

type assetRepo struct {
	s *Store
}

func (r assetRepo) GetAll(_ context.Context, scope repositories.Scope, workspaceID string) ([]models.Asset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !scope.Valid() {
		return nil, repositories.ErrInvalidScope
	}
	if err := r.s.failure("assets.GetAll"); err != nil {
		return nil, err
	}
	out := []models.Asset{}
	if !r.s.visible(scope, workspaceID) {
		return out, nil
	}
	for _, a := range r.s.assets {
		if a.WorkspaceID == workspaceID && !a.IsDeleted {
			out = append(out, r.s.withRefs(*a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r assetRepo) GetByID(_ context.Context, scope repositories.Scope, id string, _ pgx.Tx) (*models.Asset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, err := r.s.live(scope, id)
	if err != nil {
		return nil, err
	}
	out := r.s.withRefs(*a)
	return &out, nil
}

func (r assetRepo) Create(_ context.Context, scope repositories.Scope, asset *models.Asset, _ pgx.Tx) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !scope.Valid() {
		return repositories.ErrInvalidScope
	}
	if err := r.s.failure("assets.Create"); err != nil {
		return err
	}
	if _, ok := r.s.workspaces[asset.WorkspaceID]; !ok || !r.s.visible(scope, asset.WorkspaceID) {
		return models.NewNotFound("workspace", asset.WorkspaceID)
	}
	if !r.s.ownsAccount(asset.WorkspaceID, asset.AccountID) {
		return models.NewNotFound("account", asset.AccountID)
	}
	now := r.s.now()
	asset.ID = uuid.NewString()
	asset.IsDeleted = false
	asset.CreatedAt, asset.UpdatedAt = now, now
	stored := *asset
	stored.Category, stored.Account = nil, nil
	r.s.assets[asset.ID] = &stored
	return nil
}

func (r assetRepo) Update(_ context.Context, scope repositories.Scope, id string, patch models.AssetPatch, _ pgx.Tx) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, err := r.s.live(scope, id)
	if err != nil {
		return err
	}
	if patch.AccountID != nil && !r.s.ownsAccount(a.WorkspaceID, *patch.AccountID) {
		return models.NewNotFound("account", *patch.AccountID)
	}
	patch.Apply(a)
	a.UpdatedAt = r.s.now()
	return nil
}

func (r assetRepo) SoftDelete(_ context.Context, scope repositories.Scope, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !scope.Valid() {
		return repositories.ErrInvalidScope
	}
	a, ok := r.s.assets[id]
	if !ok || !r.s.visible(scope, a.WorkspaceID) {
		return models.NewNotFound("asset", id)
	}
	if !a.IsDeleted {
		a.IsDeleted = true
		a.UpdatedAt = r.s.now()
	}
	return nil
}

func (r assetRepo) AdjustCurrentValue(_ context.Context, scope repositories.Scope, id string, delta decimal.Decimal, _ pgx.Tx) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("assets.AdjustCurrentValue"); err != nil {
		return err
	}
	a, err := r.s.live(scope, id)
	if err != nil {
		return err
	}
	a.CurrentValue = decimal.NewNullDecimal(a.CurrentValue.Decimal.Add(delta))
	a.UpdatedAt = r.s.now()
	return nil
}

func (r assetRepo) SetCurrentValue(_ context.Context, scope repositories.Scope, id string, value decimal.Decimal, _ pgx.Tx) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("assets.SetCurrentValue"); err != nil {
		return err
	}
	a, err := r.s.live(scope, id)
	if err != nil {
		return err
	}
	a.CurrentValue = decimal.NewNullDecimal(value)
	a.UpdatedAt = r.s.now()
	return nil
}

func (r assetRepo) GetDepreciable(_ context.Context) ([]models.Asset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Asset{}
	for _, a := range r.s.assets {
		if a.IsDeleted || a.DepreciationMethod == nil || !a.CurrentValue.Decimal.IsPositive() {
			continue
		}
		switch *a.DepreciationMethod {
		case models.DepreciationStraightLine, models.DepreciationReducingBalance:
			out = append(out, r.s.withRefs(*a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.Compare(out[i].WorkspaceID+out[i].ID, out[j].WorkspaceID+out[j].ID) < 0
	})
	return out, nil
}

func (s *Store) AssetTransactionRepository() repositories.AssetTransactionRepository {
	return transactionRepo{s: s}
}

type transactionRepo struct {
	s *Store
}

func (r transactionRepo) GetByAssetID(_ context.Context, scope repositories.Scope, assetID string) ([]models.AssetTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, err := r.s.live(scope, assetID); err != nil {
		if _, ok := err.(*models.NotFoundError); ok {
			return []models.AssetTransaction{}, nil
		}
		return nil, err
	}
	out := []models.AssetTransaction{}
	for _, t := range r.s.transactions {
		if t.AssetID == assetID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].TransactionDate.Equal(out[j].TransactionDate.Time) {
			return out[i].TransactionDate.After(out[j].TransactionDate.Time)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r transactionRepo) Create(_ context.Context, scope repositories.Scope, t *models.AssetTransaction, _ pgx.Tx) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("transactions.Create"); err != nil {
		return err
	}
	if _, err := r.s.live(scope, t.AssetID); err != nil {
		return err
	}
	t.ID = uuid.NewString()
	t.CreatedAt = r.s.now()
	r.s.transactions = append(r.s.transactions, *t)
	return nil
}

func (r transactionRepo) ExistsInPeriod(_ context.Context, scope repositories.Scope, assetID string, txType models.TransactionType, from, to time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !scope.Valid() {
		return false, repositories.ErrInvalidScope
	}
	for _, t := range r.s.transactions {
		if t.AssetID != assetID || t.Type != txType {
			continue
		}
		if a, ok := r.s.assets[t.AssetID]; !ok || !r.s.visible(scope, a.WorkspaceID) {
			continue
		}
		if !t.TransactionDate.Before(from) && !t.TransactionDate.After(to) {
			return true, nil
		}
	}
	return false, nil
}
