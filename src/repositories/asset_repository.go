package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"autobooks/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type AssetRepository interface {
	GetAll(ctx context.Context, scope Scope, workspaceID string) ([]models.Asset, error)
	GetByID(ctx context.Context, scope Scope, id string, tx pgx.Tx) (*models.Asset, error)
	Create(ctx context.Context, scope Scope, asset *models.Asset, tx pgx.Tx) error
	Update(ctx context.Context, scope Scope, id string, patch models.AssetPatch, tx pgx.Tx) error
	SoftDelete(ctx context.Context, scope Scope, id string) error
	AdjustCurrentValue(ctx context.Context, scope Scope, id string, delta decimal.Decimal, tx pgx.Tx) error
	SetCurrentValue(ctx context.Context, scope Scope, id string, value decimal.Decimal, tx pgx.Tx) error
	// GetDepreciable lists live assets of every workspace with a depreciation schedule.
	GetDepreciable(ctx context.Context) ([]models.Asset, error)
}

type assetRepo struct {
	db *pgxpool.Pool
}

func NewAssetRepository(db *pgxpool.Pool) AssetRepository {
	return &assetRepo{db: db}
}

const assetSelect = `SELECT a.id, a.workspace_id, a.category_id, a.account_id, a.name, a.description,
	a.purchase_date, a.purchase_value, a.current_value, a.depreciation_method, a.depreciation_rate,
	a.depreciation_period, a.currency, a.is_deleted, a.created_at, a.updated_at,
	c.id, c.name, acc.id, acc.name
FROM assets a
LEFT JOIN asset_categories c ON c.id = a.category_id
LEFT JOIN accounts acc ON acc.id = a.account_id AND acc.workspace_id = a.workspace_id`

func scanAsset(row scanner) (*models.Asset, error) {
	var (
		a                     models.Asset
		purchaseDate          *time.Time
		method                *string
		period                *int32
		categoryID, accountID *string
		categoryName, accName *string
	)
	err := row.Scan(&a.ID, &a.WorkspaceID, &a.CategoryID, &a.AccountID, &a.Name, &a.Description,
		&purchaseDate, &a.PurchaseValue, &a.CurrentValue, &method, &a.DepreciationRate,
		&period, &a.Currency, &a.IsDeleted, &a.CreatedAt, &a.UpdatedAt,
		&categoryID, &categoryName, &accountID, &accName)
	if err != nil {
		return nil, err
	}

	a.PurchaseDate = models.DatePtr(purchaseDate)
	if method != nil {
		m := models.DepreciationMethod(*method)
		a.DepreciationMethod = &m
	}
	if period != nil {
		p := int(*period)
		a.DepreciationPeriod = &p
	}
	if categoryID != nil && categoryName != nil {
		a.Category = &models.CategoryRef{ID: *categoryID, Name: *categoryName}
	}
	if accountID != nil && accName != nil {
		a.Account = &models.AccountRef{ID: *accountID, Name: *accName}
	}
	return &a, nil
}

func (r *assetRepo) GetAll(ctx context.Context, scope Scope, workspaceID string) ([]models.Asset, error) {
	filter, arg, err := scope.Filter("a.workspace_id", 2)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		assetSelect+` WHERE a.workspace_id = $1 AND a.is_deleted = false AND `+filter+` ORDER BY a.name`,
		workspaceID, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := []models.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, *a)
	}
	return assets, rows.Err()
}

func (r *assetRepo) GetByID(ctx context.Context, scope Scope, id string, tx pgx.Tx) (*models.Asset, error) {
	filter, arg, err := scope.Filter("a.workspace_id", 2)
	if err != nil {
		return nil, err
	}

	a, err := scanAsset(pick(r.db, tx).QueryRow(ctx,
		assetSelect+` WHERE a.id = $1 AND a.is_deleted = false AND `+filter, id, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewNotFound("asset", id)
	}
	return a, err
}

// Create inserts the asset only when its workspace is visible in scope and owns the account.
func (r *assetRepo) Create(ctx context.Context, scope Scope, asset *models.Asset, tx pgx.Tx) error {
	filter, arg, err := scope.Filter("w.id", 13)
	if err != nil {
		return err
	}

	err = pick(r.db, tx).QueryRow(ctx,
		`INSERT INTO assets (workspace_id, category_id, account_id, name, description, purchase_date,
			purchase_value, current_value, depreciation_method, depreciation_rate, depreciation_period, currency)
		SELECT w.id, $2::uuid, $3::uuid, $4::text, $5::text, $6::date, $7::numeric, $8::numeric,
			$9::text, $10::numeric, $11::integer, $12::text
		FROM workspaces w
		WHERE w.id = $1 AND `+filter+`
			AND EXISTS (SELECT 1 FROM accounts ac WHERE ac.id = $3::uuid AND ac.workspace_id = w.id)
		RETURNING id, is_deleted, created_at, updated_at`,
		asset.WorkspaceID, asset.CategoryID, asset.AccountID, asset.Name, asset.Description,
		dateArg(asset.PurchaseDate), asset.PurchaseValue, asset.CurrentValue, methodArg(asset.DepreciationMethod),
		asset.DepreciationRate, asset.DepreciationPeriod, asset.Currency, arg,
	).Scan(&asset.ID, &asset.IsDeleted, &asset.CreatedAt, &asset.UpdatedAt)
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	// Nothing inserted: tell a hidden workspace apart from a foreign account.
	wsFilter, _, _ := scope.Filter("w.id", 2)
	var visible bool
	if err := pick(r.db, tx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM workspaces w WHERE w.id = $1 AND `+wsFilter+`)`,
		asset.WorkspaceID, arg,
	).Scan(&visible); err != nil {
		return err
	}
	if !visible {
		return models.NewNotFound("workspace", asset.WorkspaceID)
	}
	return models.NewNotFound("account", asset.AccountID)
}

func (r *assetRepo) Update(ctx context.Context, scope Scope, id string, patch models.AssetPatch, tx pgx.Tx) error {
	sets := []string{}
	args := []any{id}
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.CategoryID != nil {
		set("category_id", *patch.CategoryID)
	}
	accountParam := 0
	if patch.AccountID != nil {
		set("account_id", *patch.AccountID)
		accountParam = len(args)
	}
	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.PurchaseDate != nil {
		set("purchase_date", patch.PurchaseDate.Time)
	}
	if patch.PurchaseValue != nil {
		set("purchase_value", *patch.PurchaseValue)
	}
	if patch.CurrentValue != nil {
		set("current_value", *patch.CurrentValue)
	}
	if patch.DepreciationMethod != nil {
		set("depreciation_method", string(*patch.DepreciationMethod))
	}
	if patch.DepreciationRate != nil {
		set("depreciation_rate", *patch.DepreciationRate)
	}
	if patch.DepreciationPeriod != nil {
		set("depreciation_period", *patch.DepreciationPeriod)
	}
	if patch.Currency != nil {
		set("currency", *patch.Currency)
	}
	sets = append(sets, "updated_at = now()")

	filter, arg, err := scope.Filter("workspace_id", len(args)+1)
	if err != nil {
		return err
	}
	args = append(args, arg)

	where := ` WHERE id = $1 AND is_deleted = false AND ` + filter
	if accountParam > 0 {
		where += fmt.Sprintf(` AND EXISTS (SELECT 1 FROM accounts ac WHERE ac.id = $%d AND ac.workspace_id = assets.workspace_id)`, accountParam)
	}

	tag, err := pick(r.db, tx).Exec(ctx, `UPDATE assets SET `+strings.Join(sets, ", ")+where, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if accountParam > 0 {
			if _, err := r.GetByID(ctx, scope, id, tx); err == nil {
				return models.NewNotFound("account", *patch.AccountID)
			}
		}
		return models.NewNotFound("asset", id)
	}
	return nil
}

// SoftDelete flags the asset as deleted. Deleting an already deleted asset succeeds.
func (r *assetRepo) SoftDelete(ctx context.Context, scope Scope, id string) error {
	filter, arg, err := scope.Filter("workspace_id", 2)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE assets SET is_deleted = true, updated_at = CASE WHEN is_deleted THEN updated_at ELSE now() END
		WHERE id = $1 AND `+filter, id, arg)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFound("asset", id)
	}
	return nil
}

// AdjustCurrentValue adds delta to the stored value in a single statement so
// concurrent adjustments never overwrite each other.
func (r *assetRepo) AdjustCurrentValue(ctx context.Context, scope Scope, id string, delta decimal.Decimal, tx pgx.Tx) error {
	filter, arg, err := scope.Filter("workspace_id", 3)
	if err != nil {
		return err
	}

	tag, err := pick(r.db, tx).Exec(ctx,
		`UPDATE assets SET current_value = COALESCE(current_value, 0) + $2, updated_at = now()
		WHERE id = $1 AND is_deleted = false AND `+filter, id, delta, arg)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFound("asset", id)
	}
	return nil
}

func (r *assetRepo) SetCurrentValue(ctx context.Context, scope Scope, id string, value decimal.Decimal, tx pgx.Tx) error {
	filter, arg, err := scope.Filter("workspace_id", 3)
	if err != nil {
		return err
	}

	tag, err := pick(r.db, tx).Exec(ctx,
		`UPDATE assets SET current_value = $2, updated_at = now()
		WHERE id = $1 AND is_deleted = false AND `+filter, id, value, arg)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFound("asset", id)
	}
	return nil
}

func (r *assetRepo) GetDepreciable(ctx context.Context) ([]models.Asset, error) {
	rows, err := r.db.Query(ctx,
		assetSelect+` WHERE a.is_deleted = false
			AND a.depreciation_method IN ($1, $2)
			AND COALESCE(a.current_value, 0) > 0
		ORDER BY a.workspace_id, a.id`,
		string(models.DepreciationStraightLine), string(models.DepreciationReducingBalance))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := []models.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, *a)
	}
	return assets, rows.Err()
}

func dateArg(d *models.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}

func methodArg(m *models.DepreciationMethod) any {
	if m == nil {
		return nil
	}
	return string(*m)
}
