package repositories

import (
	"context"
	"errors"
	"time"

	"autobooks/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AssetTransactionRepository interface {
	// GetByAssetID returns the history of a live asset, newest first.
	GetByAssetID(ctx context.Context, scope Scope, assetID string) ([]models.AssetTransaction, error)
	Create(ctx context.Context, scope Scope, t *models.AssetTransaction, tx pgx.Tx) error
	ExistsInPeriod(ctx context.Context, scope Scope, assetID string, txType models.TransactionType, from, to time.Time) (bool, error)
}

type assetTransactionRepo struct {
	db *pgxpool.Pool
}

func NewAssetTransactionRepository(db *pgxpool.Pool) AssetTransactionRepository {
	return &assetTransactionRepo{db: db}
}

func (r *assetTransactionRepo) GetByAssetID(ctx context.Context, scope Scope, assetID string) ([]models.AssetTransaction, error) {
	filter, arg, err := scope.Filter("a.workspace_id", 2)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT t.id, t.asset_id, t.transaction_id, t.type, t.amount, t.transaction_date, t.notes, t.created_at
		FROM asset_transactions t
		JOIN assets a ON a.id = t.asset_id
		WHERE t.asset_id = $1 AND a.is_deleted = false AND `+filter+`
		ORDER BY t.transaction_date DESC, t.created_at DESC`,
		assetID, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.AssetTransaction{}
	for rows.Next() {
		var (
			t    models.AssetTransaction
			date time.Time
		)
		if err := rows.Scan(&t.ID, &t.AssetID, &t.TransactionID, &t.Type, &t.Amount, &date, &t.Notes, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.TransactionDate = models.NewDate(date)
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// Create appends a transaction to a live asset visible in scope.
func (r *assetTransactionRepo) Create(ctx context.Context, scope Scope, t *models.AssetTransaction, tx pgx.Tx) error {
	filter, arg, err := scope.Filter("a.workspace_id", 7)
	if err != nil {
		return err
	}

	err = pick(r.db, tx).QueryRow(ctx,
		`INSERT INTO asset_transactions (asset_id, transaction_id, type, amount, transaction_date, notes)
		SELECT a.id, $2::uuid, $3::text, $4::numeric, $5::date, $6::text
		FROM assets a
		WHERE a.id = $1 AND a.is_deleted = false AND `+filter+`
		RETURNING id, created_at`,
		t.AssetID, t.TransactionID, string(t.Type), t.Amount, t.TransactionDate.Time, t.Notes, arg,
	).Scan(&t.ID, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewNotFound("asset", t.AssetID)
	}
	return err
}

// ExistsInPeriod reports whether the asset has a transaction of txType dated within [from, to].
func (r *assetTransactionRepo) ExistsInPeriod(ctx context.Context, scope Scope, assetID string, txType models.TransactionType, from, to time.Time) (bool, error) {
	filter, arg, err := scope.Filter("a.workspace_id", 5)
	if err != nil {
		return false, err
	}

	var exists bool
	err = r.db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM asset_transactions t
			JOIN assets a ON a.id = t.asset_id
			WHERE t.asset_id = $1 AND t.type = $2 AND t.transaction_date BETWEEN $3 AND $4 AND `+filter+`
		)`,
		assetID, string(txType), from, to, arg,
	).Scan(&exists)
	return exists, err
}
