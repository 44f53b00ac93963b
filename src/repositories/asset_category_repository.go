package repositories

import (
	"context"

	"autobooks/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Categories are shared reference data administered out of band; they carry no tenant column.
type AssetCategoryRepository interface {
	GetByKind(ctx context.Context, kind models.WorkspaceType) ([]models.AssetCategory, error)
	Create(ctx context.Context, ac *models.AssetCategory) error
}

type assetCategoryRepo struct {
	db *pgxpool.Pool
}

func NewAssetCategoryRepository(db *pgxpool.Pool) AssetCategoryRepository {
	return &assetCategoryRepo{db: db}
}

func (r *assetCategoryRepo) GetByKind(ctx context.Context, kind models.WorkspaceType) ([]models.AssetCategory, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, type, parent_id, system_defined
		FROM asset_categories
		WHERE type = $1 OR type = $2
		ORDER BY name`,
		string(kind), string(models.WorkspaceBoth))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.AssetCategory{}
	for rows.Next() {
		var ac models.AssetCategory
		if err := rows.Scan(&ac.ID, &ac.Name, &ac.Type, &ac.ParentID, &ac.SystemDefined); err != nil {
			return nil, err
		}
		categories = append(categories, ac)
	}
	return categories, rows.Err()
}

func (r *assetCategoryRepo) Create(ctx context.Context, ac *models.AssetCategory) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO asset_categories (name, type, parent_id, system_defined) VALUES ($1, $2, $3, $4) RETURNING id`,
		ac.Name, string(ac.Type), ac.ParentID, ac.SystemDefined,
	).Scan(&ac.ID)
}
