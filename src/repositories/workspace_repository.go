package repositories

import (
	"context"
	"errors"

	"autobooks/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WorkspaceRepository interface {
	GetByID(ctx context.Context, scope Scope, id string) (*models.Workspace, error)
}

type workspaceRepo struct {
	db *pgxpool.Pool
}

func NewWorkspaceRepository(db *pgxpool.Pool) WorkspaceRepository {
	return &workspaceRepo{db: db}
}

func (r *workspaceRepo) GetByID(ctx context.Context, scope Scope, id string) (*models.Workspace, error) {
	filter, arg, err := scope.Filter("w.id", 2)
	if err != nil {
		return nil, err
	}

	var ws models.Workspace
	err = r.db.QueryRow(ctx,
		`SELECT w.id, w.name, w.type FROM workspaces w WHERE w.id = $1 AND `+filter, id, arg,
	).Scan(&ws.ID, &ws.Name, &ws.Type)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewNotFound("workspace", id)
	}
	if err != nil {
		return nil, err
	}
	return &ws, nil
}
