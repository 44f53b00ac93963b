package services

import (
	"context"
	"sort"

	"autobooks/src/models"
	"autobooks/src/repositories"
	"autobooks/src/schemas"
	"autobooks/src/utils"
)

type CategoryServiceI interface {
	ListCategories(ctx context.Context, kind models.WorkspaceType) ([]models.CategoryNode, error)
	ListCategoriesForWorkspace(ctx context.Context, scope repositories.Scope, workspaceID string) ([]models.CategoryNode, error)
}

type CategoryService struct {
	categoryRepo  repositories.AssetCategoryRepository
	workspaceRepo repositories.WorkspaceRepository
	cache         CategoryTreeCache
}

// NewCategoryService builds the resolver. A nil cache disables caching.
func NewCategoryService(
	categoryRepo repositories.AssetCategoryRepository,
	workspaceRepo repositories.WorkspaceRepository,
	cache CategoryTreeCache,
) *CategoryService {
	return &CategoryService{
		categoryRepo:  categoryRepo,
		workspaceRepo: workspaceRepo,
		cache:         cache,
	}
}

// ListCategories returns the category tree visible to a workspace of the given kind.
func (s *CategoryService) ListCategories(ctx context.Context, kind models.WorkspaceType) ([]models.CategoryNode, error) {
	if !kind.IsQueryKind() {
		return nil, models.NewValidationError("workspace type must be personal or business", "workspace_type")
	}
	logger := utils.LoggerFromContext(ctx)

	if s.cache != nil {
		nodes, found, err := s.cache.Get(ctx, kind)
		if err != nil {
			logger.WithError(err).Warn("category cache read failed")
		} else if found {
			return nodes, nil
		}
	}

	categories, err := s.categoryRepo.GetByKind(ctx, kind)
	if err != nil {
		return nil, err
	}
	nodes := BuildCategoryTree(categories, kind)

	if s.cache != nil {
		if err := s.cache.Set(ctx, kind, nodes); err != nil {
			logger.WithError(err).Warn("category cache write failed")
		}
	}
	return nodes, nil
}

func (s *CategoryService) ListCategoriesForWorkspace(ctx context.Context, scope repositories.Scope, workspaceID string) ([]models.CategoryNode, error) {
	query := &schemas.WorkspaceQuery{WorkspaceID: workspaceID}
	if err := query.Validate(); err != nil {
		return nil, err
	}
	ws, err := s.workspaceRepo.GetByID(ctx, scope, workspaceID)
	if err != nil {
		return nil, err
	}
	return s.ListCategories(ctx, ws.Type)
}

// BuildCategoryTree keeps the categories matching kind and nests children under their
// top-level parent, both levels ordered by name. Children whose parent is not part of
// the result are dropped.
func BuildCategoryTree(categories []models.AssetCategory, kind models.WorkspaceType) []models.CategoryNode {
	visible := make([]models.AssetCategory, 0, len(categories))
	for _, c := range categories {
		if c.Type.Matches(kind) {
			visible = append(visible, c)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool { return visible[i].Name < visible[j].Name })

	children := map[string][]models.AssetCategory{}
	for _, c := range visible {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}

	nodes := []models.CategoryNode{}
	for _, c := range visible {
		if c.ParentID != nil {
			continue
		}
		kids := children[c.ID]
		if kids == nil {
			kids = []models.AssetCategory{}
		}
		nodes = append(nodes, models.CategoryNode{AssetCategory: c, Children: kids})
	}
	return nodes
}
