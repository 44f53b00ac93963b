package services

import (
	"context"

	"autobooks/src/models"
	"autobooks/src/repositories"
	"autobooks/src/schemas"
	"autobooks/src/utils"

	"github.com/jackc/pgx/v5"
)

type AssetServiceI interface {
	ListAssets(ctx context.Context, scope repositories.Scope, workspaceID string) ([]models.Asset, error)
	GetAsset(ctx context.Context, scope repositories.Scope, id string) (*models.AssetWithTransactions, error)
	CreateAsset(ctx context.Context, scope repositories.Scope, req *schemas.CreateAssetRequest) (*models.Asset, error)
	UpdateAsset(ctx context.Context, scope repositories.Scope, req *schemas.UpdateAssetRequest) (*models.Asset, error)
	DeleteAsset(ctx context.Context, scope repositories.Scope, id string) error
}

type AssetService struct {
	assetRepo       repositories.AssetRepository
	transactionRepo repositories.AssetTransactionRepository
	txRunner        repositories.TxRunner
}

func NewAssetService(
	assetRepo repositories.AssetRepository,
	transactionRepo repositories.AssetTransactionRepository,
	txRunner repositories.TxRunner,
) *AssetService {
	return &AssetService{
		assetRepo:       assetRepo,
		transactionRepo: transactionRepo,
		txRunner:        txRunner,
	}
}

// ListAssets returns the live assets of a workspace with their category and account, without history.
func (s *AssetService) ListAssets(ctx context.Context, scope repositories.Scope, workspaceID string) ([]models.Asset, error) {
	query := &schemas.WorkspaceQuery{WorkspaceID: workspaceID}
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return s.assetRepo.GetAll(ctx, scope, workspaceID)
}

// GetAsset returns a live asset together with its transaction history.
func (s *AssetService) GetAsset(ctx context.Context, scope repositories.Scope, id string) (*models.AssetWithTransactions, error) {
	query := &schemas.AssetQuery{ID: id}
	if err := query.Validate(); err != nil {
		return nil, err
	}
	asset, err := s.assetRepo.GetByID(ctx, scope, id, nil)
	if err != nil {
		return nil, err
	}
	transactions, err := s.transactionRepo.GetByAssetID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	return &models.AssetWithTransactions{Asset: *asset, Transactions: transactions}, nil
}

// CreateAsset persists the asset and, when a purchase value is given, its initial
// purchase transaction. Both writes commit or roll back together.
func (s *AssetService) CreateAsset(ctx context.Context, scope repositories.Scope, req *schemas.CreateAssetRequest) (*models.Asset, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	asset := req.ToAsset()

	var created *models.Asset
	err := s.txRunner.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.assetRepo.Create(ctx, scope, asset, tx); err != nil {
			return err
		}

		if asset.PurchaseValue.Valid {
			purchaseDate := models.Today()
			if asset.PurchaseDate != nil {
				purchaseDate = *asset.PurchaseDate
			}
			notes := models.InitialPurchaseNotes
			purchase := &models.AssetTransaction{
				AssetID:         asset.ID,
				Type:            models.TransactionPurchase,
				Amount:          asset.PurchaseValue.Decimal,
				TransactionDate: purchaseDate,
				Notes:           &notes,
			}
			if err := s.transactionRepo.Create(ctx, scope, purchase, tx); err != nil {
				return err
			}
		}

		var err error
		created, err = s.assetRepo.GetByID(ctx, scope, asset.ID, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	utils.LoggerFromContext(ctx).WithField("asset_id", created.ID).Info("asset created")
	return created, nil
}

// UpdateAsset replaces the supplied fields. current_value is never recalculated here.
func (s *AssetService) UpdateAsset(ctx context.Context, scope repositories.Scope, req *schemas.UpdateAssetRequest) (*models.Asset, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	patch := req.Patch()
	if patch.IsEmpty() {
		return s.assetRepo.GetByID(ctx, scope, req.ID, nil)
	}

	var updated *models.Asset
	err := s.txRunner.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.assetRepo.Update(ctx, scope, req.ID, patch, tx); err != nil {
			return err
		}
		var err error
		updated, err = s.assetRepo.GetByID(ctx, scope, req.ID, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteAsset soft deletes the asset; repeated deletes succeed.
func (s *AssetService) DeleteAsset(ctx context.Context, scope repositories.Scope, id string) error {
	req := &schemas.DeleteAssetRequest{ID: id}
	if err := req.Validate(); err != nil {
		return err
	}
	if err := s.assetRepo.SoftDelete(ctx, scope, id); err != nil {
		return err
	}
	utils.LoggerFromContext(ctx).WithField("asset_id", id).Info("asset deleted")
	return nil
}
