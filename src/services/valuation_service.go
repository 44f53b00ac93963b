package services

import (
	"context"

	"autobooks/src/models"
	"autobooks/src/repositories"
	"autobooks/src/schemas"
	"autobooks/src/utils"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

type ValuationServiceI interface {
	AddTransaction(ctx context.Context, scope repositories.Scope, req *schemas.AddTransactionRequest) (*models.AssetTransaction, error)
	ListTransactions(ctx context.Context, scope repositories.Scope, assetID string) ([]models.AssetTransaction, error)
}

type valueEffect int

const (
	effectNone valueEffect = iota
	// effectDecrement subtracts abs(amount) from current_value.
	effectDecrement
	// effectSet replaces current_value with amount.
	effectSet
)

// transactionEffects maps each transaction type to its effect on the asset's current value.
// Purchases and sales after creation are recorded for history only.
var transactionEffects = map[models.TransactionType]valueEffect{
	models.TransactionPurchase:     effectNone,
	models.TransactionSale:         effectNone,
	models.TransactionDepreciation: effectDecrement,
	models.TransactionRevaluation:  effectSet,
}

type ValuationService struct {
	assetRepo       repositories.AssetRepository
	transactionRepo repositories.AssetTransactionRepository
	txRunner        repositories.TxRunner
}

func NewValuationService(
	assetRepo repositories.AssetRepository,
	transactionRepo repositories.AssetTransactionRepository,
	txRunner repositories.TxRunner,
) *ValuationService {
	return &ValuationService{
		assetRepo:       assetRepo,
		transactionRepo: transactionRepo,
		txRunner:        txRunner,
	}
}

// AddTransaction records the transaction and applies its effect on current_value in
// the same database transaction.
func (s *ValuationService) AddTransaction(ctx context.Context, scope repositories.Scope, req *schemas.AddTransactionRequest) (*models.AssetTransaction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	t := req.ToTransaction()

	err := s.txRunner.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.transactionRepo.Create(ctx, scope, t, tx); err != nil {
			return err
		}
		switch transactionEffects[t.Type] {
		case effectDecrement:
			return s.assetRepo.AdjustCurrentValue(ctx, scope, t.AssetID, t.Amount.Abs().Neg(), tx)
		case effectSet:
			return s.assetRepo.SetCurrentValue(ctx, scope, t.AssetID, t.Amount, tx)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LoggerFromContext(ctx).WithFields(logrus.Fields{
		"asset_id": t.AssetID,
		"type":     t.Type,
		"amount":   t.Amount.String(),
	}).Info("asset transaction recorded")
	return t, nil
}

// ListTransactions returns the history of a live asset, newest first.
func (s *ValuationService) ListTransactions(ctx context.Context, scope repositories.Scope, assetID string) ([]models.AssetTransaction, error) {
	query := &schemas.AssetQuery{ID: assetID}
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return s.transactionRepo.GetByAssetID(ctx, scope, assetID)
}
