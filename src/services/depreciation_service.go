package services

import (
	"context"
	"fmt"
	"time"

	"autobooks/src/models"
	"autobooks/src/repositories"
	"autobooks/src/schemas"
	"autobooks/src/utils"
	redis_utils "autobooks/src/utils/redis"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const depreciationLockTTL = time.Hour

// PeriodLocker serializes depreciation of one asset and period across worker replicas.
type PeriodLocker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type DepreciationServiceI interface {
	Run(ctx context.Context, asOf time.Time) (*schemas.DepreciationRunResult, error)
}

type DepreciationService struct {
	assetRepo       repositories.AssetRepository
	transactionRepo repositories.AssetTransactionRepository
	valuation       ValuationServiceI
	locker          PeriodLocker
}

// NewDepreciationService builds the scheduled depreciation job. locker may be nil
// when a single worker runs.
func NewDepreciationService(
	assetRepo repositories.AssetRepository,
	transactionRepo repositories.AssetTransactionRepository,
	valuation ValuationServiceI,
	locker PeriodLocker,
) *DepreciationService {
	return &DepreciationService{
		assetRepo:       assetRepo,
		transactionRepo: transactionRepo,
		valuation:       valuation,
		locker:          locker,
	}
}

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// ComputeCharge returns the monthly depreciation charge of an asset, rounded to cents
// and capped at its current value. Assets without enough data to depreciate yield zero.
func ComputeCharge(a models.Asset) decimal.Decimal {
	if a.DepreciationMethod == nil || !a.CurrentValue.Valid || !a.CurrentValue.Decimal.IsPositive() {
		return decimal.Zero
	}
	current := a.CurrentValue.Decimal
	hasRate := a.DepreciationRate.Valid && a.DepreciationRate.Decimal.IsPositive()

	var charge decimal.Decimal
	switch *a.DepreciationMethod {
	case models.DepreciationStraightLine:
		if !a.PurchaseValue.Valid {
			return decimal.Zero
		}
		switch {
		case hasRate:
			charge = a.PurchaseValue.Decimal.Mul(a.DepreciationRate.Decimal).Div(hundred).Div(twelve)
		case a.DepreciationPeriod != nil && *a.DepreciationPeriod > 0:
			charge = a.PurchaseValue.Decimal.Div(decimal.NewFromInt(int64(*a.DepreciationPeriod)))
		default:
			return decimal.Zero
		}
	case models.DepreciationReducingBalance:
		if !hasRate {
			return decimal.Zero
		}
		charge = current.Mul(a.DepreciationRate.Decimal).Div(hundred).Div(twelve)
	default:
		return decimal.Zero
	}

	charge = charge.Round(2)
	if charge.GreaterThan(current) {
		charge = current
	}
	if !charge.IsPositive() {
		return decimal.Zero
	}
	return charge
}

// Run records the depreciation of the month containing asOf for every depreciable asset.
// Assets already depreciated in that month are skipped, so reruns are harmless.
func (s *DepreciationService) Run(ctx context.Context, asOf time.Time) (*schemas.DepreciationRunResult, error) {
	first, last := utils.MonthBounds(asOf)
	period := first.Format(utils.MonthLayout)
	logger := utils.LoggerFromContext(ctx).WithField("period", period)

	assets, err := s.assetRepo.GetDepreciable(ctx)
	if err != nil {
		return nil, err
	}

	result := &schemas.DepreciationRunResult{Period: period}
	for _, asset := range assets {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Processed++

		recorded, err := s.depreciate(ctx, asset, asOf, first, last, period)
		switch {
		case err != nil:
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", asset.ID, err))
			logger.WithFields(logrus.Fields{"asset_id": asset.ID}).WithError(err).Error("depreciation failed")
		case recorded:
			result.Recorded++
		default:
			result.Skipped++
		}
	}

	logger.WithFields(logrus.Fields{
		"processed": result.Processed,
		"recorded":  result.Recorded,
		"skipped":   result.Skipped,
		"failed":    result.Failed,
	}).Info("depreciation run finished")
	return result, nil
}

func (s *DepreciationService) depreciate(ctx context.Context, asset models.Asset, asOf, first, last time.Time, period string) (bool, error) {
	charge := ComputeCharge(asset)
	if charge.IsZero() {
		return false, nil
	}

	if s.locker != nil {
		key := "depreciation-lock:" + redis_utils.GenerateUUID(asset.ID, period)
		acquired, err := s.locker.AcquireLock(ctx, key, depreciationLockTTL)
		if err != nil {
			return false, err
		}
		if !acquired {
			return false, nil
		}
	}

	scope := repositories.WorkspaceScope(asset.WorkspaceID)
	exists, err := s.transactionRepo.ExistsInPeriod(ctx, scope, asset.ID, models.TransactionDepreciation, first, last)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	date := models.NewDate(asOf)
	notes := "Scheduled depreciation " + period
	_, err = s.valuation.AddTransaction(ctx, scope, &schemas.AddTransactionRequest{
		AssetID:         asset.ID,
		Type:            models.TransactionDepreciation,
		Amount:          &charge,
		TransactionDate: &date,
		Notes:           &notes,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
