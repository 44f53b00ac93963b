package schemas

import (
	"strings"

	"autobooks/src/models"

	"github.com/shopspring/decimal"
)

type CreateAssetRequest struct {
	WorkspaceID        string                     `json:"workspace_id" validate:"required,uuid"`
	CategoryID         string                     `json:"category_id" validate:"required,uuid"`
	AccountID          string                     `json:"account_id" validate:"required,uuid"`
	Name               string                     `json:"name" validate:"required"`
	Description        *string                    `json:"description"`
	PurchaseDate       *models.Date               `json:"purchase_date"`
	PurchaseValue      *decimal.Decimal           `json:"purchase_value"`
	CurrentValue       *decimal.Decimal           `json:"current_value"`
	DepreciationMethod *models.DepreciationMethod `json:"depreciation_method" validate:"omitempty,oneof=straight_line reducing_balance none"`
	DepreciationRate   *decimal.Decimal           `json:"depreciation_rate"`
	DepreciationPeriod *int                       `json:"depreciation_period" validate:"omitempty,min=1"`
	Currency           *string                    `json:"currency" validate:"omitempty,iso4217"`
}

func (r *CreateAssetRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Currency = upper(r.Currency)
	if err := validateStruct(r); err != nil {
		return err
	}
	if err := checkMoney(
		moneyField{"purchase_value", r.PurchaseValue},
		moneyField{"current_value", r.CurrentValue},
	); err != nil {
		return err
	}
	return checkRate(r.DepreciationRate)
}

// ToAsset builds the asset to persist, applying creation defaults:
// current_value falls back to purchase_value and currency to CAD.
func (r *CreateAssetRequest) ToAsset() *models.Asset {
	asset := &models.Asset{
		WorkspaceID:        r.WorkspaceID,
		CategoryID:         r.CategoryID,
		AccountID:          r.AccountID,
		Name:               r.Name,
		Description:        r.Description,
		PurchaseDate:       r.PurchaseDate,
		DepreciationMethod: r.DepreciationMethod,
		DepreciationPeriod: r.DepreciationPeriod,
		Currency:           models.DefaultCurrency,
	}
	if r.PurchaseValue != nil {
		asset.PurchaseValue = decimal.NewNullDecimal(*r.PurchaseValue)
	}
	switch {
	case r.CurrentValue != nil:
		asset.CurrentValue = decimal.NewNullDecimal(*r.CurrentValue)
	case r.PurchaseValue != nil:
		asset.CurrentValue = decimal.NewNullDecimal(*r.PurchaseValue)
	}
	if r.DepreciationRate != nil {
		asset.DepreciationRate = decimal.NewNullDecimal(*r.DepreciationRate)
	}
	if r.Currency != nil {
		asset.Currency = *r.Currency
	}
	return asset
}

// UpdateAssetRequest carries the id plus the subset of fields to replace.
type UpdateAssetRequest struct {
	ID                 string                     `json:"id" validate:"required,uuid"`
	CategoryID         *string                    `json:"category_id" validate:"omitempty,uuid"`
	AccountID          *string                    `json:"account_id" validate:"omitempty,uuid"`
	Name               *string                    `json:"name"`
	Description        *string                    `json:"description"`
	PurchaseDate       *models.Date               `json:"purchase_date"`
	PurchaseValue      *decimal.Decimal           `json:"purchase_value"`
	CurrentValue       *decimal.Decimal           `json:"current_value"`
	DepreciationMethod *models.DepreciationMethod `json:"depreciation_method" validate:"omitempty,oneof=straight_line reducing_balance none"`
	DepreciationRate   *decimal.Decimal           `json:"depreciation_rate"`
	DepreciationPeriod *int                       `json:"depreciation_period" validate:"omitempty,min=1"`
	Currency           *string                    `json:"currency" validate:"omitempty,iso4217"`
}

func (r *UpdateAssetRequest) Validate() error {
	r.Currency = upper(r.Currency)
	if err := validateStruct(r); err != nil {
		return err
	}
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		if trimmed == "" {
			return models.NewValidationError("name must not be empty", "name")
		}
		r.Name = &trimmed
	}
	if err := checkMoney(
		moneyField{"purchase_value", r.PurchaseValue},
		moneyField{"current_value", r.CurrentValue},
	); err != nil {
		return err
	}
	return checkRate(r.DepreciationRate)
}

func (r *UpdateAssetRequest) Patch() models.AssetPatch {
	patch := models.AssetPatch{
		CategoryID:         r.CategoryID,
		AccountID:          r.AccountID,
		Name:               r.Name,
		Description:        r.Description,
		PurchaseDate:       r.PurchaseDate,
		PurchaseValue:      r.PurchaseValue,
		CurrentValue:       r.CurrentValue,
		DepreciationMethod: r.DepreciationMethod,
		DepreciationRate:   r.DepreciationRate,
		DepreciationPeriod: r.DepreciationPeriod,
		Currency:           r.Currency,
	}
	return patch
}

func upper(s *string) *string {
	if s == nil {
		return nil
	}
	u := strings.ToUpper(strings.TrimSpace(*s))
	return &u
}

// AssetQuery identifies a single asset on read paths.
type AssetQuery struct {
	ID string `json:"id" validate:"required,uuid"`
}

func (q *AssetQuery) Validate() error {
	return validateStruct(q)
}

// WorkspaceQuery selects the workspace a listing is scoped to.
type WorkspaceQuery struct {
	WorkspaceID string `json:"workspace_id" validate:"required,uuid"`
}

func (q *WorkspaceQuery) Validate() error {
	return validateStruct(q)
}

type DeleteAssetRequest struct {
	ID string `json:"id" validate:"required,uuid"`
}

func (r *DeleteAssetRequest) Validate() error {
	return validateStruct(r)
}

type DeleteAssetResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}
