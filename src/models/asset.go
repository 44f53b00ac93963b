package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultCurrency = "CAD"

type DepreciationMethod string

const (
	DepreciationStraightLine    DepreciationMethod = "straight_line"
	DepreciationReducingBalance DepreciationMethod = "reducing_balance"
	DepreciationNone            DepreciationMethod = "none"
)

func init() {
	// Money amounts are exchanged as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type Asset struct {
	ID                 string              `json:"id"`
	WorkspaceID        string              `json:"workspace_id"`
	CategoryID         string              `json:"category_id"`
	AccountID          string              `json:"account_id"`
	Name               string              `json:"name"`
	Description        *string             `json:"description"`
	PurchaseDate       *Date               `json:"purchase_date"`
	PurchaseValue      decimal.NullDecimal `json:"purchase_value"`
	CurrentValue       decimal.NullDecimal `json:"current_value"`
	DepreciationMethod *DepreciationMethod `json:"depreciation_method"`
	DepreciationRate   decimal.NullDecimal `json:"depreciation_rate"`
	DepreciationPeriod *int                `json:"depreciation_period"`
	Currency           string              `json:"currency"`
	IsDeleted          bool                `json:"is_deleted"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`

	Category *CategoryRef `json:"category,omitempty"`
	Account  *AccountRef  `json:"account,omitempty"`
}

// AssetWithTransactions is the detail view of an asset.
type AssetWithTransactions struct {
	Asset
	Transactions []AssetTransaction `json:"transactions"`
}

// AssetPatch holds the mutable asset fields; nil fields are left untouched.
type AssetPatch struct {
	CategoryID         *string
	AccountID          *string
	Name               *string
	Description        *string
	PurchaseDate       *Date
	PurchaseValue      *decimal.Decimal
	CurrentValue       *decimal.Decimal
	DepreciationMethod *DepreciationMethod
	DepreciationRate   *decimal.Decimal
	DepreciationPeriod *int
	Currency           *string
}

func (p AssetPatch) IsEmpty() bool {
	return p.CategoryID == nil && p.AccountID == nil && p.Name == nil && p.Description == nil &&
		p.PurchaseDate == nil && p.PurchaseValue == nil && p.CurrentValue == nil &&
		p.DepreciationMethod == nil && p.DepreciationRate == nil && p.DepreciationPeriod == nil &&
		p.Currency == nil
}

// Apply copies the set fields of p onto a.
func (p AssetPatch) Apply(a *Asset) {
	if p.CategoryID != nil {
		a.CategoryID = *p.CategoryID
	}
	if p.AccountID != nil {
		a.AccountID = *p.AccountID
	}
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Description != nil {
		a.Description = p.Description
	}
	if p.PurchaseDate != nil {
		a.PurchaseDate = p.PurchaseDate
	}
	if p.PurchaseValue != nil {
		a.PurchaseValue = decimal.NewNullDecimal(*p.PurchaseValue)
	}
	if p.CurrentValue != nil {
		a.CurrentValue = decimal.NewNullDecimal(*p.CurrentValue)
	}
	if p.DepreciationMethod != nil {
		a.DepreciationMethod = p.DepreciationMethod
	}
	if p.DepreciationRate != nil {
		a.DepreciationRate = decimal.NewNullDecimal(*p.DepreciationRate)
	}
	if p.DepreciationPeriod != nil {
		a.DepreciationPeriod = p.DepreciationPeriod
	}
	if p.Currency != nil {
		a.Currency = *p.Currency
	}
}
