package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionPurchase     TransactionType = "purchase"
	TransactionSale         TransactionType = "sale"
	TransactionDepreciation TransactionType = "depreciation"
	TransactionRevaluation  TransactionType = "revaluation"
)

const InitialPurchaseNotes = "Initial asset purchase"

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionPurchase, TransactionSale, TransactionDepreciation, TransactionRevaluation:
		return true
	}
	return false
}

// AssetTransaction is an append-only valuation event of an asset.
type AssetTransaction struct {
	ID              string          `json:"id"`
	AssetID         string          `json:"asset_id"`
	TransactionID   *string         `json:"transaction_id"`
	Type            TransactionType `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate Date            `json:"transaction_date"`
	Notes           *string         `json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
}
