package schemas

import (
	"autobooks/src/models"

	"github.com/shopspring/decimal"
)

type AddTransactionRequest struct {
	AssetID         string                 `json:"asset_id" validate:"required,uuid"`
	TransactionID   *string                `json:"transaction_id" validate:"omitempty,uuid"`
	Type            models.TransactionType `json:"type" validate:"required,oneof=purchase sale depreciation revaluation"`
	Amount          *decimal.Decimal       `json:"amount" validate:"required"`
	TransactionDate *models.Date           `json:"transaction_date"`
	Notes           *string                `json:"notes"`
}

// Validate checks the request. Amounts are magnitudes; only depreciation tolerates a
// negative amount, which is stored as its absolute value.
func (r *AddTransactionRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	amount := moneyField{"amount", r.Amount}
	if r.Type == models.TransactionDepreciation {
		return checkScale(amount)
	}
	return checkMoney(amount)
}

// ToTransaction builds the transaction to persist. The amount is stored unsigned and
// a missing date means today.
func (r *AddTransactionRequest) ToTransaction() *models.AssetTransaction {
	date := models.Today()
	if r.TransactionDate != nil {
		date = *r.TransactionDate
	}
	return &models.AssetTransaction{
		AssetID:         r.AssetID,
		TransactionID:   r.TransactionID,
		Type:            r.Type,
		Amount:          r.Amount.Abs(),
		TransactionDate: date,
		Notes:           r.Notes,
	}
}
