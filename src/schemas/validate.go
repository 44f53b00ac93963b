package schemas

import (
	"errors"
	"reflect"
	"strings"

	"autobooks/src/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags of s and reports failures as a models.ValidationError.
// Missing required fields take precedence over malformed ones.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var missing, invalid []string
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		} else {
			invalid = append(invalid, fe.Field())
		}
	}
	if len(missing) > 0 {
		return models.NewValidationError("", missing...)
	}
	return models.NewValidationError("Invalid value for fields: "+strings.Join(invalid, ", "), invalid...)
}

type moneyField struct {
	name  string
	value *decimal.Decimal
}

// moneyScale matches the NUMERIC(15,2) money columns.
const moneyScale = 2

func checkScale(fields ...moneyField) error {
	for _, f := range fields {
		if f.value != nil && !f.value.Equal(f.value.Round(moneyScale)) {
			return models.NewValidationError(f.name+" must have at most 2 decimal places", f.name)
		}
	}
	return nil
}

// checkMoney rejects negative amounts and amounts the money columns would round.
func checkMoney(fields ...moneyField) error {
	for _, f := range fields {
		if f.value != nil && f.value.IsNegative() {
			return models.NewValidationError(f.name+" must not be negative", f.name)
		}
	}
	return checkScale(fields...)
}

var hundred = decimal.NewFromInt(100)

func checkRate(rate *decimal.Decimal) error {
	if rate != nil && (rate.IsNegative() || rate.GreaterThan(hundred)) {
		return models.NewValidationError("depreciation_rate must be between 0 and 100", "depreciation_rate")
	}
	return nil
}
