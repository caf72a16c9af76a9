package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name    string          `json:"name" validate:"required"`
	Method  string          `json:"method" validate:"required,oneof=cash card"`
	Opening string          `json:"opening,omitempty" validate:"omitempty,timeofday"`
	Amount  decimal.Decimal `json:"amount" validate:"gt=0"`
	Page    int             `validate:"gte=0"`
}

func TestValidate(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&sample{Name: "x", Method: "cash", Opening: "08:30", Amount: decimal.RequireFromString("10.50")}))

	err := v.Validate(&sample{Method: "crypto", Opening: "25:00", Amount: decimal.Zero, Page: -1})
	assert.Error(t, err)

	errs := v.FormatValidationErrors(err)
	assert.Equal(t, "name is required", errs["name"])
	assert.Equal(t, "method must be one of: cash card", errs["method"])
	assert.Equal(t, "opening must be in HH:MM format", errs["opening"])
	assert.Equal(t, "amount must be greater than 0", errs["amount"])
	assert.Equal(t, "Page must be greater than or equal to 0", errs["Page"])
}

func TestFormatValidationErrorsIgnoresOtherErrors(t *testing.T) {
	v := NewValidator()
	assert.Empty(t, v.FormatValidationErrors(assert.AnError))
}
