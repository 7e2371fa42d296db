package distribution

import (
	"parcelhub/internal/core/apperror"
	"parcelhub/internal/core/types"
)

// Validate checks the form-level rules Compute relies on callers to enforce.
func (r Request) Validate() error {
	if len(r.Items) == 0 {
		return apperror.NewBusinessRule(apperror.CodeEmptySelection, "Select at least one package to distribute")
	}

	for _, item := range r.Items {
		if item.TotalCost.IsNegative() {
			return negativeAmount("items.totalCost").WithDetail("item_id", item.ID.String())
		}
	}
	totalCost := r.TotalCost()

	amounts := []struct {
		field string
		value types.Money
	}{
		{"writeOffAmount", r.WriteOffAmount},
		{"amountCollected", r.AmountCollected},
		{"creditBalance", r.CreditBalance},
		{"accountBalance", r.AccountBalance},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			return negativeAmount(a.field)
		}
	}

	if r.WriteOffAmount.GreaterThan(totalCost) {
		return apperror.NewWriteOffExceedsTotal(
			r.WriteOffAmount.StringFixed(types.MoneyScale),
			totalCost.StringFixed(types.MoneyScale),
		)
	}

	return nil
}

func negativeAmount(field string) *apperror.AppError {
	err := apperror.NewInvalidInput(field, "Amount cannot be negative")
	err.Code = apperror.CodeNegativeAmount
	return err
}
