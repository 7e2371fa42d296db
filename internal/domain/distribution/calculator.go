package distribution

import (
	"parcelhub/internal/core/types"
)

// Compute allocates cash, credit balance and account balance against the
// selected items. It is pure: no validation, no I/O, no errors. Callers that
// accept user input run Request.Validate first.
//
// Credit balance is always consumed before account balance.
func Compute(req Request) Summary {
	totalCost := req.TotalCost()
	netTotal := types.NonNegative(totalCost.Sub(req.WriteOffAmount))
	remaining := types.NonNegative(netTotal.Sub(req.AmountCollected))

	creditApplied := types.Zero()
	if req.ApplyCreditBalance && req.CreditBalance.IsPositive() {
		creditApplied = types.MinMoney(req.CreditBalance, remaining)
		remaining = remaining.Sub(creditApplied)
	}

	accountApplied := types.Zero()
	if req.ApplyAccountBalance && req.AccountBalance.IsPositive() && remaining.IsPositive() {
		accountApplied = types.MinMoney(req.AccountBalance, remaining)
	}

	balanceApplied := creditApplied.Add(accountApplied)
	totalReceived := req.AmountCollected.Add(balanceApplied)
	outstanding := types.NonNegative(netTotal.Sub(totalReceived))

	return Summary{
		TotalCost:          totalCost,
		WriteOffAmount:     req.WriteOffAmount,
		NetTotal:           netTotal,
		AmountCollected:    req.AmountCollected,
		CreditApplied:      creditApplied,
		AccountApplied:     accountApplied,
		BalanceApplied:     balanceApplied,
		TotalReceived:      totalReceived,
		OutstandingBalance: outstanding,
		PaymentStatus:      classify(totalReceived, outstanding),
	}
}

// TotalCost is the sum of the selected items' costs.
func (r Request) TotalCost() types.Money {
	costs := make([]types.Money, len(r.Items))
	for i, item := range r.Items {
		costs[i] = item.TotalCost
	}
	return types.SumMoney(costs...)
}

func classify(received, outstanding types.Money) PaymentStatus {
	switch {
	case outstanding.IsZero():
		return PaymentStatusPaid
	case received.IsPositive():
		return PaymentStatusPartial
	default:
		return PaymentStatusPending
	}
}
