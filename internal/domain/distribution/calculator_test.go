package distribution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parcelhub/internal/core/apperror"
	"parcelhub/internal/core/id"
	"parcelhub/internal/core/types"
)

func money(s string) types.Money { return types.MustMoney(s) }

func items(costs ...string) []LineItem {
	out := make([]LineItem, len(costs))
	for i, c := range costs {
		out[i] = LineItem{ID: id.New(), Kind: ItemKindPackage, TotalCost: money(c)}
	}
	return out
}

func assertMoney(t *testing.T, want string, got types.Money, field string) {
	t.Helper()
	assert.True(t, money(want).Equal(got), "%s: want %s, got %s", field, want, got)
}

func TestCompute_HandOverScenario(t *testing.T) {
	summary := Compute(Request{
		Items:               items("40.00", "35.00"),
		WriteOffAmount:      money("5.00"),
		AmountCollected:     money("50.00"),
		ApplyCreditBalance:  true,
		CreditBalance:       money("10.00"),
		ApplyAccountBalance: false,
		AccountBalance:      money("100.00"),
	})

	assertMoney(t, "75", summary.TotalCost, "total cost")
	assertMoney(t, "70", summary.NetTotal, "net total")
	assertMoney(t, "10", summary.CreditApplied, "credit applied")
	assertMoney(t, "0", summary.AccountApplied, "account applied")
	assertMoney(t, "10", summary.BalanceApplied, "balance applied")
	assertMoney(t, "60", summary.TotalReceived, "total received")
	assertMoney(t, "10", summary.OutstandingBalance, "outstanding")
	assert.Equal(t, PaymentStatusPartial, summary.PaymentStatus)
}

func TestCompute_CreditAppliedBeforeAccount(t *testing.T) {
	summary := Compute(Request{
		Items:               items("80.00"),
		ApplyCreditBalance:  true,
		ApplyAccountBalance: true,
		CreditBalance:       money("50"),
		AccountBalance:      money("50"),
	})

	assertMoney(t, "50", summary.CreditApplied, "credit applied")
	assertMoney(t, "30", summary.AccountApplied, "account applied")
	assertMoney(t, "0", summary.OutstandingBalance, "outstanding")
	assert.Equal(t, PaymentStatusPaid, summary.PaymentStatus)
}

func TestCompute_BalancesCappedToRemaining(t *testing.T) {
	summary := Compute(Request{
		Items:               items("30.00"),
		AmountCollected:     money("20.00"),
		ApplyCreditBalance:  true,
		ApplyAccountBalance: true,
		CreditBalance:       money("100"),
		AccountBalance:      money("100"),
	})

	assertMoney(t, "10", summary.CreditApplied, "credit applied")
	assertMoney(t, "0", summary.AccountApplied, "account applied")
	assertMoney(t, "30", summary.TotalReceived, "total received")
}

func TestCompute_AccountSkippedWhenCashCovers(t *testing.T) {
	summary := Compute(Request{
		Items:               items("30.00"),
		AmountCollected:     money("30.00"),
		ApplyAccountBalance: true,
		AccountBalance:      money("25"),
	})

	assertMoney(t, "0", summary.AccountApplied, "account applied")
	assert.Equal(t, PaymentStatusPaid, summary.PaymentStatus)
}

func TestCompute_TogglesOffIgnoreBalances(t *testing.T) {
	summary := Compute(Request{
		Items:          items("25.00"),
		CreditBalance:  money("100"),
		AccountBalance: money("100"),
	})

	assertMoney(t, "0", summary.BalanceApplied, "balance applied")
	assertMoney(t, "25", summary.OutstandingBalance, "outstanding")
	assert.Equal(t, PaymentStatusPending, summary.PaymentStatus)
}

func TestCompute_WriteOffAboveCostFloorsAtZero(t *testing.T) {
	summary := Compute(Request{
		Items:          items("10.00"),
		WriteOffAmount: money("15.00"),
	})

	assertMoney(t, "0", summary.NetTotal, "net total")
	assertMoney(t, "0", summary.OutstandingBalance, "outstanding")
	assertMoney(t, "15", summary.WriteOffAmount, "write-off is reported as given")
	assert.Equal(t, PaymentStatusPaid, summary.PaymentStatus)
}

func TestCompute_Overpayment(t *testing.T) {
	summary := Compute(Request{
		Items:              items("20.00"),
		AmountCollected:    money("50.00"),
		ApplyCreditBalance: true,
		CreditBalance:      money("10"),
	})

	assertMoney(t, "0", summary.CreditApplied, "credit not needed")
	assertMoney(t, "50", summary.TotalReceived, "total received")
	assertMoney(t, "0", summary.OutstandingBalance, "outstanding")
	assert.Equal(t, PaymentStatusPaid, summary.PaymentStatus)
}

func TestCompute_EmptySelectionIsZeroCost(t *testing.T) {
	summary := Compute(Request{})

	assertMoney(t, "0", summary.TotalCost, "total cost")
	assertMoney(t, "0", summary.OutstandingBalance, "outstanding")
	assert.Equal(t, PaymentStatusPaid, summary.PaymentStatus)
}

func TestCompute_ExactCentArithmetic(t *testing.T) {
	// 0.1 + 0.2 must equal 0.3 exactly or status would flip to partial
	summary := Compute(Request{
		Items:           items("0.10", "0.20"),
		AmountCollected: money("0.30"),
	})

	assert.Equal(t, PaymentStatusPaid, summary.PaymentStatus)
}

func TestRequest_TotalCost(t *testing.T) {
	assert.True(t, Request{}.TotalCost().IsZero())

	req := Request{Items: items("40.00", "35.00", "0.10")}
	assert.True(t, req.TotalCost().Equal(money("75.10")))
	assert.True(t, Compute(req).TotalCost.Equal(req.TotalCost()))
}

func TestCompute_Properties(t *testing.T) {
	costs := [][]string{{"0"}, {"12.34"}, {"40", "35"}, {"99.99", "0.01", "5"}}
	amounts := []string{"0", "5", "37.50", "80", "250"}

	for _, c := range costs {
		for _, writeOff := range amounts {
			for _, cash := range amounts {
				for _, bal := range amounts {
					for _, toggles := range [][2]bool{{false, false}, {true, false}, {false, true}, {true, true}} {
						req := Request{
							Items:               items(c...),
							WriteOffAmount:      money(writeOff),
							AmountCollected:     money(cash),
							ApplyCreditBalance:  toggles[0],
							ApplyAccountBalance: toggles[1],
							CreditBalance:       money(bal),
							AccountBalance:      money("20"),
						}
						s := Compute(req)

						require.False(t, s.NetTotal.IsNegative(), "net total negative for %+v", req)
						require.False(t, s.OutstandingBalance.IsNegative(), "outstanding negative for %+v", req)
						require.False(t, s.CreditApplied.IsNegative())
						require.False(t, s.AccountApplied.IsNegative())
						require.True(t, s.BalanceApplied.Equal(s.CreditApplied.Add(s.AccountApplied)))
						require.True(t, s.TotalReceived.Equal(s.AmountCollected.Add(s.BalanceApplied)))

						if s.TotalReceived.LessThanOrEqual(s.NetTotal) {
							require.True(t, s.TotalReceived.Add(s.OutstandingBalance).Equal(s.NetTotal),
								"conservation broken for %+v", req)
						} else {
							require.True(t, s.OutstandingBalance.IsZero())
						}

						switch {
						case s.OutstandingBalance.IsZero():
							require.Equal(t, PaymentStatusPaid, s.PaymentStatus)
						case s.TotalReceived.IsPositive():
							require.Equal(t, PaymentStatusPartial, s.PaymentStatus)
						default:
							require.Equal(t, PaymentStatusPending, s.PaymentStatus)
						}

						require.Equal(t, s, Compute(req), "compute must be deterministic")
					}
				}
			}
		}
	}
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		code string
	}{
		{
			name: "valid",
			req:  Request{Items: items("10"), WriteOffAmount: money("10")},
		},
		{
			name: "empty selection",
			req:  Request{},
			code: apperror.CodeEmptySelection,
		},
		{
			name: "write-off above total",
			req:  Request{Items: items("10", "5"), WriteOffAmount: money("15.01")},
			code: apperror.CodeWriteOffExceedsTotal,
		},
		{
			name: "negative cash",
			req:  Request{Items: items("10"), AmountCollected: money("-1")},
			code: apperror.CodeNegativeAmount,
		},
		{
			name: "negative item cost",
			req:  Request{Items: items("10", "-2")},
			code: apperror.CodeNegativeAmount,
		},
		{
			name: "negative credit balance",
			req:  Request{Items: items("10"), CreditBalance: money("-0.01")},
			code: apperror.CodeNegativeAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperror.HasCode(err, tt.code), "got %v", err)
		})
	}
}
