package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNonNegative(t *testing.T) {
	assert.True(t, NonNegative(MustMoney("-0.01")).IsZero())
	assert.True(t, NonNegative(MustMoney("12.50")).Equal(MustMoney("12.5")))
}

func TestMinMoney(t *testing.T) {
	assert.True(t, MinMoney(MustMoney("10"), MustMoney("20")).Equal(MustMoney("10")))
	assert.True(t, MinMoney(MustMoney("20"), MustMoney("10")).Equal(MustMoney("10")))
}

func TestSumMoney(t *testing.T) {
	assert.True(t, SumMoney().IsZero())
	assert.True(t, SumMoney(MustMoney("40.00"), MustMoney("35.00")).Equal(MustMoney("75")))
	// float addition would drift here
	assert.True(t, SumMoney(MustMoney("0.1"), MustMoney("0.2")).Equal(MustMoney("0.3")))
}

func TestToMoney(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
		ok   bool
	}{
		{"int", 12, "12", true},
		{"float", 12.5, "12.5", true},
		{"numeric string", " 45 ", "45", true},
		{"exponent string", "1e2", "100", true},
		{"decimal", decimal.RequireFromString("3.14"), "3.14", true},
		{"text", "n/a", "0", false},
		{"nil", nil, "0", false},
		{"bool", true, "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToMoney(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, got.Equal(MustMoney(tt.want)), "got %s", got)
		})
	}
}
