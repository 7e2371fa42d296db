// Package reports builds the exportable back-office reports.
package reports

import (
	"time"

	"parcelhub/internal/core/id"
	"parcelhub/internal/core/types"
)

// --- Distribution Register ---

// DistributionRegisterFilter selects confirmed distributions for the register.
type DistributionRegisterFilter struct {
	// Period, inclusive. Defaults to the last 30 days up to now.
	FromDate time.Time
	ToDate   time.Time

	CustomerID *id.ID

	// Columns overrides DistributionRegisterColumns.
	Columns []string

	Limit int
}

// DistributionRegisterRow is one confirmed distribution.
type DistributionRegisterRow struct {
	Number             string      `db:"number"`
	DistributionDate   time.Time   `db:"distributed_at" csv:"distribution_date"`
	CustomerName       string      `db:"customer_name" csv:"customer"`
	AccountNumber      string      `db:"account_number"`
	ItemCount          int         `db:"item_count" csv:"items"`
	TotalCost          types.Money `db:"total_cost"`
	WriteOffAmount     types.Money `db:"write_off_amount"`
	NetTotal           types.Money `db:"net_total"`
	AmountCollected    types.Money `db:"amount_collected"`
	CreditApplied      types.Money `db:"credit_applied" csv:"credit_balance_applied"`
	AccountApplied     types.Money `db:"account_applied" csv:"account_balance_applied"`
	OutstandingBalance types.Money `db:"outstanding_balance"`
	PaymentStatus      string      `db:"payment_status" csv:"status"`
	Notes              string      `db:"notes"`
}

// DistributionRegisterColumns is the default register layout.
var DistributionRegisterColumns = []string{
	"Number",
	"Distribution Date",
	"Customer",
	"Account Number",
	"Items",
	"Total Cost",
	"Write Off Amount",
	"Net Total",
	"Amount Collected",
	"Credit Balance Applied",
	"Account Balance Applied",
	"Outstanding Balance",
	"Status",
}

// --- Customer Balances ---

// CustomerBalancesFilter selects customers for the balances report.
type CustomerBalancesFilter struct {
	// OnlyOutstanding keeps customers that still owe on a distribution.
	OnlyOutstanding bool

	// Columns overrides CustomerBalancesColumns.
	Columns []string

	Limit int
}

// CustomerBalancesColumns is the default balances layout. The repository
// returns plain column maps keyed by these headers' snake_case form.
var CustomerBalancesColumns = []string{
	"Account Number",
	"Name",
	"Credit Balance",
	"Account Balance",
	"Outstanding",
	"Open Items",
	"Last Distribution Date",
}

const (
	defaultLimit = 10000
	maxLimit     = 50000
	defaultRange = 30 * 24 * time.Hour
)
