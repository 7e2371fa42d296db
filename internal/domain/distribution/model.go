// Package distribution handles handing packages over to customers: how much
// of the bill is settled by cash, credit balance and account balance, and the
// resulting distribution record.
package distribution

import (
	"time"

	"parcelhub/internal/core/id"
	"parcelhub/internal/core/types"
)

// ItemKind tells single packages apart from consolidated shipments.
type ItemKind string

const (
	ItemKindPackage      ItemKind = "package"
	ItemKindConsolidated ItemKind = "consolidated"
)

// LineItem is a package or consolidated package selected for distribution.
// Only TotalCost takes part in payment allocation.
type LineItem struct {
	ID             id.ID       `db:"id" json:"id"`
	Kind           ItemKind    `db:"kind" json:"kind"`
	TrackingNumber string      `db:"tracking_number" json:"trackingNumber"`
	TotalCost      types.Money `db:"total_cost" json:"totalCost"`
	Weight         types.Money `db:"weight" json:"weight"`
	Description    string      `db:"description" json:"description"`
}

// Request is the full set of inputs for one allocation.
// It is built fresh from the current selection for every computation.
type Request struct {
	Items               []LineItem
	WriteOffAmount      types.Money
	AmountCollected     types.Money
	ApplyCreditBalance  bool
	ApplyAccountBalance bool
	CreditBalance       types.Money
	AccountBalance      types.Money
}

// PaymentStatus summarises how much of the net total is covered.
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPending PaymentStatus = "pending"
)

// Summary is the derived result of an allocation. It is never mutated after
// Compute returns; recompute instead.
type Summary struct {
	TotalCost          types.Money   `json:"totalCost"`
	WriteOffAmount     types.Money   `json:"writeOffAmount"`
	NetTotal           types.Money   `json:"netTotal"`
	AmountCollected    types.Money   `json:"amountCollected"`
	CreditApplied      types.Money   `json:"creditApplied"`
	AccountApplied     types.Money   `json:"accountApplied"`
	BalanceApplied     types.Money   `json:"balanceApplied"`
	TotalReceived      types.Money   `json:"totalReceived"`
	OutstandingBalance types.Money   `json:"outstandingBalance"`
	PaymentStatus      PaymentStatus `json:"paymentStatus"`
}

// Customer is the part of a customer record allocation cares about.
type Customer struct {
	ID             id.ID       `db:"id"`
	Name           string      `db:"name"`
	AccountNumber  string      `db:"account_number"`
	CreditBalance  types.Money `db:"credit_balance"`
	AccountBalance types.Money `db:"account_balance"`
}

// Distribution is a confirmed hand-over of items to a customer.
type Distribution struct {
	ID            id.ID
	Number        string
	CustomerID    id.ID
	CustomerName  string
	Items         []LineItem
	Summary       Summary
	Notes         string
	RequestID     string
	DistributedAt time.Time
}

// ItemIDs returns the IDs of the distributed items in selection order.
func (d *Distribution) ItemIDs() []id.ID {
	ids := make([]id.ID, len(d.Items))
	for i, item := range d.Items {
		ids[i] = item.ID
	}
	return ids
}
