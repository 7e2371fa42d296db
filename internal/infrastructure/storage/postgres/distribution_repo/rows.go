package distribution_repo

import (
	"time"

	"parcelhub/internal/core/id"
	"parcelhub/internal/core/types"
	"parcelhub/internal/domain/distribution"
)

// distributionRow is the distributions table layout.
type distributionRow struct {
	ID                 id.ID       `db:"id"`
	Number             string      `db:"number"`
	CustomerID         id.ID       `db:"customer_id"`
	CustomerName       string      `db:"customer_name"`
	TotalCost          types.Money `db:"total_cost"`
	WriteOffAmount     types.Money `db:"write_off_amount"`
	NetTotal           types.Money `db:"net_total"`
	AmountCollected    types.Money `db:"amount_collected"`
	CreditApplied      types.Money `db:"credit_applied"`
	AccountApplied     types.Money `db:"account_applied"`
	BalanceApplied     types.Money `db:"balance_applied"`
	TotalReceived      types.Money `db:"total_received"`
	OutstandingBalance types.Money `db:"outstanding_balance"`
	PaymentStatus      string      `db:"payment_status"`
	Notes              string      `db:"notes"`
	RequestID          string      `db:"request_id"`
	DistributedAt      time.Time   `db:"distributed_at"`
}

// itemRow is a distribution_items row: a snapshot of the item as handed over.
type itemRow struct {
	DistributionID id.ID       `db:"distribution_id"`
	Position       int         `db:"position"`
	ItemID         id.ID       `db:"item_id"`
	Kind           string      `db:"item_kind"`
	TrackingNumber string      `db:"tracking_number"`
	TotalCost      types.Money `db:"total_cost"`
	Weight         types.Money `db:"weight"`
	Description    string      `db:"description"`
}

func toRow(d *distribution.Distribution) distributionRow {
	s := d.Summary
	return distributionRow{
		ID:                 d.ID,
		Number:             d.Number,
		CustomerID:         d.CustomerID,
		CustomerName:       d.CustomerName,
		TotalCost:          s.TotalCost,
		WriteOffAmount:     s.WriteOffAmount,
		NetTotal:           s.NetTotal,
		AmountCollected:    s.AmountCollected,
		CreditApplied:      s.CreditApplied,
		AccountApplied:     s.AccountApplied,
		BalanceApplied:     s.BalanceApplied,
		TotalReceived:      s.TotalReceived,
		OutstandingBalance: s.OutstandingBalance,
		PaymentStatus:      string(s.PaymentStatus),
		Notes:              d.Notes,
		RequestID:          d.RequestID,
		DistributedAt:      d.DistributedAt,
	}
}

func toItemRow(distributionID id.ID, position int, item distribution.LineItem) itemRow {
	return itemRow{
		DistributionID: distributionID,
		Position:       position,
		ItemID:         item.ID,
		Kind:           string(item.Kind),
		TrackingNumber: item.TrackingNumber,
		TotalCost:      item.TotalCost,
		Weight:         item.Weight,
		Description:    item.Description,
	}
}

func (row distributionRow) toDomain(items []itemRow) *distribution.Distribution {
	d := &distribution.Distribution{
		ID:           row.ID,
		Number:       row.Number,
		CustomerID:   row.CustomerID,
		CustomerName: row.CustomerName,
		Summary: distribution.Summary{
			TotalCost:          row.TotalCost,
			WriteOffAmount:     row.WriteOffAmount,
			NetTotal:           row.NetTotal,
			AmountCollected:    row.AmountCollected,
			CreditApplied:      row.CreditApplied,
			AccountApplied:     row.AccountApplied,
			BalanceApplied:     row.BalanceApplied,
			TotalReceived:      row.TotalReceived,
			OutstandingBalance: row.OutstandingBalance,
			PaymentStatus:      distribution.PaymentStatus(row.PaymentStatus),
		},
		Notes:         row.Notes,
		RequestID:     row.RequestID,
		DistributedAt: row.DistributedAt,
		Items:         make([]distribution.LineItem, len(items)),
	}
	for i, it := range items {
		d.Items[i] = distribution.LineItem{
			ID:             it.ItemID,
			Kind:           distribution.ItemKind(it.Kind),
			TrackingNumber: it.TrackingNumber,
			TotalCost:      it.TotalCost,
			Weight:         it.Weight,
			Description:    it.Description,
		}
	}
	return d
}
