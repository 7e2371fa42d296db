package dto

import (
	"strings"
	"time"

	"parcelhub/internal/core/apperror"
	"parcelhub/internal/core/id"
	"parcelhub/internal/domain/reports"
)

// --- Distribution Register ---

// DistributionRegisterRequest is the query string of the register export.
// Columns may repeat or be comma separated.
type DistributionRegisterRequest struct {
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	CustomerID string     `form:"customerId"`
	Columns    []string   `form:"columns"`
	Limit      int        `form:"limit" binding:"min=0"`
}

func (r *DistributionRegisterRequest) ToFilter() (reports.DistributionRegisterFilter, error) {
	filter := reports.DistributionRegisterFilter{
		Columns: splitColumns(r.Columns),
		Limit:   r.Limit,
	}
	if r.From != nil {
		filter.FromDate = *r.From
	}
	if r.To != nil {
		// The whole "to" day is included.
		filter.ToDate = r.To.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if r.CustomerID != "" {
		customerID, err := id.Parse(r.CustomerID)
		if err != nil {
			return filter, apperror.NewInvalidInput("customerId", "invalid id format")
		}
		filter.CustomerID = &customerID
	}
	return filter, nil
}

// --- Customer Balances ---

type CustomerBalancesRequest struct {
	OnlyOutstanding bool     `form:"onlyOutstanding"`
	Columns         []string `form:"columns"`
	Limit           int      `form:"limit" binding:"min=0"`
}

func (r *CustomerBalancesRequest) ToFilter() reports.CustomerBalancesFilter {
	return reports.CustomerBalancesFilter{
		OnlyOutstanding: r.OnlyOutstanding,
		Columns:         splitColumns(r.Columns),
		Limit:           r.Limit,
	}
}

func splitColumns(values []string) []string {
	var out []string
	for _, v := range values {
		for _, col := range strings.Split(v, ",") {
			if col = strings.TrimSpace(col); col != "" {
				out = append(out, col)
			}
		}
	}
	return out
}
