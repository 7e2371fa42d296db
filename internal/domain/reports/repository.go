package reports

import (
	"context"
)

// Repository defines report data access interface.
type Repository interface {
	ListDistributions(ctx context.Context, filter DistributionRegisterFilter) ([]DistributionRegisterRow, error)

	// ListCustomerBalances returns one column map per customer.
	ListCustomerBalances(ctx context.Context, filter CustomerBalancesFilter) ([]map[string]any, error)
}
