package distribution

import (
	"context"
	"time"

	"parcelhub/internal/core/id"
	"parcelhub/internal/core/types"
	"parcelhub/pkg/numerator"
)

// Repository defines distribution data access.
// Implementations read the transaction from ctx when one is active.
type Repository interface {
	// GetCustomerForUpdate loads the customer and locks the row until the
	// surrounding transaction ends.
	GetCustomerForUpdate(ctx context.Context, customerID id.ID) (*Customer, error)

	// GetAvailableItems returns the requested packages and consolidated
	// packages that belong to the customer and are ready for distribution.
	// Unavailable IDs are silently left out of the result.
	GetAvailableItems(ctx context.Context, customerID id.ID, itemIDs []id.ID) ([]LineItem, error)

	Create(ctx context.Context, d *Distribution) error

	// DeductBalances subtracts applied credit and account amounts from the customer.
	DeductBalances(ctx context.Context, customerID id.ID, credit, account types.Money) error

	MarkItemsDistributed(ctx context.Context, distributionID id.ID, items []LineItem) error

	GetByID(ctx context.Context, distributionID id.ID) (*Distribution, error)
}

// NumberGenerator assigns human-readable distribution numbers.
type NumberGenerator interface {
	GetNextNumber(ctx context.Context, cfg numerator.Config, period time.Time) (string, error)
}

// Auditor records confirmed distributions in the audit trail.
type Auditor interface {
	LogChange(ctx context.Context, entityType string, entityID id.ID, action string, changes map[string]any) error
}
