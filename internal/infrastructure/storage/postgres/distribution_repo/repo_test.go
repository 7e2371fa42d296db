package distribution_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parcelhub/internal/core/id"
	"parcelhub/internal/core/types"
	"parcelhub/internal/domain/distribution"
)

func newTestRepo() *Repo {
	return New(nil)
}

func TestCustomerQuery(t *testing.T) {
	customerID := id.New()

	sql, args, err := newTestRepo().customerQuery(customerID).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, name, account_number, credit_balance, account_balance FROM customers WHERE id = $1 FOR UPDATE",
		sql)
	// squirrel.Eq resolves driver.Valuer values, so the UUID travels as text
	assert.Equal(t, []any{customerID.String()}, args)
}

func TestAvailableItemsQuery(t *testing.T) {
	customerID := id.New()
	ids := []id.ID{id.New(), id.New()}

	sql, args, err := newTestRepo().availableItemsQuery(distribution.ItemKindConsolidated, customerID, ids).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, tracking_number, total_cost, COALESCE(weight, 0) AS weight, COALESCE(description, '') AS description, $1::text AS kind "+
			"FROM consolidated_packages WHERE customer_id = $2 AND id IN ($3,$4) AND status = $5 FOR UPDATE",
		sql)
	assert.Equal(t, []any{"consolidated", customerID.String(), ids[0], ids[1], "ready"}, args)
}

func TestInsertDistribution(t *testing.T) {
	d := &distribution.Distribution{
		ID:         id.New(),
		Number:     "DST-2026-00001",
		CustomerID: id.New(),
		Summary: distribution.Summary{
			TotalCost:     types.MustMoney("75"),
			PaymentStatus: distribution.PaymentStatusPartial,
		},
		DistributedAt: time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC),
	}

	sql, args, err := newTestRepo().insertDistribution(toRow(d)).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "INSERT INTO distributions (")
	assert.Len(t, args, len(distributionColumns))
	assert.Contains(t, args, "DST-2026-00001")
	assert.Contains(t, args, "partial")
}

func TestInsertItems_KeepsSelectionOrder(t *testing.T) {
	distID := id.New()
	items := []distribution.LineItem{
		{ID: id.New(), Kind: distribution.ItemKindConsolidated, TrackingNumber: "CP-77", TotalCost: types.MustMoney("35")},
		{ID: id.New(), Kind: distribution.ItemKindPackage, TrackingNumber: "1Z999", TotalCost: types.MustMoney("40")},
	}

	sql, args, err := newTestRepo().insertItems(distID, items).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO distribution_items (distribution_id,position,item_id,item_kind,tracking_number,total_cost,weight,description) "+
			"VALUES ($1,$2,$3,$4,$5,$6,$7,$8),($9,$10,$11,$12,$13,$14,$15,$16)",
		sql)
	assert.Equal(t, 0, args[1])
	assert.Equal(t, items[0].ID, args[2])
	assert.Equal(t, "consolidated", args[3])
	assert.Equal(t, 1, args[9])
	assert.Equal(t, "1Z999", args[12])
}

func TestDeductBalances(t *testing.T) {
	customerID := id.New()
	credit, account := types.MustMoney("10"), types.MustMoney("2.5")

	sql, args, err := newTestRepo().deductBalances(customerID, credit, account).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"UPDATE customers SET credit_balance = credit_balance - $1, account_balance = account_balance - $2, updated_at = now() WHERE id = $3",
		sql)
	assert.Equal(t, []any{credit, account, customerID.String()}, args)
}

func TestMarkDistributed(t *testing.T) {
	distID := id.New()
	ids := []id.ID{id.New()}
	at := time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)

	sql, args, err := newTestRepo().markDistributed(distribution.ItemKindPackage, distID, ids, at).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"UPDATE packages SET status = $1, distribution_id = $2, distributed_at = $3 WHERE id IN ($4) AND status = $5",
		sql)
	assert.Equal(t, []any{"distributed", distID, at, ids[0], "ready"}, args)
}

func TestRowRoundTrip(t *testing.T) {
	d := &distribution.Distribution{
		ID:           id.New(),
		Number:       "DST-2026-00002",
		CustomerID:   id.New(),
		CustomerName: "Ana Li",
		Summary:      distribution.Compute(distribution.Request{}),
		Items: []distribution.LineItem{
			{ID: id.New(), Kind: distribution.ItemKindPackage, TrackingNumber: "1Z1", TotalCost: types.Zero(), Weight: types.Zero()},
		},
	}

	items := []itemRow{toItemRow(d.ID, 0, d.Items[0])}
	got := toRow(d).toDomain(items)
	assert.Equal(t, d.Items, got.Items)
	assert.Equal(t, d.Summary.PaymentStatus, got.Summary.PaymentStatus)
	assert.Equal(t, d.Number, got.Number)
}
