// Package distribution_repo provides the PostgreSQL implementation of
// distribution.Repository.
package distribution_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"parcelhub/internal/core/apperror"
	"parcelhub/internal/core/id"
	"parcelhub/internal/core/types"
	"parcelhub/internal/domain/distribution"
	"parcelhub/internal/infrastructure/storage/postgres"
)

const (
	tableCustomers     = "customers"
	tableDistributions = "distributions"
	tableItems         = "distribution_items"

	statusReady       = "ready"
	statusDistributed = "distributed"
)

// itemTables maps item kinds to the tables that hold them.
var itemTables = map[distribution.ItemKind]string{
	distribution.ItemKindPackage:      "packages",
	distribution.ItemKindConsolidated: "consolidated_packages",
}

// kindOrder fixes the query order over itemTables.
var kindOrder = []distribution.ItemKind{distribution.ItemKindPackage, distribution.ItemKindConsolidated}

var (
	distributionColumns = postgres.ExtractDBColumns[distributionRow]()
	itemColumns         = postgres.ExtractDBColumns[itemRow]()
)

// Repo implements distribution.Repository.
type Repo struct {
	txm     *postgres.TxManager
	batch   *postgres.BatchExecutor
	builder squirrel.StatementBuilderType
}

var _ distribution.Repository = (*Repo)(nil)

// New creates a distribution repository.
func New(txm *postgres.TxManager) *Repo {
	return &Repo{
		txm:     txm,
		batch:   postgres.NewBatchExecutor(txm),
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetCustomerForUpdate implements distribution.Repository.
func (r *Repo) GetCustomerForUpdate(ctx context.Context, customerID id.ID) (*distribution.Customer, error) {
	sql, args, err := r.customerQuery(customerID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build customer query: %w", err)
	}

	var c distribution.Customer
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("customer", customerID)
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// GetAvailableItems implements distribution.Repository.
func (r *Repo) GetAvailableItems(ctx context.Context, customerID id.ID, itemIDs []id.ID) ([]distribution.LineItem, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	var out []distribution.LineItem
	for _, kind := range kindOrder {
		sql, args, err := r.availableItemsQuery(kind, customerID, itemIDs).ToSql()
		if err != nil {
			return nil, fmt.Errorf("build items query: %w", err)
		}

		var items []distribution.LineItem
		if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
			return nil, fmt.Errorf("select %s: %w", itemTables[kind], err)
		}
		out = append(out, items...)
	}
	return out, nil
}

// Create implements distribution.Repository.
func (r *Repo) Create(ctx context.Context, d *distribution.Distribution) error {
	q := r.txm.GetQuerier(ctx)

	sql, args, err := r.insertDistribution(toRow(d)).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", tableDistributions, err)
	}

	if len(d.Items) == 0 {
		return nil
	}
	sql, args, err = r.insertItems(d.ID, d.Items).ToSql()
	if err != nil {
		return fmt.Errorf("build items insert: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", tableItems, err)
	}
	return nil
}

// DeductBalances implements distribution.Repository.
func (r *Repo) DeductBalances(ctx context.Context, customerID id.ID, credit, account types.Money) error {
	sql, args, err := r.deductBalances(customerID, credit, account).ToSql()
	if err != nil {
		return fmt.Errorf("build balance update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update customer balances: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("customer", customerID)
	}
	return nil
}

// MarkItemsDistributed implements distribution.Repository. Both item tables
// are updated in one batch. Items that are no longer ready (a concurrent
// hand-over won the race) fail the whole call.
func (r *Repo) MarkItemsDistributed(ctx context.Context, distributionID id.ID, items []distribution.LineItem) error {
	byKind := make(map[distribution.ItemKind][]id.ID)
	for _, item := range items {
		byKind[item.Kind] = append(byKind[item.Kind], item.ID)
	}

	now := time.Now().UTC()
	var (
		queries []postgres.BatchQuery
		kinds   []distribution.ItemKind
	)
	for _, kind := range kindOrder {
		ids := byKind[kind]
		if len(ids) == 0 {
			continue
		}
		sql, args, err := r.markDistributed(kind, distributionID, ids, now).ToSql()
		if err != nil {
			return fmt.Errorf("build item update: %w", err)
		}
		queries = append(queries, postgres.BatchQuery{SQL: sql, Args: args})
		kinds = append(kinds, kind)
	}

	tags, err := r.batch.ExecuteBatch(ctx, queries)
	if err != nil {
		return fmt.Errorf("update item status: %w", err)
	}
	for i, tag := range tags {
		if tag.RowsAffected() != int64(len(byKind[kinds[i]])) {
			return apperror.NewConflict("Some items were distributed by another operator").
				WithDetail("kind", string(kinds[i]))
		}
	}
	return nil
}

// GetByID implements distribution.Repository.
func (r *Repo) GetByID(ctx context.Context, distributionID id.ID) (*distribution.Distribution, error) {
	q := r.txm.GetQuerier(ctx)

	sql, args, err := r.builder.
		Select(distributionColumns...).
		From(tableDistributions).
		Where(squirrel.Eq{"id": distributionID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var row distributionRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("distribution", distributionID)
		}
		return nil, fmt.Errorf("get distribution: %w", err)
	}

	sql, args, err = r.builder.
		Select(itemColumns...).
		From(tableItems).
		Where(squirrel.Eq{"distribution_id": distributionID}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build items select: %w", err)
	}

	var items []itemRow
	if err := pgxscan.Select(ctx, q, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select distribution items: %w", err)
	}

	return row.toDomain(items), nil
}

// --- query builders ---

func (r *Repo) customerQuery(customerID id.ID) squirrel.SelectBuilder {
	return r.builder.
		Select("id", "name", "account_number", "credit_balance", "account_balance").
		From(tableCustomers).
		Where(squirrel.Eq{"id": customerID}).
		Suffix("FOR UPDATE")
}

func (r *Repo) availableItemsQuery(kind distribution.ItemKind, customerID id.ID, itemIDs []id.ID) squirrel.SelectBuilder {
	return r.builder.
		Select("id", "tracking_number", "total_cost", "COALESCE(weight, 0) AS weight", "COALESCE(description, '') AS description").
		Column("?::text AS kind", string(kind)).
		From(itemTables[kind]).
		Where(squirrel.Eq{
			"customer_id": customerID,
			"id":          itemIDs,
			"status":      statusReady,
		}).
		Suffix("FOR UPDATE")
}

func (r *Repo) insertDistribution(row distributionRow) squirrel.InsertBuilder {
	return r.builder.
		Insert(tableDistributions).
		SetMap(postgres.StructToMap(row))
}

func (r *Repo) insertItems(distributionID id.ID, items []distribution.LineItem) squirrel.InsertBuilder {
	q := r.builder.Insert(tableItems).Columns(itemColumns...)
	for i, item := range items {
		row := toItemRow(distributionID, i, item)
		values := postgres.StructToMap(row)
		args := make([]any, len(itemColumns))
		for j, col := range itemColumns {
			args[j] = values[col]
		}
		q = q.Values(args...)
	}
	return q
}

func (r *Repo) deductBalances(customerID id.ID, credit, account types.Money) squirrel.UpdateBuilder {
	return r.builder.
		Update(tableCustomers).
		Set("credit_balance", squirrel.Expr("credit_balance - ?", credit)).
		Set("account_balance", squirrel.Expr("account_balance - ?", account)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": customerID})
}

func (r *Repo) markDistributed(kind distribution.ItemKind, distributionID id.ID, ids []id.ID, at time.Time) squirrel.UpdateBuilder {
	return r.builder.
		Update(itemTables[kind]).
		Set("status", statusDistributed).
		Set("distribution_id", distributionID).
		Set("distributed_at", at).
		Where(squirrel.Eq{"id": ids, "status": statusReady})
}
