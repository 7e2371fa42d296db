// Package report_repo provides PostgreSQL implementations for report repositories.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"parcelhub/internal/domain/reports"
	"parcelhub/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

var _ reports.Repository = (*ReportRepo)(nil)

// NewReportRepo creates a new report repository.
func NewReportRepo(txm *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListDistributions returns register rows, newest first.
func (r *ReportRepo) ListDistributions(ctx context.Context, filter reports.DistributionRegisterFilter) ([]reports.DistributionRegisterRow, error) {
	sql, args, err := r.distributionsQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build register query: %w", err)
	}

	var rows []reports.DistributionRegisterRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("distribution register: %w", err)
	}
	return rows, nil
}

// ListCustomerBalances returns one column map per customer. Money columns are
// cast to text so they reach the export layer as exact decimal strings.
func (r *ReportRepo) ListCustomerBalances(ctx context.Context, filter reports.CustomerBalancesFilter) ([]map[string]any, error) {
	sql, args, err := r.customerBalancesQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build balances query: %w", err)
	}

	rows, err := r.txm.GetQuerier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("customer balances: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("collect customer balances: %w", err)
	}
	return out, nil
}

func (r *ReportRepo) distributionsQuery(filter reports.DistributionRegisterFilter) squirrel.SelectBuilder {
	q := r.builder.
		Select(
			"d.number",
			"d.distributed_at",
			"d.customer_name",
			"c.account_number",
			"(SELECT count(*) FROM distribution_items i WHERE i.distribution_id = d.id) AS item_count",
			"d.total_cost",
			"d.write_off_amount",
			"d.net_total",
			"d.amount_collected",
			"d.credit_applied",
			"d.account_applied",
			"d.outstanding_balance",
			"d.payment_status",
			"d.notes",
		).
		From("distributions d").
		Join("customers c ON c.id = d.customer_id").
		Where(squirrel.GtOrEq{"d.distributed_at": filter.FromDate}).
		Where(squirrel.LtOrEq{"d.distributed_at": filter.ToDate}).
		OrderBy("d.distributed_at DESC", "d.number DESC").
		Limit(uint64(filter.Limit))

	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"d.customer_id": *filter.CustomerID})
	}
	return q
}

func (r *ReportRepo) customerBalancesQuery(filter reports.CustomerBalancesFilter) squirrel.SelectBuilder {
	q := r.builder.
		Select(
			"c.account_number",
			"c.name",
			"c.credit_balance::text AS credit_balance",
			"c.account_balance::text AS account_balance",
			"COALESCE(agg.outstanding, 0)::text AS outstanding",
			"(SELECT count(*) FROM packages p WHERE p.customer_id = c.id AND p.status = 'ready') + "+
				"(SELECT count(*) FROM consolidated_packages cp WHERE cp.customer_id = c.id AND cp.status = 'ready') AS open_items",
			"agg.last_distribution_date",
		).
		From("customers c").
		LeftJoin("(SELECT customer_id, sum(outstanding_balance) AS outstanding, max(distributed_at) AS last_distribution_date " +
			"FROM distributions GROUP BY customer_id) agg ON agg.customer_id = c.id").
		OrderBy("c.name").
		Limit(uint64(filter.Limit))

	if filter.OnlyOutstanding {
		q = q.Where(squirrel.Gt{"COALESCE(agg.outstanding, 0)": 0})
	}
	return q
}
