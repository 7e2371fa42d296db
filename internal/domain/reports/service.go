package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"parcelhub/internal/core/apperror"
	"parcelhub/internal/core/tx"
	"parcelhub/internal/domain/export"
	"parcelhub/pkg/logger"
)

// Service provides report generation operations.
type Service struct {
	repo Repository
	txm  tx.ReadOnlyManager
	now  func() time.Time
}

// NewService creates a new reports service.
func NewService(repo Repository, txm tx.ReadOnlyManager) *Service {
	return &Service{repo: repo, txm: txm, now: time.Now}
}

// DistributionRegister returns confirmed distributions as an export table.
func (s *Service) DistributionRegister(ctx context.Context, filter DistributionRegisterFilter) (export.Table, error) {
	if filter.ToDate.IsZero() {
		filter.ToDate = s.now()
	}
	if filter.FromDate.IsZero() {
		filter.FromDate = filter.ToDate.Add(-defaultRange)
	}
	if filter.FromDate.After(filter.ToDate) {
		return export.Table{}, apperror.NewInvalidInput("from", "fromDate must be before toDate")
	}
	filter.Limit = clampLimit(filter.Limit)
	headers := columnsOrDefault(filter.Columns, DistributionRegisterColumns)

	var rows []DistributionRegisterRow
	err := s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		rows, err = s.repo.ListDistributions(ctx, filter)
		return err
	})
	if err != nil {
		return export.Table{}, fmt.Errorf("distribution register: %w", err)
	}

	logger.Debug(ctx, "distribution register built", "rows", len(rows), "columns", len(headers))
	return export.BuildTable(headers, export.Rows(rows)), nil
}

// CustomerBalances returns per-customer balances as an export table.
func (s *Service) CustomerBalances(ctx context.Context, filter CustomerBalancesFilter) (export.Table, error) {
	filter.Limit = clampLimit(filter.Limit)
	headers := columnsOrDefault(filter.Columns, CustomerBalancesColumns)

	var rows []map[string]any
	err := s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		rows, err = s.repo.ListCustomerBalances(ctx, filter)
		return err
	})
	if err != nil {
		return export.Table{}, fmt.Errorf("customer balances: %w", err)
	}

	logger.Debug(ctx, "customer balances built", "rows", len(rows), "columns", len(headers))
	return export.BuildTable(headers, export.Rows(rows)), nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func columnsOrDefault(columns, defaults []string) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return defaults
	}
	return out
}
