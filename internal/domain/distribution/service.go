package distribution

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"parcelhub/internal/core/apperror"
	appctx "parcelhub/internal/core/context"
	"parcelhub/internal/core/id"
	"parcelhub/internal/core/tx"
	"parcelhub/internal/core/types"
	"parcelhub/pkg/logger"
	"parcelhub/pkg/numerator"
)

var tracer = otel.Tracer("parcelhub/distribution")

// EntityType is the audit trail entity name for distributions.
const EntityType = "distribution"

// Config holds distribution service settings.
type Config struct {
	// NumberPrefix is prepended to distribution numbers (DST-2026-00001).
	NumberPrefix string
}

// DefaultConfig returns the production settings.
func DefaultConfig() Config {
	return Config{NumberPrefix: "DST"}
}

// ConfirmInput is what the operator submits when handing packages over.
type ConfirmInput struct {
	CustomerID          id.ID
	ItemIDs             []id.ID
	WriteOffAmount      types.Money
	AmountCollected     types.Money
	ApplyCreditBalance  bool
	ApplyAccountBalance bool
	Notes               string
}

// Service provides distribution operations.
type Service struct {
	repo    Repository
	txm     tx.Manager
	numbers NumberGenerator
	audit   Auditor
	cfg     Config
	now     func() time.Time
}

// NewService creates a new distribution service.
// audit may be nil.
func NewService(repo Repository, txm tx.Manager, numbers NumberGenerator, audit Auditor, cfg Config) *Service {
	if cfg.NumberPrefix == "" {
		cfg.NumberPrefix = DefaultConfig().NumberPrefix
	}
	return &Service{
		repo:    repo,
		txm:     txm,
		numbers: numbers,
		audit:   audit,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Preview validates the request and returns the allocation without saving anything.
// The confirmation path goes through the same Compute call, so preview and
// confirmation figures cannot drift apart.
func (s *Service) Preview(ctx context.Context, req Request) (Summary, error) {
	if err := req.Validate(); err != nil {
		return Summary{}, err
	}

	summary := Compute(req)
	logger.Debug(ctx, "distribution preview computed",
		"items", len(req.Items),
		"net_total", summary.NetTotal.String(),
		"outstanding", summary.OutstandingBalance.String(),
		"status", summary.PaymentStatus,
	)
	return summary, nil
}

// Confirm records the distribution: loads current balances and items, computes
// the allocation, assigns a number, stores the record, deducts applied
// balances and marks the items distributed. Everything runs in one transaction.
func (s *Service) Confirm(ctx context.Context, in ConfirmInput) (*Distribution, error) {
	in.ItemIDs = uniqueIDs(in.ItemIDs)
	if len(in.ItemIDs) == 0 {
		return nil, apperror.NewBusinessRule(apperror.CodeEmptySelection, "Select at least one package to distribute")
	}

	ctx, span := tracer.Start(ctx, "distribution.confirm",
		trace.WithAttributes(
			attribute.String("customer.id", in.CustomerID.String()),
			attribute.Int("items.count", len(in.ItemIDs)),
		))
	defer span.End()

	var result *Distribution
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		customer, err := s.repo.GetCustomerForUpdate(ctx, in.CustomerID)
		if err != nil {
			return err
		}

		found, err := s.repo.GetAvailableItems(ctx, customer.ID, in.ItemIDs)
		if err != nil {
			return fmt.Errorf("load items: %w", err)
		}
		items, missing := inSelectionOrder(in.ItemIDs, found)
		if len(missing) > 0 {
			return apperror.NewItemsNotAvailable(id.Strings(missing))
		}

		req := Request{
			Items:               items,
			WriteOffAmount:      in.WriteOffAmount,
			AmountCollected:     in.AmountCollected,
			ApplyCreditBalance:  in.ApplyCreditBalance,
			ApplyAccountBalance: in.ApplyAccountBalance,
			CreditBalance:       customer.CreditBalance,
			AccountBalance:      customer.AccountBalance,
		}
		if err := req.Validate(); err != nil {
			return err
		}
		summary := Compute(req)

		now := s.now().UTC()
		number, err := s.numbers.GetNextNumber(ctx, numerator.DefaultConfig(s.cfg.NumberPrefix), now)
		if err != nil {
			return fmt.Errorf("assign number: %w", err)
		}

		d := &Distribution{
			ID:            id.New(),
			Number:        number,
			CustomerID:    customer.ID,
			CustomerName:  customer.Name,
			Items:         items,
			Summary:       summary,
			Notes:         in.Notes,
			RequestID:     appctx.GetRequestID(ctx),
			DistributedAt: now,
		}

		if err := s.repo.Create(ctx, d); err != nil {
			return fmt.Errorf("create distribution: %w", err)
		}
		if summary.BalanceApplied.IsPositive() {
			if err := s.repo.DeductBalances(ctx, customer.ID, summary.CreditApplied, summary.AccountApplied); err != nil {
				return fmt.Errorf("deduct balances: %w", err)
			}
		}
		if err := s.repo.MarkItemsDistributed(ctx, d.ID, items); err != nil {
			return fmt.Errorf("mark items distributed: %w", err)
		}

		if s.audit != nil {
			if err := s.audit.LogChange(ctx, EntityType, d.ID, "create", auditChanges(d)); err != nil {
				return fmt.Errorf("audit distribution: %w", err)
			}
		}

		result = d
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.String("distribution.number", result.Number))
	logger.Info(ctx, "distribution confirmed",
		"distribution_id", result.ID,
		"number", result.Number,
		"customer_id", result.CustomerID,
		"status", result.Summary.PaymentStatus,
		"outstanding", result.Summary.OutstandingBalance.String(),
	)
	return result, nil
}

// Get returns a confirmed distribution by ID.
func (s *Service) Get(ctx context.Context, distributionID id.ID) (*Distribution, error) {
	d, err := s.repo.GetByID(ctx, distributionID)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// uniqueIDs drops repeated IDs, keeping first-seen order. A package selected
// twice is still one package.
func uniqueIDs(ids []id.ID) []id.ID {
	seen := make(map[id.ID]struct{}, len(ids))
	out := make([]id.ID, 0, len(ids))
	for _, v := range ids {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// inSelectionOrder orders found items the way they were requested and reports
// requested IDs that were not found. Each item is returned at most once.
func inSelectionOrder(requested []id.ID, found []LineItem) ([]LineItem, []id.ID) {
	byID := make(map[id.ID]LineItem, len(found))
	for _, item := range found {
		byID[item.ID] = item
	}

	items := make([]LineItem, 0, len(requested))
	taken := make(map[id.ID]struct{}, len(requested))
	var missing []id.ID
	for _, itemID := range requested {
		if _, dup := taken[itemID]; dup {
			continue
		}
		taken[itemID] = struct{}{}

		item, ok := byID[itemID]
		if !ok {
			missing = append(missing, itemID)
			continue
		}
		items = append(items, item)
	}
	return items, missing
}

func auditChanges(d *Distribution) map[string]any {
	return map[string]any{
		"number":              d.Number,
		"customer_id":         d.CustomerID.String(),
		"item_ids":            id.Strings(d.ItemIDs()),
		"total_cost":          d.Summary.TotalCost.String(),
		"write_off_amount":    d.Summary.WriteOffAmount.String(),
		"net_total":           d.Summary.NetTotal.String(),
		"amount_collected":    d.Summary.AmountCollected.String(),
		"credit_applied":      d.Summary.CreditApplied.String(),
		"account_applied":     d.Summary.AccountApplied.String(),
		"outstanding_balance": d.Summary.OutstandingBalance.String(),
		"payment_status":      string(d.Summary.PaymentStatus),
	}
}
