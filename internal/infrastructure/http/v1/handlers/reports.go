package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"parcelhub/internal/domain/export"
	"parcelhub/internal/domain/reports"
	"parcelhub/internal/infrastructure/http/v1/dto"
)

const csvContentType = "text/csv; charset=utf-8"

// ReportsService is implemented by reports.Service.
type ReportsService interface {
	DistributionRegister(ctx context.Context, filter reports.DistributionRegisterFilter) (export.Table, error)
	CustomerBalances(ctx context.Context, filter reports.CustomerBalancesFilter) (export.Table, error)
}

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service ReportsService
	now     func() time.Time
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service ReportsService) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
		now:         time.Now,
	}
}

// DistributionRegister handles GET /reports/distributions.csv
func (h *ReportsHandler) DistributionRegister(c *gin.Context) {
	var req dto.DistributionRegisterRequest
	if !h.BindQuery(c, &req) {
		return
	}
	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	table, err := h.service.DistributionRegister(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.csv(c, "distributions", table)
}

// CustomerBalances handles GET /reports/customer-balances.csv
func (h *ReportsHandler) CustomerBalances(c *gin.Context) {
	var req dto.CustomerBalancesRequest
	if !h.BindQuery(c, &req) {
		return
	}

	table, err := h.service.CustomerBalances(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.csv(c, "customer-balances", table)
}

// csv renders into a buffer first so a write error still becomes a JSON error.
func (h *ReportsHandler) csv(c *gin.Context, name string, table export.Table) {
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, table); err != nil {
		h.Error(c, fmt.Errorf("write %s csv: %w", name, err))
		return
	}

	filename := fmt.Sprintf("%s-%s.csv", name, h.now().Format(export.DateLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, csvContentType, buf.Bytes())
}
