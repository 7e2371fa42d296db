package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"parcelhub/internal/core/id"
	"parcelhub/internal/domain/distribution"
	"parcelhub/internal/infrastructure/http/v1/dto"
	"parcelhub/internal/infrastructure/storage/postgres"
)

// DistributionService is implemented by distribution.Service.
type DistributionService interface {
	Preview(ctx context.Context, req distribution.Request) (distribution.Summary, error)
	Confirm(ctx context.Context, in distribution.ConfirmInput) (*distribution.Distribution, error)
	Get(ctx context.Context, distributionID id.ID) (*distribution.Distribution, error)
}

// HistorySource reads audit trail entries.
type HistorySource interface {
	GetEntityHistory(ctx context.Context, entityType string, entityID id.ID, limit int) ([]postgres.AuditEntry, error)
}

const historyLimit = 50

// DistributionHandler handles HTTP requests for distributions.
type DistributionHandler struct {
	*BaseHandler
	service DistributionService
	history HistorySource
}

// NewDistributionHandler creates a new distribution handler. history may be nil.
func NewDistributionHandler(base *BaseHandler, service DistributionService, history HistorySource) *DistributionHandler {
	return &DistributionHandler{
		BaseHandler: base,
		service:     service,
		history:     history,
	}
}

// Preview handles POST /distributions/preview
func (h *DistributionHandler) Preview(c *gin.Context) {
	var req dto.PreviewDistributionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	summary, err := h.service.Preview(c.Request.Context(), req.ToRequest())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, summary)
}

// Confirm handles POST /distributions
func (h *DistributionHandler) Confirm(c *gin.Context) {
	var req dto.ConfirmDistributionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	d, err := h.service.Confirm(c.Request.Context(), input)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromDistribution(d))
}

// Get handles GET /distributions/:id
func (h *DistributionHandler) Get(c *gin.Context) {
	distributionID, ok := h.ParamID(c)
	if !ok {
		return
	}

	d, err := h.service.Get(c.Request.Context(), distributionID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromDistribution(d))
}

// History handles GET /distributions/:id/history
func (h *DistributionHandler) History(c *gin.Context) {
	distributionID, ok := h.ParamID(c)
	if !ok {
		return
	}

	entries, err := h.history.GetEntityHistory(c.Request.Context(), distribution.EntityType, distributionID, historyLimit)
	if err != nil {
		h.Error(c, err)
		return
	}
	if entries == nil {
		entries = []postgres.AuditEntry{}
	}

	h.OK(c, gin.H{"items": entries})
}
