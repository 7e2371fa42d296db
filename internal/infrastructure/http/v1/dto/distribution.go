// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"parcelhub/internal/core/apperror"
	"parcelhub/internal/core/id"
	"parcelhub/internal/core/types"
	"parcelhub/internal/domain/distribution"
)

// --- Request DTOs ---

// PreviewItemRequest is one selected item in a preview request.
type PreviewItemRequest struct {
	ID             string      `json:"id"`
	Kind           string      `json:"kind,omitempty"`
	TrackingNumber string      `json:"trackingNumber,omitempty"`
	TotalCost      types.Money `json:"totalCost"`
}

// PreviewDistributionRequest carries the live form state. Balances come from
// the client because nothing is locked or persisted during preview.
type PreviewDistributionRequest struct {
	Items               []PreviewItemRequest `json:"items"`
	WriteOffAmount      types.Money          `json:"writeOffAmount"`
	AmountCollected     types.Money          `json:"amountCollected"`
	ApplyCreditBalance  bool                 `json:"applyCreditBalance"`
	ApplyAccountBalance bool                 `json:"applyAccountBalance"`
	CreditBalance       types.Money          `json:"creditBalance"`
	AccountBalance      types.Money          `json:"accountBalance"`
}

func (r *PreviewDistributionRequest) ToRequest() distribution.Request {
	items := make([]distribution.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		itemID, _ := id.Parse(item.ID)
		items = append(items, distribution.LineItem{
			ID:             itemID,
			Kind:           distribution.ItemKind(item.Kind),
			TrackingNumber: item.TrackingNumber,
			TotalCost:      item.TotalCost,
		})
	}
	return distribution.Request{
		Items:               items,
		WriteOffAmount:      r.WriteOffAmount,
		AmountCollected:     r.AmountCollected,
		ApplyCreditBalance:  r.ApplyCreditBalance,
		ApplyAccountBalance: r.ApplyAccountBalance,
		CreditBalance:       r.CreditBalance,
		AccountBalance:      r.AccountBalance,
	}
}

// ConfirmDistributionRequest confirms a hand-over. Balances are read from
// the customer record, not from the client.
type ConfirmDistributionRequest struct {
	CustomerID          string      `json:"customerId" binding:"required"`
	ItemIDs             []string    `json:"itemIds" binding:"required,min=1"`
	WriteOffAmount      types.Money `json:"writeOffAmount"`
	AmountCollected     types.Money `json:"amountCollected"`
	ApplyCreditBalance  bool        `json:"applyCreditBalance"`
	ApplyAccountBalance bool        `json:"applyAccountBalance"`
	Notes               string      `json:"notes,omitempty" binding:"max=2000"`
}

func (r *ConfirmDistributionRequest) ToInput() (distribution.ConfirmInput, error) {
	customerID, err := id.Parse(r.CustomerID)
	if err != nil {
		return distribution.ConfirmInput{}, apperror.NewInvalidInput("customerId", "invalid id format")
	}
	itemIDs, err := id.ParseList(r.ItemIDs)
	if err != nil {
		return distribution.ConfirmInput{}, apperror.NewInvalidInput("itemIds", err.Error())
	}
	return distribution.ConfirmInput{
		CustomerID:          customerID,
		ItemIDs:             itemIDs,
		WriteOffAmount:      r.WriteOffAmount,
		AmountCollected:     r.AmountCollected,
		ApplyCreditBalance:  r.ApplyCreditBalance,
		ApplyAccountBalance: r.ApplyAccountBalance,
		Notes:               r.Notes,
	}, nil
}

// --- Response DTOs ---

type DistributionItemResponse struct {
	ID             string      `json:"id"`
	Kind           string      `json:"kind"`
	TrackingNumber string      `json:"trackingNumber"`
	Description    string      `json:"description,omitempty"`
	TotalCost      types.Money `json:"totalCost"`
	Weight         types.Money `json:"weight"`
}

type DistributionResponse struct {
	ID            string                     `json:"id"`
	Number        string                     `json:"number"`
	CustomerID    string                     `json:"customerId"`
	CustomerName  string                     `json:"customerName"`
	DistributedAt time.Time                  `json:"distributedAt"`
	Notes         string                     `json:"notes,omitempty"`
	Items         []DistributionItemResponse `json:"items"`
	Summary       distribution.Summary       `json:"summary"`
}

func FromDistribution(d *distribution.Distribution) DistributionResponse {
	items := make([]DistributionItemResponse, len(d.Items))
	for i, item := range d.Items {
		items[i] = DistributionItemResponse{
			ID:             item.ID.String(),
			Kind:           string(item.Kind),
			TrackingNumber: item.TrackingNumber,
			Description:    item.Description,
			TotalCost:      item.TotalCost,
			Weight:         item.Weight,
		}
	}
	return DistributionResponse{
		ID:            d.ID.String(),
		Number:        d.Number,
		CustomerID:    d.CustomerID.String(),
		CustomerName:  d.CustomerName,
		DistributedAt: d.DistributedAt,
		Notes:         d.Notes,
		Items:         items,
		Summary:       d.Summary,
	}
}
