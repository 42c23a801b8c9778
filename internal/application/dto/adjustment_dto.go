package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-erp/internal/domain/entity"
)

// AdjustmentItemRequest línea de ajuste en requests. UnitCost solo aplica a
// incrementos; cero significa "usar el costo promedio actual".
type AdjustmentItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Notes     string          `json:"notes"`
}

// CreateAdjustmentRequest body para POST /api/adjustments.
type CreateAdjustmentRequest struct {
	WarehouseID    string                  `json:"warehouse_id"`
	AdjustmentDate time.Time               `json:"adjustment_date"`
	Type           string                  `json:"type"` // increase | decrease
	Reason         string                  `json:"reason"`
	Notes          string                  `json:"notes"`
	Items          []AdjustmentItemRequest `json:"items"`
}

// UpdateAdjustmentRequest body para PUT /api/adjustments/:id (solo draft).
type UpdateAdjustmentRequest struct {
	AdjustmentDate *time.Time              `json:"adjustment_date"`
	Type           *string                 `json:"type"`
	Reason         *string                 `json:"reason"`
	Notes          *string                 `json:"notes"`
	Items          []AdjustmentItemRequest `json:"items"`
}

// AdjustmentItemResponse línea de ajuste en respuestas.
type AdjustmentItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Notes     string          `json:"notes,omitempty"`
}

// AdjustmentResponse salida de un ajuste.
type AdjustmentResponse struct {
	ID               string                   `json:"id"`
	AdjustmentNumber string                   `json:"adjustment_number"`
	WarehouseID      string                   `json:"warehouse_id"`
	AdjustmentDate   time.Time                `json:"adjustment_date"`
	Status           string                   `json:"status"`
	Type             string                   `json:"type"`
	Reason           string                   `json:"reason,omitempty"`
	Notes            string                   `json:"notes,omitempty"`
	CreatedBy        string                   `json:"created_by"`
	ApprovedBy       string                   `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time               `json:"approved_at,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
	Items            []AdjustmentItemResponse `json:"items"`
	Ledger           []StockLedgerResponse    `json:"ledger,omitempty"`
}

// AdjustmentListResponse lista paginada de ajustes.
type AdjustmentListResponse struct {
	Items []AdjustmentResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// ToAdjustmentResponse mapea la entidad (sin asientos).
func ToAdjustmentResponse(a *entity.Adjustment) AdjustmentResponse {
	items := make([]AdjustmentItemResponse, 0, len(a.Items))
	for _, it := range a.Items {
		items = append(items, AdjustmentItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitCost:  it.UnitCost,
			Notes:     it.Notes,
		})
	}
	return AdjustmentResponse{
		ID:               a.ID,
		AdjustmentNumber: a.AdjustmentNumber,
		WarehouseID:      a.WarehouseID,
		AdjustmentDate:   a.AdjustmentDate,
		Status:           a.Status,
		Type:             a.Type,
		Reason:           a.Reason,
		Notes:            a.Notes,
		CreatedBy:        a.CreatedBy,
		ApprovedBy:       a.ApprovedBy,
		ApprovedAt:       a.ApprovedAt,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
		Items:            items,
	}
}

// ToAdjustmentResponseWithLedger incluye los asientos recién escritos.
func ToAdjustmentResponseWithLedger(a *entity.Adjustment, entries []*entity.StockLedger) AdjustmentResponse {
	out := ToAdjustmentResponse(a)
	out.Ledger = make([]StockLedgerResponse, 0, len(entries))
	for _, e := range entries {
		out.Ledger = append(out.Ledger, ToStockLedgerResponse(e))
	}
	return out
}
