package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-erp/internal/domain/entity"
)

// PurchaseReturnItemRequest línea de devolución en requests.
type PurchaseReturnItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Notes     string          `json:"notes"`
}

// CreatePurchaseReturnRequest body para POST /api/purchase-returns.
// Proveedor y bodega se heredan de la compra referenciada.
type CreatePurchaseReturnRequest struct {
	PurchaseID string                      `json:"purchase_id"`
	ReturnDate time.Time                   `json:"return_date"`
	Reason     string                      `json:"reason"`
	Notes      string                      `json:"notes"`
	Items      []PurchaseReturnItemRequest `json:"items"`
}

// UpdatePurchaseReturnRequest body para PUT /api/purchase-returns/:id (solo draft).
type UpdatePurchaseReturnRequest struct {
	ReturnDate *time.Time                  `json:"return_date"`
	Reason     *string                     `json:"reason"`
	Notes      *string                     `json:"notes"`
	Items      []PurchaseReturnItemRequest `json:"items"`
}

// PurchaseReturnItemResponse línea de devolución en respuestas.
type PurchaseReturnItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
	Notes     string          `json:"notes,omitempty"`
}

// PurchaseReturnResponse salida de una devolución.
type PurchaseReturnResponse struct {
	ID           string                       `json:"id"`
	ReturnNumber string                       `json:"return_number"`
	PurchaseID   string                       `json:"purchase_id"`
	SupplierID   string                       `json:"supplier_id"`
	WarehouseID  string                       `json:"warehouse_id"`
	ReturnDate   time.Time                    `json:"return_date"`
	Status       string                       `json:"status"`
	Reason       string                       `json:"reason"`
	TotalAmount  decimal.Decimal              `json:"total_amount"`
	Notes        string                       `json:"notes,omitempty"`
	CreatedBy    string                       `json:"created_by"`
	ApprovedBy   string                       `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time                   `json:"approved_at,omitempty"`
	CreatedAt    time.Time                    `json:"created_at"`
	UpdatedAt    time.Time                    `json:"updated_at"`
	Items        []PurchaseReturnItemResponse `json:"items"`
	Ledger       []StockLedgerResponse        `json:"ledger,omitempty"`
}

// PurchaseReturnListResponse lista paginada de devoluciones.
type PurchaseReturnListResponse struct {
	Items []PurchaseReturnResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}

// ToPurchaseReturnResponse mapea la entidad (sin asientos).
func ToPurchaseReturnResponse(r *entity.PurchaseReturn) PurchaseReturnResponse {
	items := make([]PurchaseReturnItemResponse, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, PurchaseReturnItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Total:     it.Total,
			Notes:     it.Notes,
		})
	}
	return PurchaseReturnResponse{
		ID:           r.ID,
		ReturnNumber: r.ReturnNumber,
		PurchaseID:   r.PurchaseID,
		SupplierID:   r.SupplierID,
		WarehouseID:  r.WarehouseID,
		ReturnDate:   r.ReturnDate,
		Status:       r.Status,
		Reason:       r.Reason,
		TotalAmount:  r.TotalAmount,
		Notes:        r.Notes,
		CreatedBy:    r.CreatedBy,
		ApprovedBy:   r.ApprovedBy,
		ApprovedAt:   r.ApprovedAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Items:        items,
	}
}

// ToPurchaseReturnResponseWithLedger incluye los asientos recién escritos.
func ToPurchaseReturnResponseWithLedger(r *entity.PurchaseReturn, entries []*entity.StockLedger) PurchaseReturnResponse {
	out := ToPurchaseReturnResponse(r)
	out.Ledger = make([]StockLedgerResponse, 0, len(entries))
	for _, e := range entries {
		out.Ledger = append(out.Ledger, ToStockLedgerResponse(e))
	}
	return out
}
