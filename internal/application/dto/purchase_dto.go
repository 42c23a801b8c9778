package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-erp/internal/domain/entity"
)

// PurchaseItemRequest línea de compra en requests.
type PurchaseItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	Tax       decimal.Decimal `json:"tax"`
	Notes     string          `json:"notes"`
}

// CreatePurchaseRequest body para POST /api/purchases.
type CreatePurchaseRequest struct {
	SupplierID   string                `json:"supplier_id"`
	WarehouseID  string                `json:"warehouse_id"`
	GrnID        string                `json:"grn_id"`
	InvoiceDate  time.Time             `json:"invoice_date"`
	DueDate      *time.Time            `json:"due_date"`
	ShippingCost decimal.Decimal       `json:"shipping_cost"`
	Notes        string                `json:"notes"`
	Items        []PurchaseItemRequest `json:"items"`
}

// UpdatePurchaseRequest body para PUT /api/purchases/:id (solo draft).
// Items, si viene, reemplaza las líneas en bloque.
type UpdatePurchaseRequest struct {
	SupplierID   *string               `json:"supplier_id"`
	WarehouseID  *string               `json:"warehouse_id"`
	InvoiceDate  *time.Time            `json:"invoice_date"`
	DueDate      *time.Time            `json:"due_date"`
	ShippingCost *decimal.Decimal      `json:"shipping_cost"`
	Notes        *string               `json:"notes"`
	Items        []PurchaseItemRequest `json:"items"`
}

// PurchaseItemResponse línea de compra en respuestas.
type PurchaseItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	Notes     string          `json:"notes,omitempty"`
}

// PurchaseResponse salida de una compra con sus líneas.
type PurchaseResponse struct {
	ID             string                 `json:"id"`
	InvoiceNumber  string                 `json:"invoice_number"`
	SupplierID     string                 `json:"supplier_id"`
	WarehouseID    string                 `json:"warehouse_id"`
	GrnID          string                 `json:"grn_id,omitempty"`
	InvoiceDate    time.Time              `json:"invoice_date"`
	DueDate        *time.Time             `json:"due_date,omitempty"`
	Status         string                 `json:"status"`
	Subtotal       decimal.Decimal        `json:"subtotal"`
	TaxAmount      decimal.Decimal        `json:"tax_amount"`
	DiscountAmount decimal.Decimal        `json:"discount_amount"`
	ShippingCost   decimal.Decimal        `json:"shipping_cost"`
	TotalAmount    decimal.Decimal        `json:"total_amount"`
	Notes          string                 `json:"notes,omitempty"`
	CreatedBy      string                 `json:"created_by"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	Items          []PurchaseItemResponse `json:"items"`
	// Ledger trae los asientos creados por la transición que los escribió
	// (vacío en las demás operaciones).
	Ledger []StockLedgerResponse `json:"ledger,omitempty"`
}

// PurchaseListResponse lista paginada de compras.
type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ToPurchaseResponse mapea la entidad (sin asientos).
func ToPurchaseResponse(p *entity.Purchase) PurchaseResponse {
	items := make([]PurchaseItemResponse, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, PurchaseItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Discount:  it.Discount,
			Tax:       it.Tax,
			Total:     it.Total,
			Notes:     it.Notes,
		})
	}
	return PurchaseResponse{
		ID:             p.ID,
		InvoiceNumber:  p.InvoiceNumber,
		SupplierID:     p.SupplierID,
		WarehouseID:    p.WarehouseID,
		GrnID:          p.GrnID,
		InvoiceDate:    p.InvoiceDate,
		DueDate:        p.DueDate,
		Status:         p.Status,
		Subtotal:       p.Subtotal,
		TaxAmount:      p.TaxAmount,
		DiscountAmount: p.DiscountAmount,
		ShippingCost:   p.ShippingCost,
		TotalAmount:    p.TotalAmount,
		Notes:          p.Notes,
		CreatedBy:      p.CreatedBy,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Items:          items,
	}
}

// ToPurchaseResponseWithLedger mapea la entidad junto con los asientos que
// la transición acaba de escribir.
func ToPurchaseResponseWithLedger(p *entity.Purchase, entries []*entity.StockLedger) PurchaseResponse {
	out := ToPurchaseResponse(p)
	out.Ledger = make([]StockLedgerResponse, 0, len(entries))
	for _, e := range entries {
		out.Ledger = append(out.Ledger, ToStockLedgerResponse(e))
	}
	return out
}
