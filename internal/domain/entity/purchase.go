package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una compra. La recepción (draft -> pending) es la transición
// que escribe asientos de entrada en el libro; después de recibir, la compra
// solo se compensa con una devolución, nunca se revierte.
const (
	PurchaseStatusDraft     = "draft"
	PurchaseStatusPending   = "pending" // recibida; pendiente de pago
	PurchaseStatusCancelled = "cancelled"
)

// Purchase representa una factura de compra a proveedor con sus ítems.
type Purchase struct {
	ID             string
	InvoiceNumber  string // INV-P-XXXXXX, único
	SupplierID     string
	WarehouseID    string
	GrnID          string // opcional: GRN que respalda la recepción
	InvoiceDate    time.Time
	DueDate        *time.Time
	Status         string
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	ShippingCost   decimal.Decimal
	TotalAmount    decimal.Decimal
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Items []PurchaseItem
}

// PurchaseItem es una línea de la compra. Las líneas pertenecen en exclusiva
// al documento y solo se reemplazan en bloque mientras el estado es draft.
type PurchaseItem struct {
	ID         string
	PurchaseID string
	ProductID  string
	Quantity   int64
	UnitPrice  decimal.Decimal
	Discount   decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal
	Notes      string
}

// CanEditItems indica si aún se permite reemplazar las líneas del documento.
func (p *Purchase) CanEditItems() bool { return p.Status == PurchaseStatusDraft }
