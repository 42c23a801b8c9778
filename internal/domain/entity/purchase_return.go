package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una devolución de compra. approve solo valida disponibilidad;
// complete es la transición que escribe las salidas en el libro.
const (
	PurchaseReturnStatusDraft     = "draft"
	PurchaseReturnStatusApproved  = "approved"
	PurchaseReturnStatusCompleted = "completed"
	PurchaseReturnStatusCancelled = "cancelled"
)

// Motivos de devolución.
const (
	ReturnReasonDefective = "defective"
	ReturnReasonWrongItem = "wrong_item"
	ReturnReasonDamaged   = "damaged"
	ReturnReasonOther     = "other"
)

// PurchaseReturn representa una devolución de mercancía al proveedor,
// siempre asociada a una compra existente.
type PurchaseReturn struct {
	ID           string
	ReturnNumber string // PRET-XXXXXX, único
	PurchaseID   string
	SupplierID   string
	WarehouseID  string
	ReturnDate   time.Time
	Status       string
	Reason       string
	TotalAmount  decimal.Decimal
	Notes        string
	CreatedBy    string
	ApprovedBy   string
	ApprovedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Items []PurchaseReturnItem
}

// PurchaseReturnItem es una línea de la devolución.
type PurchaseReturnItem struct {
	ID        string
	ReturnID  string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
	Notes     string
}

// CanEditItems indica si aún se permite reemplazar las líneas del documento.
func (r *PurchaseReturn) CanEditItems() bool { return r.Status == PurchaseReturnStatusDraft }
