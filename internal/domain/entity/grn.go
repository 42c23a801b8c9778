package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un GRN (Goods Received Note). El GRN registra cantidades
// recibidas y sirve de insumo para la recepción de la compra; por sí mismo
// nunca muta el stock.
const (
	GrnStatusDraft     = "draft"
	GrnStatusVerified  = "verified"
	GrnStatusCancelled = "cancelled"
)

// Grn representa una nota de recepción de mercancía contra una orden de compra.
type Grn struct {
	ID          string
	GrnNumber   string // GRN-XXXXXX, único
	WarehouseID string
	GrnDate     time.Time
	Status      string
	Notes       string
	ReceivedBy  string
	VerifiedBy  string
	VerifiedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []GrnItem
}

// GrnItem es una línea del GRN: cantidad pedida vs cantidad recibida.
type GrnItem struct {
	ID               string
	GrnID            string
	ProductID        string
	OrderedQuantity  int64
	ReceivedQuantity int64
	UnitPrice        decimal.Decimal
	Total            decimal.Decimal
	SerialNumbers    []string
	Notes            string
}

// CanEditItems indica si aún se permite reemplazar las líneas del documento.
func (g *Grn) CanEditItems() bool { return g.Status == GrnStatusDraft }
