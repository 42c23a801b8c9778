package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un ajuste de inventario. approve valida disponibilidad solo si
// el ajuste es de tipo decrease; complete escribe los asientos.
const (
	AdjustmentStatusDraft     = "draft"
	AdjustmentStatusApproved  = "approved"
	AdjustmentStatusCompleted = "completed"
	AdjustmentStatusCancelled = "cancelled"
)

// Tipos de ajuste.
const (
	AdjustmentTypeIncrease = "increase"
	AdjustmentTypeDecrease = "decrease"
)

// Adjustment representa un ajuste manual de inventario (merma, conteo físico,
// corrección) sobre una bodega.
type Adjustment struct {
	ID               string
	AdjustmentNumber string // ADJ-XXXXXX, único
	WarehouseID      string
	AdjustmentDate   time.Time
	Status           string
	Type             string // increase | decrease
	Reason           string
	Notes            string
	CreatedBy        string
	ApprovedBy       string
	ApprovedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Items []AdjustmentItem
}

// AdjustmentItem es una línea del ajuste. UnitCost solo aplica a incrementos;
// si es cero se usa el costo promedio actual de la cuenta.
type AdjustmentItem struct {
	ID           string
	AdjustmentID string
	ProductID    string
	Quantity     int64
	UnitCost     decimal.Decimal
	Notes        string
}

// CanEditItems indica si aún se permite reemplazar las líneas del documento.
func (a *Adjustment) CanEditItems() bool { return a.Status == AdjustmentStatusDraft }
