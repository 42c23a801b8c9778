package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dirección del movimiento en el libro de inventario.
const (
	DirectionIn  = "in"  // entrada
	DirectionOut = "out" // salida
)

// Tipos de documento que originan un asiento en el libro.
const (
	RefPurchase       = "purchase"
	RefPurchaseReturn = "purchase_return"
	RefTransferIn     = "transfer_in"
	RefTransferOut    = "transfer_out"
	RefAdjustment     = "adjustment"
	RefOpeningStock   = "opening_stock"
)

// StockLedger es un asiento inmutable del libro de inventario. Una vez escrito
// nunca se actualiza ni se elimina: corregir un error exige un asiento de
// compensación (por ejemplo una devolución), no una mutación.
// La reproducción cronológica de los asientos de un (producto, bodega)
// debe reconstruir exactamente la cantidad actual en Stock.
type StockLedger struct {
	ID              string
	ProductID       string
	WarehouseID     string
	Direction       string // in | out
	ReferenceType   string // purchase, purchase_return, transfer_in, transfer_out, adjustment, opening_stock
	ReferenceID     string
	ReferenceNumber string // número legible del documento (INV-P-..., TRF-..., etc.)
	Quantity        int64  // siempre positiva; el signo lo da Direction
	UnitCost        decimal.Decimal
	TotalCost       decimal.Decimal
	BalanceAfter    int64 // cantidad en Stock inmediatamente después de este asiento
	Notes           string
	CreatedBy       string // UserID del actor
	TransactionDate time.Time
	CreatedAt       time.Time
}

// SignedQuantity devuelve la cantidad con signo según la dirección.
func (l *StockLedger) SignedQuantity() int64 {
	if l.Direction == DirectionOut {
		return -l.Quantity
	}
	return l.Quantity
}
