package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa la cuenta de existencias de un producto en una bodega:
// cantidad actual, costo promedio ponderado y valor total.
// Se crea de forma perezosa con la primera entrada y nunca se elimina
// (la cantidad puede llegar a cero pero la fila permanece).
// Invariante: TotalValue == Quantity * AverageCost (con tolerancia de redondeo).
type Stock struct {
	ProductID   string
	WarehouseID string
	Quantity    int64
	AverageCost decimal.Decimal // promedio ponderado; 0 por convención si Quantity == 0
	TotalValue  decimal.Decimal
	UpdatedAt   time.Time
}

// NewStock crea una cuenta vacía para (producto, bodega).
func NewStock(productID, warehouseID string) *Stock {
	return &Stock{
		ProductID:   productID,
		WarehouseID: warehouseID,
		AverageCost: decimal.Zero,
		TotalValue:  decimal.Zero,
	}
}
