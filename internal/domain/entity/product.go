package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario (multi-bodega).
// Las existencias y el costo promedio se llevan por bodega en Stock;
// el producto solo guarda datos maestros y el precio de venta.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Description string
	CategoryID  string
	Price       decimal.Decimal // precio de venta
	UnitMeasure string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
