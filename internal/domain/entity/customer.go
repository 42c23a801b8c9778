package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente (dato maestro; consumido por la capa de
// ventas, fuera del motor de inventario).
type Customer struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	Address        string
	TaxID          string
	OpeningBalance decimal.Decimal
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
