package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier representa un proveedor de mercancía.
type Supplier struct {
	ID             string
	Name           string
	ContactName    string
	Email          string
	Phone          string
	Address        string
	TaxID          string
	OpeningBalance decimal.Decimal
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
