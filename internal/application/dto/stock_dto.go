package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-erp/internal/domain/entity"
)

// StockResponse salida de una cuenta de existencias. El costo promedio se
// expone redondeado a 2 decimales aunque internamente se lleve con 4.
type StockResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    int64           `json:"quantity"`
	AverageCost decimal.Decimal `json:"average_cost"`
	TotalValue  decimal.Decimal `json:"total_value"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// StockListResponse lista paginada de existencias.
type StockListResponse struct {
	Items []StockResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// ToStockResponse mapea la entidad a la salida HTTP.
func ToStockResponse(s *entity.Stock) StockResponse {
	return StockResponse{
		ProductID:   s.ProductID,
		WarehouseID: s.WarehouseID,
		Quantity:    s.Quantity,
		AverageCost: s.AverageCost.Round(2),
		TotalValue:  s.TotalValue,
		UpdatedAt:   s.UpdatedAt,
	}
}

// StockLedgerResponse salida de un asiento del libro.
type StockLedgerResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	WarehouseID     string          `json:"warehouse_id"`
	Direction       string          `json:"direction"`
	ReferenceType   string          `json:"reference_type"`
	ReferenceID     string          `json:"reference_id"`
	ReferenceNumber string          `json:"reference_number"`
	Quantity        int64           `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	BalanceAfter    int64           `json:"balance_after"`
	Notes           string          `json:"notes,omitempty"`
	CreatedBy       string          `json:"created_by"`
	TransactionDate time.Time       `json:"transaction_date"`
	CreatedAt       time.Time       `json:"created_at"`
}

// StockLedgerListResponse lista paginada de asientos.
type StockLedgerListResponse struct {
	Items []StockLedgerResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// ToStockLedgerResponse mapea la entidad a la salida HTTP.
func ToStockLedgerResponse(e *entity.StockLedger) StockLedgerResponse {
	return StockLedgerResponse{
		ID:              e.ID,
		ProductID:       e.ProductID,
		WarehouseID:     e.WarehouseID,
		Direction:       e.Direction,
		ReferenceType:   e.ReferenceType,
		ReferenceID:     e.ReferenceID,
		ReferenceNumber: e.ReferenceNumber,
		Quantity:        e.Quantity,
		UnitCost:        e.UnitCost,
		TotalCost:       e.TotalCost,
		BalanceAfter:    e.BalanceAfter,
		Notes:           e.Notes,
		CreatedBy:       e.CreatedBy,
		TransactionDate: e.TransactionDate,
		CreatedAt:       e.CreatedAt,
	}
}
