package dto

import (
	"time"

	"github.com/jhoicas/almacen-erp/internal/domain/entity"
)

// TransferItemRequest línea de traslado en requests.
type TransferItemRequest struct {
	ProductID     string   `json:"product_id"`
	Quantity      int64    `json:"quantity"`
	SerialNumbers []string `json:"serial_numbers"`
	Notes         string   `json:"notes"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	FromWarehouseID string                `json:"from_warehouse_id"`
	ToWarehouseID   string                `json:"to_warehouse_id"`
	TransferDate    time.Time             `json:"transfer_date"`
	Notes           string                `json:"notes"`
	Items           []TransferItemRequest `json:"items"`
}

// UpdateTransferRequest body para PUT /api/transfers/:id (solo pending).
type UpdateTransferRequest struct {
	TransferDate *time.Time            `json:"transfer_date"`
	Notes        *string               `json:"notes"`
	Items        []TransferItemRequest `json:"items"`
}

// TransferItemResponse línea de traslado en respuestas.
type TransferItemResponse struct {
	ID            string   `json:"id"`
	ProductID     string   `json:"product_id"`
	Quantity      int64    `json:"quantity"`
	SerialNumbers []string `json:"serial_numbers,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

// TransferResponse salida de un traslado.
type TransferResponse struct {
	ID              string                 `json:"id"`
	TransferNumber  string                 `json:"transfer_number"`
	FromWarehouseID string                 `json:"from_warehouse_id"`
	ToWarehouseID   string                 `json:"to_warehouse_id"`
	TransferDate    time.Time              `json:"transfer_date"`
	Status          string                 `json:"status"`
	Notes           string                 `json:"notes,omitempty"`
	RequestedBy     string                 `json:"requested_by"`
	ApprovedBy      string                 `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time             `json:"approved_at,omitempty"`
	ReceivedBy      string                 `json:"received_by,omitempty"`
	ReceivedAt      *time.Time             `json:"received_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Items           []TransferItemResponse `json:"items"`
	Ledger          []StockLedgerResponse  `json:"ledger,omitempty"`
}

// TransferListResponse lista paginada de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ToTransferResponse mapea la entidad (sin asientos).
func ToTransferResponse(t *entity.Transfer) TransferResponse {
	items := make([]TransferItemResponse, 0, len(t.Items))
	for _, it := range t.Items {
		items = append(items, TransferItemResponse{
			ID:            it.ID,
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			SerialNumbers: it.SerialNumbers,
			Notes:         it.Notes,
		})
	}
	return TransferResponse{
		ID:              t.ID,
		TransferNumber:  t.TransferNumber,
		FromWarehouseID: t.FromWarehouseID,
		ToWarehouseID:   t.ToWarehouseID,
		TransferDate:    t.TransferDate,
		Status:          t.Status,
		Notes:           t.Notes,
		RequestedBy:     t.RequestedBy,
		ApprovedBy:      t.ApprovedBy,
		ApprovedAt:      t.ApprovedAt,
		ReceivedBy:      t.ReceivedBy,
		ReceivedAt:      t.ReceivedAt,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
		Items:           items,
	}
}

// ToTransferResponseWithLedger incluye los asientos recién escritos.
func ToTransferResponseWithLedger(t *entity.Transfer, entries []*entity.StockLedger) TransferResponse {
	out := ToTransferResponse(t)
	out.Ledger = make([]StockLedgerResponse, 0, len(entries))
	for _, e := range entries {
		out.Ledger = append(out.Ledger, ToStockLedgerResponse(e))
	}
	return out
}
