package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-erp/internal/domain/entity"
)

// GrnItemRequest línea de GRN en requests: pedido vs recibido.
type GrnItemRequest struct {
	ProductID        string          `json:"product_id"`
	OrderedQuantity  int64           `json:"ordered_quantity"`
	ReceivedQuantity int64           `json:"received_quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	SerialNumbers    []string        `json:"serial_numbers"`
	Notes            string          `json:"notes"`
}

// CreateGrnRequest body para POST /api/grns.
type CreateGrnRequest struct {
	WarehouseID string           `json:"warehouse_id"`
	GrnDate     time.Time        `json:"grn_date"`
	Notes       string           `json:"notes"`
	Items       []GrnItemRequest `json:"items"`
}

// UpdateGrnRequest body para PUT /api/grns/:id (solo draft).
type UpdateGrnRequest struct {
	GrnDate *time.Time       `json:"grn_date"`
	Notes   *string          `json:"notes"`
	Items   []GrnItemRequest `json:"items"`
}

// GrnItemResponse línea de GRN en respuestas.
type GrnItemResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	OrderedQuantity  int64           `json:"ordered_quantity"`
	ReceivedQuantity int64           `json:"received_quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Total            decimal.Decimal `json:"total"`
	SerialNumbers    []string        `json:"serial_numbers,omitempty"`
	Notes            string          `json:"notes,omitempty"`
}

// GrnResponse salida de un GRN.
type GrnResponse struct {
	ID          string            `json:"id"`
	GrnNumber   string            `json:"grn_number"`
	WarehouseID string            `json:"warehouse_id"`
	GrnDate     time.Time         `json:"grn_date"`
	Status      string            `json:"status"`
	Notes       string            `json:"notes,omitempty"`
	ReceivedBy  string            `json:"received_by"`
	VerifiedBy  string            `json:"verified_by,omitempty"`
	VerifiedAt  *time.Time        `json:"verified_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Items       []GrnItemResponse `json:"items"`
}

// GrnListResponse lista paginada de GRNs.
type GrnListResponse struct {
	Items []GrnResponse `json:"items"`
	Page  PageResponse  `json:"page"`
}

// ToGrnResponse mapea la entidad.
func ToGrnResponse(g *entity.Grn) GrnResponse {
	items := make([]GrnItemResponse, 0, len(g.Items))
	for _, it := range g.Items {
		items = append(items, GrnItemResponse{
			ID:               it.ID,
			ProductID:        it.ProductID,
			OrderedQuantity:  it.OrderedQuantity,
			ReceivedQuantity: it.ReceivedQuantity,
			UnitPrice:        it.UnitPrice,
			Total:            it.Total,
			SerialNumbers:    it.SerialNumbers,
			Notes:            it.Notes,
		})
	}
	return GrnResponse{
		ID:          g.ID,
		GrnNumber:   g.GrnNumber,
		WarehouseID: g.WarehouseID,
		GrnDate:     g.GrnDate,
		Status:      g.Status,
		Notes:       g.Notes,
		ReceivedBy:  g.ReceivedBy,
		VerifiedBy:  g.VerifiedBy,
		VerifiedAt:  g.VerifiedAt,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
		Items:       items,
	}
}
