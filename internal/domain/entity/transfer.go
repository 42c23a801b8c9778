package entity

import "time"

// Estados de un traslado entre bodegas. approve valida disponibilidad en la
// bodega origen; receive escribe salida en origen y entrada en destino por
// cada línea, llevando el costo promedio del origen como base del destino.
const (
	TransferStatusPending   = "pending"
	TransferStatusApproved  = "approved"
	TransferStatusCompleted = "completed"
	TransferStatusCancelled = "cancelled"
)

// Transfer representa un traslado de mercancía entre dos bodegas.
type Transfer struct {
	ID              string
	TransferNumber  string // TRF-XXXXXX, único
	FromWarehouseID string
	ToWarehouseID   string
	TransferDate    time.Time
	Status          string
	Notes           string
	RequestedBy     string
	ApprovedBy      string
	ApprovedAt      *time.Time
	ReceivedBy      string
	ReceivedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []TransferItem
}

// TransferItem es una línea del traslado. SerialNumbers es opcional para
// productos serializados.
type TransferItem struct {
	ID            string
	TransferID    string
	ProductID     string
	Quantity      int64
	SerialNumbers []string
	Notes         string
}

// CanEditItems indica si aún se permite reemplazar las líneas del documento.
func (t *Transfer) CanEditItems() bool { return t.Status == TransferStatusPending }
