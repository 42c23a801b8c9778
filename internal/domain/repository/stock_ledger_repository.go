package repository

import (
	"time"

	"github.com/jhoicas/almacen-erp/internal/domain/entity"
)

// StockLedgerFilter criterios de listado del libro de inventario.
type StockLedgerFilter struct {
	ProductID     string
	WarehouseID   string
	Direction     string // in | out
	ReferenceType string
	DateFrom      *time.Time
	DateTo        *time.Time
}

// StockLedgerRepository define el puerto del libro de inventario.
// Solo inserta y consulta: los asientos nunca se actualizan ni se eliminan.
type StockLedgerRepository interface {
	Create(entry *entity.StockLedger) error
	GetByID(id string) (*entity.StockLedger, error)
	List(f StockLedgerFilter, limit, offset int) ([]*entity.StockLedger, error)
	// ListByAccount devuelve todos los asientos de (producto, bodega) en orden
	// de inserción, para reconstrucción y kardex.
	ListByAccount(productID, warehouseID string) ([]*entity.StockLedger, error)
}
