package repository

import "github.com/jhoicas/almacen-erp/internal/domain/entity"

// StockFilter criterios de listado de existencias.
type StockFilter struct {
	ProductID   string
	WarehouseID string
}

// StockRepository define el puerto para consultar/actualizar la cuenta de
// existencias por (producto, bodega). Las mutaciones siempre ocurren dentro
// de una transacción con la fila bloqueada (GetForUpdate).
type StockRepository interface {
	// Get obtiene la cuenta; devuelve una cuenta vacía (qty 0) si no existe.
	Get(productID, warehouseID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) y la devuelve;
	// una cuenta inexistente se devuelve vacía sin bloquear nada.
	GetForUpdate(productID, warehouseID string) (*entity.Stock, error)
	// Upsert inserta o actualiza la cuenta (clave producto+bodega).
	Upsert(stock *entity.Stock) error
	List(f StockFilter, limit, offset int) ([]*entity.Stock, error)
}
