package stock

import (
	"github.com/jhoicas/almacen-erp/internal/domain"
	"github.com/jhoicas/almacen-erp/internal/domain/entity"
	"github.com/jhoicas/almacen-erp/internal/domain/repository"
)

// Line es una línea (producto, cantidad) a verificar contra las existencias.
type Line struct {
	ProductID string
	Quantity  int64
}

// CheckAvailability verifica que TODAS las líneas quepan en las existencias
// actuales de la bodega antes de cualquier mutación. Si una sola línea no
// alcanza, devuelve InsufficientStockError nombrando el producto y la
// transición completa se rechaza sin tocar nada.
// Líneas repetidas del mismo producto se acumulan contra el mismo saldo.
func CheckAvailability(stockRepo repository.StockRepository, warehouseID string, lines []Line) error {
	remaining := make(map[string]int64, len(lines))
	for _, ln := range lines {
		if _, ok := remaining[ln.ProductID]; !ok {
			s, err := stockRepo.Get(ln.ProductID, warehouseID)
			if err != nil {
				return err
			}
			remaining[ln.ProductID] = s.Quantity
		}
		if ln.Quantity > remaining[ln.ProductID] {
			return &domain.InsufficientStockError{
				ProductID: ln.ProductID,
				Requested: ln.Quantity,
				Available: remaining[ln.ProductID],
			}
		}
		remaining[ln.ProductID] -= ln.Quantity
	}
	return nil
}

// LockAndCheckAvailability bloquea (SELECT FOR UPDATE) la cuenta de cada
// producto, verifica todas las líneas y devuelve las cuentas bloqueadas.
// Se usa dentro de la transacción de una transición que va a escribir
// salidas: si falla, la tx hace rollback y nada queda bloqueado ni mutado.
func LockAndCheckAvailability(stockRepo repository.StockRepository, warehouseID string, lines []Line) (map[string]*entity.Stock, error) {
	locked := make(map[string]*entity.Stock, len(lines))
	remaining := make(map[string]int64, len(lines))
	for _, ln := range lines {
		if _, ok := locked[ln.ProductID]; !ok {
			s, err := stockRepo.GetForUpdate(ln.ProductID, warehouseID)
			if err != nil {
				return nil, err
			}
			locked[ln.ProductID] = s
			remaining[ln.ProductID] = s.Quantity
		}
		if ln.Quantity > remaining[ln.ProductID] {
			return nil, &domain.InsufficientStockError{
				ProductID: ln.ProductID,
				Requested: ln.Quantity,
				Available: remaining[ln.ProductID],
			}
		}
		remaining[ln.ProductID] -= ln.Quantity
	}
	return locked, nil
}
