package repository

import "github.com/jhoicas/almacen-erp/internal/domain/entity"

// PurchaseReturnFilter criterios de listado de devoluciones de compra.
type PurchaseReturnFilter struct {
	SupplierID  string
	WarehouseID string
	Status      string
	Search      string
}

// PurchaseReturnRepository define el puerto de persistencia de devoluciones.
type PurchaseReturnRepository interface {
	Create(r *entity.PurchaseReturn) error
	GetByID(id string) (*entity.PurchaseReturn, error)
	Update(r *entity.PurchaseReturn) error
	ReplaceItems(returnID string, items []entity.PurchaseReturnItem) error
	List(f PurchaseReturnFilter, limit, offset int) ([]*entity.PurchaseReturn, error)
	Delete(id string) error
	ExistsByNumber(returnNumber string) (bool, error)
}
