package repository

import "github.com/jhoicas/almacen-erp/internal/domain/entity"

// PurchaseFilter criterios de listado de compras.
type PurchaseFilter struct {
	SupplierID  string
	WarehouseID string
	Status      string
	Search      string // número de factura o notas
}

// PurchaseRepository define el puerto de persistencia de compras.
type PurchaseRepository interface {
	// Create persiste la compra con sus líneas.
	Create(p *entity.Purchase) error
	// GetByID carga la compra con sus líneas; nil si no existe.
	GetByID(id string) (*entity.Purchase, error)
	// Update persiste cambios de cabecera (incluido el estado).
	Update(p *entity.Purchase) error
	// ReplaceItems reemplaza las líneas en bloque. El caso de uso solo lo
	// invoca en estado draft.
	ReplaceItems(purchaseID string, items []entity.PurchaseItem) error
	List(f PurchaseFilter, limit, offset int) ([]*entity.Purchase, error)
	Delete(id string) error
	ExistsByNumber(invoiceNumber string) (bool, error)
}
