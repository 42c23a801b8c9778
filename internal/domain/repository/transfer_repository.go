package repository

import "github.com/jhoicas/almacen-erp/internal/domain/entity"

// TransferFilter criterios de listado de traslados.
type TransferFilter struct {
	FromWarehouseID string
	ToWarehouseID   string
	Status          string
	Search          string
}

// TransferRepository define el puerto de persistencia de traslados.
type TransferRepository interface {
	Create(t *entity.Transfer) error
	GetByID(id string) (*entity.Transfer, error)
	Update(t *entity.Transfer) error
	ReplaceItems(transferID string, items []entity.TransferItem) error
	List(f TransferFilter, limit, offset int) ([]*entity.Transfer, error)
	Delete(id string) error
	ExistsByNumber(transferNumber string) (bool, error)
}
