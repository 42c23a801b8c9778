package repository

import "github.com/jhoicas/almacen-erp/internal/domain/entity"

// GrnFilter criterios de listado de GRNs.
type GrnFilter struct {
	WarehouseID string
	Status      string
	Search      string
}

// GrnRepository define el puerto de persistencia de notas de recepción.
type GrnRepository interface {
	Create(g *entity.Grn) error
	GetByID(id string) (*entity.Grn, error)
	Update(g *entity.Grn) error
	ReplaceItems(grnID string, items []entity.GrnItem) error
	List(f GrnFilter, limit, offset int) ([]*entity.Grn, error)
	Delete(id string) error
	ExistsByNumber(grnNumber string) (bool, error)
}
