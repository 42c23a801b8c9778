package repository

import "github.com/jhoicas/almacen-erp/internal/domain/entity"

// AdjustmentFilter criterios de listado de ajustes.
type AdjustmentFilter struct {
	WarehouseID string
	Status      string
	Type        string // increase | decrease
	Search      string
}

// AdjustmentRepository define el puerto de persistencia de ajustes.
type AdjustmentRepository interface {
	Create(a *entity.Adjustment) error
	GetByID(id string) (*entity.Adjustment, error)
	Update(a *entity.Adjustment) error
	ReplaceItems(adjustmentID string, items []entity.AdjustmentItem) error
	List(f AdjustmentFilter, limit, offset int) ([]*entity.Adjustment, error)
	Delete(id string) error
	ExistsByNumber(adjustmentNumber string) (bool, error)
}
