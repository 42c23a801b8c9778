package repository

import "github.com/jhoicas/almacen-erp/internal/domain/entity"

// ProductRepository define el puerto CRUD de productos.
type ProductRepository interface {
	Create(p *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	Update(p *entity.Product) error
	List(search, categoryID string, limit, offset int) ([]*entity.Product, error)
	Delete(id string) error
}
