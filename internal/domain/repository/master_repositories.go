package repository

import "github.com/jhoicas/almacen-erp/internal/domain/entity"

// Puertos CRUD de datos maestros. Capa delgada: solo proveen identificadores
// al motor de inventario.

// WarehouseRepository bodegas.
type WarehouseRepository interface {
	Create(w *entity.Warehouse) error
	GetByID(id string) (*entity.Warehouse, error)
	Update(w *entity.Warehouse) error
	List(limit, offset int) ([]*entity.Warehouse, error)
	Delete(id string) error
}

// CategoryRepository categorías de producto.
type CategoryRepository interface {
	Create(c *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	Update(c *entity.Category) error
	List(limit, offset int) ([]*entity.Category, error)
	Delete(id string) error
}

// SupplierRepository proveedores.
type SupplierRepository interface {
	Create(s *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	Update(s *entity.Supplier) error
	List(search string, limit, offset int) ([]*entity.Supplier, error)
	Delete(id string) error
}

// CustomerRepository clientes.
type CustomerRepository interface {
	Create(c *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	Update(c *entity.Customer) error
	List(search string, limit, offset int) ([]*entity.Customer, error)
	Delete(id string) error
}

// UserRepository usuarios (actores del motor).
type UserRepository interface {
	Create(u *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(u *entity.User) error
	List(limit, offset int) ([]*entity.User, error)
}
