package entity

import "time"

// Roles de usuario. El rol viaja en el claim del JWT para que el middleware
// RBAC decida sin consultar la base de datos.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleVendedor  = "vendedor"
)

// User representa un usuario del sistema. Su ID es el actor (created_by,
// approved_by) que el motor de inventario registra en cada asiento.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
