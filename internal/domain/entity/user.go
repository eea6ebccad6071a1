package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin       = "admin"
	RoleAlmacenista = "almacenista" // opera inventario y auditorías
	RoleVendedor    = "vendedor"    // opera reservas y ventas
)

// User representa un usuario del sistema (personal de la librería).
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
