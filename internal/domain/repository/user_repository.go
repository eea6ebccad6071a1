package repository

import "github.com/tu-usuario/libreria-stock/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	// FindByEmail devuelve nil, nil si el email no existe.
	FindByEmail(email string) (*entity.User, error)
}
