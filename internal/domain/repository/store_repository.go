package repository

import "github.com/tu-usuario/libreria-stock/internal/domain/entity"

// StoreRepository define el puerto de persistencia para Store (DIP).
type StoreRepository interface {
	Create(store *entity.Store) error
	GetByID(id string) (*entity.Store, error)
	Update(store *entity.Store) error
	// ListActive devuelve las tiendas activas en orden estable (created_at asc);
	// el distribuidor de stock depende de ese orden para ser determinista.
	ListActive() ([]*entity.Store, error)
	List(limit, offset int) ([]*entity.Store, error)
	Delete(id string) error
}
