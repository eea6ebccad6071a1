package repository

import "github.com/tu-usuario/libreria-stock/internal/domain/entity"

// BookRepository define el puerto de persistencia para Book (DIP).
type BookRepository interface {
	Create(book *entity.Book) error
	GetByID(id string) (*entity.Book, error)
	Update(book *entity.Book) error
	// UpdateCachedStock sobreescribe la caché de stock consolidado del libro.
	UpdateCachedStock(id string, stock int) error
	ListActive(limit, offset int) ([]*entity.Book, error)
	List(limit, offset int) ([]*entity.Book, error)
	Delete(id string) error
}
