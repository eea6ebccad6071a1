package repository

import (
	"time"

	"github.com/tu-usuario/libreria-stock/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del libro mayor de
// movimientos (append-only: no hay Update ni Delete).
type MovementRepository interface {
	Create(movement *entity.Movement) error
	ListByRecord(recordID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	ListByBook(bookID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
}
