package inventory

import (
	"context"

	"github.com/tu-usuario/libreria-stock/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Es la unidad de trabajo del motor de inventario:
// o todas las mutaciones de registros, movimientos, historial y caché del libro
// se confirman, o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		recordRepo repository.InventoryRecordRepository,
		movementRepo repository.MovementRepository,
		historyRepo repository.StatusHistoryRepository,
		bookRepo repository.BookRepository,
	) error) error
}
