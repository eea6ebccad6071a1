package repository

import "github.com/tu-usuario/libreria-stock/internal/domain/entity"

// StatusHistoryRepository define el puerto del historial de transiciones de
// estado de los registros de inventario (append-only).
type StatusHistoryRepository interface {
	Create(change *entity.StatusChange) error
	ListByRecord(recordID string, limit, offset int) ([]*entity.StatusChange, error)
}
