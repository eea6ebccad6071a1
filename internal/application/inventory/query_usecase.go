package inventory

import (
	"context"
	"time"

	"github.com/tu-usuario/libreria-stock/internal/domain"
	"github.com/tu-usuario/libreria-stock/internal/domain/entity"
	"github.com/tu-usuario/libreria-stock/internal/domain/repository"
)

// QueryUseCase lecturas de inventario fuera de transacción: registros por
// tienda, historial de movimientos, historial de estados y alertas de stock
// bajo. La orquestación de recogida en tienda lee aquí los registros por tienda.
type QueryUseCase struct {
	recordRepo   repository.InventoryRecordRepository
	movementRepo repository.MovementRepository
	historyRepo  repository.StatusHistoryRepository
}

// NewQueryUseCase construye las consultas de inventario.
func NewQueryUseCase(
	recordRepo repository.InventoryRecordRepository,
	movementRepo repository.MovementRepository,
	historyRepo repository.StatusHistoryRepository,
) *QueryUseCase {
	return &QueryUseCase{recordRepo: recordRepo, movementRepo: movementRepo, historyRepo: historyRepo}
}

// GetRecord devuelve el registro de un par libro+tienda.
func (uc *QueryUseCase) GetRecord(_ context.Context, bookID, storeID string) (*entity.InventoryRecord, error) {
	if bookID == "" || storeID == "" {
		return nil, domain.ErrInvalidInput
	}
	rec, err := uc.recordRepo.Get(bookID, storeID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// ListByStore devuelve los registros de una tienda con paginación.
func (uc *QueryUseCase) ListByStore(_ context.Context, storeID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	if storeID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.recordRepo.ListByStore(storeID, normalizeLimit(limit), offset)
}

// ListByBook devuelve todos los registros de un libro.
func (uc *QueryUseCase) ListByBook(_ context.Context, bookID string) ([]*entity.InventoryRecord, error) {
	if bookID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.recordRepo.ListByBook(bookID)
}

// ListLowStock devuelve los registros en low_stock o depleted; storeID vacío
// cubre todas las tiendas activas.
func (uc *QueryUseCase) ListLowStock(_ context.Context, storeID string) ([]*entity.InventoryRecord, error) {
	return uc.recordRepo.ListLowStock(storeID)
}

// MovementsByBook historial de movimientos de un libro con rango de fechas.
func (uc *QueryUseCase) MovementsByBook(_ context.Context, bookID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	if bookID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movementRepo.ListByBook(bookID, from, to, normalizeLimit(limit), offset)
}

// MovementsByRecord historial de movimientos de un registro.
func (uc *QueryUseCase) MovementsByRecord(_ context.Context, recordID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	if recordID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movementRepo.ListByRecord(recordID, from, to, normalizeLimit(limit), offset)
}

// StatusHistory historial de transiciones de estado de un registro.
func (uc *QueryUseCase) StatusHistory(_ context.Context, recordID string, limit, offset int) ([]*entity.StatusChange, error) {
	if recordID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.historyRepo.ListByRecord(recordID, normalizeLimit(limit), offset)
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return 50
	}
	return limit
}
