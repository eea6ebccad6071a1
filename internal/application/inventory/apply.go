package inventory

import (
	"time"

	"github.com/tu-usuario/libreria-stock/internal/domain/entity"
	"github.com/tu-usuario/libreria-stock/internal/domain/repository"
)

// persistApply guarda el efecto de una operación de entidad dentro de la
// transacción en curso: contadores del registro, movimiento y, si hubo,
// transición de estado.
func persistApply(
	recordRepo repository.InventoryRecordRepository,
	movementRepo repository.MovementRepository,
	historyRepo repository.StatusHistoryRepository,
	record *entity.InventoryRecord,
	res *entity.ApplyResult,
) error {
	if err := recordRepo.Update(record); err != nil {
		return err
	}
	if err := movementRepo.Create(res.Movement); err != nil {
		return err
	}
	if res.StatusChange != nil {
		if err := historyRepo.Create(res.StatusChange); err != nil {
			return err
		}
	}
	return nil
}

// ReleaseAllForBookInTx libera todos los apartados de un libro usando los
// repositorios de la transacción del caller: por cada registro con reservado > 0
// devuelve todo al disponible con un único movimiento release. Se usa antes de
// desactivar o borrar un libro para no dejar reservas colgando.
func ReleaseAllForBookInTx(
	recordRepo repository.InventoryRecordRepository,
	movementRepo repository.MovementRepository,
	historyRepo repository.StatusHistoryRepository,
	bookID, actor, reason string,
	now time.Time,
) error {
	records, err := recordRepo.ListByBookForUpdate(bookID)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if rec.StockReserved == 0 {
			continue
		}
		res, err := rec.ReleaseAll(reason, actor, "", now)
		if err != nil {
			return err
		}
		if err := persistApply(recordRepo, movementRepo, historyRepo, rec, res); err != nil {
			return err
		}
	}
	return nil
}
