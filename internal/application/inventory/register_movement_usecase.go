package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/libreria-stock/internal/domain"
	"github.com/tu-usuario/libreria-stock/internal/domain/entity"
	"github.com/tu-usuario/libreria-stock/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos manuales de inventario
// (entradas, salidas, bajas, traslados y conteos físicos) de forma transaccional
// con bloqueo de fila y Commit/Rollback. Mantiene la caché de stock del libro
// en la misma transacción.
type RegisterMovementUseCase struct {
	txRunner  TxRunner
	bookRepo  repository.BookRepository
	storeRepo repository.StoreRepository
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner, bookRepo repository.BookRepository, storeRepo repository.StoreRepository) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{txRunner: txRunner, bookRepo: bookRepo, storeRepo: storeRepo}
}

// MovementInput entrada para entradas, salidas y bajas.
type MovementInput struct {
	BookID  string
	StoreID string
	Qty     int
	Reason  string
	Actor   string
	SaleRef string
	Note    string
}

// TransferInput entrada para traslados entre tiendas.
type TransferInput struct {
	BookID      string
	FromStoreID string
	ToStoreID   string
	Qty         int
	Actor       string
	Note        string
}

// PhysicalCountInput entrada para conteos físicos.
type PhysicalCountInput struct {
	BookID     string
	StoreID    string
	CountedQty int
	Actor      string
	AutoAdjust bool
}

// RegisterInbound registra una entrada. Si el par libro+tienda aún no tiene
// registro, lo crea de forma perezosa con el umbral por defecto.
func (uc *RegisterMovementUseCase) RegisterInbound(ctx context.Context, in MovementInput) error {
	if err := uc.checkBookAndStore(in.BookID, in.StoreID); err != nil {
		return err
	}
	if in.Qty <= 0 {
		return domain.ErrInvalidInput
	}
	reason := in.Reason
	if reason == "" {
		reason = entity.ReasonPurchase
	}
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movementRepo repository.MovementRepository,
		historyRepo repository.StatusHistoryRepository,
		bookRepo repository.BookRepository,
	) error {
		rec, created, err := getOrCreateRecord(recordRepo, in.BookID, in.StoreID, now)
		if err != nil {
			return err
		}
		res, err := rec.RecordInbound(in.Qty, reason, in.Actor, "", in.Note, now)
		if err != nil {
			return err
		}
		if created {
			if err := recordRepo.Create(rec); err != nil {
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
		} else if err := persistApply(recordRepo, movementRepo, historyRepo, rec, res); err != nil {
			return err
		}
		return shiftCachedStock(bookRepo, in.BookID, in.Qty)
	})
}

// RegisterOutbound registra una salida manual desde el disponible.
func (uc *RegisterMovementUseCase) RegisterOutbound(ctx context.Context, in MovementInput) error {
	return uc.registerDecrement(ctx, in, false)
}

// RegisterWriteOff da de baja unidades disponibles (daño, pérdida, merma).
func (uc *RegisterMovementUseCase) RegisterWriteOff(ctx context.Context, in MovementInput) error {
	return uc.registerDecrement(ctx, in, true)
}

func (uc *RegisterMovementUseCase) registerDecrement(ctx context.Context, in MovementInput, writeOff bool) error {
	if err := uc.checkBookAndStore(in.BookID, in.StoreID); err != nil {
		return err
	}
	if in.Qty <= 0 {
		return domain.ErrInvalidInput
	}
	reason := in.Reason
	if reason == "" && writeOff {
		reason = entity.ReasonDamaged
	}
	if reason == "" {
		reason = entity.ReasonSale
	}
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movementRepo repository.MovementRepository,
		historyRepo repository.StatusHistoryRepository,
		bookRepo repository.BookRepository,
	) error {
		rec, err := recordRepo.GetForUpdate(in.BookID, in.StoreID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		var res *entity.ApplyResult
		if writeOff {
			res, err = rec.RecordWriteOff(in.Qty, reason, in.Actor, in.Note, now)
		} else {
			res, err = rec.RecordOutbound(in.Qty, reason, in.Actor, in.SaleRef, "", in.Note, now)
		}
		if err != nil {
			return err
		}
		if err := persistApply(recordRepo, movementRepo, historyRepo, rec, res); err != nil {
			return err
		}
		return shiftCachedStock(bookRepo, in.BookID, -in.Qty)
	})
}

// Transfer traslada unidades entre tiendas: salida en origen y entrada en
// destino dentro de la misma transacción, dos movimientos con la misma
// referencia de traslado. El total consolidado del libro no cambia.
func (uc *RegisterMovementUseCase) Transfer(ctx context.Context, in TransferInput) error {
	if in.Qty <= 0 || in.FromStoreID == in.ToStoreID {
		return domain.ErrInvalidInput
	}
	if err := uc.checkBookAndStore(in.BookID, in.FromStoreID); err != nil {
		return err
	}
	if _, err := uc.requireStore(in.ToStoreID); err != nil {
		return err
	}
	now := time.Now()
	transferRef := uuid.New().String()

	return uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movementRepo repository.MovementRepository,
		historyRepo repository.StatusHistoryRepository,
		_ repository.BookRepository,
	) error {
		origin, err := recordRepo.GetForUpdate(in.BookID, in.FromStoreID)
		if err != nil {
			return err
		}
		if origin == nil {
			return domain.ErrNotFound
		}
		outRes, err := origin.RecordOutbound(in.Qty, entity.ReasonTransfer, in.Actor, "", transferRef, in.Note, now)
		if err != nil {
			return err
		}
		if err := persistApply(recordRepo, movementRepo, historyRepo, origin, outRes); err != nil {
			return err
		}

		dest, created, err := getOrCreateRecord(recordRepo, in.BookID, in.ToStoreID, now)
		if err != nil {
			return err
		}
		inRes, err := dest.RecordInbound(in.Qty, entity.ReasonTransfer, in.Actor, transferRef, in.Note, now)
		if err != nil {
			return err
		}
		if created {
			if err := recordRepo.Create(dest); err != nil {
				return err
			}
			if err := movementRepo.Create(inRes.Movement); err != nil {
				return err
			}
			if inRes.StatusChange != nil {
				return historyRepo.Create(inRes.StatusChange)
			}
			return nil
		}
		return persistApply(recordRepo, movementRepo, historyRepo, dest, inRes)
	})
}

// PhysicalCount registra un conteo físico; con AutoAdjust corrige total y
// disponible (nunca el reservado) y refleja la corrección en la caché del libro.
func (uc *RegisterMovementUseCase) PhysicalCount(ctx context.Context, in PhysicalCountInput) error {
	if err := uc.checkBookAndStore(in.BookID, in.StoreID); err != nil {
		return err
	}
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movementRepo repository.MovementRepository,
		historyRepo repository.StatusHistoryRepository,
		bookRepo repository.BookRepository,
	) error {
		rec, err := recordRepo.GetForUpdate(in.BookID, in.StoreID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		res, err := rec.AuditPhysicalCount(in.CountedQty, in.Actor, in.AutoAdjust, now)
		if err != nil {
			return err
		}
		if err := persistApply(recordRepo, movementRepo, historyRepo, rec, res); err != nil {
			return err
		}
		if res.Movement.Quantity != 0 {
			return shiftCachedStock(bookRepo, in.BookID, res.Movement.Quantity)
		}
		return nil
	})
}

// MarkHistoricallyDepleted marca el par libro+tienda como agotado histórico.
// Solo es legal desde depleted.
func (uc *RegisterMovementUseCase) MarkHistoricallyDepleted(ctx context.Context, bookID, storeID, actor, reason string) error {
	if err := uc.checkBookAndStore(bookID, storeID); err != nil {
		return err
	}
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movementRepo repository.MovementRepository,
		historyRepo repository.StatusHistoryRepository,
		_ repository.BookRepository,
	) error {
		rec, err := recordRepo.GetForUpdate(bookID, storeID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		res, err := rec.MarkHistoricallyDepleted(actor, reason, now)
		if err != nil {
			return err
		}
		return persistApply(recordRepo, movementRepo, historyRepo, rec, res)
	})
}

func (uc *RegisterMovementUseCase) checkBookAndStore(bookID, storeID string) error {
	if bookID == "" || storeID == "" {
		return domain.ErrInvalidInput
	}
	book, err := uc.bookRepo.GetByID(bookID)
	if err != nil {
		return err
	}
	if book == nil {
		return domain.ErrNotFound
	}
	_, err = uc.requireStore(storeID)
	return err
}

func (uc *RegisterMovementUseCase) requireStore(storeID string) (*entity.Store, error) {
	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	return store, nil
}

// getOrCreateRecord bloquea el registro del par libro+tienda o lo crea en
// memoria (created=true) si aún no existe; el caller decide Create vs Update.
func getOrCreateRecord(recordRepo repository.InventoryRecordRepository, bookID, storeID string, now time.Time) (*entity.InventoryRecord, bool, error) {
	rec, err := recordRepo.GetForUpdate(bookID, storeID)
	if err != nil {
		return nil, false, err
	}
	if rec != nil {
		return rec, false, nil
	}
	rec = entity.NewInventoryRecord(bookID, storeID, entity.DefaultThresholdAlert, now)
	rec.ID = uuid.New().String()
	return rec, true, nil
}

// shiftCachedStock desplaza la caché de stock consolidado del libro dentro de
// la transacción en curso.
func shiftCachedStock(bookRepo repository.BookRepository, bookID string, delta int) error {
	book, err := bookRepo.GetByID(bookID)
	if err != nil {
		return err
	}
	if book == nil {
		return domain.ErrNotFound
	}
	return bookRepo.UpdateCachedStock(bookID, book.CachedStock+delta)
}
