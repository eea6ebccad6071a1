package inventory

import (
	"context"
	"time"

	"github.com/tu-usuario/libreria-stock/internal/domain"
	"github.com/tu-usuario/libreria-stock/internal/domain/entity"
	"github.com/tu-usuario/libreria-stock/internal/domain/repository"
)

// ReservationUseCase orquesta apartados, liberaciones y confirmaciones de venta
// sobre los registros de inventario, cada operación dentro de una transacción
// con bloqueo de fila (SELECT FOR UPDATE) para que dos reservas concurrentes
// nunca sobrevendan.
type ReservationUseCase struct {
	txRunner  TxRunner
	bookRepo  repository.BookRepository
	storeRepo repository.StoreRepository
}

// NewReservationUseCase construye el caso de uso.
func NewReservationUseCase(txRunner TxRunner, bookRepo repository.BookRepository, storeRepo repository.StoreRepository) *ReservationUseCase {
	return &ReservationUseCase{txRunner: txRunner, bookRepo: bookRepo, storeRepo: storeRepo}
}

// ReservationInput entrada para Reserve y Release. StoreID vacío deja que el
// caso de uso elija la tienda; el flujo de recogida en tienda lo fija.
// ReservationRef es la referencia opaca del carrito/checkout dueño de la reserva.
type ReservationInput struct {
	BookID         string
	StoreID        string
	Quantity       int
	Actor          string
	ReservationRef string
	Note           string
}

// SaleInput entrada para ConfirmSale. SaleRef enlaza la transacción de pago.
type SaleInput struct {
	BookID         string
	StoreID        string
	Quantity       int
	Actor          string
	SaleRef        string
	ReservationRef string
}

// Reserve aparta unidades del libro. Si no se fija tienda, elige el registro de
// tienda activa con mayor disponible. Si la operación falla no se persiste nada.
func (uc *ReservationUseCase) Reserve(ctx context.Context, in ReservationInput) error {
	if in.BookID == "" || in.Quantity <= 0 || in.ReservationRef == "" {
		return domain.ErrInvalidInput
	}
	book, err := uc.bookRepo.GetByID(in.BookID)
	if err != nil {
		return err
	}
	if book == nil {
		return domain.ErrNotFound
	}
	if !book.Active {
		return domain.ErrStateConflict
	}
	activeStores, err := uc.activeStoreSet()
	if err != nil {
		return err
	}
	now := time.Now()

	return uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movementRepo repository.MovementRepository,
		historyRepo repository.StatusHistoryRepository,
		_ repository.BookRepository,
	) error {
		rec, err := uc.pickRecord(recordRepo, in.BookID, in.StoreID, activeStores, byAvailable)
		if err != nil {
			return err
		}
		res, err := rec.Reserve(in.Quantity, in.Actor, in.ReservationRef, in.Note, now)
		if err != nil {
			return err
		}
		return persistApply(recordRepo, movementRepo, historyRepo, rec, res)
	})
}

// Release devuelve unidades apartadas al disponible (expiración de carrito,
// retiro del pedido). Espejo de Reserve.
func (uc *ReservationUseCase) Release(ctx context.Context, in ReservationInput) error {
	if in.BookID == "" || in.Quantity <= 0 || in.ReservationRef == "" {
		return domain.ErrInvalidInput
	}
	book, err := uc.bookRepo.GetByID(in.BookID)
	if err != nil {
		return err
	}
	if book == nil {
		return domain.ErrNotFound
	}
	activeStores, err := uc.activeStoreSet()
	if err != nil {
		return err
	}
	now := time.Now()

	return uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movementRepo repository.MovementRepository,
		historyRepo repository.StatusHistoryRepository,
		_ repository.BookRepository,
	) error {
		rec, err := uc.pickRecord(recordRepo, in.BookID, in.StoreID, activeStores, byReserved)
		if err != nil {
			return err
		}
		res, err := rec.Release(in.Quantity, entity.ReasonCartReservation, in.Actor, in.ReservationRef, in.Note, now)
		if err != nil {
			return err
		}
		return persistApply(recordRepo, movementRepo, historyRepo, rec, res)
	})
}

// ConfirmSale convierte un apartado en venta: consume primero el reservado y
// decrementa el total con un único movimiento outbound de razón sale. Actualiza
// la caché de stock del libro en la misma transacción.
func (uc *ReservationUseCase) ConfirmSale(ctx context.Context, in SaleInput) error {
	if in.BookID == "" || in.Quantity <= 0 || in.SaleRef == "" {
		return domain.ErrInvalidInput
	}
	book, err := uc.bookRepo.GetByID(in.BookID)
	if err != nil {
		return err
	}
	if book == nil {
		return domain.ErrNotFound
	}
	activeStores, err := uc.activeStoreSet()
	if err != nil {
		return err
	}
	now := time.Now()

	return uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movementRepo repository.MovementRepository,
		historyRepo repository.StatusHistoryRepository,
		bookRepo repository.BookRepository,
	) error {
		rec, err := uc.pickRecord(recordRepo, in.BookID, in.StoreID, activeStores, byReservedThenAvailable)
		if err != nil {
			return err
		}
		res, err := rec.ConfirmSale(in.Quantity, in.Actor, in.SaleRef, in.ReservationRef, now)
		if err != nil {
			return err
		}
		if err := persistApply(recordRepo, movementRepo, historyRepo, rec, res); err != nil {
			return err
		}
		return shiftCachedStock(bookRepo, in.BookID, -in.Quantity)
	})
}

// ReleaseAllForBook libera atómicamente todos los apartados del libro en todas
// las tiendas. Se invoca al desactivar o borrar un libro.
func (uc *ReservationUseCase) ReleaseAllForBook(ctx context.Context, bookID, actor, reason string) error {
	if bookID == "" {
		return domain.ErrInvalidInput
	}
	book, err := uc.bookRepo.GetByID(bookID)
	if err != nil {
		return err
	}
	if book == nil {
		return domain.ErrNotFound
	}
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movementRepo repository.MovementRepository,
		historyRepo repository.StatusHistoryRepository,
		_ repository.BookRepository,
	) error {
		return ReleaseAllForBookInTx(recordRepo, movementRepo, historyRepo, bookID, actor, reason, now)
	})
}

// Criterios de selección de registro cuando el caller no fija tienda.
type pickCriteria int

const (
	byAvailable pickCriteria = iota
	byReserved
	byReservedThenAvailable
)

// pickRecord elige el registro a mutar. Con storeID fijo lo bloquea directo;
// si no, bloquea todos los registros del libro y elige entre tiendas activas
// según el criterio. Devuelve ErrNotFound si no hay candidato.
func (uc *ReservationUseCase) pickRecord(
	recordRepo repository.InventoryRecordRepository,
	bookID, storeID string,
	activeStores map[string]bool,
	criteria pickCriteria,
) (*entity.InventoryRecord, error) {
	if storeID != "" {
		rec, err := recordRepo.GetForUpdate(bookID, storeID)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, domain.ErrNotFound
		}
		return rec, nil
	}
	records, err := recordRepo.ListByBookForUpdate(bookID)
	if err != nil {
		return nil, err
	}
	var best *entity.InventoryRecord
	for _, rec := range records {
		if !activeStores[rec.StoreID] {
			continue
		}
		if best == nil || better(rec, best, criteria) {
			best = rec
		}
	}
	if best == nil {
		return nil, domain.ErrNotFound
	}
	return best, nil
}

func better(a, b *entity.InventoryRecord, criteria pickCriteria) bool {
	switch criteria {
	case byReserved:
		return a.StockReserved > b.StockReserved
	case byReservedThenAvailable:
		if a.StockReserved != b.StockReserved {
			return a.StockReserved > b.StockReserved
		}
		return a.StockAvailable > b.StockAvailable
	default:
		return a.StockAvailable > b.StockAvailable
	}
}

func (uc *ReservationUseCase) activeStoreSet() (map[string]bool, error) {
	stores, err := uc.storeRepo.ListActive()
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(stores))
	for _, s := range stores {
		set[s.ID] = true
	}
	return set, nil
}
