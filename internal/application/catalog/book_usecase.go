package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/libreria-stock/internal/domain"
	"github.com/tu-usuario/libreria-stock/internal/domain/entity"
	dominv "github.com/tu-usuario/libreria-stock/internal/domain/inventory"
	"github.com/tu-usuario/libreria-stock/internal/domain/repository"
	appinv "github.com/tu-usuario/libreria-stock/internal/application/inventory"
)

// BookUseCase casos de uso de catálogo: alta de libros con distribución inicial
// de stock entre tiendas activas, redistribución, desactivación y borrado.
// Toda mutación de stock corre dentro de una transacción.
type BookUseCase struct {
	txRunner     appinv.TxRunner
	bookRepo     repository.BookRepository
	storeRepo    repository.StoreRepository
	consolidator *appinv.StockConsolidator
}

// NewBookUseCase construye el caso de uso de catálogo.
func NewBookUseCase(
	txRunner appinv.TxRunner,
	bookRepo repository.BookRepository,
	storeRepo repository.StoreRepository,
	consolidator *appinv.StockConsolidator,
) *BookUseCase {
	return &BookUseCase{txRunner: txRunner, bookRepo: bookRepo, storeRepo: storeRepo, consolidator: consolidator}
}

// CreateBookInput entrada para el alta de un libro.
type CreateBookInput struct {
	Title          string
	Author         string
	ISBN           string
	Price          decimal.Decimal
	InitialStock   int
	ThresholdAlert int
	Actor          string
}

// UpdateBookInput entrada para actualizar datos de catálogo (no stock).
type UpdateBookInput struct {
	Title  string
	Author string
	ISBN   string
	Price  decimal.Decimal
}

// BookWithStock libro junto con su vista consolidada de stock.
type BookWithStock struct {
	Book  *entity.Book
	Stock appinv.ConsolidatedStock
}

// CreateBook da de alta un libro y siembra un InventoryRecord por tienda activa
// repartiendo el stock inicial; las primeras tiendas (orden de creación) reciben
// la unidad extra del resto. Con stock inicial > 0 exige al menos una tienda activa.
func (uc *BookUseCase) CreateBook(ctx context.Context, in CreateBookInput) (*entity.Book, error) {
	if in.Title == "" || in.InitialStock < 0 || in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	stores, err := uc.storeRepo.ListActive()
	if err != nil {
		return nil, err
	}
	if len(stores) == 0 && in.InitialStock > 0 {
		return nil, domain.ErrStateConflict
	}

	now := time.Now()
	book := &entity.Book{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Author:      in.Author,
		ISBN:        in.ISBN,
		Price:       in.Price,
		CachedStock: in.InitialStock,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var shares []int
	if len(stores) > 0 {
		shares, err = dominv.Distribute(in.InitialStock, len(stores))
		if err != nil {
			return nil, err
		}
	}

	err = uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movementRepo repository.MovementRepository,
		historyRepo repository.StatusHistoryRepository,
		bookRepo repository.BookRepository,
	) error {
		if err := bookRepo.Create(book); err != nil {
			return err
		}
		for i, store := range stores {
			rec := entity.NewInventoryRecord(book.ID, store.ID, in.ThresholdAlert, now)
			rec.ID = uuid.New().String()
			var res *entity.ApplyResult
			if shares[i] > 0 {
				res, err = rec.RecordInbound(shares[i], entity.ReasonInitialStock, in.Actor, "", "", now)
				if err != nil {
					return err
				}
			}
			if err := recordRepo.Create(rec); err != nil {
				return err
			}
			if res != nil {
				if err := movementRepo.Create(res.Movement); err != nil {
					return err
				}
				if res.StatusChange != nil {
					if err := historyRepo.Create(res.StatusChange); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

// UpdateBook actualiza los datos de catálogo del libro.
func (uc *BookUseCase) UpdateBook(ctx context.Context, id string, in UpdateBookInput) (*entity.Book, error) {
	if id == "" || in.Title == "" || in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	book, err := uc.bookRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, domain.ErrNotFound
	}
	book.Title = in.Title
	book.Author = in.Author
	book.ISBN = in.ISBN
	book.Price = in.Price
	book.UpdatedAt = time.Now()
	if err := uc.bookRepo.Update(book); err != nil {
		return nil, err
	}
	return book, nil
}

// Redistribute fija el total del libro en newTotal y lo reparte entre las
// tiendas activas preservando lo ya reservado por tienda: solo la porción
// disponible se redistribuye y se suma sobre el reservado de cada una. Si
// newTotal no cubre el total reservado, falla sin mutar nada.
func (uc *BookUseCase) Redistribute(ctx context.Context, bookID string, newTotal int, actor string) error {
	if bookID == "" || newTotal < 0 {
		return domain.ErrInvalidInput
	}
	book, err := uc.bookRepo.GetByID(bookID)
	if err != nil {
		return err
	}
	if book == nil {
		return domain.ErrNotFound
	}
	stores, err := uc.storeRepo.ListActive()
	if err != nil {
		return err
	}
	if len(stores) == 0 {
		return domain.ErrStateConflict
	}
	now := time.Now()

	return uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movementRepo repository.MovementRepository,
		historyRepo repository.StatusHistoryRepository,
		bookRepo repository.BookRepository,
	) error {
		records, err := recordRepo.ListByBookForUpdate(bookID)
		if err != nil {
			return err
		}
		byStore := make(map[string]*entity.InventoryRecord, len(records))
		for _, rec := range records {
			byStore[rec.StoreID] = rec
		}

		reservedTotal := 0
		for _, store := range stores {
			if rec := byStore[store.ID]; rec != nil {
				reservedTotal += rec.StockReserved
			}
		}
		if newTotal < reservedTotal {
			return domain.ErrInsufficientStock
		}

		shares, err := dominv.Distribute(newTotal-reservedTotal, len(stores))
		if err != nil {
			return err
		}
		for i, store := range stores {
			rec := byStore[store.ID]
			created := false
			if rec == nil {
				rec = entity.NewInventoryRecord(bookID, store.ID, entity.DefaultThresholdAlert, now)
				rec.ID = uuid.New().String()
				created = true
			}
			// El objetivo por tienda es su parte disponible más lo que ya tiene reservado.
			delta := (shares[i] + rec.StockReserved) - rec.StockTotal
			var res *entity.ApplyResult
			if delta != 0 {
				res, err = rec.Adjust(delta, entity.ReasonRedistribution, actor, "", now)
				if err != nil {
					return err
				}
			}
			if created {
				if err := recordRepo.Create(rec); err != nil {
					return err
				}
			} else if res != nil {
				if err := recordRepo.Update(rec); err != nil {
					return err
				}
			}
			if res != nil {
				if err := movementRepo.Create(res.Movement); err != nil {
					return err
				}
				if res.StatusChange != nil {
					if err := historyRepo.Create(res.StatusChange); err != nil {
						return err
					}
				}
			}
		}
		return bookRepo.UpdateCachedStock(bookID, newTotal)
	})
}

// DeactivateBook retira el libro del catálogo liberando antes todos sus
// apartados, todo en una transacción.
func (uc *BookUseCase) DeactivateBook(ctx context.Context, bookID, actor string) error {
	if bookID == "" {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movementRepo repository.MovementRepository,
		historyRepo repository.StatusHistoryRepository,
		bookRepo repository.BookRepository,
	) error {
		book, err := bookRepo.GetByID(bookID)
		if err != nil {
			return err
		}
		if book == nil {
			return domain.ErrNotFound
		}
		if err := appinv.ReleaseAllForBookInTx(recordRepo, movementRepo, historyRepo, bookID, actor, entity.ReasonBookDeactivated, now); err != nil {
			return err
		}
		book.Active = false
		book.UpdatedAt = now
		return bookRepo.Update(book)
	})
}

// DeleteBook borra definitivamente el libro y sus registros de inventario,
// liberando antes todos los apartados para no dejar reservas colgando.
func (uc *BookUseCase) DeleteBook(ctx context.Context, bookID, actor string) error {
	if bookID == "" {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		movementRepo repository.MovementRepository,
		historyRepo repository.StatusHistoryRepository,
		bookRepo repository.BookRepository,
	) error {
		book, err := bookRepo.GetByID(bookID)
		if err != nil {
			return err
		}
		if book == nil {
			return domain.ErrNotFound
		}
		if err := appinv.ReleaseAllForBookInTx(recordRepo, movementRepo, historyRepo, bookID, actor, entity.ReasonBookDeleted, now); err != nil {
			return err
		}
		if err := recordRepo.DeleteByBook(bookID); err != nil {
			return err
		}
		return bookRepo.Delete(bookID)
	})
}

// GetBook devuelve el libro con su stock consolidado (la caché no se sirve
// nunca directamente en lecturas de detalle).
func (uc *BookUseCase) GetBook(ctx context.Context, id string) (*BookWithStock, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	book, err := uc.bookRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, domain.ErrNotFound
	}
	return &BookWithStock{Book: book, Stock: uc.consolidator.Consolidate(ctx, id)}, nil
}

// ListBooks lista el catálogo; activeOnly filtra los desactivados.
func (uc *BookUseCase) ListBooks(_ context.Context, activeOnly bool, limit, offset int) ([]*entity.Book, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if activeOnly {
		return uc.bookRepo.ListActive(limit, offset)
	}
	return uc.bookRepo.List(limit, offset)
}
