package audit

import (
	"context"
	"time"

	"github.com/tu-usuario/libreria-stock/internal/application/inventory"
	"github.com/tu-usuario/libreria-stock/internal/domain/repository"
	"github.com/tu-usuario/libreria-stock/pkg/logger"
)

// BookDrift un libro cuya caché de stock no coincide con el consolidado real.
// Es una advertencia de consistencia: nunca aborta ninguna operación.
type BookDrift struct {
	BookID            string `json:"book_id"`
	Title             string `json:"title"`
	CachedStock       int    `json:"cached_stock"`
	ConsolidatedStock int    `json:"consolidated_stock"`
	Difference        int    `json:"difference"`
}

// StoreFinding una tienda activa sin ningún registro de inventario. Se reporta
// pero no se auto-crea nada: la remediación es del operador.
type StoreFinding struct {
	StoreID string `json:"store_id"`
	Name    string `json:"name"`
}

// Report resultado de una pasada de reconciliación sobre todo el inventario.
// DegradedBooks lista los libros cuya consolidación falló y quedaron sin verificar.
type Report struct {
	GeneratedAt          time.Time      `json:"generated_at"`
	BooksChecked         int            `json:"books_checked"`
	StoresChecked        int            `json:"stores_checked"`
	Inconsistent         []BookDrift    `json:"inconsistent"`
	StoresWithoutRecords []StoreFinding `json:"stores_without_records"`
	DegradedBooks        []string       `json:"degraded_books"`
}

// RepairResult resumen de una reparación.
type RepairResult struct {
	Report   *Report `json:"report"`
	Repaired int     `json:"repaired"`
}

// ReportPDFGenerator puerto para exportar el reporte (maroto en infraestructura).
type ReportPDFGenerator interface {
	Generate(report *Report) ([]byte, error)
}

// ConsistencyAuditor detecta y repara deriva entre la caché de stock de los
// libros y sus registros de inventario. Lecturas best-effort fuera de
// transacción: pueden competir con escritores y no garantizan foto consistente.
type ConsistencyAuditor struct {
	bookRepo     repository.BookRepository
	storeRepo    repository.StoreRepository
	recordRepo   repository.InventoryRecordRepository
	consolidator *inventory.StockConsolidator
	log          *logger.Logger
}

// NewConsistencyAuditor construye el auditor.
func NewConsistencyAuditor(
	bookRepo repository.BookRepository,
	storeRepo repository.StoreRepository,
	recordRepo repository.InventoryRecordRepository,
	consolidator *inventory.StockConsolidator,
	log *logger.Logger,
) *ConsistencyAuditor {
	return &ConsistencyAuditor{
		bookRepo:     bookRepo,
		storeRepo:    storeRepo,
		recordRepo:   recordRepo,
		consolidator: consolidator,
		log:          log,
	}
}

// reportPageSize lote de libros por consulta durante la auditoría.
const reportPageSize = 500

// Report compara la caché de cada libro activo contra su consolidado y marca
// las tiendas activas sin registros.
func (a *ConsistencyAuditor) Report(ctx context.Context) (*Report, error) {
	report := &Report{
		GeneratedAt:          time.Now(),
		Inconsistent:         []BookDrift{},
		StoresWithoutRecords: []StoreFinding{},
		DegradedBooks:        []string{},
	}

	for offset := 0; ; offset += reportPageSize {
		books, err := a.bookRepo.ListActive(reportPageSize, offset)
		if err != nil {
			return nil, err
		}
		if len(books) == 0 {
			break
		}
		for _, book := range books {
			report.BooksChecked++
			stock := a.consolidator.Consolidate(ctx, book.ID)
			if stock.Degraded {
				report.DegradedBooks = append(report.DegradedBooks, book.ID)
				continue
			}
			if stock.StockTotal != book.CachedStock {
				report.Inconsistent = append(report.Inconsistent, BookDrift{
					BookID:            book.ID,
					Title:             book.Title,
					CachedStock:       book.CachedStock,
					ConsolidatedStock: stock.StockTotal,
					Difference:        book.CachedStock - stock.StockTotal,
				})
			}
		}
		if len(books) < reportPageSize {
			break
		}
	}

	stores, err := a.storeRepo.ListActive()
	if err != nil {
		return nil, err
	}
	for _, store := range stores {
		report.StoresChecked++
		count, err := a.recordRepo.CountByStore(store.ID)
		if err != nil {
			return nil, err
		}
		if count == 0 {
			report.StoresWithoutRecords = append(report.StoresWithoutRecords, StoreFinding{
				StoreID: store.ID,
				Name:    store.Name,
			})
		}
	}

	a.log.Info().
		Int("books_checked", report.BooksChecked).
		Int("inconsistent", len(report.Inconsistent)).
		Int("stores_without_records", len(report.StoresWithoutRecords)).
		Msg("reporte de consistencia generado")
	return report, nil
}

// Repair sobreescribe la caché de cada libro con deriva usando el valor
// consolidado. No crea registros faltantes: esas tiendas quedan reportadas
// para acción del operador.
func (a *ConsistencyAuditor) Repair(ctx context.Context) (*RepairResult, error) {
	report, err := a.Report(ctx)
	if err != nil {
		return nil, err
	}
	repaired := 0
	for _, drift := range report.Inconsistent {
		if err := a.bookRepo.UpdateCachedStock(drift.BookID, drift.ConsolidatedStock); err != nil {
			a.log.Error().Err(err).Str("book_id", drift.BookID).Msg("reparación de caché de stock")
			continue
		}
		repaired++
	}
	a.log.Info().Int("repaired", repaired).Msg("reparación de consistencia terminada")
	return &RepairResult{Report: report, Repaired: repaired}, nil
}
