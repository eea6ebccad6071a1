package inventory

import (
	"context"

	"github.com/tu-usuario/libreria-stock/internal/domain/repository"
	"github.com/tu-usuario/libreria-stock/pkg/logger"
)

// ConsolidatedStock es la vista agregada del stock de un libro sobre sus
// tiendas activas. Degraded=true indica que el cálculo falló y los ceros no
// prueban ausencia de stock; los callers no deben tratar el resultado como
// autoritativo sin mirar esa bandera.
type ConsolidatedStock struct {
	StockTotal      int  `json:"stock_total"`
	StockAvailable  int  `json:"stock_available"`
	StockReserved   int  `json:"stock_reserved"`
	StoresWithStock int  `json:"stores_with_stock"`
	StoresAvailable int  `json:"stores_available"`
	Degraded        bool `json:"degraded"`
}

// StockConsolidator calcula el stock real de un libro sumando sus registros en
// tiendas activas. Es una vista de lectura, no transaccional: puede competir
// con escritores concurrentes y nunca propaga errores, solo los registra.
type StockConsolidator struct {
	recordRepo repository.InventoryRecordRepository
	log        *logger.Logger
}

// NewStockConsolidator construye el consolidador con repositorios de solo lectura.
func NewStockConsolidator(recordRepo repository.InventoryRecordRepository, log *logger.Logger) *StockConsolidator {
	return &StockConsolidator{recordRepo: recordRepo, log: log}
}

// Consolidate suma los tres contadores sobre los registros del libro cuyas
// tiendas están activas; los registros en tiendas inactivas quedan fuera aunque
// tengan stock. En fallo interno devuelve ceros con Degraded=true.
func (c *StockConsolidator) Consolidate(_ context.Context, bookID string) ConsolidatedStock {
	records, err := c.recordRepo.ListByBookActiveStores(bookID)
	if err != nil {
		c.log.Error().Err(err).Str("book_id", bookID).Msg("consolidación de stock degradada")
		return ConsolidatedStock{Degraded: true}
	}
	var out ConsolidatedStock
	for _, rec := range records {
		out.StockTotal += rec.StockTotal
		out.StockAvailable += rec.StockAvailable
		out.StockReserved += rec.StockReserved
		if rec.StockTotal > 0 {
			out.StoresWithStock++
		}
		if rec.StockAvailable > 0 {
			out.StoresAvailable++
		}
	}
	return out
}
