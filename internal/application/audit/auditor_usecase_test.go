package audit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/libreria-stock/internal/application/audit"
	"github.com/tu-usuario/libreria-stock/internal/application/inventory"
	"github.com/tu-usuario/libreria-stock/internal/testutil"
	"github.com/tu-usuario/libreria-stock/pkg/logger"
)

func newAuditor(f *testutil.Fixture) *audit.ConsistencyAuditor {
	consolidator := inventory.NewStockConsolidator(f.Records, logger.Nop())
	return audit.NewConsistencyAuditor(f.Books, f.Stores, f.Records, consolidator, logger.Nop())
}

func TestReport_SinDerivaNoReportaNada(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("Consistente", 10)
	store := f.SeedStore("Centro")
	f.SeedRecord(book.ID, store.ID, 10, 0, 2)

	report, err := newAuditor(f).Report(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.BooksChecked)
	assert.Equal(t, 1, report.StoresChecked)
	assert.Empty(t, report.Inconsistent)
	assert.Empty(t, report.StoresWithoutRecords)
	assert.Empty(t, report.DegradedBooks)
}

func TestReport_DetectaDerivaDeCache(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("Con Deriva", 15)
	store := f.SeedStore("Centro")
	f.SeedRecord(book.ID, store.ID, 10, 0, 2)

	report, err := newAuditor(f).Report(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Inconsistent, 1)
	drift := report.Inconsistent[0]
	assert.Equal(t, book.ID, drift.BookID)
	assert.Equal(t, 15, drift.CachedStock)
	assert.Equal(t, 10, drift.ConsolidatedStock)
	assert.Equal(t, 5, drift.Difference)
}

func TestReport_TiendaInactivaProvocaDerivaAparente(t *testing.T) {
	// La caché incluye stock de una tienda que luego se desactivó: el
	// consolidado solo ve tiendas activas y el auditor lo reporta.
	f := testutil.NewFixture()
	book := f.SeedBook("Repartido", 10)
	s1 := f.SeedStore("Centro")
	s2 := f.SeedStore("Norte")
	f.SeedRecord(book.ID, s1.ID, 6, 0, 2)
	f.SeedRecord(book.ID, s2.ID, 4, 0, 2)
	s2.Active = false

	report, err := newAuditor(f).Report(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Inconsistent, 1)
	assert.Equal(t, 6, report.Inconsistent[0].ConsolidatedStock)
}

func TestReport_TiendaActivaSinRegistros(t *testing.T) {
	f := testutil.NewFixture()
	store := f.SeedStore("Vacía")

	report, err := newAuditor(f).Report(context.Background())
	require.NoError(t, err)

	require.Len(t, report.StoresWithoutRecords, 1)
	assert.Equal(t, store.ID, report.StoresWithoutRecords[0].StoreID)
	assert.Equal(t, "Vacía", report.StoresWithoutRecords[0].Name)
}

func TestReport_ConsolidacionDegradadaNoCuentaComoDeriva(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("Ilegible", 10)
	store := f.SeedStore("Centro")
	f.SeedRecord(book.ID, store.ID, 5, 0, 2)
	f.Records.FailListByBookActiveStores = true

	report, err := newAuditor(f).Report(context.Background())
	require.NoError(t, err)

	assert.Empty(t, report.Inconsistent, "un libro degradado no se marca como deriva")
	require.Len(t, report.DegradedBooks, 1)
	assert.Equal(t, book.ID, report.DegradedBooks[0])
}

func TestReport_IgnoraLibrosInactivos(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("Retirado", 99)
	book.Active = false
	store := f.SeedStore("Centro")
	f.SeedRecord(book.ID, store.ID, 1, 0, 2)

	report, err := newAuditor(f).Report(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.BooksChecked)
	assert.Empty(t, report.Inconsistent)
}

func TestRepair_SobreescribeSoloLasCaches(t *testing.T) {
	f := testutil.NewFixture()
	drifted := f.SeedBook("Con Deriva", 20)
	ok := f.SeedBook("Consistente", 4)
	store := f.SeedStore("Centro")
	f.SeedRecord(drifted.ID, store.ID, 8, 1, 2)
	f.SeedRecord(ok.ID, store.ID, 4, 0, 2)

	result, err := newAuditor(f).Repair(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Repaired)
	require.Len(t, result.Report.Inconsistent, 1)

	repaired, _ := f.Books.GetByID(drifted.ID)
	assert.Equal(t, 9, repaired.CachedStock, "la caché toma el valor consolidado")
	untouched, _ := f.Books.GetByID(ok.ID)
	assert.Equal(t, 4, untouched.CachedStock)

	// La reparación solo toca caches: los registros quedan como estaban.
	rec, _ := f.Records.Get(drifted.ID, store.ID)
	assert.Equal(t, 9, rec.StockTotal)
	assert.Equal(t, 1, rec.StockReserved)
	assert.Empty(t, f.Movements())
}

func TestRepair_NoCreaRegistrosFaltantes(t *testing.T) {
	f := testutil.NewFixture()
	store := f.SeedStore("Vacía")

	result, err := newAuditor(f).Repair(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Repaired)
	require.Len(t, result.Report.StoresWithoutRecords, 1)
	count, _ := f.Records.CountByStore(store.ID)
	assert.Equal(t, 0, count, "la remediación de tiendas vacías es del operador")
}
