package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/libreria-stock/internal/application/catalog"
	appinv "github.com/tu-usuario/libreria-stock/internal/application/inventory"
	"github.com/tu-usuario/libreria-stock/internal/domain"
	"github.com/tu-usuario/libreria-stock/internal/domain/entity"
	"github.com/tu-usuario/libreria-stock/internal/testutil"
	"github.com/tu-usuario/libreria-stock/pkg/logger"
)

func newBookUC(f *testutil.Fixture) *catalog.BookUseCase {
	consolidator := appinv.NewStockConsolidator(f.Records, logger.Nop())
	return catalog.NewBookUseCase(f.Tx, f.Books, f.Stores, consolidator)
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateBook
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateBook_DistribuyeStockInicial(t *testing.T) {
	f := testutil.NewFixture()
	s1 := f.SeedStore("Centro")
	s2 := f.SeedStore("Norte")
	s3 := f.SeedStore("Sur")

	uc := newBookUC(f)
	book, err := uc.CreateBook(context.Background(), catalog.CreateBookInput{
		Title:          "Cien Años de Soledad",
		Author:         "Gabriel García Márquez",
		ISBN:           "978-0307474728",
		Price:          decimal.NewFromFloat(19.99),
		InitialStock:   10,
		ThresholdAlert: 3,
		Actor:          "ana",
	})
	require.NoError(t, err)
	require.NotNil(t, book)
	assert.Equal(t, 10, book.CachedStock)

	// 10 entre 3 tiendas: la primera por orden de creación recibe la extra.
	r1, _ := f.Records.Get(book.ID, s1.ID)
	r2, _ := f.Records.Get(book.ID, s2.ID)
	r3, _ := f.Records.Get(book.ID, s3.ID)
	require.NotNil(t, r1)
	require.NotNil(t, r2)
	require.NotNil(t, r3)
	assert.Equal(t, 4, r1.StockTotal)
	assert.Equal(t, 3, r2.StockTotal)
	assert.Equal(t, 3, r3.StockTotal)
	assert.Equal(t, 3, r1.ThresholdAlert)

	// Un movimiento initial_stock por tienda con unidades asignadas.
	moves := f.Movements()
	require.Len(t, moves, 3)
	for _, m := range moves {
		assert.Equal(t, entity.MovementInbound, m.Kind)
		assert.Equal(t, entity.ReasonInitialStock, m.Reason)
	}
}

func TestCreateBook_SinStockInicialCreaRegistrosVacios(t *testing.T) {
	f := testutil.NewFixture()
	s1 := f.SeedStore("Centro")

	uc := newBookUC(f)
	book, err := uc.CreateBook(context.Background(), catalog.CreateBookInput{
		Title: "Novedad por Llegar",
		Price: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	rec, _ := f.Records.Get(book.ID, s1.ID)
	require.NotNil(t, rec)
	assert.Equal(t, 0, rec.StockTotal)
	assert.Equal(t, entity.StatusDepleted, rec.Status)
	assert.Empty(t, f.Movements(), "sin unidades no hay movimiento")
}

func TestCreateBook_ConStockSinTiendasEsConflicto(t *testing.T) {
	f := testutil.NewFixture()
	uc := newBookUC(f)
	_, err := uc.CreateBook(context.Background(), catalog.CreateBookInput{
		Title:        "Sin Dónde Ponerlo",
		Price:        decimal.NewFromInt(10),
		InitialStock: 5,
	})
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestCreateBook_EntradasInvalidas(t *testing.T) {
	f := testutil.NewFixture()
	uc := newBookUC(f)
	ctx := context.Background()

	_, err := uc.CreateBook(ctx, catalog.CreateBookInput{Title: "", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateBook(ctx, catalog.CreateBookInput{Title: "X", InitialStock: -1, Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateBook(ctx, catalog.CreateBookInput{Title: "X", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateBook_ISBNDuplicado(t *testing.T) {
	f := testutil.NewFixture()
	f.SeedStore("Centro")
	uc := newBookUC(f)
	ctx := context.Background()

	in := catalog.CreateBookInput{
		Title: "Primera Edición",
		ISBN:  "978-84-376-0494-7",
		Price: decimal.NewFromInt(12),
	}
	_, err := uc.CreateBook(ctx, in)
	require.NoError(t, err)

	in.Title = "Segunda Edición"
	_, err = uc.CreateBook(ctx, in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// ──────────────────────────────────────────────────────────────────────────────
// Redistribute
// ──────────────────────────────────────────────────────────────────────────────

func TestRedistribute_RepartePreservandoReservas(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("El Amor en los Tiempos del Cólera", 12)
	s1 := f.SeedStore("Centro")
	s2 := f.SeedStore("Norte")
	f.SeedRecord(book.ID, s1.ID, 8, 2, 2)
	f.SeedRecord(book.ID, s2.ID, 2, 0, 2)

	uc := newBookUC(f)
	err := uc.Redistribute(context.Background(), book.ID, 10, "ana")
	require.NoError(t, err)

	// 10 - 2 reservadas = 8 disponibles a repartir: 4 y 4.
	r1, _ := f.Records.Get(book.ID, s1.ID)
	r2, _ := f.Records.Get(book.ID, s2.ID)
	assert.Equal(t, 4, r1.StockAvailable)
	assert.Equal(t, 2, r1.StockReserved, "la redistribución jamás toca reservas")
	assert.Equal(t, 6, r1.StockTotal)
	assert.Equal(t, 4, r2.StockAvailable)
	assert.Equal(t, 4, r2.StockTotal)

	updated, _ := f.Books.GetByID(book.ID)
	assert.Equal(t, 10, updated.CachedStock)
}

func TestRedistribute_TotalMenorQueReservadoFallaSinMutar(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("Muy Reservado", 10)
	s1 := f.SeedStore("Centro")
	s2 := f.SeedStore("Norte")
	f.SeedRecord(book.ID, s1.ID, 1, 5, 2)
	f.SeedRecord(book.ID, s2.ID, 1, 3, 2)

	uc := newBookUC(f)
	// Σ reservado = 8 > nuevo total 5: imposible sin romper reservas.
	err := uc.Redistribute(context.Background(), book.ID, 5, "ana")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	r1, _ := f.Records.Get(book.ID, s1.ID)
	r2, _ := f.Records.Get(book.ID, s2.ID)
	assert.Equal(t, 6, r1.StockTotal, "el fallo no debe mutar ningún registro")
	assert.Equal(t, 4, r2.StockTotal)
	updated, _ := f.Books.GetByID(book.ID)
	assert.Equal(t, 10, updated.CachedStock)
	assert.Empty(t, f.Movements())
}

func TestRedistribute_CreaRegistrosEnTiendasNuevas(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("Expansión", 6)
	s1 := f.SeedStore("Centro")
	f.SeedRecord(book.ID, s1.ID, 6, 0, 2)
	s2 := f.SeedStore("Norte")

	uc := newBookUC(f)
	err := uc.Redistribute(context.Background(), book.ID, 6, "ana")
	require.NoError(t, err)

	r2, _ := f.Records.Get(book.ID, s2.ID)
	require.NotNil(t, r2, "la tienda nueva recibe su registro")
	assert.Equal(t, 3, r2.StockTotal)
	r1, _ := f.Records.Get(book.ID, s1.ID)
	assert.Equal(t, 3, r1.StockTotal)
}

func TestRedistribute_SinTiendasActivasEsConflicto(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("Sin Tiendas", 5)
	uc := newBookUC(f)
	err := uc.Redistribute(context.Background(), book.ID, 5, "ana")
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

// ──────────────────────────────────────────────────────────────────────────────
// Deactivate / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestDeactivateBook_LiberaApartados(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("Por Retirar", 10)
	s1 := f.SeedStore("Centro")
	s2 := f.SeedStore("Norte")
	f.SeedRecord(book.ID, s1.ID, 3, 4, 2)
	f.SeedRecord(book.ID, s2.ID, 3, 0, 2)

	uc := newBookUC(f)
	err := uc.DeactivateBook(context.Background(), book.ID, "ana")
	require.NoError(t, err)

	updated, _ := f.Books.GetByID(book.ID)
	assert.False(t, updated.Active)

	r1, _ := f.Records.Get(book.ID, s1.ID)
	assert.Equal(t, 0, r1.StockReserved)
	assert.Equal(t, 7, r1.StockAvailable)

	moves := f.Movements()
	require.Len(t, moves, 1)
	assert.Equal(t, entity.MovementRelease, moves[0].Kind)
	assert.Equal(t, entity.ReasonBookDeactivated, moves[0].Reason)
}

func TestDeleteBook_BorraLibroYRegistros(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("Para Borrar", 5)
	store := f.SeedStore("Centro")
	f.SeedRecord(book.ID, store.ID, 3, 2, 2)

	uc := newBookUC(f)
	err := uc.DeleteBook(context.Background(), book.ID, "ana")
	require.NoError(t, err)

	gone, _ := f.Books.GetByID(book.ID)
	assert.Nil(t, gone)
	rec, _ := f.Records.Get(book.ID, store.ID)
	assert.Nil(t, rec)

	// La liberación previa queda en el libro mayor.
	moves := f.Movements()
	require.Len(t, moves, 1)
	assert.Equal(t, entity.ReasonBookDeleted, moves[0].Reason)
}

func TestDeleteBook_Inexistente(t *testing.T) {
	f := testutil.NewFixture()
	uc := newBookUC(f)
	err := uc.DeleteBook(context.Background(), "no-existe", "ana")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

func TestGetBook_IncluyeStockConsolidado(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("Con Stock", 9)
	s1 := f.SeedStore("Centro")
	s2 := f.SeedStore("Norte")
	f.SeedRecord(book.ID, s1.ID, 5, 1, 2)
	f.SeedRecord(book.ID, s2.ID, 3, 0, 2)

	uc := newBookUC(f)
	got, err := uc.GetBook(context.Background(), book.ID)
	require.NoError(t, err)

	assert.Equal(t, book.ID, got.Book.ID)
	assert.Equal(t, 9, got.Stock.StockTotal)
	assert.Equal(t, 8, got.Stock.StockAvailable)
	assert.Equal(t, 1, got.Stock.StockReserved)
}

func TestListBooks_FiltraInactivos(t *testing.T) {
	f := testutil.NewFixture()
	f.SeedBook("Activo", 0)
	inactive := f.SeedBook("Inactivo", 0)
	inactive.Active = false

	uc := newBookUC(f)
	active, err := uc.ListBooks(context.Background(), true, 0, 0)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Activo", active[0].Title)

	all, err := uc.ListBooks(context.Background(), false, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
