package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/libreria-stock/internal/application/inventory"
	"github.com/tu-usuario/libreria-stock/internal/domain"
	"github.com/tu-usuario/libreria-stock/internal/domain/entity"
	"github.com/tu-usuario/libreria-stock/internal/testutil"
)

func newMovementUC(f *testutil.Fixture) *inventory.RegisterMovementUseCase {
	return inventory.NewRegisterMovementUseCase(f.Tx, f.Books, f.Stores)
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterInbound_CreaRegistroPerezoso(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("Crónica de una Muerte Anunciada", 0)
	store := f.SeedStore("Centro")

	uc := newMovementUC(f)
	err := uc.RegisterInbound(context.Background(), inventory.MovementInput{
		BookID:  book.ID,
		StoreID: store.ID,
		Qty:     10,
		Actor:   "ana",
	})
	require.NoError(t, err)

	rec, err := f.Records.Get(book.ID, store.ID)
	require.NoError(t, err)
	require.NotNil(t, rec, "la primera entrada crea el registro")
	assert.Equal(t, 10, rec.StockTotal)
	assert.Equal(t, entity.DefaultThresholdAlert, rec.ThresholdAlert)
	assert.Equal(t, entity.StatusAvailable, rec.Status)

	updated, _ := f.Books.GetByID(book.ID)
	assert.Equal(t, 10, updated.CachedStock)

	moves := f.Movements()
	require.Len(t, moves, 1)
	assert.Equal(t, entity.MovementInbound, moves[0].Kind)
	assert.Equal(t, entity.ReasonPurchase, moves[0].Reason, "sin razón explícita se asume compra")

	// depleted -> available queda en el historial de transiciones.
	changes := f.StatusChanges()
	require.Len(t, changes, 1)
	assert.Equal(t, entity.StatusDepleted, changes[0].Previous)
	assert.Equal(t, entity.StatusAvailable, changes[0].Next)
}

func TestRegisterInbound_SobreRegistroExistente(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("Paradiso", 4)
	store := f.SeedStore("Centro")
	f.SeedRecord(book.ID, store.ID, 4, 0, 2)

	uc := newMovementUC(f)
	err := uc.RegisterInbound(context.Background(), inventory.MovementInput{
		BookID:  book.ID,
		StoreID: store.ID,
		Qty:     6,
		Reason:  entity.ReasonInitialStock,
		Actor:   "ana",
	})
	require.NoError(t, err)

	rec, _ := f.Records.Get(book.ID, store.ID)
	assert.Equal(t, 10, rec.StockTotal)
	updated, _ := f.Books.GetByID(book.ID)
	assert.Equal(t, 10, updated.CachedStock)
}

func TestRegisterInbound_TiendaInexistente(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("Ifigenia", 0)

	uc := newMovementUC(f)
	err := uc.RegisterInbound(context.Background(), inventory.MovementInput{
		BookID:  book.ID,
		StoreID: "no-existe",
		Qty:     5,
		Actor:   "ana",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Salidas y bajas
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterOutbound_DescuentaYActualizaCache(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("Santa Evita", 10)
	store := f.SeedStore("Centro")
	f.SeedRecord(book.ID, store.ID, 10, 0, 2)

	uc := newMovementUC(f)
	err := uc.RegisterOutbound(context.Background(), inventory.MovementInput{
		BookID:  book.ID,
		StoreID: store.ID,
		Qty:     3,
		Actor:   "ana",
		SaleRef: "venta-77",
	})
	require.NoError(t, err)

	rec, _ := f.Records.Get(book.ID, store.ID)
	assert.Equal(t, 7, rec.StockTotal)
	updated, _ := f.Books.GetByID(book.ID)
	assert.Equal(t, 7, updated.CachedStock)

	moves := f.Movements()
	require.Len(t, moves, 1)
	assert.Equal(t, "venta-77", moves[0].SaleRef)
}

func TestRegisterOutbound_SinRegistroEsNotFound(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("Residencia en la Tierra", 0)
	store := f.SeedStore("Centro")

	uc := newMovementUC(f)
	err := uc.RegisterOutbound(context.Background(), inventory.MovementInput{
		BookID:  book.ID,
		StoreID: store.ID,
		Qty:     1,
		Actor:   "ana",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "las salidas no crean registros perezosos")
}

func TestRegisterWriteOff_RazonPorDefectoEsDaño(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("Trilce", 6)
	store := f.SeedStore("Centro")
	f.SeedRecord(book.ID, store.ID, 6, 0, 2)

	uc := newMovementUC(f)
	err := uc.RegisterWriteOff(context.Background(), inventory.MovementInput{
		BookID:  book.ID,
		StoreID: store.ID,
		Qty:     2,
		Actor:   "ana",
	})
	require.NoError(t, err)

	moves := f.Movements()
	require.Len(t, moves, 1)
	assert.Equal(t, entity.MovementWriteOff, moves[0].Kind)
	assert.Equal(t, entity.ReasonDamaged, moves[0].Reason)

	updated, _ := f.Books.GetByID(book.ID)
	assert.Equal(t, 4, updated.CachedStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslados
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_MueveStockEntreTiendas(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("Las Armas Secretas", 10)
	s1 := f.SeedStore("Centro")
	s2 := f.SeedStore("Norte")
	f.SeedRecord(book.ID, s1.ID, 10, 0, 2)
	f.SeedRecord(book.ID, s2.ID, 0, 0, 2)

	uc := newMovementUC(f)
	err := uc.Transfer(context.Background(), inventory.TransferInput{
		BookID:      book.ID,
		FromStoreID: s1.ID,
		ToStoreID:   s2.ID,
		Qty:         4,
		Actor:       "ana",
	})
	require.NoError(t, err)

	origin, _ := f.Records.Get(book.ID, s1.ID)
	dest, _ := f.Records.Get(book.ID, s2.ID)
	assert.Equal(t, 6, origin.StockTotal)
	assert.Equal(t, 4, dest.StockTotal)

	// Dos movimientos con la misma referencia de traslado.
	moves := f.Movements()
	require.Len(t, moves, 2)
	assert.Equal(t, entity.MovementOutbound, moves[0].Kind)
	assert.Equal(t, entity.MovementInbound, moves[1].Kind)
	assert.Equal(t, entity.ReasonTransfer, moves[0].Reason)
	assert.NotEmpty(t, moves[0].TransferRef)
	assert.Equal(t, moves[0].TransferRef, moves[1].TransferRef)

	// La caché del libro no cambia: el traslado es neto cero.
	updated, _ := f.Books.GetByID(book.ID)
	assert.Equal(t, 10, updated.CachedStock)
}

func TestTransfer_CreaRegistroDestinoSiFalta(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("El Túnel", 8)
	s1 := f.SeedStore("Centro")
	s2 := f.SeedStore("Norte")
	f.SeedRecord(book.ID, s1.ID, 8, 0, 2)

	uc := newMovementUC(f)
	err := uc.Transfer(context.Background(), inventory.TransferInput{
		BookID:      book.ID,
		FromStoreID: s1.ID,
		ToStoreID:   s2.ID,
		Qty:         3,
		Actor:       "ana",
	})
	require.NoError(t, err)

	dest, _ := f.Records.Get(book.ID, s2.ID)
	require.NotNil(t, dest)
	assert.Equal(t, 3, dest.StockTotal)
}

func TestTransfer_SinStockEnOrigenRevierteTodo(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("Óperas Mínimas", 2)
	s1 := f.SeedStore("Centro")
	s2 := f.SeedStore("Norte")
	f.SeedRecord(book.ID, s1.ID, 2, 0, 2)

	uc := newMovementUC(f)
	err := uc.Transfer(context.Background(), inventory.TransferInput{
		BookID:      book.ID,
		FromStoreID: s1.ID,
		ToStoreID:   s2.ID,
		Qty:         5,
		Actor:       "ana",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	origin, _ := f.Records.Get(book.ID, s1.ID)
	assert.Equal(t, 2, origin.StockTotal, "el rollback restaura el origen")
	dest, _ := f.Records.Get(book.ID, s2.ID)
	assert.Nil(t, dest, "el rollback no deja el registro destino creado")
	assert.Empty(t, f.Movements())
}

func TestTransfer_MismaTiendaEsInvalido(t *testing.T) {
	f := testutil.NewFixture()
	uc := newMovementUC(f)
	err := uc.Transfer(context.Background(), inventory.TransferInput{
		BookID:      "b",
		FromStoreID: "s",
		ToStoreID:   "s",
		Qty:         1,
		Actor:       "ana",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Conteos físicos y agotado histórico
// ──────────────────────────────────────────────────────────────────────────────

func TestPhysicalCount_ConAjusteCorrigeCache(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("La Casa Verde", 10)
	store := f.SeedStore("Centro")
	f.SeedRecord(book.ID, store.ID, 10, 0, 2)

	uc := newMovementUC(f)
	err := uc.PhysicalCount(context.Background(), inventory.PhysicalCountInput{
		BookID:     book.ID,
		StoreID:    store.ID,
		CountedQty: 7,
		Actor:      "ana",
		AutoAdjust: true,
	})
	require.NoError(t, err)

	rec, _ := f.Records.Get(book.ID, store.ID)
	assert.Equal(t, 7, rec.StockTotal)
	require.NotNil(t, rec.LastAudit)
	assert.Equal(t, -3, rec.LastAudit.Difference)
	assert.True(t, rec.LastAudit.AutoAdjusted)

	updated, _ := f.Books.GetByID(book.ID)
	assert.Equal(t, 7, updated.CachedStock)
}

func TestPhysicalCount_SinAjusteNoTocaCache(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("Conversación en la Catedral", 10)
	store := f.SeedStore("Centro")
	f.SeedRecord(book.ID, store.ID, 10, 0, 2)

	uc := newMovementUC(f)
	err := uc.PhysicalCount(context.Background(), inventory.PhysicalCountInput{
		BookID:     book.ID,
		StoreID:    store.ID,
		CountedQty: 12,
		Actor:      "ana",
		AutoAdjust: false,
	})
	require.NoError(t, err)

	rec, _ := f.Records.Get(book.ID, store.ID)
	assert.Equal(t, 10, rec.StockTotal)
	assert.Equal(t, 2, rec.LastAudit.Difference)

	updated, _ := f.Books.GetByID(book.ID)
	assert.Equal(t, 10, updated.CachedStock)
}

func TestMarkHistoricallyDepleted_FlujoCompleto(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("Libro Descatalogado", 0)
	store := f.SeedStore("Centro")
	f.SeedRecord(book.ID, store.ID, 0, 0, 2)

	uc := newMovementUC(f)
	err := uc.MarkHistoricallyDepleted(context.Background(), book.ID, store.ID, "ana", "sin reimpresión")
	require.NoError(t, err)

	rec, _ := f.Records.Get(book.ID, store.ID)
	assert.Equal(t, entity.StatusHistoricallyDepleted, rec.Status)

	changes := f.StatusChanges()
	require.Len(t, changes, 1)
	assert.Equal(t, entity.StatusDepleted, changes[0].Previous)
	assert.Equal(t, entity.StatusHistoricallyDepleted, changes[0].Next)
}

func TestMarkHistoricallyDepleted_ConStockEsConflicto(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("Todavía en Venta", 5)
	store := f.SeedStore("Centro")
	f.SeedRecord(book.ID, store.ID, 5, 0, 2)

	uc := newMovementUC(f)
	err := uc.MarkHistoricallyDepleted(context.Background(), book.ID, store.ID, "ana", "error")
	assert.ErrorIs(t, err, domain.ErrStateConflict)

	rec, _ := f.Records.Get(book.ID, store.ID)
	assert.Equal(t, entity.StatusAvailable, rec.Status)
	assert.Empty(t, f.StatusChanges())
}
