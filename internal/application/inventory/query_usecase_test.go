package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/libreria-stock/internal/application/inventory"
	"github.com/tu-usuario/libreria-stock/internal/domain"
	"github.com/tu-usuario/libreria-stock/internal/domain/entity"
	"github.com/tu-usuario/libreria-stock/internal/testutil"
)

func newQueryUC(f *testutil.Fixture) *inventory.QueryUseCase {
	return inventory.NewQueryUseCase(f.Records, f.Moves, f.History)
}

func TestGetRecord_DevuelveElPar(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("Consultable", 5)
	store := f.SeedStore("Centro")
	f.SeedRecord(book.ID, store.ID, 5, 0, 2)

	uc := newQueryUC(f)
	rec, err := uc.GetRecord(context.Background(), book.ID, store.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, rec.StockTotal)

	_, err = uc.GetRecord(context.Background(), book.ID, "otra-tienda")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListLowStock_FiltraPorEstado(t *testing.T) {
	f := testutil.NewFixture()
	sano := f.SeedBook("Sano", 20)
	bajo := f.SeedBook("Bajo", 2)
	agotado := f.SeedBook("Agotado", 0)
	store := f.SeedStore("Centro")
	f.SeedRecord(sano.ID, store.ID, 20, 0, 3)
	f.SeedRecord(bajo.ID, store.ID, 2, 0, 3)
	f.SeedRecord(agotado.ID, store.ID, 0, 0, 3)

	uc := newQueryUC(f)
	got, err := uc.ListLowStock(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, rec := range got {
		assert.Contains(t, []entity.RecordStatus{entity.StatusLowStock, entity.StatusDepleted}, rec.Status)
	}
}

func TestListLowStock_SinTiendaExcluyeInactivas(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("Bajo", 1)
	s1 := f.SeedStore("Centro")
	s2 := f.SeedStore("Norte")
	s2.Active = false
	f.SeedRecord(book.ID, s1.ID, 1, 0, 3)
	f.SeedRecord(book.ID, s2.ID, 1, 0, 3)

	uc := newQueryUC(f)
	got, err := uc.ListLowStock(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, s1.ID, got[0].StoreID)

	// Con tienda explícita se consulta aunque esté inactiva.
	got, err = uc.ListLowStock(context.Background(), s2.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMovementsByBook_FiltraPorFechas(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("Con Historia", 10)
	store := f.SeedStore("Centro")
	rec := f.SeedRecord(book.ID, store.ID, 10, 0, 2)

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		mov := entity.NewInboundMovement(rec, 1, entity.ReasonPurchase, "ana", "", "", base.AddDate(0, 0, i))
		require.NoError(t, f.Moves.Create(mov))
	}

	uc := newQueryUC(f)
	from := base.AddDate(0, 0, 1)
	got, err := uc.MovementsByBook(context.Background(), book.ID, &from, nil, 0, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2, "el filtro desde deja fuera el primer movimiento")

	to := base.AddDate(0, 0, 1)
	got, err = uc.MovementsByBook(context.Background(), book.ID, nil, &to, 0, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2, "el filtro hasta deja fuera el último")
}

func TestMovementsByRecord_OrdenRecientePrimero(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("Ordenado", 10)
	store := f.SeedStore("Centro")
	rec := f.SeedRecord(book.ID, store.ID, 10, 0, 2)

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		mov := entity.NewInboundMovement(rec, i+1, entity.ReasonPurchase, "ana", "", "", base.AddDate(0, 0, i))
		require.NoError(t, f.Moves.Create(mov))
	}

	uc := newQueryUC(f)
	got, err := uc.MovementsByRecord(context.Background(), rec.ID, nil, nil, 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 3, got[0].Quantity, "el más reciente va primero")
	assert.Equal(t, 1, got[2].Quantity)
}

func TestStatusHistory_ListaTransiciones(t *testing.T) {
	f := testutil.NewFixture()
	book := f.SeedBook("Transicional", 0)
	store := f.SeedStore("Centro")
	rec := f.SeedRecord(book.ID, store.ID, 0, 0, 2)

	require.NoError(t, f.History.Create(&entity.StatusChange{
		RecordID: rec.ID,
		Previous: entity.StatusDepleted,
		Next:     entity.StatusAvailable,
		Actor:    "ana",
	}))

	uc := newQueryUC(f)
	got, err := uc.StatusHistory(context.Background(), rec.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, entity.StatusAvailable, got[0].Next)
}

func TestConsultas_EntradasVacias(t *testing.T) {
	f := testutil.NewFixture()
	uc := newQueryUC(f)
	ctx := context.Background()

	_, err := uc.GetRecord(ctx, "", "s")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.ListByStore(ctx, "", 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.ListByBook(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.MovementsByBook(ctx, "", nil, nil, 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.StatusHistory(ctx, "", 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
