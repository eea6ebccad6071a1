package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/libreria-stock/internal/domain"
	"github.com/tu-usuario/libreria-stock/internal/domain/inventory"
)

func TestDistribute_RepartoConResto(t *testing.T) {
	shares, err := inventory.Distribute(10, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 3, 3}, shares)
}

func TestDistribute_RepartoExacto(t *testing.T) {
	shares, err := inventory.Distribute(12, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3, 3, 3}, shares)
}

func TestDistribute_CeroUnidades(t *testing.T) {
	shares, err := inventory.Distribute(0, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0}, shares)
}

func TestDistribute_MenosUnidadesQueTiendas(t *testing.T) {
	shares, err := inventory.Distribute(2, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 0, 0, 0}, shares)
}

func TestDistribute_PropiedadesDelReparto(t *testing.T) {
	cases := []struct {
		totalQty   int
		storeCount int
	}{
		{1, 1}, {7, 2}, {10, 3}, {99, 7}, {100, 100}, {3, 10},
	}
	for _, tc := range cases {
		shares, err := inventory.Distribute(tc.totalQty, tc.storeCount)
		require.NoError(t, err)
		require.Len(t, shares, tc.storeCount)

		sum, min, max := 0, shares[0], shares[0]
		for _, s := range shares {
			sum += s
			if s < min {
				min = s
			}
			if s > max {
				max = s
			}
		}
		assert.Equal(t, tc.totalQty, sum, "la suma de las cuotas debe ser el total")
		assert.LessOrEqual(t, max-min, 1, "la diferencia máx-mín no supera 1")
	}
}

func TestDistribute_EsDeterminista(t *testing.T) {
	a, err := inventory.Distribute(17, 5)
	require.NoError(t, err)
	b, err := inventory.Distribute(17, 5)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDistribute_EntradasInvalidas(t *testing.T) {
	_, err := inventory.Distribute(-1, 3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.Distribute(10, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
