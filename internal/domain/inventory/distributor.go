package inventory

import "github.com/tu-usuario/libreria-stock/internal/domain"

// Distribute reparte totalQty entre storeCount tiendas activas (servicio de dominio).
// Las primeras totalQty mod storeCount tiendas, según el orden estable que
// aporta el caller, reciben una unidad extra; el resto recibe floor(totalQty/storeCount).
// La suma del resultado siempre es totalQty y la diferencia máx-mín es a lo sumo 1.
func Distribute(totalQty, storeCount int) ([]int, error) {
	if totalQty < 0 || storeCount < 1 {
		return nil, domain.ErrInvalidInput
	}
	base := totalQty / storeCount
	remainder := totalQty % storeCount
	shares := make([]int, storeCount)
	for i := range shares {
		shares[i] = base
		if i < remainder {
			shares[i]++
		}
	}
	return shares, nil
}
