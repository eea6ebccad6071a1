package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book representa un libro del catálogo.
// CachedStock es una caché del total consolidado entre tiendas activas; la fuente
// de verdad son los InventoryRecord. El auditor de consistencia la repara.
type Book struct {
	ID          string
	Title       string
	Author      string
	ISBN        string
	Price       decimal.Decimal
	CachedStock int
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
