package entity

import "time"

// Store representa una tienda física (multi-tienda).
// Solo las tiendas activas participan en distribución y consolidación de stock.
type Store struct {
	ID        string
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
