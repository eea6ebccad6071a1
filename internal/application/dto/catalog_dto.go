package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBookRequest alta de libro con stock inicial a repartir entre tiendas activas.
type CreateBookRequest struct {
	Title          string          `json:"title"`
	Author         string          `json:"author"`
	ISBN           string          `json:"isbn"`
	Price          decimal.Decimal `json:"price"`
	InitialStock   int             `json:"initial_stock"`
	ThresholdAlert int             `json:"threshold_alert"`
}

// UpdateBookRequest actualización de datos de catálogo.
type UpdateBookRequest struct {
	Title  string          `json:"title"`
	Author string          `json:"author"`
	ISBN   string          `json:"isbn"`
	Price  decimal.Decimal `json:"price"`
}

// RedistributeRequest fija el total del libro y lo reparte entre tiendas activas.
type RedistributeRequest struct {
	NewTotal int `json:"new_total"`
}

// BookResponse libro serializado para la API.
type BookResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	ISBN        string          `json:"isbn"`
	Price       decimal.Decimal `json:"price"`
	CachedStock int             `json:"cached_stock"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreateStoreRequest alta de tienda.
type CreateStoreRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// UpdateStoreRequest actualización de tienda.
type UpdateStoreRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// StoreResponse tienda serializada para la API.
type StoreResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
