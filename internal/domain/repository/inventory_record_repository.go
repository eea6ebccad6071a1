package repository

import "github.com/tu-usuario/libreria-stock/internal/domain/entity"

// InventoryRecordRepository define el puerto para los registros de stock por
// libro+tienda. Las variantes ForUpdate bloquean la fila (SELECT FOR UPDATE) y
// solo tienen sentido dentro de una transacción.
type InventoryRecordRepository interface {
	Create(record *entity.InventoryRecord) error
	Update(record *entity.InventoryRecord) error
	// Get devuelve nil, nil si el par libro+tienda no tiene registro.
	Get(bookID, storeID string) (*entity.InventoryRecord, error)
	GetForUpdate(bookID, storeID string) (*entity.InventoryRecord, error)
	ListByBook(bookID string) ([]*entity.InventoryRecord, error)
	// ListByBookForUpdate bloquea todos los registros del libro en orden estable
	// (created_at asc) para operaciones multi-tienda todo-o-nada.
	ListByBookForUpdate(bookID string) ([]*entity.InventoryRecord, error)
	// ListByBookActiveStores devuelve solo registros cuya tienda está activa
	// (lectura de consolidación).
	ListByBookActiveStores(bookID string) ([]*entity.InventoryRecord, error)
	ListByStore(storeID string, limit, offset int) ([]*entity.InventoryRecord, error)
	// ListLowStock devuelve los registros en low_stock o depleted de una tienda
	// (storeID vacío = todas las tiendas activas).
	ListLowStock(storeID string) ([]*entity.InventoryRecord, error)
	// CountByStore cuenta los registros de una tienda (auditoría).
	CountByStore(storeID string) (int, error)
	// MaxReservedByStore devuelve el mayor stock_reserved entre los registros de
	// la tienda; 0 si no tiene registros.
	MaxReservedByStore(storeID string) (int, error)
	DeleteByBook(bookID string) error
	DeleteByStore(storeID string) error
}
