package entity

import "time"

// Tipos de movimiento del libro mayor de inventario.
const (
	MovementInbound    = "inbound"    // entrada de mercancía
	MovementOutbound   = "outbound"   // salida (venta, retiro)
	MovementReserve    = "reserve"    // apartado temporal
	MovementRelease    = "release"    // liberación de apartado
	MovementAdjustment = "adjustment" // ajuste (conteo físico, redistribución)
	MovementWriteOff   = "writeoff"   // baja por daño o pérdida
)

// Códigos de razón usados por los casos de uso.
const (
	ReasonPurchase        = "purchase"
	ReasonInitialStock    = "initial_stock"
	ReasonSale            = "sale"
	ReasonTransfer        = "transfer"
	ReasonRedistribution  = "redistribution"
	ReasonPhysicalCount   = "physical_count"
	ReasonCartReservation = "cart_reservation"
	ReasonBookDeactivated = "book_deactivated"
	ReasonBookDeleted     = "book_deleted"
	ReasonDamaged         = "damaged"
)

// Movement es una entrada append-only del libro mayor de un InventoryRecord.
// Quantity es la magnitud del movimiento; solo en adjustment puede ser negativa
// (la dirección del resto de tipos la da el propio tipo).
// Actor vacío significa movimiento generado por el sistema. SaleRef, TransferRef
// y ReservationRef solo se llenan según el tipo; usar los constructores New*Movement
// para garantizar qué campos lleva cada tipo.
type Movement struct {
	ID             string
	RecordID       string
	BookID         string
	StoreID        string
	Kind           string
	Quantity       int
	Reason         string
	Actor          string
	SaleRef        string
	TransferRef    string
	ReservationRef string
	Note           string
	CreatedAt      time.Time
}

// NewInboundMovement construye un movimiento de entrada.
func NewInboundMovement(r *InventoryRecord, qty int, reason, actor, transferRef, note string, now time.Time) *Movement {
	return &Movement{
		RecordID: r.ID, BookID: r.BookID, StoreID: r.StoreID,
		Kind: MovementInbound, Quantity: qty, Reason: reason,
		Actor: actor, TransferRef: transferRef, Note: note, CreatedAt: now,
	}
}

// NewOutboundMovement construye un movimiento de salida. saleRef enlaza la venta
// o transacción que lo causó; reservationRef se llena cuando la salida consume un apartado.
func NewOutboundMovement(r *InventoryRecord, qty int, reason, actor, saleRef, reservationRef, transferRef, note string, now time.Time) *Movement {
	return &Movement{
		RecordID: r.ID, BookID: r.BookID, StoreID: r.StoreID,
		Kind: MovementOutbound, Quantity: qty, Reason: reason,
		Actor: actor, SaleRef: saleRef, ReservationRef: reservationRef,
		TransferRef: transferRef, Note: note, CreatedAt: now,
	}
}

// NewReserveMovement construye un movimiento de apartado.
func NewReserveMovement(r *InventoryRecord, qty int, reason, actor, reservationRef, note string, now time.Time) *Movement {
	return &Movement{
		RecordID: r.ID, BookID: r.BookID, StoreID: r.StoreID,
		Kind: MovementReserve, Quantity: qty, Reason: reason,
		Actor: actor, ReservationRef: reservationRef, Note: note, CreatedAt: now,
	}
}

// NewReleaseMovement construye un movimiento de liberación de apartado.
func NewReleaseMovement(r *InventoryRecord, qty int, reason, actor, reservationRef, note string, now time.Time) *Movement {
	return &Movement{
		RecordID: r.ID, BookID: r.BookID, StoreID: r.StoreID,
		Kind: MovementRelease, Quantity: qty, Reason: reason,
		Actor: actor, ReservationRef: reservationRef, Note: note, CreatedAt: now,
	}
}

// NewAdjustmentMovement construye un ajuste; qty lleva signo (puede ser 0 para
// dejar constancia de un conteo físico sin diferencia).
func NewAdjustmentMovement(r *InventoryRecord, qty int, reason, actor, note string, now time.Time) *Movement {
	return &Movement{
		RecordID: r.ID, BookID: r.BookID, StoreID: r.StoreID,
		Kind: MovementAdjustment, Quantity: qty, Reason: reason,
		Actor: actor, Note: note, CreatedAt: now,
	}
}

// NewWriteOffMovement construye una baja definitiva de stock.
func NewWriteOffMovement(r *InventoryRecord, qty int, reason, actor, note string, now time.Time) *Movement {
	return &Movement{
		RecordID: r.ID, BookID: r.BookID, StoreID: r.StoreID,
		Kind: MovementWriteOff, Quantity: qty, Reason: reason,
		Actor: actor, Note: note, CreatedAt: now,
	}
}
