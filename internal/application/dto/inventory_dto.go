package dto

import "time"

// RegisterMovementRequest entrada/salida/baja manual de stock.
// Type: inbound | outbound | writeoff.
type RegisterMovementRequest struct {
	BookID  string `json:"book_id"`
	StoreID string `json:"store_id"`
	Type    string `json:"type"`
	Qty     int    `json:"qty"`
	Reason  string `json:"reason"`
	SaleRef string `json:"sale_ref"`
	Note    string `json:"note"`
}

// TransferRequest traslado de stock entre tiendas.
type TransferRequest struct {
	BookID      string `json:"book_id"`
	FromStoreID string `json:"from_store_id"`
	ToStoreID   string `json:"to_store_id"`
	Qty         int    `json:"qty"`
	Note        string `json:"note"`
}

// PhysicalCountRequest conteo físico de un par libro+tienda.
type PhysicalCountRequest struct {
	BookID     string `json:"book_id"`
	StoreID    string `json:"store_id"`
	CountedQty int    `json:"counted_qty"`
	AutoAdjust bool   `json:"auto_adjust"`
}

// MarkDepletedRequest marca agotado histórico.
type MarkDepletedRequest struct {
	BookID  string `json:"book_id"`
	StoreID string `json:"store_id"`
	Reason  string `json:"reason"`
}

// ReserveRequest apartado o liberación de unidades.
type ReserveRequest struct {
	BookID         string `json:"book_id"`
	StoreID        string `json:"store_id"`
	Qty            int    `json:"qty"`
	ReservationRef string `json:"reservation_ref"`
	Note           string `json:"note"`
}

// ConfirmSaleRequest confirma la venta de unidades apartadas.
type ConfirmSaleRequest struct {
	BookID         string `json:"book_id"`
	StoreID        string `json:"store_id"`
	Qty            int    `json:"qty"`
	SaleRef        string `json:"sale_ref"`
	ReservationRef string `json:"reservation_ref"`
}

// InventoryRecordResponse registro de stock por libro+tienda.
type InventoryRecordResponse struct {
	ID             string              `json:"id"`
	BookID         string              `json:"book_id"`
	StoreID        string              `json:"store_id"`
	StockTotal     int                 `json:"stock_total"`
	StockAvailable int                 `json:"stock_available"`
	StockReserved  int                 `json:"stock_reserved"`
	ThresholdAlert int                 `json:"threshold_alert"`
	Status         string              `json:"status"`
	LastAudit      *StockAuditResponse `json:"last_audit,omitempty"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// StockAuditResponse último conteo físico del registro.
type StockAuditResponse struct {
	CountedAt     time.Time `json:"counted_at"`
	Actor         string    `json:"actor"`
	SystemCount   int       `json:"system_count"`
	PhysicalCount int       `json:"physical_count"`
	Difference    int       `json:"difference"`
	AutoAdjusted  bool      `json:"auto_adjusted"`
}

// MovementResponse entrada del libro mayor.
type MovementResponse struct {
	ID             string    `json:"id"`
	RecordID       string    `json:"record_id"`
	BookID         string    `json:"book_id"`
	StoreID        string    `json:"store_id"`
	Kind           string    `json:"kind"`
	Quantity       int       `json:"quantity"`
	Reason         string    `json:"reason"`
	Actor          string    `json:"actor,omitempty"`
	SaleRef        string    `json:"sale_ref,omitempty"`
	TransferRef    string    `json:"transfer_ref,omitempty"`
	ReservationRef string    `json:"reservation_ref,omitempty"`
	Note           string    `json:"note,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// StatusChangeResponse transición de estado de un registro.
type StatusChangeResponse struct {
	ID        string    `json:"id"`
	RecordID  string    `json:"record_id"`
	Previous  string    `json:"previous"`
	Next      string    `json:"next"`
	Reason    string    `json:"reason"`
	Actor     string    `json:"actor,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
