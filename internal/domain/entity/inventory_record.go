package entity

import (
	"time"

	"github.com/tu-usuario/libreria-stock/internal/domain"
)

// Estados de un InventoryRecord.
type RecordStatus string

const (
	StatusAvailable            RecordStatus = "available"
	StatusLowStock             RecordStatus = "low_stock"
	StatusDepleted             RecordStatus = "depleted"
	StatusHistoricallyDepleted RecordStatus = "historically_depleted"
)

// DefaultThresholdAlert umbral de alerta de stock bajo cuando el registro se
// crea de forma implícita (primera entrada manual en una tienda).
const DefaultThresholdAlert = 5

// StatusFor calcula el estado como función pura de los contadores.
// No contempla historically_depleted: ese estado solo se alcanza con
// MarkHistoricallyDepleted y es pegajoso.
func StatusFor(stockTotal, stockAvailable, thresholdAlert int) RecordStatus {
	switch {
	case stockTotal == 0:
		return StatusDepleted
	case stockAvailable <= thresholdAlert:
		return StatusLowStock
	default:
		return StatusAvailable
	}
}

// InventoryRecord es el libro mayor de stock de un libro en una tienda.
// Invariantes que toda operación debe conservar:
//   - StockTotal == StockAvailable + StockReserved
//   - los tres contadores >= 0
//   - Status es StatusFor(contadores) salvo historically_depleted, que es pegajoso
type InventoryRecord struct {
	ID             string
	BookID         string
	StoreID        string
	StockTotal     int
	StockAvailable int
	StockReserved  int
	ThresholdAlert int
	Status         RecordStatus
	LastAudit      *StockAudit
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StockAudit resultado del último conteo físico sobre el registro.
type StockAudit struct {
	CountedAt     time.Time
	Actor         string
	SystemCount   int
	PhysicalCount int
	Difference    int
	AutoAdjusted  bool
}

// ApplyResult es el efecto de una operación sobre el registro: el movimiento
// generado y, si el estado cambió, la transición. El caso de uso que invoca la
// operación persiste ambos junto con los contadores dentro de su transacción.
type ApplyResult struct {
	Movement     *Movement
	StatusChange *StatusChange
}

// NewInventoryRecord crea un registro vacío para un par libro+tienda.
func NewInventoryRecord(bookID, storeID string, thresholdAlert int, now time.Time) *InventoryRecord {
	if thresholdAlert < 1 {
		thresholdAlert = DefaultThresholdAlert
	}
	return &InventoryRecord{
		BookID:         bookID,
		StoreID:        storeID,
		ThresholdAlert: thresholdAlert,
		Status:         StatusDepleted,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// RecordInbound registra una entrada: suma qty a total y disponible.
func (r *InventoryRecord) RecordInbound(qty int, reason, actor, transferRef, note string, now time.Time) (*ApplyResult, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidInput
	}
	r.StockTotal += qty
	r.StockAvailable += qty
	mov := NewInboundMovement(r, qty, reason, actor, transferRef, note, now)
	return r.finish(mov, reason, actor, now), nil
}

// RecordOutbound registra una salida desde el disponible: resta qty de total y disponible.
func (r *InventoryRecord) RecordOutbound(qty int, reason, actor, saleRef, transferRef, note string, now time.Time) (*ApplyResult, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if qty > r.StockAvailable {
		return nil, domain.ErrInsufficientStock
	}
	r.StockTotal -= qty
	r.StockAvailable -= qty
	mov := NewOutboundMovement(r, qty, reason, actor, saleRef, "", transferRef, note, now)
	return r.finish(mov, reason, actor, now), nil
}

// RecordWriteOff da de baja qty unidades disponibles (daño, pérdida).
func (r *InventoryRecord) RecordWriteOff(qty int, reason, actor, note string, now time.Time) (*ApplyResult, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if qty > r.StockAvailable {
		return nil, domain.ErrInsufficientStock
	}
	r.StockTotal -= qty
	r.StockAvailable -= qty
	mov := NewWriteOffMovement(r, qty, reason, actor, note, now)
	return r.finish(mov, reason, actor, now), nil
}

// Reserve aparta qty unidades: pasa de disponible a reservado. No altera el total.
func (r *InventoryRecord) Reserve(qty int, actor, reservationRef, note string, now time.Time) (*ApplyResult, error) {
	if qty <= 0 || reservationRef == "" {
		return nil, domain.ErrInvalidInput
	}
	if qty > r.StockAvailable {
		return nil, domain.ErrInsufficientStock
	}
	r.StockAvailable -= qty
	r.StockReserved += qty
	mov := NewReserveMovement(r, qty, ReasonCartReservation, actor, reservationRef, note, now)
	return r.finish(mov, ReasonCartReservation, actor, now), nil
}

// Release devuelve qty unidades reservadas al disponible.
func (r *InventoryRecord) Release(qty int, reason, actor, reservationRef, note string, now time.Time) (*ApplyResult, error) {
	if qty <= 0 || reservationRef == "" {
		return nil, domain.ErrInvalidInput
	}
	if qty > r.StockReserved {
		return nil, domain.ErrInsufficientStock
	}
	r.StockAvailable += qty
	r.StockReserved -= qty
	mov := NewReleaseMovement(r, qty, reason, actor, reservationRef, note, now)
	return r.finish(mov, reason, actor, now), nil
}

// ReleaseAll devuelve todo el reservado al disponible en un único movimiento
// release sin referencia de reserva (liberación masiva al desactivar o borrar
// el libro). Es un no-op inválido si no hay nada reservado.
func (r *InventoryRecord) ReleaseAll(reason, actor, note string, now time.Time) (*ApplyResult, error) {
	if r.StockReserved == 0 {
		return nil, domain.ErrInvalidInput
	}
	qty := r.StockReserved
	r.StockAvailable += qty
	r.StockReserved = 0
	mov := NewReleaseMovement(r, qty, reason, actor, "", note, now)
	return r.finish(mov, reason, actor, now), nil
}

// ConfirmSale convierte un apartado en venta definitiva: consume primero el
// reservado y, si no alcanza, el disponible; en ambos casos decrementa el total.
// Genera un único movimiento outbound con razón sale.
func (r *InventoryRecord) ConfirmSale(qty int, actor, saleRef, reservationRef string, now time.Time) (*ApplyResult, error) {
	if qty <= 0 || saleRef == "" {
		return nil, domain.ErrInvalidInput
	}
	fromReserved := qty
	if fromReserved > r.StockReserved {
		fromReserved = r.StockReserved
	}
	fromAvailable := qty - fromReserved
	if fromAvailable > r.StockAvailable {
		return nil, domain.ErrInsufficientStock
	}
	r.StockReserved -= fromReserved
	r.StockAvailable -= fromAvailable
	r.StockTotal -= qty
	mov := NewOutboundMovement(r, qty, ReasonSale, actor, saleRef, reservationRef, "", "", now)
	return r.finish(mov, ReasonSale, actor, now), nil
}

// Adjust aplica un delta con signo a total y disponible (redistribución).
// Nunca toca el reservado; falla si dejaría el disponible negativo.
func (r *InventoryRecord) Adjust(delta int, reason, actor, note string, now time.Time) (*ApplyResult, error) {
	if r.StockAvailable+delta < 0 {
		return nil, domain.ErrInsufficientStock
	}
	r.StockTotal += delta
	r.StockAvailable += delta
	mov := NewAdjustmentMovement(r, delta, reason, actor, note, now)
	return r.finish(mov, reason, actor, now), nil
}

// MarkHistoricallyDepleted marca el par libro+tienda como agotado sin reposición
// prevista. Solo es legal desde depleted; el estado resultante es pegajoso.
func (r *InventoryRecord) MarkHistoricallyDepleted(actor, reason string, now time.Time) (*ApplyResult, error) {
	if actor == "" {
		return nil, domain.ErrInvalidInput
	}
	if r.Status != StatusDepleted {
		return nil, domain.ErrStateConflict
	}
	prev := r.Status
	r.Status = StatusHistoricallyDepleted
	r.UpdatedAt = now
	mov := NewAdjustmentMovement(r, 0, reason, actor, "marcado como agotado histórico", now)
	return &ApplyResult{
		Movement: mov,
		StatusChange: &StatusChange{
			RecordID: r.ID, Previous: prev, Next: r.Status,
			Reason: reason, Actor: actor, CreatedAt: now,
		},
	}, nil
}

// AuditPhysicalCount registra un conteo físico. Con autoAdjust aplica la
// diferencia a total y disponible (nunca al reservado) como ajuste, recortada
// para que el disponible no quede negativo. Siempre deja un movimiento de
// ajuste, con cantidad 0 si no hubo corrección.
func (r *InventoryRecord) AuditPhysicalCount(countedQty int, actor string, autoAdjust bool, now time.Time) (*ApplyResult, error) {
	if countedQty < 0 || actor == "" {
		return nil, domain.ErrInvalidInput
	}
	systemCount := r.StockTotal
	diff := countedQty - systemCount

	applied := 0
	if autoAdjust && diff != 0 {
		applied = diff
		if applied < -r.StockAvailable {
			applied = -r.StockAvailable
		}
		r.StockTotal += applied
		r.StockAvailable += applied
	}

	r.LastAudit = &StockAudit{
		CountedAt:     now,
		Actor:         actor,
		SystemCount:   systemCount,
		PhysicalCount: countedQty,
		Difference:    diff,
		AutoAdjusted:  autoAdjust && applied != 0,
	}
	mov := NewAdjustmentMovement(r, applied, ReasonPhysicalCount, actor, "", now)
	return r.finish(mov, ReasonPhysicalCount, actor, now), nil
}

// finish recalcula el estado tras mutar contadores y arma el ApplyResult.
// historically_depleted no se recalcula: es pegajoso hasta transición manual.
func (r *InventoryRecord) finish(mov *Movement, reason, actor string, now time.Time) *ApplyResult {
	r.UpdatedAt = now
	res := &ApplyResult{Movement: mov}
	if r.Status == StatusHistoricallyDepleted {
		return res
	}
	next := StatusFor(r.StockTotal, r.StockAvailable, r.ThresholdAlert)
	if next != r.Status {
		res.StatusChange = &StatusChange{
			RecordID: r.ID, Previous: r.Status, Next: next,
			Reason: reason, Actor: actor, CreatedAt: now,
		}
		r.Status = next
	}
	return res
}
