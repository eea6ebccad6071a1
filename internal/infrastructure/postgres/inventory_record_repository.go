package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/libreria-stock/internal/domain"
	"github.com/tu-usuario/libreria-stock/internal/domain/entity"
	"github.com/tu-usuario/libreria-stock/internal/domain/repository"
)

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

// InventoryRecordRepo implementación sobre PostgreSQL (usable con pool o tx).
// El último conteo físico vive desnormalizado en columnas audit_* del registro.
type InventoryRecordRepo struct {
	q Querier
}

// NewInventoryRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRecordRepository(q Querier) *InventoryRecordRepo {
	return &InventoryRecordRepo{q: q}
}

const recordColumns = `id, book_id, store_id, stock_total, stock_available, stock_reserved,
	threshold_alert, status, audit_counted_at, audit_actor, audit_system_count,
	audit_physical_count, audit_difference, audit_auto_adjusted, created_at, updated_at`

// Create persiste un registro nuevo. El par (book_id, store_id) es único.
func (r *InventoryRecordRepo) Create(record *entity.InventoryRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_records (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query, recordArgs(record)...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inventory record: %w", err)
	}
	return nil
}

// Update persiste contadores, estado y última auditoría del registro.
func (r *InventoryRecordRepo) Update(record *entity.InventoryRecord) error {
	query := `
		UPDATE inventory_records
		SET stock_total = $4, stock_available = $5, stock_reserved = $6,
		    threshold_alert = $7, status = $8, audit_counted_at = $9,
		    audit_actor = $10, audit_system_count = $11, audit_physical_count = $12,
		    audit_difference = $13, audit_auto_adjusted = $14, updated_at = $16
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, recordArgs(record)...)
	if err != nil {
		return fmt.Errorf("update inventory record: %w", err)
	}
	return nil
}

// Get obtiene el registro de un par libro+tienda; nil, nil si no existe.
func (r *InventoryRecordRepo) Get(bookID, storeID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT ` + recordColumns + ` FROM inventory_records
		WHERE book_id = $1 AND store_id = $2`
	return r.getOne(query, bookID, storeID)
}

// GetForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE) para
// serializar escritores concurrentes sobre el mismo par libro+tienda.
func (r *InventoryRecordRepo) GetForUpdate(bookID, storeID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT ` + recordColumns + ` FROM inventory_records
		WHERE book_id = $1 AND store_id = $2
		FOR UPDATE`
	return r.getOne(query, bookID, storeID)
}

// ListByBook lista todos los registros de un libro.
func (r *InventoryRecordRepo) ListByBook(bookID string) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT ` + recordColumns + ` FROM inventory_records
		WHERE book_id = $1 ORDER BY created_at ASC, id ASC`
	return r.listQuery(query, bookID)
}

// ListByBookForUpdate bloquea todos los registros del libro en orden estable;
// el orden fijo evita deadlocks entre operaciones multi-tienda concurrentes.
func (r *InventoryRecordRepo) ListByBookForUpdate(bookID string) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT ` + recordColumns + ` FROM inventory_records
		WHERE book_id = $1 ORDER BY created_at ASC, id ASC
		FOR UPDATE`
	return r.listQuery(query, bookID)
}

// ListByBookActiveStores lista los registros del libro cuyas tiendas están
// activas (lectura de consolidación).
func (r *InventoryRecordRepo) ListByBookActiveStores(bookID string) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT ` + qualifiedRecordColumns("ir") + `
		FROM inventory_records ir
		JOIN stores s ON s.id = ir.store_id AND s.active
		WHERE ir.book_id = $1 ORDER BY ir.created_at ASC, ir.id ASC`
	return r.listQuery(query, bookID)
}

// ListByStore lista los registros de una tienda con paginación.
func (r *InventoryRecordRepo) ListByStore(storeID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT ` + recordColumns + ` FROM inventory_records
		WHERE store_id = $1 ORDER BY created_at ASC, id ASC LIMIT $2 OFFSET $3`
	return r.listQuery(query, storeID, limit, offset)
}

// ListLowStock lista registros en low_stock o depleted. storeID vacío cubre
// todas las tiendas activas.
func (r *InventoryRecordRepo) ListLowStock(storeID string) ([]*entity.InventoryRecord, error) {
	if storeID != "" {
		query := `
			SELECT ` + recordColumns + ` FROM inventory_records
			WHERE store_id = $1 AND status IN ('low_stock', 'depleted')
			ORDER BY stock_available ASC, id ASC`
		return r.listQuery(query, storeID)
	}
	query := `
		SELECT ` + qualifiedRecordColumns("ir") + `
		FROM inventory_records ir
		JOIN stores s ON s.id = ir.store_id AND s.active
		WHERE ir.status IN ('low_stock', 'depleted')
		ORDER BY ir.stock_available ASC, ir.id ASC`
	return r.listQuery(query)
}

// CountByStore cuenta los registros de una tienda.
func (r *InventoryRecordRepo) CountByStore(storeID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM inventory_records WHERE store_id = $1`, storeID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count records by store: %w", err)
	}
	return count, nil
}

// MaxReservedByStore devuelve el mayor stock_reserved de la tienda; 0 sin registros.
func (r *InventoryRecordRepo) MaxReservedByStore(storeID string) (int, error) {
	var max int
	err := r.q.QueryRow(context.Background(),
		`SELECT coalesce(max(stock_reserved), 0) FROM inventory_records WHERE store_id = $1`, storeID,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max reserved by store: %w", err)
	}
	return max, nil
}

// DeleteByBook borra todos los registros de un libro (borrado definitivo del libro).
func (r *InventoryRecordRepo) DeleteByBook(bookID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM inventory_records WHERE book_id = $1`, bookID)
	if err != nil {
		return fmt.Errorf("delete records by book: %w", err)
	}
	return nil
}

// DeleteByStore borra los registros sobrantes de una tienda inactiva.
func (r *InventoryRecordRepo) DeleteByStore(storeID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM inventory_records WHERE store_id = $1`, storeID)
	if err != nil {
		return fmt.Errorf("delete records by store: %w", err)
	}
	return nil
}

func (r *InventoryRecordRepo) getOne(query string, args ...any) (*entity.InventoryRecord, error) {
	rec, err := scanRecord(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return rec, nil
}

func (r *InventoryRecordRepo) listQuery(query string, args ...any) ([]*entity.InventoryRecord, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory records: %w", err)
	}
	defer rows.Close()

	var records []*entity.InventoryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func recordArgs(record *entity.InventoryRecord) []any {
	var (
		auditCountedAt    *time.Time
		auditActor        *string
		auditSystemCount  *int
		auditPhysical     *int
		auditDifference   *int
		auditAutoAdjusted *bool
	)
	if a := record.LastAudit; a != nil {
		auditCountedAt = &a.CountedAt
		auditActor = nullable(a.Actor)
		auditSystemCount = &a.SystemCount
		auditPhysical = &a.PhysicalCount
		auditDifference = &a.Difference
		auditAutoAdjusted = &a.AutoAdjusted
	}
	return []any{
		record.ID, record.BookID, record.StoreID,
		record.StockTotal, record.StockAvailable, record.StockReserved,
		record.ThresholdAlert, string(record.Status),
		auditCountedAt, auditActor, auditSystemCount,
		auditPhysical, auditDifference, auditAutoAdjusted,
		record.CreatedAt, record.UpdatedAt,
	}
}

func scanRecord(row pgx.Row) (*entity.InventoryRecord, error) {
	var (
		rec               entity.InventoryRecord
		status            string
		auditCountedAt    *time.Time
		auditActor        *string
		auditSystemCount  *int
		auditPhysical     *int
		auditDifference   *int
		auditAutoAdjusted *bool
	)
	err := row.Scan(
		&rec.ID, &rec.BookID, &rec.StoreID,
		&rec.StockTotal, &rec.StockAvailable, &rec.StockReserved,
		&rec.ThresholdAlert, &status,
		&auditCountedAt, &auditActor, &auditSystemCount,
		&auditPhysical, &auditDifference, &auditAutoAdjusted,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Status = entity.RecordStatus(status)
	if auditCountedAt != nil {
		rec.LastAudit = &entity.StockAudit{
			CountedAt:     *auditCountedAt,
			Actor:         fromNullable(auditActor),
			SystemCount:   derefInt(auditSystemCount),
			PhysicalCount: derefInt(auditPhysical),
			Difference:    derefInt(auditDifference),
			AutoAdjusted:  auditAutoAdjusted != nil && *auditAutoAdjusted,
		}
	}
	return &rec, nil
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// qualifiedRecordColumns antepone el alias de tabla a cada columna del registro.
func qualifiedRecordColumns(alias string) string {
	return alias + `.id, ` + alias + `.book_id, ` + alias + `.store_id, ` +
		alias + `.stock_total, ` + alias + `.stock_available, ` + alias + `.stock_reserved, ` +
		alias + `.threshold_alert, ` + alias + `.status, ` + alias + `.audit_counted_at, ` +
		alias + `.audit_actor, ` + alias + `.audit_system_count, ` + alias + `.audit_physical_count, ` +
		alias + `.audit_difference, ` + alias + `.audit_auto_adjusted, ` +
		alias + `.created_at, ` + alias + `.updated_at`
}
