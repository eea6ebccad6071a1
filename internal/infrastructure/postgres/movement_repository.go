package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/libreria-stock/internal/domain/entity"
	"github.com/tu-usuario/libreria-stock/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo persiste el libro mayor de movimientos (solo inserción).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, record_id, book_id, store_id, kind, quantity, reason,
	actor, sale_ref, transfer_ref, reservation_ref, note, created_at`

// Create inserta un movimiento. El libro mayor es append-only: no hay Update
// ni Delete.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.RecordID, movement.BookID, movement.StoreID,
		movement.Kind, movement.Quantity, movement.Reason,
		nullable(movement.Actor), nullable(movement.SaleRef),
		nullable(movement.TransferRef), nullable(movement.ReservationRef),
		nullable(movement.Note), movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// ListByRecord lista los movimientos de un registro, del más reciente al más
// antiguo, con rango de fechas opcional.
func (r *MovementRepo) ListByRecord(recordID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return r.listBy("record_id", recordID, from, to, limit, offset)
}

// ListByBook lista los movimientos de un libro en todas las tiendas.
func (r *MovementRepo) ListByBook(bookID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return r.listBy("book_id", bookID, from, to, limit, offset)
}

func (r *MovementRepo) listBy(column, value string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + ` FROM inventory_movements
		WHERE ` + column + ` = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, value, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var movements []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var actor, saleRef, transferRef, reservationRef, note *string
	err := row.Scan(&m.ID, &m.RecordID, &m.BookID, &m.StoreID,
		&m.Kind, &m.Quantity, &m.Reason,
		&actor, &saleRef, &transferRef, &reservationRef, &note, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.Actor = fromNullable(actor)
	m.SaleRef = fromNullable(saleRef)
	m.TransferRef = fromNullable(transferRef)
	m.ReservationRef = fromNullable(reservationRef)
	m.Note = fromNullable(note)
	return &m, nil
}
