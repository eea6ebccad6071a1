package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tu-usuario/libreria-stock/internal/domain/entity"
	"github.com/tu-usuario/libreria-stock/internal/domain/repository"
)

var _ repository.StatusHistoryRepository = (*StatusHistoryRepo)(nil)

// StatusHistoryRepo persiste el historial de transiciones de estado.
type StatusHistoryRepo struct {
	q Querier
}

// NewStatusHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStatusHistoryRepository(q Querier) *StatusHistoryRepo {
	return &StatusHistoryRepo{q: q}
}

// Create inserta una transición de estado (append-only).
func (r *StatusHistoryRepo) Create(change *entity.StatusChange) error {
	if change.ID == "" {
		change.ID = uuid.New().String()
	}
	query := `
		INSERT INTO record_status_history (id, record_id, previous_status, next_status, reason, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		change.ID, change.RecordID, string(change.Previous), string(change.Next),
		nullable(change.Reason), nullable(change.Actor), change.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert status change: %w", err)
	}
	return nil
}

// ListByRecord lista las transiciones de un registro, la más reciente primero.
func (r *StatusHistoryRepo) ListByRecord(recordID string, limit, offset int) ([]*entity.StatusChange, error) {
	query := `
		SELECT id, record_id, previous_status, next_status, reason, actor, created_at
		FROM record_status_history
		WHERE record_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, recordID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	defer rows.Close()

	var changes []*entity.StatusChange
	for rows.Next() {
		var c entity.StatusChange
		var previous, next string
		var reason, actor *string
		if err := rows.Scan(&c.ID, &c.RecordID, &previous, &next, &reason, &actor, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan status change: %w", err)
		}
		c.Previous = entity.RecordStatus(previous)
		c.Next = entity.RecordStatus(next)
		c.Reason = fromNullable(reason)
		c.Actor = fromNullable(actor)
		changes = append(changes, &c)
	}
	return changes, rows.Err()
}
