package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/libreria-stock/internal/application/inventory"
	"github.com/tu-usuario/libreria-stock/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	recordRepo repository.InventoryRecordRepository,
	movementRepo repository.MovementRepository,
	historyRepo repository.StatusHistoryRepository,
	bookRepo repository.BookRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	recordRepo := NewInventoryRecordRepository(tx)
	movementRepo := NewMovementRepository(tx)
	historyRepo := NewStatusHistoryRepository(tx)
	bookRepo := NewBookRepository(tx)

	if err := fn(recordRepo, movementRepo, historyRepo, bookRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
