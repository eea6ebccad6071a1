package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier es la superficie común de *pgxpool.Pool y pgx.Tx que usan los
// adaptadores: así un mismo repositorio funciona con el pool o dentro de una
// transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// nullable convierte "" a NULL para columnas opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// fromNullable convierte NULL a "".
func fromNullable(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
