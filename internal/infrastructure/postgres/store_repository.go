package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/libreria-stock/internal/domain"
	"github.com/tu-usuario/libreria-stock/internal/domain/entity"
	"github.com/tu-usuario/libreria-stock/internal/domain/repository"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo implementación de StoreRepository sobre PostgreSQL.
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

const storeColumns = `id, name, address, active, created_at, updated_at`

// Create persiste una tienda nueva.
func (r *StoreRepo) Create(store *entity.Store) error {
	if store.ID == "" {
		store.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stores (` + storeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		store.ID, store.Name, nullable(store.Address), store.Active,
		store.CreatedAt, store.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert store: %w", err)
	}
	return nil
}

// GetByID obtiene una tienda por ID; nil, nil si no existe.
func (r *StoreRepo) GetByID(id string) (*entity.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE id = $1`
	store, err := scanStore(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store: %w", err)
	}
	return store, nil
}

// Update actualiza una tienda.
func (r *StoreRepo) Update(store *entity.Store) error {
	query := `
		UPDATE stores SET name = $2, address = $3, active = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		store.ID, store.Name, nullable(store.Address), store.Active, store.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update store: %w", err)
	}
	return nil
}

// ListActive lista las tiendas activas en orden estable de creación; el
// distribuidor de stock depende de este orden.
func (r *StoreRepo) ListActive() ([]*entity.Store, error) {
	query := `
		SELECT ` + storeColumns + ` FROM stores
		WHERE active ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list active stores: %w", err)
	}
	defer rows.Close()
	return collectStores(rows)
}

// List lista todas las tiendas con paginación.
func (r *StoreRepo) List(limit, offset int) ([]*entity.Store, error) {
	query := `
		SELECT ` + storeColumns + ` FROM stores
		ORDER BY created_at ASC, id ASC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()
	return collectStores(rows)
}

// Delete borra una tienda.
func (r *StoreRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete store: %w", err)
	}
	return nil
}

func collectStores(rows pgx.Rows) ([]*entity.Store, error) {
	var stores []*entity.Store
	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		stores = append(stores, store)
	}
	return stores, rows.Err()
}

func scanStore(row pgx.Row) (*entity.Store, error) {
	var s entity.Store
	var address *string
	err := row.Scan(&s.ID, &s.Name, &address, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Address = fromNullable(address)
	return &s, nil
}
