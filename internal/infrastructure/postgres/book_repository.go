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

var _ repository.BookRepository = (*BookRepo)(nil)

// BookRepo implementación de BookRepository sobre PostgreSQL (usable con pool o tx).
type BookRepo struct {
	q Querier
}

// NewBookRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBookRepository(q Querier) *BookRepo {
	return &BookRepo{q: q}
}

const bookColumns = `id, title, author, isbn, price, cached_stock, active, created_at, updated_at`

// Create persiste un libro nuevo.
func (r *BookRepo) Create(book *entity.Book) error {
	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	query := `
		INSERT INTO books (` + bookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		book.ID, book.Title, book.Author, nullable(book.ISBN), book.Price,
		book.CachedStock, book.Active, book.CreatedAt, book.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

// GetByID obtiene un libro por ID; nil, nil si no existe.
func (r *BookRepo) GetByID(id string) (*entity.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`
	book, err := scanBook(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// Update actualiza los datos de catálogo y la caché de stock del libro.
func (r *BookRepo) Update(book *entity.Book) error {
	query := `
		UPDATE books
		SET title = $2, author = $3, isbn = $4, price = $5,
		    cached_stock = $6, active = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		book.ID, book.Title, book.Author, nullable(book.ISBN), book.Price,
		book.CachedStock, book.Active, book.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

// UpdateCachedStock sobreescribe solo la caché de stock consolidado.
func (r *BookRepo) UpdateCachedStock(id string, stock int) error {
	query := `UPDATE books SET cached_stock = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, stock)
	if err != nil {
		return fmt.Errorf("update cached stock: %w", err)
	}
	return nil
}

// ListActive lista libros activos con paginación.
func (r *BookRepo) ListActive(limit, offset int) ([]*entity.Book, error) {
	query := `
		SELECT ` + bookColumns + ` FROM books
		WHERE active ORDER BY created_at ASC LIMIT $1 OFFSET $2`
	return r.list(query, limit, offset)
}

// List lista todos los libros con paginación.
func (r *BookRepo) List(limit, offset int) ([]*entity.Book, error) {
	query := `
		SELECT ` + bookColumns + ` FROM books
		ORDER BY created_at ASC LIMIT $1 OFFSET $2`
	return r.list(query, limit, offset)
}

// Delete borra definitivamente un libro.
func (r *BookRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

func (r *BookRepo) list(query string, limit, offset int) ([]*entity.Book, error) {
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var books []*entity.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

func scanBook(row pgx.Row) (*entity.Book, error) {
	var b entity.Book
	var isbn *string
	err := row.Scan(&b.ID, &b.Title, &b.Author, &isbn, &b.Price,
		&b.CachedStock, &b.Active, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.ISBN = fromNullable(isbn)
	return &b, nil
}
