package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/containerd/errdefs"

	"librental-backend/internal/domain"
	"librental-backend/internal/repository"
)

type bookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) repository.BookRepository {
	return &bookRepository{db: db}
}

const bookColumns = `id, title, author, description, category, rating, stock, available_units, availability_status, cover_image, publish_date, created_on, updated_on`

func scanBook(row interface{ Scan(...any) error }) (*domain.Book, error) {
	b := &domain.Book{}
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.Category, &b.Rating, &b.Stock, &b.AvailableUnits, &b.Status, &b.CoverImage, &b.PublishDate, &b.CreatedOn, &b.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookRepository) Create(ctx context.Context, b *domain.Book) error {
	query := `INSERT INTO books (title, author, description, category, rating, stock, available_units, availability_status, cover_image, publish_date, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		b.Title, b.Author, b.Description, b.Category, b.Rating, b.Stock, b.AvailableUnits, b.Status, b.CoverImage, b.PublishDate, time.Now(), time.Now(),
	).Scan(&b.ID)
	return translateError(err, "book")
}

func (r *bookRepository) GetByID(ctx context.Context, id int32) (*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`
	b, err := scanBook(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "book")
	}
	return b, nil
}

func (r *bookRepository) List(ctx context.Context) ([]domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY created_on DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *b)
	}
	return books, rows.Err()
}

// Update overwrites only the supplied patch fields.
func (r *bookRepository) Update(ctx context.Context, id int32, patch *repository.BookPatch) error {
	set := ""
	args := []interface{}{}
	idx := 1

	add := func(column string, value interface{}) {
		if set != "" {
			set += ", "
		}
		set += fmt.Sprintf("%s = $%d", column, idx)
		args = append(args, value)
		idx++
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Author != nil {
		add("author", *patch.Author)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Rating != nil {
		add("rating", *patch.Rating)
	}
	if patch.Stock != nil {
		add("stock", *patch.Stock)
	}
	if patch.AvailableUnits != nil {
		add("available_units", *patch.AvailableUnits)
	}
	if patch.Status != nil {
		add("availability_status", *patch.Status)
	}
	if patch.CoverImage != nil {
		add("cover_image", *patch.CoverImage)
	}
	if patch.PublishDate != nil {
		add("publish_date", *patch.PublishDate)
	}
	if set == "" {
		return nil
	}
	add("updated_on", time.Now())

	query := fmt.Sprintf("UPDATE books SET %s WHERE id = $%d", set, idx)
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return translateError(sql.ErrNoRows, "book")
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return translateError(sql.ErrNoRows, "book")
	}
	return nil
}

func (r *bookRepository) Count(ctx context.Context) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM books`).Scan(&count)
	return count, err
}

func (r *bookRepository) CountRentable(ctx context.Context) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM books WHERE availability_status = 'Available' AND available_units > 0`
	err := r.db.QueryRowContext(ctx, query).Scan(&count)
	return count, err
}

func (r *bookRepository) ClaimUnitTx(ctx context.Context, tx *sql.Tx, id int32) error {
	query := `UPDATE books
	          SET available_units = available_units - 1,
	              availability_status = CASE WHEN available_units - 1 <= 0 THEN 'Out of Stock' ELSE availability_status END,
	              updated_on = $1
	          WHERE id = $2 AND availability_status = 'Available' AND available_units > 0`
	res, err := tx.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("book is not available: %w", errdefs.ErrConflict)
	}
	return nil
}

func (r *bookRepository) ReleaseUnitTx(ctx context.Context, tx *sql.Tx, id int32) error {
	query := `UPDATE books
	          SET available_units = LEAST(available_units + 1, stock),
	              availability_status = 'Available',
	              updated_on = $1
	          WHERE id = $2`
	_, err := tx.ExecContext(ctx, query, time.Now(), id)
	return err
}
