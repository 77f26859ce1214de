package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"librental-backend/internal/domain"
	"librental-backend/internal/repository"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, book_id, book_title, author, cover_image, user_id, renter_name, email, phone, district, rent_date, return_date, actual_return_date, status, created_on, updated_on`

func scanRental(row interface{ Scan(...any) error }) (*domain.Rental, error) {
	rt := &domain.Rental{}
	err := row.Scan(&rt.ID, &rt.BookID, &rt.BookTitle, &rt.Author, &rt.CoverImage, &rt.UserID, &rt.RenterName, &rt.Email, &rt.Phone, &rt.District, &rt.RentDate, &rt.ReturnDate, &rt.ActualReturnDate, &rt.Status, &rt.CreatedOn, &rt.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) CreateTx(ctx context.Context, tx *sql.Tx, rt *domain.Rental) error {
	query := `INSERT INTO rentals (book_id, book_title, author, cover_image, user_id, renter_name, email, phone, district, rent_date, return_date, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	return tx.QueryRowContext(ctx, query,
		rt.BookID, rt.BookTitle, rt.Author, rt.CoverImage, rt.UserID, rt.RenterName, rt.Email, rt.Phone, rt.District, rt.RentDate, rt.ReturnDate, rt.Status, time.Now(), time.Now(),
	).Scan(&rt.ID)
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "rental")
	}
	return rt, nil
}

func (r *rentalRepository) MarkReturnedTx(ctx context.Context, tx *sql.Tx, id int32, actualReturnDate string) error {
	query := `UPDATE rentals SET status = $1, actual_return_date = $2, updated_on = $3 WHERE id = $4`
	res, err := tx.ExecContext(ctx, query, domain.RentalStatusReturned, actualReturnDate, time.Now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return translateError(sql.ErrNoRows, "rental")
	}
	return nil
}

// identityPredicate builds the id-or-email criteria shared by the my-rentals,
// my-history and clear-history operations. Email matching is case-insensitive
// as defense against legacy records stored with inconsistent casing.
func identityPredicate(q repository.RentalQuery, argIdx int) (string, []interface{}) {
	switch {
	case q.UserID != nil && q.Email != "":
		return fmt.Sprintf("(user_id = $%d OR LOWER(email) = LOWER($%d))", argIdx, argIdx+1),
			[]interface{}{*q.UserID, q.Email}
	case q.UserID != nil:
		return fmt.Sprintf("user_id = $%d", argIdx), []interface{}{*q.UserID}
	default:
		return fmt.Sprintf("LOWER(email) = LOWER($%d)", argIdx), []interface{}{q.Email}
	}
}

func (r *rentalRepository) list(ctx context.Context, where string, order string, args ...interface{}) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE ` + where + ` ORDER BY ` + order
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}

func (r *rentalRepository) ListActive(ctx context.Context, q repository.RentalQuery) ([]domain.Rental, error) {
	pred, args := identityPredicate(q, 2)
	args = append([]interface{}{domain.RentalStatusActive}, args...)
	return r.list(ctx, "status = $1 AND "+pred, "created_on DESC", args...)
}

func (r *rentalRepository) ListReturned(ctx context.Context, q repository.RentalQuery) ([]domain.Rental, error) {
	pred, args := identityPredicate(q, 2)
	args = append([]interface{}{domain.RentalStatusReturned}, args...)
	return r.list(ctx, "status = $1 AND "+pred, "actual_return_date DESC NULLS LAST, created_on DESC", args...)
}

func (r *rentalRepository) ListAll(ctx context.Context) ([]domain.Rental, error) {
	return r.list(ctx, "TRUE", "created_on DESC")
}

func (r *rentalRepository) DeleteReturned(ctx context.Context, q repository.RentalQuery) (int64, error) {
	pred, args := identityPredicate(q, 2)
	args = append([]interface{}{domain.RentalStatusReturned}, args...)
	query := `DELETE FROM rentals WHERE status = $1 AND ` + pred
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListActivePastDue returns Active rentals whose expected return date is a
// real date before the cutoff. Dates are stored as YYYY-MM-DD strings, so
// lexicographic comparison is date comparison.
func (r *rentalRepository) ListActivePastDue(ctx context.Context, cutoff string) ([]domain.Rental, error) {
	return r.list(ctx,
		"status = $1 AND return_date <> $2 AND return_date < $3",
		"return_date ASC",
		domain.RentalStatusActive, domain.DefaultReturnDate, cutoff)
}

func (r *rentalRepository) CountActiveByUser(ctx context.Context, userID int32) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM rentals WHERE user_id = $1 AND status = $2`
	err := r.db.QueryRowContext(ctx, query, userID, domain.RentalStatusActive).Scan(&count)
	return count, err
}

func (r *rentalRepository) CountByUser(ctx context.Context, userID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM rentals WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

func (r *rentalRepository) CountActive(ctx context.Context) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM rentals WHERE status = $1`, domain.RentalStatusActive).Scan(&count)
	return count, err
}
