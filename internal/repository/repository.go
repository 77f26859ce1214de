package repository

import (
	"context"
	"database/sql"
	"time"

	"librental-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateEmail(ctx context.Context, id int32, email string) error
	UpdatePassword(ctx context.Context, id int32, passwordHash string) error
	Delete(ctx context.Context, id int32) error
	CountByRole(ctx context.Context, role domain.Role) (int32, error)

	// Favorites (a set keyed by user)
	ListFavorites(ctx context.Context, userID int32) ([]int32, error)
	IsFavorite(ctx context.Context, userID, bookID int32) (bool, error)
	AddFavorite(ctx context.Context, userID, bookID int32) error
	RemoveFavorite(ctx context.Context, userID, bookID int32) error
}

// BookPatch carries a partial update; nil fields are left untouched.
type BookPatch struct {
	Title          *string
	Author         *string
	Description    *string
	Category       *string
	Rating         *float64
	Stock          *int32
	AvailableUnits *int32
	Status         *domain.BookStatus
	CoverImage     *string
	PublishDate    *string
}

type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	GetByID(ctx context.Context, id int32) (*domain.Book, error)
	List(ctx context.Context) ([]domain.Book, error)
	Update(ctx context.Context, id int32, patch *BookPatch) error
	Delete(ctx context.Context, id int32) error
	Count(ctx context.Context) (int32, error)
	CountRentable(ctx context.Context) (int32, error)

	// ClaimUnitTx takes one available unit inside the caller's transaction.
	// Its WHERE clause doubles as the availability guard: zero rows means
	// the book is not currently rentable and the claim fails with Conflict.
	ClaimUnitTx(ctx context.Context, tx *sql.Tx, id int32) error

	// ReleaseUnitTx gives a unit back and flips the book to Available.
	// A missing book is not an error; history survives book deletion.
	ReleaseUnitTx(ctx context.Context, tx *sql.Tx, id int32) error
}

// RentalQuery is the shared id-or-email matching criteria used by the
// my-rentals, my-history and clear-history operations. Email is matched
// case-insensitively regardless of stored casing.
type RentalQuery struct {
	UserID *int32
	Email  string
}

type RentalRepository interface {
	CreateTx(ctx context.Context, tx *sql.Tx, rental *domain.Rental) error
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	MarkReturnedTx(ctx context.Context, tx *sql.Tx, id int32, actualReturnDate string) error
	ListActive(ctx context.Context, q RentalQuery) ([]domain.Rental, error)
	ListReturned(ctx context.Context, q RentalQuery) ([]domain.Rental, error)
	ListAll(ctx context.Context) ([]domain.Rental, error)
	DeleteReturned(ctx context.Context, q RentalQuery) (int64, error)
	ListActivePastDue(ctx context.Context, cutoff string) ([]domain.Rental, error)
	CountActiveByUser(ctx context.Context, userID int32) (int32, error)
	CountByUser(ctx context.Context, userID int32) (int32, error)
	CountActive(ctx context.Context) (int32, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	Renew(ctx context.Context, id string, expiresOn time.Time) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
