package service

import (
	"context"

	"librental-backend/internal/domain"
	"librental-backend/internal/repository"
)

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, string, error)
	LoginToken(ctx context.Context, username, password string) (*domain.User, string, error)
	LoginSession(ctx context.Context, username, password string) (*domain.Session, error)
	ResolveSession(ctx context.Context, sessionID string) (*domain.Session, error)
	Logout(ctx context.Context, sessionID string) error
	UpdateEmail(ctx context.Context, userID int32, email string) (string, error)
	UpdatePassword(ctx context.Context, userID int32, oldPassword, newPassword string) error
}

// RentalRequest is the intake form for a new rental. Missing fields are
// filled from the default-substitution table rather than rejected.
type RentalRequest struct {
	BookID     int32
	RenterName string
	Email      string
	Phone      string
	District   string
	RentDate   string
	ReturnDate string
}

type RentalService interface {
	CreateRental(ctx context.Context, caller *domain.Caller, req *RentalRequest) (*domain.Rental, error)
	ReturnRental(ctx context.Context, rentalID, bookID int32) (*domain.Rental, error)
	MyRentals(ctx context.Context, caller *domain.Caller, email string) ([]domain.Rental, error)
	MyHistory(ctx context.Context, caller *domain.Caller, email string) ([]domain.Rental, error)
	ClearHistory(ctx context.Context, caller *domain.Caller, email string) (int64, error)
	ListAllRentals(ctx context.Context) ([]domain.Rental, error)
}

type CatalogService interface {
	AddBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id int32) (*domain.Book, error)
	ListBooks(ctx context.Context) ([]domain.Book, error)
	UpdateBook(ctx context.Context, id int32, patch *repository.BookPatch) (*domain.Book, error)
	DeleteBook(ctx context.Context, id int32) error
}

type UserService interface {
	GetProfile(ctx context.Context, userID int32) (*domain.User, *domain.UserStats, error)
	AdminStats(ctx context.Context) (*domain.AdminStats, error)
	ToggleFavorite(ctx context.Context, userID, bookID int32) (bool, []int32, error)
	DeleteAccount(ctx context.Context, userID int32) error
	ListUsers(ctx context.Context) ([]domain.User, error)
	DeleteUser(ctx context.Context, id int32) error
}

type EmailService interface {
	SendRentalConfirmation(ctx context.Context, email, renterName, bookTitle, returnDate string) error
	SendReturnConfirmation(ctx context.Context, email, renterName, bookTitle string) error
	SendOverdueReminder(ctx context.Context, email, renterName, bookTitle, returnDate string) error
}
