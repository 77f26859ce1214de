package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/containerd/errdefs"

	"librental-backend/internal/domain"
	"librental-backend/internal/logger"
	"librental-backend/internal/repository"
)

type rentalService struct {
	db         *sql.DB
	rentalRepo repository.RentalRepository
	bookRepo   repository.BookRepository
	emailSvc   EmailService
}

func NewRentalService(db *sql.DB, rentalRepo repository.RentalRepository, bookRepo repository.BookRepository, emailSvc EmailService) RentalService {
	return &rentalService{
		db:         db,
		rentalRepo: rentalRepo,
		bookRepo:   bookRepo,
		emailSvc:   emailSvc,
	}
}

func today() string {
	return time.Now().Format("2006-01-02")
}

// CreateRental inserts the rental and claims a book unit as one unit of
// work, so a failure between the paired writes cannot leave the ledger and
// catalog inconsistent.
func (s *rentalService) CreateRental(ctx context.Context, caller *domain.Caller, req *RentalRequest) (*domain.Rental, error) {
	if req.BookID == 0 {
		return nil, fmt.Errorf("bookId is required: %w", errdefs.ErrInvalidArgument)
	}
	book, err := s.bookRepo.GetByID(ctx, req.BookID)
	if err != nil {
		return nil, err
	}
	if !book.Rentable() {
		return nil, fmt.Errorf("book %q is not available: %w", book.Title, errdefs.ErrConflict)
	}

	rental := s.buildRental(caller, req, book)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.bookRepo.ClaimUnitTx(ctx, tx, book.ID); err != nil {
		return nil, err
	}
	if err := s.rentalRepo.CreateTx(ctx, tx, rental); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if rental.Email != domain.DefaultEmail {
		if err := s.emailSvc.SendRentalConfirmation(ctx, rental.Email, rental.RenterName, rental.BookTitle, rental.ReturnDate); err != nil {
			logger.Warn("Failed to send rental confirmation", "rental_id", rental.ID, "error", err)
		}
	}

	return rental, nil
}

// buildRental applies the default-substitution table: permissive intake
// fills missing fields instead of rejecting the request.
func (s *rentalService) buildRental(caller *domain.Caller, req *RentalRequest, book *domain.Book) *domain.Rental {
	email := strings.TrimSpace(req.Email)
	if email == "" && caller != nil {
		email = caller.Email
	}
	if email == "" {
		email = domain.DefaultEmail
	}
	email = strings.ToLower(email)

	name := strings.TrimSpace(req.RenterName)
	if name == "" {
		name = domain.DefaultRenterName
	}
	phone := req.Phone
	if phone == "" {
		phone = domain.DefaultPhone
	}
	district := req.District
	if district == "" {
		district = domain.DefaultDistrict
	}
	rentDate := req.RentDate
	if rentDate == "" {
		rentDate = today()
	}
	returnDate := req.ReturnDate
	if returnDate == "" {
		returnDate = domain.DefaultReturnDate
	}

	bookID := book.ID
	rental := &domain.Rental{
		BookID:     &bookID,
		BookTitle:  book.Title,
		Author:     book.Author,
		CoverImage: book.CoverImage,
		RenterName: name,
		Email:      email,
		Phone:      phone,
		District:   district,
		RentDate:   rentDate,
		ReturnDate: returnDate,
		Status:     domain.RentalStatusActive,
	}
	if caller != nil {
		userID := caller.UserID
		rental.UserID = &userID
	}
	return rental
}

// ReturnRental stamps the rental Returned and releases the book unit in
// one transaction. Returning twice is not guarded: the second call simply
// re-stamps the date and re-releases the unit, which is benign.
func (s *rentalService) ReturnRental(ctx context.Context, rentalID, bookID int32) (*domain.Rental, error) {
	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	if bookID == 0 && rental.BookID != nil {
		bookID = *rental.BookID
	}
	returnedOn := today()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.rentalRepo.MarkReturnedTx(ctx, tx, rentalID, returnedOn); err != nil {
		return nil, err
	}
	if bookID != 0 {
		if err := s.bookRepo.ReleaseUnitTx(ctx, tx, bookID); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	rental.Status = domain.RentalStatusReturned
	rental.ActualReturnDate = &returnedOn

	if rental.Email != domain.DefaultEmail {
		if err := s.emailSvc.SendReturnConfirmation(ctx, rental.Email, rental.RenterName, rental.BookTitle); err != nil {
			logger.Warn("Failed to send return confirmation", "rental_id", rental.ID, "error", err)
		}
	}

	return rental, nil
}

// identityQuery derives the shared id-or-email criteria; an anonymous
// caller must at least declare an email.
func identityQuery(caller *domain.Caller, email string) (repository.RentalQuery, error) {
	q := repository.RentalQuery{Email: strings.TrimSpace(email)}
	if caller != nil {
		userID := caller.UserID
		q.UserID = &userID
	}
	if q.UserID == nil && q.Email == "" {
		return q, fmt.Errorf("email is required: %w", errdefs.ErrInvalidArgument)
	}
	return q, nil
}

func (s *rentalService) MyRentals(ctx context.Context, caller *domain.Caller, email string) ([]domain.Rental, error) {
	q, err := identityQuery(caller, email)
	if err != nil {
		return nil, err
	}
	return s.rentalRepo.ListActive(ctx, q)
}

func (s *rentalService) MyHistory(ctx context.Context, caller *domain.Caller, email string) ([]domain.Rental, error) {
	q, err := identityQuery(caller, email)
	if err != nil {
		return nil, err
	}
	return s.rentalRepo.ListReturned(ctx, q)
}

func (s *rentalService) ClearHistory(ctx context.Context, caller *domain.Caller, email string) (int64, error) {
	q, err := identityQuery(caller, email)
	if err != nil {
		return 0, err
	}
	deleted, err := s.rentalRepo.DeleteReturned(ctx, q)
	if err != nil {
		return 0, err
	}
	logger.Info("Cleared rental history", "deleted", deleted, "email", q.Email)
	return deleted, nil
}

func (s *rentalService) ListAllRentals(ctx context.Context) ([]domain.Rental, error) {
	return s.rentalRepo.ListAll(ctx)
}
