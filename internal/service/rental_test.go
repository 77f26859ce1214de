package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"librental-backend/internal/domain"
	"librental-backend/internal/service"
)

func newRentalFixture(t *testing.T) (service.RentalService, sqlmock.Sqlmock, *MockRentalRepo, *MockBookRepo, *MockEmailService) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rentalRepo := new(MockRentalRepo)
	bookRepo := new(MockBookRepo)
	emailSvc := new(MockEmailService)
	svc := service.NewRentalService(db, rentalRepo, bookRepo, emailSvc)
	return svc, dbMock, rentalRepo, bookRepo, emailSvc
}

func availableBook() *domain.Book {
	return &domain.Book{
		ID:             7,
		Title:          "The Go Programming Language",
		Author:         "Donovan & Kernighan",
		CoverImage:     "uploads/gopl.jpg",
		Stock:          3,
		AvailableUnits: 2,
		Status:         domain.BookStatusAvailable,
	}
}

func TestRentalService_CreateRental(t *testing.T) {
	ctx := context.Background()

	t.Run("Success with defaults for guest", func(t *testing.T) {
		svc, dbMock, rentalRepo, bookRepo, emailSvc := newRentalFixture(t)
		book := availableBook()

		bookRepo.On("GetByID", ctx, book.ID).Return(book, nil)
		dbMock.ExpectBegin()
		bookRepo.On("ClaimUnitTx", ctx, mock.Anything, book.ID).Return(nil)
		rentalRepo.On("CreateTx", ctx, mock.Anything, mock.AnythingOfType("*domain.Rental")).Return(nil)
		dbMock.ExpectCommit()

		rental, err := svc.CreateRental(ctx, nil, &service.RentalRequest{BookID: book.ID})
		require.NoError(t, err)

		// Empty intake fields are substituted, not rejected.
		assert.Equal(t, domain.DefaultRenterName, rental.RenterName)
		assert.Equal(t, domain.DefaultEmail, rental.Email)
		assert.Equal(t, domain.DefaultPhone, rental.Phone)
		assert.Equal(t, domain.DefaultDistrict, rental.District)
		assert.Equal(t, domain.DefaultReturnDate, rental.ReturnDate)
		assert.Equal(t, time.Now().Format("2006-01-02"), rental.RentDate)
		assert.Equal(t, domain.RentalStatusActive, rental.Status)

		// Snapshot fields come from the book at creation time.
		assert.Equal(t, book.Title, rental.BookTitle)
		assert.Equal(t, book.Author, rental.Author)
		assert.Equal(t, book.CoverImage, rental.CoverImage)
		assert.Nil(t, rental.UserID)

		// No confirmation mail to the placeholder address.
		emailSvc.AssertNotCalled(t, "SendRentalConfirmation")
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("Caller identity attached and email lowercased", func(t *testing.T) {
		svc, dbMock, rentalRepo, bookRepo, emailSvc := newRentalFixture(t)
		book := availableBook()
		caller := &domain.Caller{UserID: 42, Username: "reader", Email: "reader@example.com", Role: domain.RoleUser}

		bookRepo.On("GetByID", ctx, book.ID).Return(book, nil)
		dbMock.ExpectBegin()
		bookRepo.On("ClaimUnitTx", ctx, mock.Anything, book.ID).Return(nil)
		rentalRepo.On("CreateTx", ctx, mock.Anything, mock.AnythingOfType("*domain.Rental")).Return(nil)
		dbMock.ExpectCommit()
		emailSvc.On("SendRentalConfirmation", ctx, "other@example.com", "Reader", book.Title, "2026-10-01").Return(nil)

		rental, err := svc.CreateRental(ctx, caller, &service.RentalRequest{
			BookID:     book.ID,
			RenterName: "Reader",
			Email:      "Other@Example.COM",
			ReturnDate: "2026-10-01",
		})
		require.NoError(t, err)
		require.NotNil(t, rental.UserID)
		assert.Equal(t, caller.UserID, *rental.UserID)
		assert.Equal(t, "other@example.com", rental.Email)
		emailSvc.AssertExpectations(t)
	})

	t.Run("Out of stock is Conflict", func(t *testing.T) {
		svc, _, _, bookRepo, _ := newRentalFixture(t)
		book := availableBook()
		book.AvailableUnits = 0
		bookRepo.On("GetByID", ctx, book.ID).Return(book, nil)

		rental, err := svc.CreateRental(ctx, nil, &service.RentalRequest{BookID: book.ID})
		assert.Nil(t, rental)
		assert.True(t, errdefs.IsConflict(err))
	})

	t.Run("Coming Soon is Conflict even with stock", func(t *testing.T) {
		svc, _, _, bookRepo, _ := newRentalFixture(t)
		book := availableBook()
		book.Status = domain.BookStatusComingSoon
		bookRepo.On("GetByID", ctx, book.ID).Return(book, nil)

		_, err := svc.CreateRental(ctx, nil, &service.RentalRequest{BookID: book.ID})
		assert.True(t, errdefs.IsConflict(err))
	})

	t.Run("Unknown book is NotFound", func(t *testing.T) {
		svc, _, _, bookRepo, _ := newRentalFixture(t)
		bookRepo.On("GetByID", ctx, int32(99)).Return(nil, errdefs.ErrNotFound)

		_, err := svc.CreateRental(ctx, nil, &service.RentalRequest{BookID: 99})
		assert.True(t, errdefs.IsNotFound(err))
	})

	t.Run("Claim failure rolls back without inserting", func(t *testing.T) {
		svc, dbMock, rentalRepo, bookRepo, _ := newRentalFixture(t)
		book := availableBook()

		bookRepo.On("GetByID", ctx, book.ID).Return(book, nil)
		dbMock.ExpectBegin()
		bookRepo.On("ClaimUnitTx", ctx, mock.Anything, book.ID).Return(errdefs.ErrConflict)
		dbMock.ExpectRollback()

		_, err := svc.CreateRental(ctx, nil, &service.RentalRequest{BookID: book.ID})
		assert.True(t, errdefs.IsConflict(err))
		rentalRepo.AssertNotCalled(t, "CreateTx")
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestRentalService_ReturnRental(t *testing.T) {
	ctx := context.Background()
	today := time.Now().Format("2006-01-02")

	t.Run("Success releases the unit in the same transaction", func(t *testing.T) {
		svc, dbMock, rentalRepo, bookRepo, emailSvc := newRentalFixture(t)
		bookID := int32(7)
		rental := &domain.Rental{
			ID:         3,
			BookID:     &bookID,
			BookTitle:  "The Go Programming Language",
			RenterName: "Reader",
			Email:      "reader@example.com",
			Status:     domain.RentalStatusActive,
		}

		rentalRepo.On("GetByID", ctx, rental.ID).Return(rental, nil)
		dbMock.ExpectBegin()
		rentalRepo.On("MarkReturnedTx", ctx, mock.Anything, rental.ID, today).Return(nil)
		bookRepo.On("ReleaseUnitTx", ctx, mock.Anything, bookID).Return(nil)
		dbMock.ExpectCommit()
		emailSvc.On("SendReturnConfirmation", ctx, rental.Email, rental.RenterName, rental.BookTitle).Return(nil)

		got, err := svc.ReturnRental(ctx, rental.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusReturned, got.Status)
		require.NotNil(t, got.ActualReturnDate)
		assert.Equal(t, today, *got.ActualReturnDate)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("Rental without a surviving book still returns", func(t *testing.T) {
		svc, dbMock, rentalRepo, bookRepo, emailSvc := newRentalFixture(t)
		rental := &domain.Rental{
			ID:     4,
			Email:  domain.DefaultEmail,
			Status: domain.RentalStatusActive,
		}

		rentalRepo.On("GetByID", ctx, rental.ID).Return(rental, nil)
		dbMock.ExpectBegin()
		rentalRepo.On("MarkReturnedTx", ctx, mock.Anything, rental.ID, today).Return(nil)
		dbMock.ExpectCommit()

		got, err := svc.ReturnRental(ctx, rental.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusReturned, got.Status)
		bookRepo.AssertNotCalled(t, "ReleaseUnitTx")
		emailSvc.AssertNotCalled(t, "SendReturnConfirmation")
	})

	t.Run("Unknown rental is NotFound", func(t *testing.T) {
		svc, _, rentalRepo, _, _ := newRentalFixture(t)
		rentalRepo.On("GetByID", ctx, int32(999)).Return(nil, errdefs.ErrNotFound)

		_, err := svc.ReturnRental(ctx, 999, 0)
		assert.True(t, errdefs.IsNotFound(err))
	})
}

func TestRentalService_IdentityMatching(t *testing.T) {
	ctx := context.Background()

	t.Run("Anonymous caller needs an email", func(t *testing.T) {
		svc, _, _, _, _ := newRentalFixture(t)
		_, err := svc.MyRentals(ctx, nil, "")
		assert.True(t, errdefs.IsInvalidArgument(err))
	})

	t.Run("Authenticated caller may omit the email", func(t *testing.T) {
		svc, _, rentalRepo, _, _ := newRentalFixture(t)
		caller := &domain.Caller{UserID: 42}
		rentalRepo.On("ListActive", ctx, mock.Anything).Return([]domain.Rental{}, nil)

		rentals, err := svc.MyRentals(ctx, caller, "")
		assert.NoError(t, err)
		assert.Empty(t, rentals)
	})

	t.Run("ClearHistory reports the deleted count", func(t *testing.T) {
		svc, _, rentalRepo, _, _ := newRentalFixture(t)
		rentalRepo.On("DeleteReturned", ctx, mock.Anything).Return(int64(3), nil)

		deleted, err := svc.ClearHistory(ctx, nil, "reader@example.com")
		assert.NoError(t, err)
		assert.Equal(t, int64(3), deleted)
	})
}
