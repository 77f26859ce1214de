package service

import (
	"context"

	"librental-backend/internal/domain"
	"librental-backend/internal/repository"
)

type catalogService struct {
	bookRepo repository.BookRepository
}

func NewCatalogService(bookRepo repository.BookRepository) CatalogService {
	return &catalogService{bookRepo: bookRepo}
}

func (s *catalogService) AddBook(ctx context.Context, book *domain.Book) error {
	if book.Description == "" {
		book.Description = domain.DefaultBookDescription
	}
	if book.CoverImage == "" {
		book.CoverImage = domain.DefaultCoverImage
	}
	if book.Status == "" {
		book.Status = domain.BookStatusAvailable
	}
	if book.Rating < 0 {
		book.Rating = 0
	}
	if book.Stock <= 0 {
		book.Stock = 1
	}
	if book.AvailableUnits <= 0 {
		book.AvailableUnits = book.Stock
	}
	return s.bookRepo.Create(ctx, book)
}

func (s *catalogService) GetBook(ctx context.Context, id int32) (*domain.Book, error) {
	return s.bookRepo.GetByID(ctx, id)
}

func (s *catalogService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return s.bookRepo.List(ctx)
}

func (s *catalogService) UpdateBook(ctx context.Context, id int32, patch *repository.BookPatch) (*domain.Book, error) {
	if patch.Rating != nil && *patch.Rating < 0 {
		zero := 0.0
		patch.Rating = &zero
	}
	if err := s.bookRepo.Update(ctx, id, patch); err != nil {
		return nil, err
	}
	return s.bookRepo.GetByID(ctx, id)
}

// DeleteBook removes the book only. Rentals keep their denormalized
// snapshot, so history stays intact.
func (s *catalogService) DeleteBook(ctx context.Context, id int32) error {
	return s.bookRepo.Delete(ctx, id)
}
