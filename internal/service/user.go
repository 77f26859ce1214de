package service

import (
	"context"

	"librental-backend/internal/domain"
	"librental-backend/internal/logger"
	"librental-backend/internal/repository"
)

type userService struct {
	userRepo   repository.UserRepository
	bookRepo   repository.BookRepository
	rentalRepo repository.RentalRepository
}

func NewUserService(userRepo repository.UserRepository, bookRepo repository.BookRepository, rentalRepo repository.RentalRepository) UserService {
	return &userService{
		userRepo:   userRepo,
		bookRepo:   bookRepo,
		rentalRepo: rentalRepo,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID int32) (*domain.User, *domain.UserStats, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	user.Favorites, err = s.userRepo.ListFavorites(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	rented, err := s.rentalRepo.CountActiveByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	available, err := s.bookRepo.CountRentable(ctx)
	if err != nil {
		return nil, nil, err
	}
	total, err := s.rentalRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	stats := &domain.UserStats{
		BooksRented:        rented,
		AvailableInLibrary: available,
		TotalRentalsEver:   total,
	}
	return user, stats, nil
}

func (s *userService) AdminStats(ctx context.Context) (*domain.AdminStats, error) {
	users, err := s.userRepo.CountByRole(ctx, domain.RoleUser)
	if err != nil {
		return nil, err
	}
	books, err := s.bookRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.rentalRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.AdminStats{
		TotalUsers:    users,
		TotalBooks:    books,
		ActiveRentals: active,
	}, nil
}

// ToggleFavorite flips membership in the favorites set. Both directions are
// idempotent at the storage layer.
func (s *userService) ToggleFavorite(ctx context.Context, userID, bookID int32) (bool, []int32, error) {
	isFavorite, err := s.userRepo.IsFavorite(ctx, userID, bookID)
	if err != nil {
		return false, nil, err
	}
	if isFavorite {
		err = s.userRepo.RemoveFavorite(ctx, userID, bookID)
	} else {
		err = s.userRepo.AddFavorite(ctx, userID, bookID)
	}
	if err != nil {
		return false, nil, err
	}
	favorites, err := s.userRepo.ListFavorites(ctx, userID)
	if err != nil {
		return false, nil, err
	}
	return !isFavorite, favorites, nil
}

// DeleteAccount removes the user record. Rentals are left in place so the
// ledger keeps its history.
func (s *userService) DeleteAccount(ctx context.Context, userID int32) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	logger.Info("User account deleted", "user_id", userID)
	return nil
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userService) DeleteUser(ctx context.Context, id int32) error {
	return s.userRepo.Delete(ctx, id)
}
