package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/containerd/errdefs"
	"github.com/lib/pq"

	"librental-backend/internal/repository"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.BookRepository
	repository.RentalRepository
	repository.SessionRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                db,
		UserRepository:    NewUserRepository(db),
		BookRepository:    NewBookRepository(db),
		RentalRepository:  NewRentalRepository(db),
		SessionRepository: NewSessionRepository(db),
	}
}

// translateError maps driver-level failures onto the error taxonomy so the
// layers above never see sql.ErrNoRows or pq error codes.
func translateError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, errdefs.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%s already exists: %w", what, errdefs.ErrConflict)
	}
	return err
}
