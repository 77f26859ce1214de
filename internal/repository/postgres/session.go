package postgres

import (
	"context"
	"database/sql"
	"time"

	"librental-backend/internal/domain"
	"librental-backend/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, s *domain.Session) error {
	query := `INSERT INTO sessions (id, user_id, username, role, expires_on, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.UserID, s.Username, s.Role, s.ExpiresOn, s.CreatedOn)
	return translateError(err, "session")
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	s := &domain.Session{}
	query := `SELECT id, user_id, username, role, expires_on, created_on FROM sessions WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.UserID, &s.Username, &s.Role, &s.ExpiresOn, &s.CreatedOn)
	if err != nil {
		return nil, translateError(err, "session")
	}
	return s, nil
}

func (r *sessionRepository) Renew(ctx context.Context, id string, expiresOn time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE sessions SET expires_on = $1 WHERE id = $2`, expiresOn, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return translateError(sql.ErrNoRows, "session")
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

func (r *sessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_on < $1`, time.Now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
