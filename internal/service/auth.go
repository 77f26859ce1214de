package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/containerd/errdefs"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"librental-backend/internal/domain"
	"librental-backend/internal/repository"
	"librental-backend/internal/security"
)

var (
	ErrInvalidCredentials = fmt.Errorf("invalid username or password: %w", errdefs.ErrUnauthenticated)
	ErrOldPassword        = fmt.Errorf("old password incorrect: %w", errdefs.ErrUnauthenticated)
	ErrAdminOnly          = fmt.Errorf("admin access only: %w", errdefs.ErrPermissionDenied)
)

type authService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	tokens      security.TokenManager
	sessionTTL  time.Duration
}

func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, tokens security.TokenManager, sessionTTL time.Duration) AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
		sessionTTL:  sessionTTL,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, username, email, password string) (*domain.User, string, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || password == "" {
		return nil, "", fmt.Errorf("username, email and password are required: %w", errdefs.ErrInvalidArgument)
	}

	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, "", fmt.Errorf("username %q is taken: %w", username, errdefs.ErrConflict)
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, "", fmt.Errorf("email %q is taken: %w", email, errdefs.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	// The unique indexes back up the pre-checks; a racing duplicate still
	// surfaces as Conflict from the repository.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) verify(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) LoginToken(ctx context.Context, username, password string) (*domain.User, string, error) {
	user, err := s.verify(ctx, username, password)
	if err != nil {
		return nil, "", err
	}
	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) LoginSession(ctx context.Context, username, password string) (*domain.Session, error) {
	user, err := s.verify(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleAdmin {
		return nil, ErrAdminOnly
	}

	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		ExpiresOn: now.Add(s.sessionTTL),
		CreatedOn: now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ResolveSession loads a session and renews its expiry, so an active admin
// is never logged out mid-use.
func (s *authService) ResolveSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", errdefs.ErrUnauthenticated)
	}
	if session.Expired(time.Now()) {
		_ = s.sessionRepo.Delete(ctx, sessionID)
		return nil, fmt.Errorf("session expired: %w", errdefs.ErrUnauthenticated)
	}
	session.ExpiresOn = time.Now().Add(s.sessionTTL)
	if err := s.sessionRepo.Renew(ctx, sessionID, session.ExpiresOn); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessionRepo.Delete(ctx, sessionID)
}

func (s *authService) UpdateEmail(ctx context.Context, userID int32, email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", fmt.Errorf("email is required: %w", errdefs.ErrInvalidArgument)
	}
	if err := s.userRepo.UpdateEmail(ctx, userID, email); err != nil {
		return "", err
	}
	return email, nil
}

func (s *authService) UpdatePassword(ctx context.Context, userID int32, oldPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("new password is required: %w", errdefs.ErrInvalidArgument)
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrOldPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, userID, string(hash))
}
