package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"librental-backend/internal/domain"
	"librental-backend/internal/service"
)

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthFixture() (service.AuthService, *MockUserRepo, *MockSessionRepo, *MockTokenManager) {
	userRepo := new(MockUserRepo)
	sessionRepo := new(MockSessionRepo)
	tokens := new(MockTokenManager)
	svc := service.NewAuthService(userRepo, sessionRepo, tokens, 24*time.Hour)
	return svc, userRepo, sessionRepo, tokens
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success normalizes the email and issues a token", func(t *testing.T) {
		svc, userRepo, _, tokens := newAuthFixture()
		userRepo.On("GetByUsername", ctx, "reader").Return(nil, errdefs.ErrNotFound)
		userRepo.On("GetByEmail", ctx, "reader@example.com").Return(nil, errdefs.ErrNotFound)
		userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)
		tokens.On("Generate", int32(0), domain.RoleUser).Return("tok", nil)

		user, token, err := svc.Register(ctx, " reader ", "Reader@Example.COM", "secret")
		require.NoError(t, err)
		assert.Equal(t, "reader", user.Username)
		assert.Equal(t, "reader@example.com", user.Email)
		assert.Equal(t, domain.RoleUser, user.Role)
		assert.Equal(t, "tok", token)
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotEqual(t, "secret", user.PasswordHash)
	})

	t.Run("Duplicate username is Conflict", func(t *testing.T) {
		svc, userRepo, _, _ := newAuthFixture()
		userRepo.On("GetByUsername", ctx, "reader").Return(&domain.User{Username: "reader"}, nil)

		_, _, err := svc.Register(ctx, "reader", "new@example.com", "secret")
		assert.True(t, errdefs.IsConflict(err))
	})

	t.Run("Missing fields are InvalidArgument", func(t *testing.T) {
		svc, _, _, _ := newAuthFixture()
		_, _, err := svc.Register(ctx, "", "a@b.com", "secret")
		assert.True(t, errdefs.IsInvalidArgument(err))
	})
}

func TestAuthService_LoginToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, userRepo, _, tokens := newAuthFixture()
		user := &domain.User{ID: 1, Username: "reader", Role: domain.RoleUser, PasswordHash: hashPassword(t, "secret")}
		userRepo.On("GetByUsername", ctx, "reader").Return(user, nil)
		tokens.On("Generate", user.ID, user.Role).Return("tok", nil)

		got, token, err := svc.LoginToken(ctx, "reader", "secret")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "tok", token)
	})

	t.Run("Wrong password is Unauthenticated", func(t *testing.T) {
		svc, userRepo, _, _ := newAuthFixture()
		user := &domain.User{ID: 1, Username: "reader", PasswordHash: hashPassword(t, "secret")}
		userRepo.On("GetByUsername", ctx, "reader").Return(user, nil)

		_, _, err := svc.LoginToken(ctx, "reader", "wrong")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
		assert.True(t, errdefs.IsUnauthorized(err))
	})

	t.Run("Unknown user looks the same as a wrong password", func(t *testing.T) {
		svc, userRepo, _, _ := newAuthFixture()
		userRepo.On("GetByUsername", ctx, "ghost").Return(nil, errdefs.ErrNotFound)

		_, _, err := svc.LoginToken(ctx, "ghost", "secret")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestAuthService_LoginSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Admin gets a 24h session", func(t *testing.T) {
		svc, userRepo, sessionRepo, _ := newAuthFixture()
		admin := &domain.User{ID: 2, Username: "admin", Role: domain.RoleAdmin, PasswordHash: hashPassword(t, "secret")}
		userRepo.On("GetByUsername", ctx, "admin").Return(admin, nil)
		sessionRepo.On("Create", ctx, mock.AnythingOfType("*domain.Session")).Return(nil)

		sess, err := svc.LoginSession(ctx, "admin", "secret")
		require.NoError(t, err)
		assert.NotEmpty(t, sess.ID)
		assert.Equal(t, admin.ID, sess.UserID)
		assert.Equal(t, domain.RoleAdmin, sess.Role)
		assert.WithinDuration(t, time.Now().Add(24*time.Hour), sess.ExpiresOn, time.Minute)
	})

	t.Run("Non-admin is rejected with PermissionDenied", func(t *testing.T) {
		svc, userRepo, sessionRepo, _ := newAuthFixture()
		user := &domain.User{ID: 3, Username: "reader", Role: domain.RoleUser, PasswordHash: hashPassword(t, "secret")}
		userRepo.On("GetByUsername", ctx, "reader").Return(user, nil)

		_, err := svc.LoginSession(ctx, "reader", "secret")
		assert.ErrorIs(t, err, service.ErrAdminOnly)
		assert.True(t, errdefs.IsPermissionDenied(err))
		sessionRepo.AssertNotCalled(t, "Create")
	})
}

func TestAuthService_ResolveSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid session is renewed", func(t *testing.T) {
		svc, _, sessionRepo, _ := newAuthFixture()
		sess := &domain.Session{ID: "s1", UserID: 2, Role: domain.RoleAdmin, ExpiresOn: time.Now().Add(time.Hour)}
		sessionRepo.On("GetByID", ctx, "s1").Return(sess, nil)
		sessionRepo.On("Renew", ctx, "s1", mock.AnythingOfType("time.Time")).Return(nil)

		got, err := svc.ResolveSession(ctx, "s1")
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(24*time.Hour), got.ExpiresOn, time.Minute)
	})

	t.Run("Expired session is deleted and rejected", func(t *testing.T) {
		svc, _, sessionRepo, _ := newAuthFixture()
		sess := &domain.Session{ID: "s2", ExpiresOn: time.Now().Add(-time.Minute)}
		sessionRepo.On("GetByID", ctx, "s2").Return(sess, nil)
		sessionRepo.On("Delete", ctx, "s2").Return(nil)

		_, err := svc.ResolveSession(ctx, "s2")
		assert.True(t, errdefs.IsUnauthorized(err))
		sessionRepo.AssertCalled(t, "Delete", ctx, "s2")
	})

	t.Run("Unknown session is Unauthenticated", func(t *testing.T) {
		svc, _, sessionRepo, _ := newAuthFixture()
		sessionRepo.On("GetByID", ctx, "nope").Return(nil, errdefs.ErrNotFound)

		_, err := svc.ResolveSession(ctx, "nope")
		assert.True(t, errdefs.IsUnauthorized(err))
	})
}

func TestAuthService_UpdatePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("Wrong old password", func(t *testing.T) {
		svc, userRepo, _, _ := newAuthFixture()
		user := &domain.User{ID: 1, PasswordHash: hashPassword(t, "old")}
		userRepo.On("GetByID", ctx, user.ID).Return(user, nil)

		err := svc.UpdatePassword(ctx, user.ID, "wrong", "new")
		assert.ErrorIs(t, err, service.ErrOldPassword)
		userRepo.AssertNotCalled(t, "UpdatePassword")
	})

	t.Run("Success stores a new hash", func(t *testing.T) {
		svc, userRepo, _, _ := newAuthFixture()
		user := &domain.User{ID: 1, PasswordHash: hashPassword(t, "old")}
		userRepo.On("GetByID", ctx, user.ID).Return(user, nil)
		userRepo.On("UpdatePassword", ctx, user.ID, mock.AnythingOfType("string")).Return(nil)

		err := svc.UpdatePassword(ctx, user.ID, "old", "new")
		assert.NoError(t, err)
	})
}
