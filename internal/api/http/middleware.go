package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/sessions"

	"librental-backend/internal/domain"
	"librental-backend/internal/logger"
	"librental-backend/internal/repository"
	"librental-backend/internal/security"
	"librental-backend/internal/service"
)

const sessionCookieName = "librental_admin"

// Middleware resolves request identity from bearer tokens and admin
// session cookies and guards routes by role.
type Middleware struct {
	tokens      security.TokenManager
	userRepo    repository.UserRepository
	authSvc     service.AuthService
	cookieStore *sessions.CookieStore
}

func NewMiddleware(tokens security.TokenManager, userRepo repository.UserRepository, authSvc service.AuthService, sessionSecret string) *Middleware {
	store := sessions.NewCookieStore([]byte(sessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int((24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Middleware{
		tokens:      tokens,
		userRepo:    userRepo,
		authSvc:     authSvc,
		cookieStore: store,
	}
}

// Logging records one line per request after it completes.
func (m *Middleware) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// resolveCaller loads the user named by the bearer token, if any. An
// absent or bad token just yields an anonymous request here; the
// Require* guards decide whether that is acceptable.
func (m *Middleware) resolveCaller(r *http.Request) *domain.Caller {
	token := bearerToken(r)
	if token == "" {
		return nil
	}
	claims, err := m.tokens.Validate(token)
	if err != nil {
		return nil
	}
	user, err := m.userRepo.GetByID(r.Context(), claims.UserID)
	if err != nil {
		return nil
	}
	return &domain.Caller{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}

// WithIdentity attaches the caller when a valid token is present but
// lets anonymous requests through. Used on intake routes where guests
// are first-class.
func (m *Middleware) WithIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if caller := m.resolveCaller(r); caller != nil {
			r = r.WithContext(WithCaller(r.Context(), caller))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireToken rejects requests without a valid bearer token.
func (m *Middleware) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "authentication required"})
			return
		}
		claims, err := m.tokens.Validate(token)
		if err != nil {
			writeError(w, err)
			return
		}
		user, err := m.userRepo.GetByID(r.Context(), claims.UserID)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "account no longer exists"})
			return
		}
		caller := &domain.Caller{
			UserID:   user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		}
		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
	})
}

// RequireAdmin must be stacked after RequireToken.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := CallerFromContext(r.Context())
		if !caller.IsAdmin() {
			writeJSON(w, http.StatusForbidden, map[string]string{"message": "admin access only"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdminSession guards the browser admin panel. Failed checks
// redirect to the login page rather than returning JSON.
func (m *Middleware) RequireAdminSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := m.cookieStore.Get(r, sessionCookieName)
		if err != nil {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		sessionID, ok := cookie.Values["session_id"].(string)
		if !ok || sessionID == "" {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		sess, err := m.authSvc.ResolveSession(r.Context(), sessionID)
		if err != nil {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		caller := &domain.Caller{
			UserID:   sess.UserID,
			Username: sess.Username,
			Role:     sess.Role,
		}
		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
	})
}

// setSessionCookie stores the server-side session id in the browser
// cookie. Everything else about the session lives in the database.
func (m *Middleware) setSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string) error {
	cookie, _ := m.cookieStore.Get(r, sessionCookieName)
	cookie.Values["session_id"] = sessionID
	return cookie.Save(r, w)
}

func (m *Middleware) clearSessionCookie(w http.ResponseWriter, r *http.Request) (string, error) {
	cookie, err := m.cookieStore.Get(r, sessionCookieName)
	if err != nil {
		return "", err
	}
	sessionID, _ := cookie.Values["session_id"].(string)
	cookie.Options.MaxAge = -1
	return sessionID, cookie.Save(r, w)
}
