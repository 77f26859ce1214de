package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"librental-backend/internal/logger"
	"librental-backend/internal/service"
)

// AuthHandler serves registration, login and credential updates.
type AuthHandler struct {
	authSvc    service.AuthService
	middleware *Middleware
}

func NewAuthHandler(authSvc service.AuthService, middleware *Middleware) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, middleware: middleware}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type credentialsResponse struct {
	ID       int32  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

func isFormRequest(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data")
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid form body")
			return
		}
		req.Username = r.PostFormValue("username")
		req.Email = r.PostFormValue("email")
		req.Password = r.PostFormValue("password")
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.authSvc.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Info("User registered", "username", user.Username)
	writeData(w, http.StatusCreated, "registration successful", credentialsResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
		Token:    token,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login is dual-mode: a form POST is the admin panel logging in, so a
// successful login sets the session cookie and redirects to the
// dashboard; a JSON POST is an API client and gets a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if isFormRequest(r) {
		h.loginSession(w, r)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.authSvc.LoginToken(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "login successful", credentialsResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
		Token:    token,
	})
}

func (h *AuthHandler) loginSession(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid form body")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	sess, err := h.authSvc.LoginSession(r.Context(), username, password)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.middleware.setSessionCookie(w, r, sess.ID); err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID, err := h.middleware.clearSessionCookie(w, r)
	if err == nil && sessionID != "" {
		if err := h.authSvc.Logout(r.Context(), sessionID); err != nil {
			logger.Warn("Failed to delete session on logout", "error", err)
		}
	}
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

type updateEmailRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	caller := CallerFromContext(r.Context())
	var req updateEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	email, err := h.authSvc.UpdateEmail(r.Context(), caller.UserID, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "email updated", map[string]string{"email": email})
}

type updatePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	caller := CallerFromContext(r.Context())
	var req updatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.authSvc.UpdatePassword(r.Context(), caller.UserID, req.OldPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "password updated")
}
