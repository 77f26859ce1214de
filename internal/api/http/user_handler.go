package http

import (
	"net/http"

	"librental-backend/internal/logger"
	"librental-backend/internal/service"
)

// UserHandler serves profile, stats and favorites.
type UserHandler struct {
	userSvc    service.UserService
	catalogSvc service.CatalogService
}

func NewUserHandler(userSvc service.UserService, catalogSvc service.CatalogService) *UserHandler {
	return &UserHandler{userSvc: userSvc, catalogSvc: catalogSvc}
}

// AllBooks mirrors the catalog list under the users prefix for the
// mobile client, which reads books from both places.
func (h *UserHandler) AllBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.catalogSvc.ListBooks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	caller := CallerFromContext(r.Context())
	user, stats, err := h.userSvc.GetProfile(r.Context(), caller.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":  user,
		"stats": stats,
	})
}

func (h *UserHandler) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.userSvc.AdminStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *UserHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	caller := CallerFromContext(r.Context())
	bookID, err := pathID(r, "bookId")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid book id")
		return
	}

	added, favorites, err := h.userSvc.ToggleFavorite(r.Context(), caller.UserID, bookID)
	if err != nil {
		writeError(w, err)
		return
	}
	msg := "removed from favorites"
	if added {
		msg = "added to favorites"
	}
	writeData(w, http.StatusOK, msg, favorites)
}

func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	caller := CallerFromContext(r.Context())
	if err := h.userSvc.DeleteAccount(r.Context(), caller.UserID); err != nil {
		writeError(w, err)
		return
	}
	logger.Info("Account deleted", "user_id", caller.UserID)
	writeMessage(w, http.StatusOK, "account deleted")
}
