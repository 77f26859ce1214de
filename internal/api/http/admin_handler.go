package http

import (
	"net/http"
	"strconv"

	"librental-backend/internal/domain"
	"librental-backend/internal/logger"
	"librental-backend/internal/repository"
	"librental-backend/internal/service"
	"librental-backend/internal/storage"
)

const maxCoverUploadBytes = 10 << 20

// AdminHandler serves the browser admin panel: session-guarded reads
// plus multipart catalog writes that redirect back to the dashboard.
type AdminHandler struct {
	catalogSvc service.CatalogService
	rentalSvc  service.RentalService
	userSvc    service.UserService
	covers     storage.CoverStorage
}

func NewAdminHandler(catalogSvc service.CatalogService, rentalSvc service.RentalService, userSvc service.UserService, covers storage.CoverStorage) *AdminHandler {
	return &AdminHandler{
		catalogSvc: catalogSvc,
		rentalSvc:  rentalSvc,
		userSvc:    userSvc,
		covers:     covers,
	}
}

// LoginPage is a stub for the server-rendered login form; the panel
// frontend is served separately.
func (h *AdminHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "POST username and password to /api/auth/login as a form to sign in")
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	books, err := h.catalogSvc.ListBooks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	caller := CallerFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"admin": caller.Username,
		"books": books,
	})
}

// DashboardData is the unauthenticated books feed the mobile client
// polls.
func (h *AdminHandler) DashboardData(w http.ResponseWriter, r *http.Request) {
	books, err := h.catalogSvc.ListBooks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

func (h *AdminHandler) Rentals(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.rentalSvc.ListAllRentals(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}

func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.userSvc.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// saveCover stores an uploaded cover file if one is present. Returns
// the stored relative path, or "" when the form had no file.
func (h *AdminHandler) saveCover(r *http.Request) (string, error) {
	file, header, err := r.FormFile("cover_image")
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()
	return h.covers.Save(header.Filename, file)
}

func (h *AdminHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxCoverUploadBytes); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	book := &domain.Book{
		Title:       r.FormValue("title"),
		Author:      r.FormValue("author"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		PublishDate: r.FormValue("publish_date"),
	}
	if v := r.FormValue("rating"); v != "" {
		book.Rating, _ = strconv.ParseFloat(v, 64)
	}
	if v := r.FormValue("stock"); v != "" {
		stock, _ := strconv.ParseInt(v, 10, 32)
		book.Stock = int32(stock)
	}
	if v := r.FormValue("availability_status"); v != "" {
		book.Status = domain.BookStatus(v)
	}

	cover, err := h.saveCover(r)
	if err != nil {
		writeError(w, err)
		return
	}
	book.CoverImage = cover

	if err := h.catalogSvc.AddBook(r.Context(), book); err != nil {
		writeError(w, err)
		return
	}
	logger.Info("Book added from admin panel", "title", book.Title, "id", book.ID)
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

func (h *AdminHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid book id")
		return
	}
	if err := r.ParseMultipartForm(maxCoverUploadBytes); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	patch := &repository.BookPatch{}
	set := func(name string, dst **string) {
		if v := r.FormValue(name); v != "" {
			*dst = &v
		}
	}
	set("title", &patch.Title)
	set("author", &patch.Author)
	set("description", &patch.Description)
	set("category", &patch.Category)
	set("publish_date", &patch.PublishDate)
	if v := r.FormValue("rating"); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err == nil {
			patch.Rating = &rating
		}
	}
	if v := r.FormValue("stock"); v != "" {
		stock64, err := strconv.ParseInt(v, 10, 32)
		if err == nil {
			stock := int32(stock64)
			patch.Stock = &stock
		}
	}
	if v := r.FormValue("available_units"); v != "" {
		units64, err := strconv.ParseInt(v, 10, 32)
		if err == nil {
			units := int32(units64)
			patch.AvailableUnits = &units
		}
	}
	if v := r.FormValue("availability_status"); v != "" {
		status := domain.BookStatus(v)
		patch.Status = &status
	}

	cover, err := h.saveCover(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if cover != "" {
		patch.CoverImage = &cover
	}

	if _, err := h.catalogSvc.UpdateBook(r.Context(), id, patch); err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

func (h *AdminHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid book id")
		return
	}
	if err := h.catalogSvc.DeleteBook(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := h.userSvc.DeleteUser(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}
