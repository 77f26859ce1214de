package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/containerd/errdefs"
	"github.com/gorilla/mux"

	"librental-backend/internal/domain"
	"librental-backend/internal/repository"
	"librental-backend/internal/service"
)

// BookHandler serves the public catalog reads and the admin JSON
// catalog writes.
type BookHandler struct {
	catalogSvc service.CatalogService
}

func NewBookHandler(catalogSvc service.CatalogService) *BookHandler {
	return &BookHandler{catalogSvc: catalogSvc}
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, errdefs.ErrInvalidArgument
	}
	return int32(id), nil
}

type bookRequest struct {
	Title          *string  `json:"title"`
	Author         *string  `json:"author"`
	Description    *string  `json:"description"`
	Category       *string  `json:"category"`
	Rating         *float64 `json:"rating"`
	Stock          *int32   `json:"stock"`
	AvailableUnits *int32   `json:"available_units"`
	Status         *string  `json:"availability_status"`
	CoverImage     *string  `json:"cover_image"`
	PublishDate    *string  `json:"publish_date"`
}

func (req *bookRequest) patch() *repository.BookPatch {
	p := &repository.BookPatch{
		Title:          req.Title,
		Author:         req.Author,
		Description:    req.Description,
		Category:       req.Category,
		Rating:         req.Rating,
		Stock:          req.Stock,
		AvailableUnits: req.AvailableUnits,
		CoverImage:     req.CoverImage,
		PublishDate:    req.PublishDate,
	}
	if req.Status != nil {
		status := domain.BookStatus(*req.Status)
		p.Status = &status
	}
	return p
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.catalogSvc.ListBooks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid book id")
		return
	}
	book, err := h.catalogSvc.GetBook(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	book := &domain.Book{
		Title:       deref(req.Title),
		Author:      deref(req.Author),
		Description: deref(req.Description),
		Category:    deref(req.Category),
		CoverImage:  deref(req.CoverImage),
		PublishDate: deref(req.PublishDate),
	}
	if req.Rating != nil {
		book.Rating = *req.Rating
	}
	if req.Stock != nil {
		book.Stock = *req.Stock
	}
	if req.AvailableUnits != nil {
		book.AvailableUnits = *req.AvailableUnits
	}
	if req.Status != nil {
		book.Status = domain.BookStatus(*req.Status)
	}

	if err := h.catalogSvc.AddBook(r.Context(), book); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, "book added", book)
}

func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid book id")
		return
	}

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	book, err := h.catalogSvc.UpdateBook(r.Context(), id, req.patch())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "book updated", book)
}

func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid book id")
		return
	}
	if err := h.catalogSvc.DeleteBook(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "book deleted")
}
