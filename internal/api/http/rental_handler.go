package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"librental-backend/internal/service"
)

// RentalHandler serves the rental intake and history endpoints.
type RentalHandler struct {
	rentalSvc service.RentalService
}

func NewRentalHandler(rentalSvc service.RentalService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc}
}

type createRentalRequest struct {
	BookID     int32  `json:"bookId"`
	RenterName string `json:"renterName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	District   string `json:"district"`
	RentDate   string `json:"rentDate"`
	ReturnDate string `json:"returnDate"`
}

func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	caller := CallerFromContext(r.Context())
	rental, err := h.rentalSvc.CreateRental(r.Context(), caller, &service.RentalRequest{
		BookID:     req.BookID,
		RenterName: req.RenterName,
		Email:      req.Email,
		Phone:      req.Phone,
		District:   req.District,
		RentDate:   req.RentDate,
		ReturnDate: req.ReturnDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, "rental created", rental)
}

func (h *RentalHandler) MyRentals(w http.ResponseWriter, r *http.Request) {
	caller := CallerFromContext(r.Context())
	rentals, err := h.rentalSvc.MyRentals(r.Context(), caller, r.URL.Query().Get("email"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}

func (h *RentalHandler) MyHistory(w http.ResponseWriter, r *http.Request) {
	caller := CallerFromContext(r.Context())
	rentals, err := h.rentalSvc.MyHistory(r.Context(), caller, r.URL.Query().Get("email"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}

type returnRentalRequest struct {
	RentalID int32 `json:"rentalId"`
	BookID   int32 `json:"bookId"`
}

func (h *RentalHandler) Return(w http.ResponseWriter, r *http.Request) {
	var req returnRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rental, err := h.rentalSvc.ReturnRental(r.Context(), req.RentalID, req.BookID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "book returned", rental)
}

func (h *RentalHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	caller := CallerFromContext(r.Context())
	deleted, err := h.rentalSvc.ClearHistory(r.Context(), caller, r.URL.Query().Get("email"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("cleared %d returned rentals", deleted))
}

func (h *RentalHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.rentalSvc.ListAllRentals(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "rentals", rentals)
}
