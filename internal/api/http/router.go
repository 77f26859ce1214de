package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"librental-backend/internal/storage"
)

// RouterDeps bundles everything the HTTP surface needs.
type RouterDeps struct {
	Middleware *Middleware
	Auth       *AuthHandler
	Rentals    *RentalHandler
	Books      *BookHandler
	Users      *UserHandler
	Admin      *AdminHandler
	Covers     storage.CoverStorage
}

// NewRouter builds the full route table: the JSON API under /api and
// the session-guarded admin panel under /admin (mirrored at /api/admin
// for clients that keep the legacy prefix).
func NewRouter(deps RouterDeps) *mux.Router {
	r := mux.NewRouter()
	r.Use(deps.Middleware.Logging)

	api := r.PathPrefix("/api").Subrouter()

	// Rental intake and history. Intake takes guests, so identity is
	// optional there; the history reads accept either a token or an
	// explicit email filter.
	api.Handle("/rentals", deps.Middleware.WithIdentity(http.HandlerFunc(deps.Rentals.Create))).Methods(http.MethodPost)
	api.Handle("/my-rentals", deps.Middleware.WithIdentity(http.HandlerFunc(deps.Rentals.MyRentals))).Methods(http.MethodGet)
	api.Handle("/my-history", deps.Middleware.WithIdentity(http.HandlerFunc(deps.Rentals.MyHistory))).Methods(http.MethodGet)
	api.HandleFunc("/rentals/return", deps.Rentals.Return).Methods(http.MethodPost)
	api.Handle("/my-history/clear", deps.Middleware.WithIdentity(http.HandlerFunc(deps.Rentals.ClearHistory))).Methods(http.MethodDelete)

	// Auth.
	api.HandleFunc("/auth/register", deps.Auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", deps.Auth.Login).Methods(http.MethodPost)
	api.Handle("/auth/update-email",
		deps.Middleware.RequireToken(http.HandlerFunc(deps.Auth.UpdateEmail))).Methods(http.MethodPut)
	api.Handle("/auth/update-password",
		deps.Middleware.RequireToken(http.HandlerFunc(deps.Auth.UpdatePassword))).Methods(http.MethodPut)

	// Catalog: public reads, admin token writes.
	api.HandleFunc("/books", deps.Books.List).Methods(http.MethodGet)
	api.HandleFunc("/books/{id:[0-9]+}", deps.Books.Get).Methods(http.MethodGet)
	api.Handle("/books", adminToken(deps.Middleware, deps.Books.Create)).Methods(http.MethodPost)
	api.Handle("/books/{id:[0-9]+}", adminToken(deps.Middleware, deps.Books.Update)).Methods(http.MethodPut)
	api.Handle("/books/{id:[0-9]+}", adminToken(deps.Middleware, deps.Books.Delete)).Methods(http.MethodDelete)

	// Users.
	api.HandleFunc("/users/all-books", deps.Users.AllBooks).Methods(http.MethodGet)
	api.Handle("/users/profile",
		deps.Middleware.RequireToken(http.HandlerFunc(deps.Users.Profile))).Methods(http.MethodGet)
	api.Handle("/users/admin/stats", adminToken(deps.Middleware, deps.Users.AdminStats)).Methods(http.MethodGet)
	api.Handle("/users/favorite/{bookId:[0-9]+}",
		deps.Middleware.RequireToken(http.HandlerFunc(deps.Users.ToggleFavorite))).Methods(http.MethodPost)
	api.Handle("/users/delete",
		deps.Middleware.RequireToken(http.HandlerFunc(deps.Users.DeleteAccount))).Methods(http.MethodDelete)

	// Admin rentals feed for the API clients.
	api.Handle("/admin/rentals", adminToken(deps.Middleware, deps.Rentals.ListAll)).Methods(http.MethodGet)

	// Admin panel, mounted at both prefixes.
	registerAdminPanel(r.PathPrefix("/admin").Subrouter(), deps)
	registerAdminPanel(api.PathPrefix("/admin").Subrouter(), deps)

	// Stored covers.
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(deps.Covers.Dir()))))

	return r
}

func adminToken(m *Middleware, h http.HandlerFunc) http.Handler {
	return m.RequireToken(m.RequireAdmin(h))
}

func registerAdminPanel(panel *mux.Router, deps RouterDeps) {
	session := deps.Middleware.RequireAdminSession

	panel.HandleFunc("/login", deps.Admin.LoginPage).Methods(http.MethodGet)
	panel.HandleFunc("/logout", deps.Auth.Logout).Methods(http.MethodGet)
	panel.HandleFunc("/dashboard-data", deps.Admin.DashboardData).Methods(http.MethodGet)
	panel.HandleFunc("/register", deps.Auth.Register).Methods(http.MethodPost)

	panel.Handle("/dashboard", session(http.HandlerFunc(deps.Admin.Dashboard))).Methods(http.MethodGet)
	panel.Handle("/rentals", session(http.HandlerFunc(deps.Admin.Rentals))).Methods(http.MethodGet)
	panel.Handle("/users", session(http.HandlerFunc(deps.Admin.Users))).Methods(http.MethodGet)
	panel.Handle("/add-book", session(http.HandlerFunc(deps.Admin.AddBook))).Methods(http.MethodPost)
	panel.Handle("/update-book/{id:[0-9]+}", session(http.HandlerFunc(deps.Admin.UpdateBook))).Methods(http.MethodPost)
	panel.Handle("/delete-book/{id:[0-9]+}", session(http.HandlerFunc(deps.Admin.DeleteBook))).Methods(http.MethodGet)
	panel.Handle("/delete-user/{id:[0-9]+}", session(http.HandlerFunc(deps.Admin.DeleteUser))).Methods(http.MethodGet)
}
