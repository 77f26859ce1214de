package domain

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           int32   `json:"id"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	Mobile       string  `json:"mobile"`
	Role         Role    `json:"role"`
	Favorites    []int32 `json:"favorites,omitempty"` // Populated when needed
	CreatedOn    string  `json:"created_on"`
	UpdatedOn    string  `json:"updated_on"`
}

// UserStats is the personal dashboard block returned with a profile.
type UserStats struct {
	BooksRented        int32 `json:"books_rented"`
	AvailableInLibrary int32 `json:"available_in_library"`
	TotalRentalsEver   int32 `json:"total_rentals_ever"`
}

// AdminStats summarizes the whole library for the admin dashboard.
type AdminStats struct {
	TotalUsers    int32 `json:"total_users"`
	TotalBooks    int32 `json:"total_books"`
	ActiveRentals int32 `json:"active_rentals"`
}
