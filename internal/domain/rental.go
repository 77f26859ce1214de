package domain

type RentalStatus string

const (
	RentalStatusActive   RentalStatus = "Active"
	RentalStatusReturned RentalStatus = "Returned"
	// RentalStatusOverdue exists for client parity. No code path moves a
	// rental into it; overdue handling is reminder mail only.
	RentalStatusOverdue RentalStatus = "Overdue"
)

// Default substitutions applied on rental intake when a field is missing.
const (
	DefaultRenterName = "Guest User"
	DefaultEmail      = "no-email@library.com"
	DefaultPhone      = "No Phone"
	DefaultDistrict   = "No District"
	DefaultReturnDate = "No Return Date"
)

type Rental struct {
	ID     int32  `json:"id"`
	BookID *int32 `json:"book_id"`
	// Snapshot fields captured from the book at creation time so history
	// stays readable after the book is edited or deleted.
	BookTitle        string       `json:"book_title"`
	Author           string       `json:"author"`
	CoverImage       string       `json:"cover_image"`
	UserID           *int32       `json:"user_id,omitempty"`
	RenterName       string       `json:"renter_name"`
	Email            string       `json:"email"`
	Phone            string       `json:"phone"`
	District         string       `json:"district"`
	RentDate         string       `json:"rent_date"`
	ReturnDate       string       `json:"return_date"`
	ActualReturnDate *string      `json:"actual_return_date,omitempty"`
	Status           RentalStatus `json:"status"`
	CreatedOn        string       `json:"created_on"`
	UpdatedOn        string       `json:"updated_on"`
}
