package domain

import "encoding/json"

type BookStatus string

const (
	BookStatusAvailable  BookStatus = "Available"
	BookStatusOutOfStock BookStatus = "Out of Stock"
	BookStatusComingSoon BookStatus = "Coming Soon"
)

const (
	// DefaultBookDescription keeps the mobile client from rendering "null"
	// when an admin never filled the field in.
	DefaultBookDescription = "No description available for this book."

	// DefaultCoverImage is substituted when no cover was uploaded.
	DefaultCoverImage = "uploads/default.jpg"
)

type Book struct {
	ID             int32      `json:"id"`
	Title          string     `json:"title"`
	Author         string     `json:"author"`
	Description    string     `json:"description"`
	Category       string     `json:"category"`
	Rating         float64    `json:"rating"`
	Stock          int32      `json:"stock"`
	AvailableUnits int32      `json:"available_units"`
	Status         BookStatus `json:"availability_status"`
	CoverImage     string     `json:"cover_image"`
	PublishDate    string     `json:"publish_date,omitempty"`
	CreatedOn      string     `json:"created_on"`
	UpdatedOn      string     `json:"updated_on"`
}

// Rentable is the single authoritative availability signal: a book may be
// rented only while its status is Available and at least one unit is free.
func (b *Book) Rentable() bool {
	return b.Status == BookStatusAvailable && b.AvailableUnits > 0
}

// MarshalJSON emits the legacy "availability" boolean the clients consume
// as a derived view of Rentable; it is never stored independently.
func (b Book) MarshalJSON() ([]byte, error) {
	type alias Book
	return json.Marshal(struct {
		alias
		Availability bool `json:"availability"`
	}{
		alias:        alias(b),
		Availability: b.Rentable(),
	})
}
