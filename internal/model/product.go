package model

import "time"

// Product represents a single catalogue entry. The catalogue is read-only
// from the API's perspective: rows are inserted by the seeder and never
// mutated here.
type Product struct {
	ID          int64          `json:"id" db:"id"`
	Name        string         `json:"name" db:"name"`
	Description string         `json:"description" db:"description"`
	Price       float64        `json:"price" db:"price"`
	ImageURL    string         `json:"image_url" db:"image_url"`
	Brand       string         `json:"brand" db:"brand"`
	Categories  []string       `json:"categories" db:"categories"`
	Attrs       map[string]any `json:"attrs" db:"attrs"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}
