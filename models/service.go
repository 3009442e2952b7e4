package models

// Service mirrors the hosted "services" table.
type Service struct {
	ID              int64   `json:"id,omitempty"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
}
