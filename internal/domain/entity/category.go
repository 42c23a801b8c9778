package entity

import "time"

// Category agrupa productos para catálogo y reportes.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
