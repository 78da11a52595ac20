package entity

import "time"

// Permission is a named capability attached to roles.
type Permission struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
