package models

import (
	"time"

	"github.com/google/uuid"
)

// Team represents an e-sports team
type Team struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Tag         string    `db:"tag"`
	LogoURL     string    `db:"logo_url"`
	FoundedYear *int      `db:"founded_year"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Game represents a title that matches are played in
type Game struct {
	ID       uuid.UUID `db:"id"`
	Name     string    `db:"name"`
	Category string    `db:"category"`
}
