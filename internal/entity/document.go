package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is one knowledge-base article chunk available for retrieval.
type Document struct {
	Id        uuid.UUID
	Title     string
	Repo      string // knowledge-base (repository) display name
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
