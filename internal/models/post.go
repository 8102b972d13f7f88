package models

import (
	"time"

	"github.com/google/uuid"
)

// PostIndex is the search index name posts are stored under.
const PostIndex = "post"

// PostDB represents a row of the posts table. Author is filled by queries
// that join users.
type PostDB struct {
	ID        int64     `json:"id" db:"id"`
	Body      string    `json:"body" db:"body"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Author    string    `json:"author" db:"author"`
	Timestamp time.Time `json:"time_stamp" db:"time_stamp"`
	Language  string    `json:"language" db:"language"`
}

// IndexName implements the searchable contract.
func (p *PostDB) IndexName() string { return PostIndex }

// IndexID implements the searchable contract.
func (p *PostDB) IndexID() int64 { return p.ID }

// IndexFields returns the text fields mirrored into the search index.
func (p *PostDB) IndexFields() map[string]string {
	return map[string]string{"body": p.Body}
}
