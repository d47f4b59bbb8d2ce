package models

import (
	"strings"
	"time"
)

// Course represents one publishable learning unit.
//
// Files holds the URLs of every generic attachment joined with "," — the
// representation the public API exposes. URLs produced by the media store
// never contain commas, so the join survives the round trip.
type Course struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description"`
	Article     string `json:"article"`
	VideoLink   string `json:"video_link"`
	Image       string `json:"img"`
	Files       string `json:"files"`
	CreatedBy   string `json:"created_by" gorm:"index"`
	Publish     string `json:"publish" gorm:"default:'no'"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileURLs splits the comma-joined attachment list. An empty Files field
// yields no entries rather than one empty entry.
func (c *Course) FileURLs() []string {
	if c.Files == "" {
		return nil
	}
	return strings.Split(c.Files, ",")
}

// IsPublished reports whether the loosely-typed publish flag is set.
func (c *Course) IsPublished() bool {
	return c.Publish == "yes" || c.Publish == "true"
}
