package models

import "time"

// Upload is an audit row written after every successful push to the media
// store. The sweeper uses it to reclaim remote objects that no course
// references anymore (aborted batches, replaced attachments).
type Upload struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	PublicID string `json:"public_id" gorm:"uniqueIndex;not null"` // folder-qualified object id
	Kind     string `json:"kind"`                                  // "image" or "raw"
	URL      string `json:"url"`

	CreatedAt time.Time `json:"created_at"`
}
