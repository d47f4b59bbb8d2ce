package models

import "time"

// User represents a registered account. Role is either "user" or "teacher";
// teachers author courses.
type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role" gorm:"default:'user'"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
