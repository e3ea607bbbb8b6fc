// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account. Posts are owned by the user via
// foreign key; bookmarks are a many-to-many association with posts.
type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"not null" json:"name"`
	Email           string         `gorm:"unique;not null" json:"email"`
	Password        string         `gorm:"not null" json:"-"`
	EmailVerifiedAt *time.Time     `json:"email_verified_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	Posts           []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`
	Bookmarks       []Post         `gorm:"many2many:bookmarks" json:"bookmarks,omitempty"`
}

// Verified reports whether the account's email has been verified.
func (u *User) Verified() bool {
	return u.EmailVerifiedAt != nil
}
