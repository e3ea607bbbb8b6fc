package models

import "time"

// Bookmark is the user/post pivot row. Existence is its only state: it is
// toggled (created if absent, deleted if present), never updated.
type Bookmark struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	PostID    uint      `gorm:"primaryKey" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps the pivot name aligned with the many2many tag on User.
func (Bookmark) TableName() string {
	return "bookmarks"
}
