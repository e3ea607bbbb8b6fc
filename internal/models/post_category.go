package models

import "time"

// PostCategory groups posts via the post_category_pivot join table.
// A category that still has associated posts cannot be deleted.
type PostCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Posts []Post `gorm:"many2many:post_category_pivot" json:"posts,omitempty"`

	// PostsCount is not persisted; computed at query time in listings.
	PostsCount int64 `gorm:"->" json:"posts_count,omitempty"`
}
