package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a blog post. The slug is derived from the title at creation
// and never rewritten afterwards, so URLs stay stable across edits.
type Post struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"not null" json:"title"`
	Slug      string         `gorm:"uniqueIndex;not null" json:"slug"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`

	PostCategories []PostCategory `gorm:"many2many:post_category_pivot" json:"post_categories,omitempty"`
	Media          *Media         `gorm:"foreignKey:PostID" json:"-"`

	// ImageURL is not persisted; derived from the attached media row.
	ImageURL string `gorm:"-" json:"image_url"`
}

// AuthorSummary is the trimmed author shape embedded in post listings.
type AuthorSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
