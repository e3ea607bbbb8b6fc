package models

import "time"

// Media is a post's single image attachment. The file itself lives on disk
// under the configured upload directory; FileName is the stored (UUID) name.
type Media struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PostID       uint      `gorm:"uniqueIndex;not null" json:"post_id"`
	FileName     string    `gorm:"not null" json:"file_name"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName pins the table name to the singular-free form used in migrations.
func (Media) TableName() string {
	return "media"
}

// URL returns the public path the file is served from.
func (m *Media) URL() string {
	return "/uploads/" + m.FileName
}
