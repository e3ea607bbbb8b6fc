package models

import "time"

// CategorySummary is the trimmed category shape embedded in post payloads.
type CategorySummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// PostView is the post shape returned by listings, slug lookups and bookmark
// listings: the post row plus its author (id+name), category summaries and
// image URL.
type PostView struct {
	ID             uint              `json:"id"`
	Title          string            `json:"title"`
	Slug           string            `json:"slug"`
	Content        string            `json:"content"`
	UserID         uint              `json:"user_id"`
	DeletedAt      *time.Time        `json:"deleted_at"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	User           AuthorSummary     `json:"user"`
	PostCategories []CategorySummary `json:"post_categories"`
	ImageURL       string            `json:"image_url"`
}

// NewPostView maps a post (with User, PostCategories and Media preloaded)
// into its API shape.
func NewPostView(p *Post) PostView {
	v := PostView{
		ID:             p.ID,
		Title:          p.Title,
		Slug:           p.Slug,
		Content:        p.Content,
		UserID:         p.UserID,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		PostCategories: make([]CategorySummary, 0, len(p.PostCategories)),
	}
	if p.DeletedAt.Valid {
		t := p.DeletedAt.Time
		v.DeletedAt = &t
	}
	if p.User != nil {
		v.User = AuthorSummary{ID: p.User.ID, Name: p.User.Name}
	}
	for _, c := range p.PostCategories {
		v.PostCategories = append(v.PostCategories, CategorySummary{ID: c.ID, Name: c.Name})
	}
	if p.Media != nil {
		v.ImageURL = p.Media.URL()
	}
	return v
}
