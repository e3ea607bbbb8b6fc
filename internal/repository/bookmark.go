package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookmarkRepository defines the interface for bookmark data operations.
type BookmarkRepository interface {
	ListForUser(ctx context.Context, userID uint) ([]models.PostView, error)
	// Toggle bookmarks the post for the user, or removes the bookmark when
	// one already exists. It reports whether the post is bookmarked after
	// the call.
	Toggle(ctx context.Context, userID, postID uint) (bool, error)
}

type bookmarkRepository struct {
	db *gorm.DB
}

// NewBookmarkRepository creates a new bookmark repository.
func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) ListForUser(ctx context.Context, userID uint) ([]models.PostView, error) {
	var posts []*models.Post
	err := withDetails(r.db.WithContext(ctx).Model(&models.Post{})).
		Joins("JOIN bookmarks ON bookmarks.post_id = posts.id").
		Where("bookmarks.user_id = ?", userID).
		Order("bookmarks.created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	views := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, models.NewPostView(p))
	}
	return views, nil
}

// Toggle avoids a read-then-write race by attempting the delete first and
// falling back to an insert that ignores a concurrent duplicate.
func (r *bookmarkRepository) Toggle(ctx context.Context, userID, postID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Bookmark{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	bookmark := models.Bookmark{UserID: userID, PostID: postID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&bookmark).Error
	if err != nil {
		return false, err
	}
	return true, nil
}
