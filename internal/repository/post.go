// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/media"
	"inkwell/internal/models"
	"inkwell/internal/slug"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	List(ctx context.Context, search string, page, perPage int) (*models.Paginated, error)
	Create(ctx context.Context, post *models.Post, categoryIDs []uint, image *media.Stored) error
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	// Update rewrites title/content, replaces the category set when
	// categoryIDs is non-nil and swaps the image when image is non-nil.
	// It returns the replaced image file name, if any.
	Update(ctx context.Context, post *models.Post, categoryIDs []uint, image *media.Stored) (string, error)
	// Delete clears the image attachment, detaches categories and
	// soft-deletes the post. It returns the removed image file name, if any.
	Delete(ctx context.Context, id uint) (string, error)
	MissingCategoryIDs(ctx context.Context, ids []uint) ([]uint, error)
	TitleTaken(ctx context.Context, title string, excludeID uint) (bool, error)
}

type postRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB, c *cache.Cache) PostRepository {
	return &postRepository{db: db, cache: c}
}

// withDetails preloads the relations every post payload carries.
func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).
		Preload("PostCategories", func(db *gorm.DB) *gorm.DB {
			return db.Select("post_categories.id", "post_categories.name")
		}).
		Preload("Media")
}

func (r *postRepository) List(ctx context.Context, search string, page, perPage int) (*models.Paginated, error) {
	key := cache.PostIndexKey(search, page, perPage)

	var result models.Paginated
	err := r.cache.Remember(ctx, "post", key, &result, cache.PostIndexTTL, func() error {
		base := r.db.WithContext(ctx).Model(&models.Post{})
		if search != "" {
			like := "%" + search + "%"
			base = base.Where("title ILIKE ? OR content ILIKE ?", like, like)
		}

		var total int64
		if err := base.Count(&total).Error; err != nil {
			return err
		}

		var posts []*models.Post
		if err := withDetails(base).
			Order("posts.id").
			Limit(perPage).
			Offset((page - 1) * perPage).
			Find(&posts).Error; err != nil {
			return err
		}

		views := make([]models.PostView, 0, len(posts))
		for _, p := range posts {
			views = append(views, models.NewPostView(p))
		}
		result = models.NewPaginated(views, total, page, perPage, len(views))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post, categoryIDs []uint, image *media.Stored) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s, err := uniqueSlug(tx, post.Title, 0)
		if err != nil {
			return err
		}
		post.Slug = s

		if err := tx.Omit("PostCategories", "Media", "User").Create(post).Error; err != nil {
			return err
		}

		if err := attachCategories(tx, post, categoryIDs); err != nil {
			return err
		}

		if image != nil {
			m := mediaRow(post.ID, image)
			if err := tx.Create(m).Error; err != nil {
				return err
			}
			post.ImageURL = m.URL()
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.cache.DeleteByPrefix(ctx, "post", cache.PostIndexPrefix)
	return nil
}

func (r *postRepository) GetBySlug(ctx context.Context, s string) (*models.Post, error) {
	var post models.Post
	// The default soft-delete scope applies here: soft-deleted posts are not
	// reachable by slug.
	err := withDetails(r.db.WithContext(ctx)).Where("slug = ?", s).First(&post).Error
	if err != nil {
		return nil, err
	}
	if post.Media != nil {
		post.ImageURL = post.Media.URL()
	}
	return &post, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post, categoryIDs []uint, image *media.Stored) (string, error) {
	var replacedFile string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(post).Updates(map[string]any{
			"title":   post.Title,
			"content": post.Content,
		}).Error; err != nil {
			return err
		}

		if categoryIDs != nil {
			if err := tx.Model(post).Association("PostCategories").Clear(); err != nil {
				return err
			}
			if err := attachCategories(tx, post, categoryIDs); err != nil {
				return err
			}
		}

		if image != nil {
			file, err := removeMediaRow(tx, post.ID)
			if err != nil {
				return err
			}
			replacedFile = file

			m := mediaRow(post.ID, image)
			if err := tx.Create(m).Error; err != nil {
				return err
			}
			post.ImageURL = m.URL()
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	r.cache.DeleteByPrefix(ctx, "post", cache.PostIndexPrefix)
	return replacedFile, nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) (string, error) {
	var removedFile string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		file, err := removeMediaRow(tx, id)
		if err != nil {
			return err
		}
		removedFile = file

		post := models.Post{ID: id}
		if err := tx.Model(&post).Association("PostCategories").Clear(); err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		return "", err
	}

	r.cache.DeleteByPrefix(ctx, "post", cache.PostIndexPrefix)
	return removedFile, nil
}

func (r *postRepository) MissingCategoryIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var found []uint
	if err := r.db.WithContext(ctx).
		Model(&models.PostCategory{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error; err != nil {
		return nil, err
	}

	exists := make(map[uint]struct{}, len(found))
	for _, id := range found {
		exists[id] = struct{}{}
	}

	var missing []uint
	for _, id := range ids {
		if _, ok := exists[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r *postRepository) TitleTaken(ctx context.Context, title string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Post{}).Where("title = ?", title)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// uniqueSlug derives the slug for title, probing "-2", "-3", ... until a free
// one is found. Soft-deleted posts still hold their slug (the unique index
// covers them), so the probe is unscoped.
func uniqueSlug(tx *gorm.DB, title string, excludeID uint) (string, error) {
	base := slug.Make(title)
	for n := 1; ; n++ {
		candidate := slug.WithSuffix(base, n)

		var count int64
		q := tx.Unscoped().Model(&models.Post{}).Where("slug = ?", candidate)
		if excludeID != 0 {
			q = q.Where("id <> ?", excludeID)
		}
		if err := q.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
}

func attachCategories(tx *gorm.DB, post *models.Post, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	cats := make([]models.PostCategory, 0, len(ids))
	for _, id := range ids {
		cats = append(cats, models.PostCategory{ID: id})
	}
	return tx.Model(post).Omit("PostCategories.*").Association("PostCategories").Append(&cats)
}

func mediaRow(postID uint, stored *media.Stored) *models.Media {
	return &models.Media{
		PostID:       postID,
		FileName:     stored.FileName,
		OriginalName: stored.OriginalName,
		MimeType:     stored.MimeType,
		Size:         stored.Size,
	}
}

// removeMediaRow deletes the post's media row, returning the file name that
// backed it so the caller can remove the file after commit.
func removeMediaRow(tx *gorm.DB, postID uint) (string, error) {
	var m models.Media
	err := tx.Where("post_id = ?", postID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if err := tx.Delete(&m).Error; err != nil {
		return "", err
	}
	return m.FileName, nil
}
