package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines the interface for post category data operations.
type CategoryRepository interface {
	List(ctx context.Context, search string, page, perPage int) (*models.Paginated, error)
	Create(ctx context.Context, category *models.PostCategory) error
	GetByID(ctx context.Context, id uint) (*models.PostCategory, error)
	Update(ctx context.Context, category *models.PostCategory) error
	Delete(ctx context.Context, id uint) error
	HasPosts(ctx context.Context, id uint) (bool, error)
	NameTaken(ctx context.Context, name string, excludeID uint) (bool, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new post category repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

const postsCountExpr = "(SELECT COUNT(*) FROM post_category_pivot WHERE post_category_pivot.post_category_id = post_categories.id) AS posts_count"

func (r *categoryRepository) List(ctx context.Context, search string, page, perPage int) (*models.Paginated, error) {
	base := r.db.WithContext(ctx).Model(&models.PostCategory{})
	if search != "" {
		base = base.Where("name ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var categories []*models.PostCategory
	if err := base.
		Select("post_categories.*, " + postsCountExpr).
		Order("post_categories.id").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&categories).Error; err != nil {
		return nil, err
	}

	result := models.NewPaginated(categories, total, page, perPage, len(categories))
	return &result, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.PostCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.PostCategory, error) {
	var category models.PostCategory
	if err := r.db.WithContext(ctx).
		Model(&models.PostCategory{}).
		Select("post_categories.*, "+postsCountExpr).
		Where("post_categories.id = ?", id).
		First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.PostCategory) error {
	return r.db.WithContext(ctx).Model(category).Update("name", category.Name).Error
}

// Delete assumes the caller already verified the category has no posts.
func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.PostCategory{ID: id}).Error
}

func (r *categoryRepository) HasPosts(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("post_category_pivot").
		Where("post_category_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *categoryRepository) NameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.PostCategory{}).Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
