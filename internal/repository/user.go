package repository

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	List(ctx context.Context, search string, page, perPage int) (*models.Paginated, error)
	Create(ctx context.Context, user *models.User) error
	// CreateWithToken inserts the user and issues a token for them inside a
	// single transaction so a failed issuance rolls the account back.
	CreateWithToken(ctx context.Context, user *models.User, issue func(*models.User) (string, error)) (string, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
	Update(ctx context.Context, user *models.User, fields map[string]any) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB, c *cache.Cache) UserRepository {
	return &userRepository{db: db, cache: c}
}

func (r *userRepository) List(ctx context.Context, search string, page, perPage int) (*models.Paginated, error) {
	key := cache.UserIndexKey(page, perPage, search)

	var result models.Paginated
	err := r.cache.Remember(ctx, "user", key, &result, cache.UserIndexTTL, func() error {
		base := r.db.WithContext(ctx).Model(&models.User{})
		if search != "" {
			like := "%" + search + "%"
			base = base.Where("name ILIKE ? OR email ILIKE ?", like, like)
		}

		var total int64
		if err := base.Count(&total).Error; err != nil {
			return err
		}

		var users []*models.User
		if err := base.
			Preload("Bookmarks").
			Order("users.id").
			Limit(perPage).
			Offset((page - 1) * perPage).
			Find(&users).Error; err != nil {
			return err
		}

		result = models.NewPaginated(users, total, page, perPage, len(users))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}
	r.cache.DeleteByPrefix(ctx, "user", cache.UserIndexPrefix)
	return nil
}

func (r *userRepository) CreateWithToken(ctx context.Context, user *models.User, issue func(*models.User) (string, error)) (string, error) {
	var token string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		t, err := issue(user)
		if err != nil {
			return err
		}
		token = t
		return nil
	})
	if err != nil {
		return "", err
	}
	r.cache.DeleteByPrefix(ctx, "user", cache.UserIndexPrefix)
	return token, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Bookmarks").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns (nil, nil) when no user has the address, so callers can
// treat a miss as a credential failure rather than an error.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User, fields map[string]any) error {
	if err := r.db.WithContext(ctx).Model(user).Updates(fields).Error; err != nil {
		return err
	}
	r.cache.DeleteByPrefix(ctx, "user", cache.UserIndexPrefix)
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.User{ID: id}).Error; err != nil {
		return err
	}
	r.cache.DeleteByPrefix(ctx, "user", cache.UserIndexPrefix)
	return nil
}
