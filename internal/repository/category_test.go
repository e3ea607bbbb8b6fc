package repository

import (
	"context"
	"regexp"
	"testing"

	"inkwell/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT post_categories.*, (SELECT COUNT(*) FROM post_category_pivot WHERE post_category_pivot.post_category_id = post_categories.id) AS posts_count FROM "post_categories" WHERE post_categories.id = $1 ORDER BY "post_categories"."id" LIMIT $2`)).
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "posts_count"}).AddRow(1, "Tech", 3))

	category, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Tech", category.Name)
	assert.Equal(t, int64(3), category.PostsCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_List(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "post_categories"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT post_categories.*, (SELECT COUNT(*) FROM post_category_pivot WHERE post_category_pivot.post_category_id = post_categories.id) AS posts_count FROM "post_categories" ORDER BY post_categories.id LIMIT $1`)).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "posts_count"}).
			AddRow(1, "Tech", 3).
			AddRow(2, "Travel", 0))

	result, err := repo.List(ctx, "", 1, 10)
	require.NoError(t, err)

	categories, ok := result.Data.([]*models.PostCategory)
	require.True(t, ok)
	assert.Len(t, categories, 2)
	assert.Equal(t, int64(2), result.Total)
	assert.Equal(t, 1, result.CurrentPage)
	assert.Equal(t, 1, result.From)
	assert.Equal(t, 2, result.To)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_HasPosts(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "post_category_pivot" WHERE post_category_id = $1`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	hasPosts, err := repo.HasPosts(ctx, 1)
	assert.NoError(t, err)
	assert.True(t, hasPosts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_NameTaken(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "post_categories" WHERE name = $1`)).
		WithArgs("Tech").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	taken, err := repo.NameTaken(ctx, "Tech", 0)
	assert.NoError(t, err)
	assert.True(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}
