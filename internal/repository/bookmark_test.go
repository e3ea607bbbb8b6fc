package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestBookmarkRepository_Toggle(t *testing.T) {
	ctx := context.Background()

	t.Run("Removes Existing Bookmark", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewBookmarkRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "bookmarks" WHERE user_id = $1 AND post_id = $2`)).
			WithArgs(1, 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		bookmarked, err := repo.Toggle(ctx, 1, 2)
		assert.NoError(t, err)
		assert.False(t, bookmarked)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Adds Missing Bookmark", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewBookmarkRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "bookmarks" WHERE user_id = $1 AND post_id = $2`)).
			WithArgs(1, 2).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "bookmarks"`)).
			WithArgs(1, 2, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		bookmarked, err := repo.Toggle(ctx, 1, 2)
		assert.NoError(t, err)
		assert.True(t, bookmarked)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
