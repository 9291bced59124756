package repository

import (
	"context"
	"regexp"
	"testing"

	"quillport/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestPostLikeRepository_Find(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostLikeRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "post_likes" WHERE post_id = $1 AND user_id = $2`)).
		WithArgs(1, 2, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id"}).AddRow(9, 1, 2))

	like, err := repo.Find(ctx, 1, 2)
	assert.NoError(t, err)
	assert.NotNil(t, like)
	assert.Equal(t, uint(9), like.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostLikeRepository_Find_NoRow(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostLikeRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "post_likes"`)).
		WillReturnError(gorm.ErrRecordNotFound)

	like, err := repo.Find(ctx, 1, 2)
	assert.NoError(t, err)
	assert.Nil(t, like)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostLikeRepository_CreateDelete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostLikeRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "post_likes"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, &models.PostLike{PostID: 1, UserID: 2})
	assert.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "post_likes" WHERE post_id = $1 AND user_id = $2`)).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repo.Delete(ctx, 1, 2)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
