package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"quillport/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestPostRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	post := &models.Post{Title: "Bài viết", AuthorID: 1, Content: "<p>Xin chào</p>", Avatar: "/uploads/a.png"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"post_id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, post)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), post.PostID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE "posts"."post_id" = $1 ORDER BY "posts"."post_id" LIMIT $2`)).
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "title", "author_id", "like_count"}).
			AddRow(1, "Bài viết 1", 10, 3))

	// preloads run after the main query, in field name order
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(10, "Tác giả 10"))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "post_images" WHERE "post_images"."post_id" = $1`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "image_url"}).
			AddRow(1, 1, "https://cdn.example.com/a.png"))

	post, err := repo.GetByID(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, "Bài viết 1", post.Title)
	assert.Equal(t, uint(3), post.LikeCount)
	assert.Equal(t, "Tác giả 10", post.Author.Name)
	assert.Len(t, post.Images, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts"`)).
		WillReturnError(assert.AnError)

	post, err := repo.GetByID(ctx, 99)
	assert.Nil(t, post)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_ListPopular(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	since := time.Now().AddDate(0, 0, -7)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "post_id","title","avatar","like_count","created_at" FROM "posts" WHERE created_at >= $1 ORDER BY like_count DESC, created_at DESC`)).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "title", "avatar", "like_count"}).
			AddRow(2, "Hot", "/uploads/h.png", 20).
			AddRow(1, "Warm", "/uploads/w.png", 5))

	posts, err := repo.ListPopular(ctx, since)
	assert.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, "Hot", posts[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_ListByAuthor_Empty(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE author_id = $1 ORDER BY created_at DESC`)).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "title"}))

	posts, err := repo.ListByAuthor(ctx, 42)
	assert.NoError(t, err)
	assert.Empty(t, posts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_IncrementLikeCount(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET "like_count"=like_count + $1 WHERE post_id = $2`)).
		WithArgs(1, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.IncrementLikeCount(ctx, 5)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "posts" WHERE "posts"."post_id" = $1`)).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(ctx, 3)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
