package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quillport/internal/config"
	"quillport/internal/models"
	"quillport/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) ListPopular(ctx context.Context, since time.Time) ([]*models.Post, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) ListByAuthor(ctx context.Context, authorID uint) ([]*models.Post, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) IncrementLikeCount(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) DecrementLikeCount(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPostImageRepository is a mock of the PostImageRepository interface
type MockPostImageRepository struct {
	mock.Mock
}

func (m *MockPostImageRepository) BulkCreate(ctx context.Context, images []models.PostImage) error {
	args := m.Called(ctx, images)
	return args.Error(0)
}

func (m *MockPostImageRepository) DeleteByPostID(ctx context.Context, postID uint) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

func (m *MockPostImageRepository) ListByPostID(ctx context.Context, postID uint) ([]models.PostImage, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).([]models.PostImage), args.Error(1)
}

// MockPostLikeRepository is a mock of the PostLikeRepository interface
type MockPostLikeRepository struct {
	mock.Mock
}

func (m *MockPostLikeRepository) Find(ctx context.Context, postID, userID uint) (*models.PostLike, error) {
	args := m.Called(ctx, postID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostLike), args.Error(1)
}

func (m *MockPostLikeRepository) Create(ctx context.Context, like *models.PostLike) error {
	args := m.Called(ctx, like)
	return args.Error(0)
}

func (m *MockPostLikeRepository) Delete(ctx context.Context, postID, userID uint) error {
	args := m.Called(ctx, postID, userID)
	return args.Error(0)
}

type handlerMocks struct {
	posts  *MockPostRepository
	images *MockPostImageRepository
	likes  *MockPostLikeRepository
}

// newTestServer builds a Server over mocked repositories, with an
// optional fixed principal injected as if the auth middleware ran.
func newTestServer(t *testing.T, principal *models.Principal) (*fiber.App, *Server, handlerMocks) {
	t.Helper()

	mocks := handlerMocks{
		posts:  new(MockPostRepository),
		images: new(MockPostImageRepository),
		likes:  new(MockPostLikeRepository),
	}

	cfg := &config.Config{
		Port:      "0",
		JWTSecret: "test-secret",
		UploadDir: t.TempDir(),
	}
	s := &Server{
		config:    cfg,
		postRepo:  mocks.posts,
		imageRepo: mocks.images,
		likeRepo:  mocks.likes,
	}
	s.postService = service.NewPostService(mocks.posts, mocks.images, mocks.likes, "")

	app := fiber.New()
	if principal != nil {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("principal", *principal)
			return c.Next()
		})
	}

	app.Get("/api/posts", s.GetPosts)
	app.Get("/api/posts/popular", s.GetPopularPosts)
	app.Post("/api/posts", s.CreatePost)
	app.Post("/api/posts/:postId/like", s.LikePost)
	app.Put("/api/posts/:postId", s.UpdatePost)
	app.Delete("/api/posts/:postId", s.DeletePost)
	app.Get("/api/posts/:postId", s.GetPost)
	app.Get("/api/users/:userId/posts", s.GetUserPosts)

	return app, s, mocks
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// pngHeader is a minimal valid PNG file signature for upload tests.
var pngHeader = []byte("\x89PNG\r\n\x1a\n" + "fake image payload")

func multipartBody(t *testing.T, fields map[string]string, withAvatar bool) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if withAvatar {
		fw, err := w.CreateFormFile("avatar", "cover.png")
		require.NoError(t, err)
		_, err = fw.Write(pngHeader)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func TestGetPosts(t *testing.T) {
	app, _, mocks := newTestServer(t, nil)

	mocks.posts.On("List", mock.Anything).Return([]*models.Post{
		{PostID: 1, Title: "Bài một"},
		{PostID: 2, Title: "Bài hai"},
	}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var posts []models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	assert.Len(t, posts, 2)
	assert.Equal(t, "Bài một", posts[0].Title)
}

func TestGetPopularPosts_EmptyWindow(t *testing.T) {
	app, _, mocks := newTestServer(t, nil)

	mocks.posts.On("ListPopular", mock.Anything, mock.Anything).Return([]*models.Post{}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/popular?time=month", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Không có bài viết phổ biến trong khoảng thời gian này.", body["message"])
	assert.Empty(t, body["data"])
}

func TestGetPopularPosts_Success(t *testing.T) {
	app, _, mocks := newTestServer(t, nil)

	mocks.posts.On("ListPopular", mock.Anything, mock.Anything).Return([]*models.Post{
		{PostID: 5, Title: "Hot", LikeCount: 12},
	}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/popular", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Lấy bài viết phổ biến thành công!", body["message"])
	assert.Len(t, body["data"], 1)
}

func TestGetPost_NotFound(t *testing.T) {
	app, _, mocks := newTestServer(t, nil)

	mocks.posts.On("GetByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/99", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Không tìm thấy bài đăng.", body["message"])
}

func TestGetPost_InvalidID(t *testing.T) {
	app, _, _ := newTestServer(t, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetUserPosts_NoneIs404(t *testing.T) {
	app, _, mocks := newTestServer(t, nil)

	mocks.posts.On("ListByAuthor", mock.Anything, uint(42)).Return([]*models.Post{}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/users/42/posts", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Người dùng này chưa có bài viết nào.", body["message"])
}

func TestCreatePost(t *testing.T) {
	principal := &models.Principal{ID: 1, Role: models.RoleUser}

	t.Run("success with embedded images", func(t *testing.T) {
		app, _, mocks := newTestServer(t, principal)

		mocks.posts.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.Post).PostID = 7
			}).Return(nil)
		mocks.images.On("BulkCreate", mock.Anything, mock.MatchedBy(func(imgs []models.PostImage) bool {
			return len(imgs) == 1 && imgs[0].PostID == 7
		})).Return(nil)

		buf, contentType := multipartBody(t, map[string]string{
			"title":   "Bài mới",
			"content": `<p>chào</p><img src="https://cdn.example.com/x.png">`,
		}, true)
		req := httptest.NewRequest(http.MethodPost, "/api/posts", buf)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "Tạo bài viết thành công", body["message"])
		assert.Equal(t, float64(7), body["postId"])
		mocks.images.AssertExpectations(t)
	})

	t.Run("empty content", func(t *testing.T) {
		app, _, _ := newTestServer(t, principal)

		buf, contentType := multipartBody(t, map[string]string{
			"title":   "Bài mới",
			"content": "",
		}, true)
		req := httptest.NewRequest(http.MethodPost, "/api/posts", buf)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "Nội dung bài viết không được để trống.", body["message"])
	})

	t.Run("missing avatar file", func(t *testing.T) {
		app, _, _ := newTestServer(t, principal)

		buf, contentType := multipartBody(t, map[string]string{
			"title":   "Bài mới",
			"content": "<p>nội dung</p>",
		}, false)
		req := httptest.NewRequest(http.MethodPost, "/api/posts", buf)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("anonymous is rejected", func(t *testing.T) {
		app, _, _ := newTestServer(t, nil)

		buf, contentType := multipartBody(t, map[string]string{"content": "x"}, true)
		req := httptest.NewRequest(http.MethodPost, "/api/posts", buf)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestUpdatePost_Forbidden(t *testing.T) {
	app, _, mocks := newTestServer(t, &models.Principal{ID: 2, Role: models.RoleAdmin})

	mocks.posts.On("GetByID", mock.Anything, uint(7)).Return(&models.Post{PostID: 7, AuthorID: 1}, nil)

	buf, contentType := multipartBody(t, map[string]string{"title": "Sửa"}, false)
	req := httptest.NewRequest(http.MethodPut, "/api/posts/7", buf)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Bạn không có quyền cập nhật bài viết này.", body["message"])
}

func TestUpdatePost_Success(t *testing.T) {
	app, _, mocks := newTestServer(t, &models.Principal{ID: 1, Role: models.RoleUser})

	mocks.posts.On("GetByID", mock.Anything, uint(7)).Return(&models.Post{PostID: 7, AuthorID: 1, Title: "Cũ", Content: "<p>cũ</p>"}, nil)
	mocks.posts.On("Update", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
		return p.Title == "Mới" && p.Content == "<p>cũ</p>"
	})).Return(nil)

	buf, contentType := multipartBody(t, map[string]string{"title": "Mới"}, false)
	req := httptest.NewRequest(http.MethodPut, "/api/posts/7", buf)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Cập nhật bài viết thành công.", body["message"])
	mocks.posts.AssertExpectations(t)
}

func TestDeletePost(t *testing.T) {
	t.Run("moderator deletes another user's post", func(t *testing.T) {
		app, _, mocks := newTestServer(t, &models.Principal{ID: 9, Role: models.RoleModerator})

		mocks.posts.On("GetByID", mock.Anything, uint(7)).Return(&models.Post{PostID: 7, AuthorID: 1}, nil)
		mocks.images.On("DeleteByPostID", mock.Anything, uint(7)).Return(nil)
		mocks.posts.On("Delete", mock.Anything, uint(7)).Return(nil)

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/posts/7", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "Xóa bài viết thành công.", body["message"])
		mocks.posts.AssertExpectations(t)
		mocks.images.AssertExpectations(t)
	})

	t.Run("regular user cannot delete another user's post", func(t *testing.T) {
		app, _, mocks := newTestServer(t, &models.Principal{ID: 9, Role: models.RoleUser})

		mocks.posts.On("GetByID", mock.Anything, uint(7)).Return(&models.Post{PostID: 7, AuthorID: 1}, nil)

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/posts/7", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestLikePost_Toggle(t *testing.T) {
	t.Run("like", func(t *testing.T) {
		app, _, mocks := newTestServer(t, &models.Principal{ID: 3, Role: models.RoleUser})

		mocks.likes.On("Find", mock.Anything, uint(7), uint(3)).Return(nil, nil)
		mocks.likes.On("Create", mock.Anything, mock.Anything).Return(nil)
		mocks.posts.On("IncrementLikeCount", mock.Anything, uint(7)).Return(nil)

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/posts/7/like", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "Đã like bài viết thành công!", body["message"])
	})

	t.Run("unlike", func(t *testing.T) {
		app, _, mocks := newTestServer(t, &models.Principal{ID: 3, Role: models.RoleUser})

		mocks.likes.On("Find", mock.Anything, uint(7), uint(3)).Return(&models.PostLike{ID: 1, PostID: 7, UserID: 3}, nil)
		mocks.likes.On("Delete", mock.Anything, uint(7), uint(3)).Return(nil)
		mocks.posts.On("DecrementLikeCount", mock.Anything, uint(7)).Return(nil)

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/posts/7/like", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "Đã bỏ like bài viết thành công!", body["message"])
	})

	t.Run("anonymous", func(t *testing.T) {
		app, _, _ := newTestServer(t, nil)

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/posts/7/like", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "Bạn cần đăng nhập để thực hiện hành động này.", body["message"])
	})
}
