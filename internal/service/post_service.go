// Package service contains the business logic between handlers and repositories.
package service

import (
	"context"
	"strings"
	"time"

	"quillport/internal/content"
	"quillport/internal/models"
	"quillport/internal/observability"
	"quillport/internal/repository"
)

// PopularWindowMonth selects the trailing one month window for popular
// posts; any other value falls back to the trailing seven days.
const PopularWindowMonth = "month"

const qnaWordLimit = 500

type PostService struct {
	postRepo  repository.PostRepository
	imageRepo repository.PostImageRepository
	likeRepo  repository.PostLikeRepository
	baseURL   string
	now       func() time.Time
}

type CreatePostInput struct {
	Author     models.Principal
	Title      string
	IsQnA      bool
	Content    string
	AvatarPath string
}

type UpdatePostInput struct {
	Actor  models.Principal
	PostID uint
	Title  string
	// IsQnA is tri-state: nil keeps the stored value, false and true
	// both override it.
	IsQnA      *bool
	Content    string
	AvatarPath string
}

func NewPostService(
	postRepo repository.PostRepository,
	imageRepo repository.PostImageRepository,
	likeRepo repository.PostLikeRepository,
	baseURL string,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		imageRepo: imageRepo,
		likeRepo:  likeRepo,
		baseURL:   strings.TrimRight(baseURL, "/"),
		now:       time.Now,
	}
}

// ListPosts returns every post newest first, decorated for display.
func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, models.NewInternalError("Lỗi khi lấy danh sách bài đăng", err)
	}
	s.decorate(posts)
	return posts, nil
}

// ListPopularPosts returns posts created within the trailing window,
// most liked first. An empty window is not an error.
func (s *PostService) ListPopularPosts(ctx context.Context, window string) ([]*models.Post, error) {
	now := s.now()
	since := now.AddDate(0, 0, -7)
	if window == PopularWindowMonth {
		since = now.AddDate(0, -1, 0)
	}

	posts, err := s.postRepo.ListPopular(ctx, since)
	if err != nil {
		return nil, models.NewInternalError("Lỗi khi lấy bài viết phổ biến.", err)
	}
	s.decorate(posts)
	return posts, nil
}

// GetPost returns one post by primary key with its author and images.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Không tìm thấy bài đăng.")
		}
		return nil, models.NewInternalError("Lỗi khi lấy bài đăng.", err)
	}
	s.decorate([]*models.Post{post})
	return post, nil
}

// ListUserPosts returns all posts authored by userID, newest first.
// A user with no posts is reported as not found.
func (s *PostService) ListUserPosts(ctx context.Context, userID uint) ([]*models.Post, error) {
	posts, err := s.postRepo.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError("Lỗi khi lấy danh sách bài viết.", err)
	}
	if len(posts) == 0 {
		return nil, models.NewNotFoundError("Người dùng này chưa có bài viết nào.")
	}
	s.decorate(posts)
	return posts, nil
}

// CreatePost validates and persists a post, then extracts every
// <img src> occurrence from the content into post_images rows.
// Duplicate URLs are stored as-is.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (uint, error) {
	if strings.TrimSpace(in.Content) == "" {
		return 0, models.NewValidationError("Nội dung bài viết không được để trống.")
	}
	if in.IsQnA {
		plain := content.StripTags(in.Content)
		if content.WordCount(plain) > qnaWordLimit {
			return 0, models.NewValidationError("Nội dung Q&A không được vượt quá 500 từ.")
		}
	}
	if in.AvatarPath == "" {
		return 0, models.NewValidationError("Vui lòng tải lên ảnh đại diện cho bài viết.")
	}

	post := &models.Post{
		Title:    in.Title,
		AuthorID: in.Author.ID,
		IsQnA:    in.IsQnA,
		Content:  in.Content,
		Avatar:   in.AvatarPath,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		observability.PostOperations.WithLabelValues("create", "error").Inc()
		return 0, models.NewInternalError("Lỗi khi tạo bài đăng.", err)
	}

	urls := content.ExtractImageURLs(in.Content)
	if len(urls) > 0 {
		images := make([]models.PostImage, 0, len(urls))
		for _, u := range urls {
			images = append(images, models.PostImage{PostID: post.PostID, ImageURL: u})
		}
		if err := s.imageRepo.BulkCreate(ctx, images); err != nil {
			observability.PostOperations.WithLabelValues("create", "error").Inc()
			return 0, models.NewInternalError("Lỗi khi tạo bài đăng.", err)
		}
	}

	observability.PostOperations.WithLabelValues("create", "success").Inc()
	return post.PostID, nil
}

// UpdatePost merges the provided fields over the stored post. Empty
// title or content keep the stored values, so a field cannot be
// cleared through this operation. When new content carries image
// tags, the post's image rows are replaced wholesale.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		if isNotFound(err) {
			return models.NewNotFoundError("Không tìm thấy bài viết.")
		}
		return models.NewInternalError("Lỗi khi cập nhật bài đăng.", err)
	}

	if post.AuthorID != in.Actor.ID {
		return models.NewForbiddenError("Bạn không có quyền cập nhật bài viết này.")
	}

	if in.Title != "" {
		post.Title = in.Title
	}
	if in.IsQnA != nil {
		post.IsQnA = *in.IsQnA
	}
	if in.Content != "" {
		post.Content = in.Content
	}
	if in.AvatarPath != "" {
		post.Avatar = in.AvatarPath
	}

	// Save detached associations separately; GORM would otherwise try
	// to upsert the preloaded Author and Images here.
	post.Author = nil
	post.Images = nil

	if err := s.postRepo.Update(ctx, post); err != nil {
		observability.PostOperations.WithLabelValues("update", "error").Inc()
		return models.NewInternalError("Lỗi khi cập nhật bài đăng.", err)
	}

	urls := content.ExtractImageURLs(in.Content)
	if len(urls) > 0 {
		if err := s.imageRepo.DeleteByPostID(ctx, in.PostID); err != nil {
			return models.NewInternalError("Lỗi khi cập nhật bài đăng.", err)
		}
		images := make([]models.PostImage, 0, len(urls))
		for _, u := range urls {
			images = append(images, models.PostImage{PostID: in.PostID, ImageURL: u})
		}
		if err := s.imageRepo.BulkCreate(ctx, images); err != nil {
			return models.NewInternalError("Lỗi khi cập nhật bài đăng.", err)
		}
	}

	observability.PostOperations.WithLabelValues("update", "success").Inc()
	return nil
}

// DeletePost removes a post and its image rows. The author, admins
// and moderators may delete; everybody else gets a permission error.
func (s *PostService) DeletePost(ctx context.Context, actor models.Principal, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if isNotFound(err) {
			return models.NewNotFoundError("Không tìm thấy bài viết.")
		}
		return models.NewInternalError("Lỗi khi xóa bài viết.", err)
	}

	if post.AuthorID != actor.ID && !actor.Role.Privileged() {
		return models.NewForbiddenError("Bạn không có quyền xóa bài viết này.")
	}

	if err := s.imageRepo.DeleteByPostID(ctx, postID); err != nil {
		observability.PostOperations.WithLabelValues("delete", "error").Inc()
		return models.NewInternalError("Lỗi khi xóa bài viết.", err)
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		observability.PostOperations.WithLabelValues("delete", "error").Inc()
		return models.NewInternalError("Lỗi khi xóa bài viết.", err)
	}

	observability.PostOperations.WithLabelValues("delete", "success").Inc()
	return nil
}

// ToggleLike flips the calling user's like on a post and adjusts the
// stored counter. The find, row write and counter update are three
// separate statements, so concurrent toggles can skew like_count
// relative to the post_likes rows.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (liked bool, err error) {
	existing, err := s.likeRepo.Find(ctx, postID, userID)
	if err != nil {
		return false, models.NewInternalError("Lỗi khi xử lý lượt thích", err)
	}

	if existing == nil {
		if err := s.likeRepo.Create(ctx, &models.PostLike{PostID: postID, UserID: userID}); err != nil {
			return false, models.NewInternalError("Lỗi khi xử lý lượt thích", err)
		}
		if err := s.postRepo.IncrementLikeCount(ctx, postID); err != nil {
			return false, models.NewInternalError("Lỗi khi xử lý lượt thích", err)
		}
		observability.LikeToggles.WithLabelValues("like").Inc()
		return true, nil
	}

	if err := s.likeRepo.Delete(ctx, postID, userID); err != nil {
		return false, models.NewInternalError("Lỗi khi xử lý lượt thích", err)
	}
	if err := s.postRepo.DecrementLikeCount(ctx, postID); err != nil {
		return false, models.NewInternalError("Lỗi khi xử lý lượt thích", err)
	}
	observability.LikeToggles.WithLabelValues("unlike").Inc()
	return false, nil
}

// decorate attaches the relative-time string and absolutizes the
// avatar path for every post in place.
func (s *PostService) decorate(posts []*models.Post) {
	now := s.now()
	for _, p := range posts {
		p.TimeAgo = content.RelativeTime(p.CreatedAt, now)
		p.Avatar = s.absoluteURL(p.Avatar)
	}
}

func (s *PostService) absoluteURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if s.baseURL == "" {
		return path
	}
	return s.baseURL + "/" + strings.TrimLeft(path, "/")
}
