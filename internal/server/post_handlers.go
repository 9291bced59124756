package server

import (
	"strconv"

	"quillport/internal/models"
	"quillport/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
// @Summary List posts
// @Description Get all posts newest first with author info
// @Tags posts
// @Produce json
// @Success 200 {array} models.Post
// @Failure 500 {object} models.ErrorResponse
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.Status(fiber.StatusOK).JSON(posts)
}

// GetPopularPosts handles GET /api/posts/popular
// @Summary List popular posts
// @Description Get the most liked posts of the trailing week or month
// @Tags posts
// @Produce json
// @Param time query string false "Window" Enums(week, month)
// @Success 200 {object} object{message=string,data=[]models.Post}
// @Failure 500 {object} models.ErrorResponse
// @Router /posts/popular [get]
func (s *Server) GetPopularPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPopularPosts(c.UserContext(), c.Query("time"))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	// An empty window is a distinct success, not an error.
	if len(posts) == 0 {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Không có bài viết phổ biến trong khoảng thời gian này.",
			"data":    []*models.Post{},
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Lấy bài viết phổ biến thành công!",
		"data":    posts,
	})
}

// GetPost handles GET /api/posts/:postId
// @Summary Get a post
// @Description Get one post by ID with author and image info
// @Tags posts
// @Produce json
// @Param postId path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{postId} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "postId")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

// GetUserPosts handles GET /api/users/:userId/posts
// @Summary List a user's posts
// @Description Get all posts written by a user, newest first
// @Tags posts
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {array} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{userId}/posts [get]
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		return nil
	}

	posts, err := s.postService.ListUserPosts(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.Status(fiber.StatusOK).JSON(posts)
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Description Create a post from a multipart form; image URLs in the content are indexed
// @Tags posts
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param is_qna formData boolean false "Q&A flag"
// @Param content formData string true "HTML content"
// @Param avatar formData file true "Cover image"
// @Success 201 {object} object{message=string,postId=int}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	principal, err := principalOr401(c)
	if err != nil {
		return nil
	}

	avatarPath, err := s.saveAvatarUpload(c)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	isQnA, _ := strconv.ParseBool(c.FormValue("is_qna"))
	postID, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		Author:     principal,
		Title:      c.FormValue("title"),
		IsQnA:      isQnA,
		Content:    c.FormValue("content"),
		AvatarPath: avatarPath,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Tạo bài viết thành công",
		"postId":  postID,
	})
}

// UpdatePost handles PUT /api/posts/:postId
// @Summary Update a post
// @Description Update a post's fields; empty fields keep their stored values
// @Tags posts
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Param title formData string false "Title"
// @Param is_qna formData boolean false "Q&A flag"
// @Param content formData string false "HTML content"
// @Param avatar formData file false "Cover image"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{postId} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	principal, err := principalOr401(c)
	if err != nil {
		return nil
	}
	postID, err := parseIDParam(c, "postId")
	if err != nil {
		return nil
	}

	avatarPath, err := s.saveAvatarUpload(c)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	// An absent is_qna field keeps the stored value, an explicit
	// true/false overrides it.
	var isQnA *bool
	if raw := c.FormValue("is_qna"); raw != "" {
		parsed, parseErr := strconv.ParseBool(raw)
		if parseErr == nil {
			isQnA = &parsed
		}
	}

	err = s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		Actor:      principal,
		PostID:     postID,
		Title:      c.FormValue("title"),
		IsQnA:      isQnA,
		Content:    c.FormValue("content"),
		AvatarPath: avatarPath,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Cập nhật bài viết thành công.",
	})
}

// DeletePost handles DELETE /api/posts/:postId
// @Summary Delete a post
// @Description Delete a post and its image rows; author, admin or moderator only
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{postId} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	principal, err := principalOr401(c)
	if err != nil {
		return nil
	}
	postID, err := parseIDParam(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), principal, postID); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Xóa bài viết thành công.",
	})
}

// LikePost handles POST /api/posts/:postId/like
// @Summary Toggle a like
// @Description Like a post, or remove the caller's existing like
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 200 {object} object{message=string}
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /posts/{postId}/like [post]
func (s *Server) LikePost(c *fiber.Ctx) error {
	principal, err := principalOr401(c)
	if err != nil {
		return nil
	}
	postID, err := parseIDParam(c, "postId")
	if err != nil {
		return nil
	}

	liked, err := s.postService.ToggleLike(c.UserContext(), principal.ID, postID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	message := "Đã bỏ like bài viết thành công!"
	if liked {
		message = "Đã like bài viết thành công!"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": message})
}
