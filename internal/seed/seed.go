package seed

import (
	"fmt"
	"log/slog"

	"quillport/internal/content"
	"quillport/internal/middleware"
	"quillport/internal/models"

	"gorm.io/gorm"
)

// Run populates the database with fixture data (when configured) and
// generated users, posts, images and likes.
func Run(db *gorm.DB, opts Options) error {
	if opts.FixturesPath != "" {
		set, err := LoadFixtures(opts.FixturesPath)
		if err != nil {
			return err
		}
		if err := set.Apply(db); err != nil {
			return err
		}
		middleware.Logger.Info("Fixtures applied",
			slog.Int("users", len(set.Users)),
			slog.Int("posts", len(set.Posts)))
	}

	f := NewFactory(db, opts)

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user := f.BuildUser()
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create seeded user: %w", err)
		}
		users = append(users, user)
	}

	posts := make([]*models.Post, 0, opts.Users*opts.PostsPerUser)
	for _, user := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			post := f.BuildPost(user)
			if err := db.Create(post).Error; err != nil {
				return fmt.Errorf("failed to create seeded post: %w", err)
			}
			if err := indexPostImages(db, post); err != nil {
				return err
			}
			posts = append(posts, post)
		}
	}

	likes := 0
	for _, post := range posts {
		for _, user := range users {
			if user.ID == post.AuthorID || f.rng.Float64() >= opts.LikeRatio {
				continue
			}
			if err := db.Create(&models.PostLike{PostID: post.PostID, UserID: user.ID}).Error; err != nil {
				return fmt.Errorf("failed to create seeded like: %w", err)
			}
			if err := db.Model(&models.Post{}).
				Where("post_id = ?", post.PostID).
				UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
				return fmt.Errorf("failed to bump seeded like count: %w", err)
			}
			likes++
		}
	}

	middleware.Logger.Info("Seed complete",
		slog.Int("users", len(users)),
		slog.Int("posts", len(posts)),
		slog.Int("likes", likes))
	return nil
}

// indexPostImages mirrors the create-post flow: every <img src> in the
// content gets a post_images row.
func indexPostImages(db *gorm.DB, post *models.Post) error {
	urls := content.ExtractImageURLs(post.Content)
	if len(urls) == 0 {
		return nil
	}
	images := make([]models.PostImage, 0, len(urls))
	for _, u := range urls {
		images = append(images, models.PostImage{PostID: post.PostID, ImageURL: u})
	}
	if err := db.Create(&images).Error; err != nil {
		return fmt.Errorf("failed to index seeded post images: %w", err)
	}
	return nil
}
