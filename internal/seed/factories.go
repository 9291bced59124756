// Package seed provides helpers to create demo and test data for the
// application database. Intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"quillport/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options controls how much data Run generates.
type Options struct {
	Users        int
	PostsPerUser int
	// LikeRatio is the probability that any given user likes any given
	// post.
	LikeRatio float64
	// MaxDays spreads post creation times over the trailing N days.
	MaxDays int
	// FixturesPath optionally points at a YAML fixture file applied
	// before the generated data.
	FixturesPath string
}

// DefaultOptions returns sensible local-development volumes.
func DefaultOptions() Options {
	return Options{
		Users:        10,
		PostsPerUser: 5,
		LikeRatio:    0.2,
		MaxDays:      45,
	}
}

// Factory builds domain entities populated with fake data.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(seed))}
}

// seededPassword is the password every generated account gets, so
// developers can log in as any of them.
const seededPassword = "quillport-dev"

// BuildUser constructs an author account without persisting it.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(seededPassword), bcrypt.MinCost)
	user := &models.User{
		Name:        gofakeit.Name(),
		Email:       strings.ToLower(gofakeit.Email()),
		HashedPw:    string(hashed),
		Avatar:      fmt.Sprintf("https://picsum.photos/seed/u-%s/200/200", gofakeit.UUID()),
		Description: gofakeit.Sentence(8),
		Role:        models.RoleUser,
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// BuildPost constructs a post authored by user without persisting it.
// Roughly half the generated posts embed <img> tags in the content so
// the image extraction path gets exercised by seeded data.
func (f *Factory) BuildPost(user *models.User, overrides ...func(*models.Post)) *models.Post {
	paragraphs := []string{}
	for i := 0; i < 1+f.rng.Intn(3); i++ {
		paragraphs = append(paragraphs, "<p>"+gofakeit.Paragraph(1, 3, 8, " ")+"</p>")
	}
	if f.rng.Float64() < 0.5 {
		for i := 0; i < 1+f.rng.Intn(2); i++ {
			paragraphs = append(paragraphs,
				fmt.Sprintf(`<img src="https://picsum.photos/seed/%s/800/600">`, gofakeit.UUID()))
		}
	}

	post := &models.Post{
		Title:    gofakeit.Sentence(6),
		AuthorID: user.ID,
		IsQnA:    f.rng.Float64() < 0.25,
		Content:  strings.Join(paragraphs, "\n"),
		Avatar:   fmt.Sprintf("https://picsum.photos/seed/p-%s/640/360", gofakeit.UUID()),
	}

	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 45
	}
	back := time.Duration(f.rng.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute
	post.CreatedAt = time.Now().Add(-back)

	for _, override := range overrides {
		override(post)
	}
	return post
}
