package seed

import (
	"fmt"
	"os"
	"strings"

	"quillport/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// FixtureUser is a deterministic account declared in a YAML fixture.
type FixtureUser struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
	Avatar   string `yaml:"avatar"`
}

// FixturePost is a post declared in a YAML fixture, tied to its author
// by email.
type FixturePost struct {
	Title       string `yaml:"title"`
	AuthorEmail string `yaml:"author_email"`
	IsQnA       bool   `yaml:"is_qna"`
	Content     string `yaml:"content"`
	Avatar      string `yaml:"avatar"`
}

// FixtureSet is the parsed contents of a fixture file.
type FixtureSet struct {
	Users []FixtureUser `yaml:"users"`
	Posts []FixturePost `yaml:"posts"`
}

// LoadFixtures reads and parses a YAML fixture file.
func LoadFixtures(path string) (*FixtureSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file %s: %w", path, err)
	}
	var set FixtureSet
	if err := yaml.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("failed to parse fixture file %s: %w", path, err)
	}
	return &set, nil
}

// Apply persists the fixture set. Users are created first so posts can
// reference them by email.
func (set *FixtureSet) Apply(db *gorm.DB) error {
	byEmail := make(map[string]*models.User, len(set.Users))

	for i := range set.Users {
		fu := set.Users[i]
		role := models.Role(fu.Role)
		if !role.Valid() {
			role = models.RoleUser
		}
		password := fu.Password
		if password == "" {
			password = seededPassword
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			return err
		}

		user := &models.User{
			Name:     fu.Name,
			Email:    strings.ToLower(fu.Email),
			HashedPw: string(hashed),
			Role:     role,
			Avatar:   fu.Avatar,
		}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create fixture user %s: %w", fu.Email, err)
		}
		byEmail[user.Email] = user
	}

	for i := range set.Posts {
		fp := set.Posts[i]
		author, ok := byEmail[strings.ToLower(fp.AuthorEmail)]
		if !ok {
			return fmt.Errorf("fixture post %q references unknown author %s", fp.Title, fp.AuthorEmail)
		}

		post := &models.Post{
			Title:    fp.Title,
			AuthorID: author.ID,
			IsQnA:    fp.IsQnA,
			Content:  fp.Content,
			Avatar:   fp.Avatar,
		}
		if err := db.Create(post).Error; err != nil {
			return fmt.Errorf("failed to create fixture post %q: %w", fp.Title, err)
		}
		if err := indexPostImages(db, post); err != nil {
			return err
		}
	}

	return nil
}
