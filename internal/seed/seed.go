// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/slug"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeder populates the database with generated users, categories, posts and
// bookmarks.
type Seeder struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db: db,
		r:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll truncates every seeded table.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	return s.db.Exec(
		"TRUNCATE TABLE bookmarks, post_category_pivot, media, posts, post_categories, users RESTART IDENTITY CASCADE",
	).Error
}

// CreateUser persists a generated user. All seeded users are verified and
// share the password "password123".
func (s *Seeder) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		Name:            gofakeit.Name(),
		Email:           gofakeit.Email(),
		Password:        string(hashed),
		EmailVerifiedAt: &now,
	}
	for _, override := range overrides {
		override(user)
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateCategories persists n uniquely named categories.
func (s *Seeder) CreateCategories(n int) ([]*models.PostCategory, error) {
	categories := make([]*models.PostCategory, 0, n)
	seen := map[string]bool{}
	for len(categories) < n {
		name := gofakeit.BuzzWord() + " " + gofakeit.Noun()
		if seen[name] {
			continue
		}
		seen[name] = true
		categories = append(categories, &models.PostCategory{Name: name})
	}
	if err := s.db.Create(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// CreatePost persists a post for the given user, attached to 1-3 of the
// supplied categories, with a realistic created_at spread over 90 days.
func (s *Seeder) CreatePost(user *models.User, categories []*models.PostCategory) (*models.Post, error) {
	title := gofakeit.Sentence(s.r.Intn(5) + 3)
	post := &models.Post{
		Title:     title,
		Slug:      fmt.Sprintf("%s-%s", slug.Make(title), gofakeit.LetterN(6)),
		Content:   gofakeit.Paragraph(3, 4, 8, "\n\n"),
		UserID:    user.ID,
		CreatedAt: time.Now().Add(-time.Duration(s.r.Intn(90*24)) * time.Hour),
	}
	if err := s.db.Create(post).Error; err != nil {
		return nil, err
	}

	picked := pickCategories(s.r, categories, s.r.Intn(3)+1)
	if len(picked) > 0 {
		if err := s.db.Model(post).Association("PostCategories").Append(&picked); err != nil {
			return nil, err
		}
	}
	return post, nil
}

// Run seeds numUsers users, numCategories categories and numPosts posts and
// sprinkles bookmarks across them.
func (s *Seeder) Run(numUsers, numCategories, numPosts int) error {
	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.CreateUser()
		if err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))

	categories, err := s.CreateCategories(numCategories)
	if err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	log.Printf("Created %d categories", len(categories))

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		user := users[s.r.Intn(len(users))]
		post, err := s.CreatePost(user, categories)
		if err != nil {
			return fmt.Errorf("seed post: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("Created %d posts", len(posts))

	var bookmarks int
	for _, user := range users {
		for _, post := range posts {
			if s.r.Intn(10) == 0 {
				b := models.Bookmark{UserID: user.ID, PostID: post.ID}
				if err := s.db.Create(&b).Error; err != nil {
					return fmt.Errorf("seed bookmark: %w", err)
				}
				bookmarks++
			}
		}
	}
	log.Printf("Created %d bookmarks", bookmarks)

	return nil
}

func pickCategories(r *rand.Rand, categories []*models.PostCategory, n int) []models.PostCategory {
	if n > len(categories) {
		n = len(categories)
	}
	picked := make([]models.PostCategory, 0, n)
	for _, i := range r.Perm(len(categories))[:n] {
		picked = append(picked, *categories[i])
	}
	return picked
}
