package database

import (
	"context"

	"github.com/feldspar-labs/inkwell-backend/models"
	"gorm.io/gorm"
)

// PostStore is the storage contract for posts. Reads carry no credential
// semantics; authorization happens above this layer.
type PostStore interface {
	// List returns summaries of all posts ordered by creation time, newest
	// first. Content is never included.
	List(ctx context.Context) ([]models.PostSummary, error)

	// Get returns the full post for id, or an error unwrapping to
	// errs.ErrNotFound when no row matches.
	Get(ctx context.Context, id string) (*models.Post, error)

	// Upsert inserts the post or, when a row with the same id exists,
	// overwrites title, content, excerpt, tags and updated_at while leaving
	// created_at untouched. Returns the persisted row.
	Upsert(ctx context.Context, post *models.Post) (*models.Post, error)

	// Delete permanently removes the post with id, or returns an error
	// unwrapping to errs.ErrNotFound when no row matches.
	Delete(ctx context.Context, id string) error
}

type Database struct {
	postRepo *PostRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		postRepo: NewPostRepo(db),
	}
}

func (d Database) PostRepo() *PostRepo {
	return d.postRepo
}

// Migrate creates the posts table if it is absent. Called once at startup,
// before the server accepts requests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Post{})
}
