package database

import (
	"context"
	"errors"
	"time"

	"github.com/feldspar-labs/inkwell-backend/errs"
	"github.com/feldspar-labs/inkwell-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Columns overwritten when an upsert hits an existing row. created_at is
// deliberately absent.
var upsertColumns = []string{"title", "content", "excerpt", "tags", "updated_at"}

type PostRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *PostRepo) GetDB() *gorm.DB {
	return r.db
}

// Ping checks storage reachability through the connection pool.
func (r *PostRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// List returns all post summaries ordered by created_at descending.
func (r *PostRepo) List(ctx context.Context) ([]models.PostSummary, error) {
	summaries := []models.PostSummary{}
	err := r.db.WithContext(ctx).
		Select("id", "title", "excerpt", "tags", "created_at", "updated_at").
		Order("created_at DESC").
		Find(&summaries).Error
	if err != nil {
		return nil, err
	}
	for i := range summaries {
		summaries[i].Tags = models.NormalizeTags(summaries[i].Tags)
	}
	return summaries, nil
}

// Get returns the full post for id.
func (r *PostRepo) Get(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("post")
		}
		return nil, err
	}
	post.Tags = models.NormalizeTags(post.Tags)
	return &post, nil
}

// Upsert inserts the post, or overwrites the mutable columns of the existing
// row with the same id. The row's created_at survives an overwrite.
func (r *PostRepo) Upsert(ctx context.Context, post *models.Post) (*models.Post, error) {
	now := time.Now().UTC()
	row := models.Post{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		Excerpt:   post.Excerpt,
		Tags:      models.NormalizeTags(post.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}

	// Re-read so the caller sees the persisted timestamps, including the
	// original created_at after an overwrite.
	return r.Get(ctx, row.ID)
}

// Delete permanently removes the post with id.
func (r *PostRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("post")
	}
	return nil
}
