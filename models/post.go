package models

import (
	"time"

	"github.com/lib/pq"
)

// Post represents a complete blog post with metadata
type Post struct {
	ID        string         `json:"id" db:"id" gorm:"type:text;primaryKey;not null"`
	Title     string         `json:"title" db:"title" gorm:"type:text;not null"`
	Content   string         `json:"content" db:"content" gorm:"type:text;not null"`
	Excerpt   string         `json:"excerpt" db:"excerpt" gorm:"type:text;not null;default:''"`
	Tags      pq.StringArray `json:"tags" db:"tags" gorm:"type:text[]"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time      `json:"updatedAt" db:"updated_at" gorm:"type:timestamptz;not null;default:CURRENT_TIMESTAMP"`
}

// PostSummary is the list projection of a Post. Content is omitted to bound
// the list payload size.
type PostSummary struct {
	ID        string         `json:"id" db:"id"`
	Title     string         `json:"title" db:"title"`
	Excerpt   string         `json:"excerpt" db:"excerpt"`
	Tags      pq.StringArray `json:"tags" db:"tags"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time      `json:"updatedAt" db:"updated_at"`
}

// TableName maps PostSummary onto the posts table so GORM can select the
// projection directly.
func (PostSummary) TableName() string {
	return "posts"
}

// NormalizeTags returns tags with empties removed and duplicates dropped,
// preserving first-seen order. A nil input yields an empty, non-nil slice so
// tags always serialize as a JSON array.
func NormalizeTags(tags []string) pq.StringArray {
	normalized := make(pq.StringArray, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
	}
	return normalized
}

// Summary projects a full post down to its list representation.
func (p Post) Summary() PostSummary {
	return PostSummary{
		ID:        p.ID,
		Title:     p.Title,
		Excerpt:   p.Excerpt,
		Tags:      NormalizeTags(p.Tags),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
