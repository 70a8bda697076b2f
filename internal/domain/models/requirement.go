package models

import (
	"encoding/json"
	"time"
)

// Requirement is a tracked unit of product intent, optionally placed in a
// folder and carrying free-form tags.
type Requirement struct {
	ID          string    `json:"id" db:"id"`
	ProjectID   string    `json:"project_id" db:"project_id"`
	FolderID    *string   `json:"folder_id" db:"folder_id"` // NULL = uncategorized
	AuthorID    string    `json:"author_id" db:"author_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Status      string    `json:"status" db:"status"`
	Priority    string    `json:"priority" db:"priority"`
	Tags        []string  `json:"tags"`
	SortOrder   int       `json:"sort_order" db:"sort_order"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// DecodeTags decodes the serialized tag column into an ordered tag list.
// Malformed stored data yields an empty list rather than an error; a
// requirement with an unreadable tag column simply never matches any tag
// operation.
func DecodeTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil
	}
	return tags
}

// EncodeTags serializes a tag list for storage. The encoding is
// order-preserving and performs no deduplication; nil encodes as an empty
// JSON array so the round-trip stays lossless.
func EncodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		// []string cannot fail to marshal; keep the column valid regardless.
		return "[]"
	}
	return string(data)
}
