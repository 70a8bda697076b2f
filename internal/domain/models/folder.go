package models

import "time"

// Folder types. A folder groups requirements and/or other folders within a
// project; epics and features are folders with a semantic label.
const (
	FolderTypeFolder  = "folder"
	FolderTypeEpic    = "epic"
	FolderTypeFeature = "feature"
)

type Folder struct {
	ID          string    `json:"id" db:"id"`
	ProjectID   string    `json:"project_id" db:"project_id"`
	ParentID    *string   `json:"parent_id" db:"parent_id"` // NULL = root level
	Name        string    `json:"name" db:"name"`
	Type        string    `json:"type" db:"type"`
	Description string    `json:"description" db:"description"`
	SortOrder   int       `json:"sort_order" db:"sort_order"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// FolderWithCounts carries a folder row together with the aggregates the
// tree endpoint reports: number of immediate child folders and number of
// requirements directly in the folder.
type FolderWithCounts struct {
	Folder
	ChildCount       int `json:"child_count" db:"child_count"`
	RequirementCount int `json:"requirement_count" db:"requirement_count"`
}
