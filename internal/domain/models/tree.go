package models

// FolderTreeNode represents a folder in the tree with nested children
type FolderTreeNode struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Type             string            `json:"type"`
	Description      string            `json:"description"`
	ParentID         *string           `json:"parent_id"`
	SortOrder        int               `json:"sort_order"`
	ChildCount       int               `json:"child_count"`
	RequirementCount int               `json:"requirement_count"`
	Children         []*FolderTreeNode `json:"children"` // Pointers for proper nesting
}

// FolderTree is the response shape for the project folder listing. The
// root requirement count is the total for the project, not just the
// uncategorized ones.
type FolderTree struct {
	Folders                []*FolderTreeNode `json:"folders"`
	RootRequirementsCount  int               `json:"root_requirements_count"`
	UncategorizedCount     int               `json:"uncategorized_count"`
}
