package services

import (
	"context"

	"qatrack/internal/domain/models"
	"qatrack/internal/httputil"
)

// FolderService handles folder business logic
type FolderService interface {
	// CreateFolder creates a new folder at the next sibling sort order
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.FolderWithCounts, error)

	// GetFolder retrieves a folder by ID
	GetFolder(ctx context.Context, id, projectID string) (*models.Folder, error)

	// UpdateFolder updates a folder (rename, retype, move, reorder).
	// Parent changes are rejected before any mutation if they would
	// create a cycle.
	UpdateFolder(ctx context.Context, id string, req *UpdateFolderRequest) (*models.Folder, error)

	// DeleteFolder deletes a folder. With cascade=false the direct children
	// are re-parented to the deleted folder's parent and contained
	// requirements become uncategorized; with cascade=true the whole
	// subtree and every requirement in it is removed.
	DeleteFolder(ctx context.Context, id, projectID string, cascade bool) error

	// WouldCreateCycle reports whether re-parenting folderID under
	// proposedParentID would make the folder its own ancestor.
	WouldCreateCycle(ctx context.Context, folderID string, proposedParentID string, projectID string) (bool, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	ProjectID   string  `json:"project_id"`
	Name        string  `json:"name"`
	Type        string  `json:"type,omitempty"`
	Description string  `json:"description,omitempty"`
	ParentID    *string `json:"parent_id,omitempty"`
}

// UpdateFolderRequest represents a folder update request.
// ParentID uses tri-state presence so PATCH can distinguish "leave the
// parent alone" from "move to root" (explicit null).
type UpdateFolderRequest struct {
	ProjectID   string                  `json:"project_id"`
	Action      string                  `json:"action,omitempty"` // "move" carries parent_id + sort_order
	Name        *string                 `json:"name,omitempty"`
	Type        *string                 `json:"type,omitempty"`
	Description *string                 `json:"description,omitempty"`
	ParentID    httputil.OptionalString `json:"parent_id,omitempty"`
	SortOrder   *int                    `json:"sort_order,omitempty"`
}
