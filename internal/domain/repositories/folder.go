package repositories

import (
	"context"

	"qatrack/internal/domain/models"
)

// FolderRepository defines data access for folders
type FolderRepository interface {
	// Create creates a new folder
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by ID within a project
	GetByID(ctx context.Context, id, projectID string) (*models.Folder, error)

	// Update updates a folder's name, description, type, parent and sort order
	Update(ctx context.Context, folder *models.Folder) error

	// Delete removes a folder row
	Delete(ctx context.Context, id, projectID string) error

	// ListChildren lists immediate child folders of the given parent
	// (nil parent = root level), ordered by sort_order then name
	ListChildren(ctx context.Context, parentID *string, projectID string) ([]models.Folder, error)

	// GetAllByProjectWithCounts retrieves all folders in a project as a flat
	// list, each carrying its immediate child count and direct requirement count
	GetAllByProjectWithCounts(ctx context.Context, projectID string) ([]models.FolderWithCounts, error)

	// ReparentChildren moves all immediate children of folderID to newParentID
	ReparentChildren(ctx context.Context, folderID string, newParentID *string, projectID string) error

	// NextSortOrder returns max(sort_order)+1 among siblings sharing the
	// given parent scope, or 1 if the scope is empty
	NextSortOrder(ctx context.Context, projectID string, parentID *string) (int, error)
}
