package repositories

import (
	"context"

	"qatrack/internal/domain/models"
)

// RequirementRepository defines data access for requirements
type RequirementRepository interface {
	// Create creates a new requirement
	Create(ctx context.Context, req *models.Requirement) error

	// GetByID retrieves a requirement by ID within a project
	// (empty projectID skips the project scope)
	GetByID(ctx context.Context, id, projectID string) (*models.Requirement, error)

	// Update updates a requirement
	Update(ctx context.Context, req *models.Requirement) error

	// Delete removes a requirement row
	Delete(ctx context.Context, id, projectID string) error

	// ListByProject retrieves all requirements in a project with their tags
	ListByProject(ctx context.Context, projectID string) ([]models.Requirement, error)

	// UpdateTags persists a requirement's tag list only
	UpdateTags(ctx context.Context, id string, tags []string) error

	// UpdateLocation moves a requirement to a folder scope with a new sort order
	UpdateLocation(ctx context.Context, id string, folderID *string, sortOrder int) error

	// ClearFolder detaches all requirements directly in folderID to uncategorized
	ClearFolder(ctx context.Context, folderID, projectID string) error

	// DeleteByFolder removes all requirements directly in folderID
	DeleteByFolder(ctx context.Context, folderID, projectID string) error

	// CountByProject returns the total requirement count for a project
	CountByProject(ctx context.Context, projectID string) (int, error)

	// CountUncategorized returns the count of requirements with no folder
	CountUncategorized(ctx context.Context, projectID string) (int, error)

	// NextSortOrder returns max(sort_order)+1 among requirements sharing the
	// given folder scope (nil = uncategorized), or 1 if the scope is empty
	NextSortOrder(ctx context.Context, projectID string, folderID *string) (int, error)
}
