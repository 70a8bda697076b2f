package services

import (
	"context"

	"qatrack/internal/domain/models"
)

// TreeService builds the nested folder tree for a project.
//
// The builder assumes the stored parent links are acyclic; cycle prevention
// is enforced at move time by the folder service. Folders whose parent
// cannot be resolved are reported at root rather than silently dropped.
type TreeService interface {
	// GetFolderTree returns the project's folder forest together with the
	// total and uncategorized requirement counts.
	GetFolderTree(ctx context.Context, projectID string) (*models.FolderTree, error)
}
