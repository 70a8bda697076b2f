package repositories

import (
	"context"

	"qatrack/internal/domain/models"
)

// ProjectRepository defines data access for projects
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *models.Project) error

	// GetByID retrieves a project by ID, scoped to a user
	GetByID(ctx context.Context, id, userID string) (*models.Project, error)

	// List retrieves all projects for a user, ordered by updated_at DESC
	List(ctx context.Context, userID string) ([]models.Project, error)

	// Update updates a project's name and updated_at timestamp
	Update(ctx context.Context, project *models.Project) error

	// Delete soft-deletes a project and returns the deleted project
	Delete(ctx context.Context, id, userID string) (*models.Project, error)
}
