package services

import (
	"context"

	"qatrack/internal/domain/models"
)

// ProjectService handles project business logic
type ProjectService interface {
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*models.Project, error)
	GetProject(ctx context.Context, id, userID string) (*models.Project, error)
	ListProjects(ctx context.Context, userID string) ([]models.Project, error)
	UpdateProject(ctx context.Context, id, userID string, req *UpdateProjectRequest) (*models.Project, error)
	DeleteProject(ctx context.Context, id, userID string) error
}

// CreateProjectRequest represents a project creation request
type CreateProjectRequest struct {
	UserID string `json:"-"`
	Name   string `json:"name"`
}

// UpdateProjectRequest represents a project update request
type UpdateProjectRequest struct {
	Name *string `json:"name,omitempty"`
}
