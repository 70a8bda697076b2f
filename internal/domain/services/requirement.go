package services

import (
	"context"

	"qatrack/internal/domain/models"
	"qatrack/internal/httputil"
)

// RequirementService handles requirement business logic
type RequirementService interface {
	CreateRequirement(ctx context.Context, req *CreateRequirementRequest) (*models.Requirement, error)
	GetRequirement(ctx context.Context, id, projectID string) (*models.Requirement, error)
	UpdateRequirement(ctx context.Context, id string, req *UpdateRequirementRequest) (*models.Requirement, error)
	DeleteRequirement(ctx context.Context, id, projectID string) error
	ListRequirements(ctx context.Context, projectID string) ([]models.Requirement, error)

	// BatchMove moves the listed requirements into the target folder
	// (nil = uncategorized) in one transaction, assigning strictly
	// increasing sort orders from the target scope's current max, in the
	// caller-supplied order.
	BatchMove(ctx context.Context, req *BatchMoveRequest) error
}

// CreateRequirementRequest represents a requirement creation request
type CreateRequirementRequest struct {
	ProjectID   string   `json:"project_id"`
	AuthorID    string   `json:"-"`
	FolderID    *string  `json:"folder_id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// UpdateRequirementRequest represents a requirement update request.
// FolderID uses tri-state presence: an explicit null uncategorizes the
// requirement.
type UpdateRequirementRequest struct {
	ProjectID   string                  `json:"project_id"`
	Title       *string                 `json:"title,omitempty"`
	Description *string                 `json:"description,omitempty"`
	Status      *string                 `json:"status,omitempty"`
	Priority    *string                 `json:"priority,omitempty"`
	Tags        []string                `json:"tags,omitempty"`
	FolderID    httputil.OptionalString `json:"folder_id,omitempty"`
}

// BatchMoveRequest moves a set of requirements into a target folder
type BatchMoveRequest struct {
	ProjectID      string   `json:"project_id"`
	RequirementIDs []string `json:"requirement_ids"`
	FolderID       *string  `json:"folder_id"` // nil = uncategorized
}
