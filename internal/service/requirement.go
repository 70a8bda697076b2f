package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"qatrack/internal/config"
	"qatrack/internal/domain"
	"qatrack/internal/domain/models"
	"qatrack/internal/domain/repositories"
	"qatrack/internal/domain/services"
)

type requirementService struct {
	reqRepo    repositories.RequirementRepository
	folderRepo repositories.FolderRepository
	txManager  repositories.TransactionManager
	workflow   *config.Workflow
	logger     *slog.Logger
}

// NewRequirementService creates a new requirement service
func NewRequirementService(
	reqRepo repositories.RequirementRepository,
	folderRepo repositories.FolderRepository,
	txManager repositories.TransactionManager,
	workflow *config.Workflow,
	logger *slog.Logger,
) services.RequirementService {
	return &requirementService{
		reqRepo:    reqRepo,
		folderRepo: folderRepo,
		txManager:  txManager,
		workflow:   workflow,
		logger:     logger,
	}
}

// CreateRequirement creates a new requirement at the end of its folder scope
func (s *requirementService) CreateRequirement(ctx context.Context, req *services.CreateRequirementRequest) (*models.Requirement, error) {
	if req.FolderID != nil && *req.FolderID == "" {
		req.FolderID = nil
	}
	if req.Status == "" {
		req.Status = s.workflow.DefaultStatus
	}
	if req.Priority == "" {
		req.Priority = s.workflow.DefaultPriority
	}

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.FolderID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *req.FolderID, req.ProjectID); err != nil {
			return nil, fmt.Errorf("%w: folder not found", domain.ErrValidation)
		}
	}

	sortOrder, err := s.reqRepo.NextSortOrder(ctx, req.ProjectID, req.FolderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	requirement := &models.Requirement{
		ProjectID:   req.ProjectID,
		FolderID:    req.FolderID,
		AuthorID:    req.AuthorID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Tags:        normalizeTags(req.Tags),
		SortOrder:   sortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.reqRepo.Create(ctx, requirement); err != nil {
		return nil, err
	}

	s.logger.Info("requirement created",
		"id", requirement.ID,
		"title", requirement.Title,
		"project_id", requirement.ProjectID,
		"folder_id", requirement.FolderID,
		"status", requirement.Status,
	)

	return requirement, nil
}

// GetRequirement retrieves a requirement by ID
func (s *requirementService) GetRequirement(ctx context.Context, id, projectID string) (*models.Requirement, error) {
	return s.reqRepo.GetByID(ctx, id, projectID)
}

// UpdateRequirement updates a requirement's fields and, when the folder
// changes, re-slots it at the end of the new scope
func (s *requirementService) UpdateRequirement(ctx context.Context, id string, req *services.UpdateRequirementRequest) (*models.Requirement, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	requirement, err := s.reqRepo.GetByID(ctx, id, req.ProjectID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		requirement.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		requirement.Description = *req.Description
	}
	if req.Status != nil {
		requirement.Status = *req.Status
	}
	if req.Priority != nil {
		requirement.Priority = *req.Priority
	}
	if req.Tags != nil {
		requirement.Tags = normalizeTags(req.Tags)
	}

	if req.FolderID.Present {
		newFolder := req.FolderID.Value
		if newFolder != nil {
			if _, err := s.folderRepo.GetByID(ctx, *newFolder, requirement.ProjectID); err != nil {
				return nil, fmt.Errorf("%w: folder not found", domain.ErrValidation)
			}
		}
		if !sameFolder(requirement.FolderID, newFolder) {
			sortOrder, err := s.reqRepo.NextSortOrder(ctx, requirement.ProjectID, newFolder)
			if err != nil {
				return nil, err
			}
			requirement.FolderID = newFolder
			requirement.SortOrder = sortOrder
		}
	}

	requirement.UpdatedAt = time.Now()

	if err := s.reqRepo.Update(ctx, requirement); err != nil {
		return nil, err
	}

	s.logger.Info("requirement updated",
		"id", requirement.ID,
		"title", requirement.Title,
		"folder_id", requirement.FolderID,
	)

	return requirement, nil
}

// DeleteRequirement deletes a requirement
func (s *requirementService) DeleteRequirement(ctx context.Context, id, projectID string) error {
	if err := s.reqRepo.Delete(ctx, id, projectID); err != nil {
		return err
	}
	s.logger.Info("requirement deleted", "id", id, "project_id", projectID)
	return nil
}

// ListRequirements lists all requirements in a project
func (s *requirementService) ListRequirements(ctx context.Context, projectID string) ([]models.Requirement, error) {
	return s.reqRepo.ListByProject(ctx, projectID)
}

// BatchMove moves the listed requirements into the target folder in one
// transaction. Sort orders continue from the target scope's current max, in
// the caller-supplied order, so the batch lands at the end of the folder in
// the order it was given.
func (s *requirementService) BatchMove(ctx context.Context, req *services.BatchMoveRequest) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.RequirementIDs, validation.Required, validation.Length(1, 0)),
	); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.FolderID != nil && *req.FolderID == "" {
		req.FolderID = nil
	}
	if req.FolderID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *req.FolderID, req.ProjectID); err != nil {
			return fmt.Errorf("%w: target folder not found", domain.ErrValidation)
		}
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		base, err := s.reqRepo.NextSortOrder(txCtx, req.ProjectID, req.FolderID)
		if err != nil {
			return err
		}
		for i, reqID := range req.RequirementIDs {
			// Any unknown ID aborts the whole batch
			if _, err := s.reqRepo.GetByID(txCtx, reqID, req.ProjectID); err != nil {
				return err
			}
			if err := s.reqRepo.UpdateLocation(txCtx, reqID, req.FolderID, base+i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("requirements moved",
		"project_id", req.ProjectID,
		"folder_id", req.FolderID,
		"count", len(req.RequirementIDs),
	)

	return nil
}

// validateCreateRequest validates a requirement creation request
func (s *requirementService) validateCreateRequest(req *services.CreateRequirementRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxRequirementTitleLength)),
		validation.Field(&req.Status, validation.By(s.statusRule)),
		validation.Field(&req.Priority, validation.By(s.priorityRule)),
		validation.Field(&req.Tags, validation.Each(validation.Length(1, config.MaxTagLength))),
	)
}

// validateUpdateRequest validates a requirement update request
func (s *requirementService) validateUpdateRequest(req *services.UpdateRequirementRequest) error {
	rules := []*validation.FieldRules{
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.Tags, validation.Each(validation.Length(1, config.MaxTagLength))),
	}
	if req.Title != nil {
		rules = append(rules,
			validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxRequirementTitleLength)),
		)
	}
	if req.Status != nil {
		if err := s.statusRule(*req.Status); err != nil {
			return fmt.Errorf("status: %v", err)
		}
	}
	if req.Priority != nil {
		if err := s.priorityRule(*req.Priority); err != nil {
			return fmt.Errorf("priority: %v", err)
		}
	}
	return validation.ValidateStruct(req, rules...)
}

func (s *requirementService) statusRule(value interface{}) error {
	v, _ := value.(string)
	if v == "" {
		return nil
	}
	if !s.workflow.ValidStatus(v) {
		return fmt.Errorf("must be one of %s", strings.Join(s.workflow.Statuses, ", "))
	}
	return nil
}

func (s *requirementService) priorityRule(value interface{}) error {
	v, _ := value.(string)
	if v == "" {
		return nil
	}
	if !s.workflow.ValidPriority(v) {
		return fmt.Errorf("must be one of %s", strings.Join(s.workflow.Priorities, ", "))
	}
	return nil
}

// normalizeTags trims whitespace and drops empty entries, preserving order
func normalizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

func sameFolder(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
