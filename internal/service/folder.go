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

type folderService struct {
	folderRepo repositories.FolderRepository
	reqRepo    repositories.RequirementRepository
	txManager  repositories.TransactionManager
	workflow   *config.Workflow
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	reqRepo repositories.RequirementRepository,
	txManager repositories.TransactionManager,
	workflow *config.Workflow,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		reqRepo:    reqRepo,
		txManager:  txManager,
		workflow:   workflow,
		logger:     logger,
	}
}

// CreateFolder creates a new folder at the next sibling sort order
func (s *folderService) CreateFolder(ctx context.Context, req *services.CreateFolderRequest) (*models.FolderWithCounts, error) {
	// Normalize empty string to nil for root-level folders
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}
	if req.Type == "" {
		req.Type = models.FolderTypeFolder
	}

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Parent must resolve within the same project
	if req.ParentID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *req.ParentID, req.ProjectID); err != nil {
			return nil, fmt.Errorf("%w: parent folder not found", domain.ErrValidation)
		}
	}

	sortOrder, err := s.folderRepo.NextSortOrder(ctx, req.ProjectID, req.ParentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	folder := &models.Folder{
		ProjectID:   req.ProjectID,
		ParentID:    req.ParentID,
		Name:        strings.TrimSpace(req.Name),
		Type:        req.Type,
		Description: req.Description,
		SortOrder:   sortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"type", folder.Type,
		"project_id", folder.ProjectID,
		"parent_id", folder.ParentID,
		"sort_order", folder.SortOrder,
	)

	// A new folder has no children or requirements yet
	return &models.FolderWithCounts{Folder: *folder}, nil
}

// GetFolder retrieves a folder by ID
func (s *folderService) GetFolder(ctx context.Context, id, projectID string) (*models.Folder, error) {
	return s.folderRepo.GetByID(ctx, id, projectID)
}

// UpdateFolder updates a folder (rename, retype, move, reorder)
func (s *folderService) UpdateFolder(ctx context.Context, id string, req *services.UpdateFolderRequest) (*models.Folder, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder, err := s.folderRepo.GetByID(ctx, id, req.ProjectID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		folder.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		folder.Type = *req.Type
	}
	if req.Description != nil {
		folder.Description = *req.Description
	}

	// Tri-state: only touch the parent if the field was present in the request
	parentChanged := false
	if req.ParentID.Present {
		newParent := req.ParentID.Value
		if newParent != nil {
			parent, err := s.folderRepo.GetByID(ctx, *newParent, folder.ProjectID)
			if err != nil {
				return nil, fmt.Errorf("%w: parent folder not found", domain.ErrValidation)
			}

			// Reject cycle-creating moves before any mutation
			cycle, err := s.WouldCreateCycle(ctx, id, parent.ID, folder.ProjectID)
			if err != nil {
				return nil, err
			}
			if cycle {
				return nil, fmt.Errorf("%w: cannot move folder under itself or its own descendant", domain.ErrValidation)
			}

			folder.ParentID = &parent.ID
		} else {
			// null = move to root
			folder.ParentID = nil
		}
		parentChanged = true
	}

	switch {
	case req.SortOrder != nil:
		folder.SortOrder = *req.SortOrder
	case parentChanged:
		// Moved without an explicit position: append at the end of the new scope
		sortOrder, err := s.folderRepo.NextSortOrder(ctx, folder.ProjectID, folder.ParentID)
		if err != nil {
			return nil, err
		}
		folder.SortOrder = sortOrder
	}

	folder.UpdatedAt = time.Now()

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder updated",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
		"sort_order", folder.SortOrder,
	)

	return folder, nil
}

// WouldCreateCycle reports whether re-parenting folderID under
// proposedParentID would make the folder its own ancestor. The ancestor
// walk carries a visited set so a hierarchy that is already corrupt fails
// with an error instead of looping.
func (s *folderService) WouldCreateCycle(ctx context.Context, folderID, proposedParentID, projectID string) (bool, error) {
	if folderID == proposedParentID {
		return true, nil
	}

	visited := map[string]bool{}
	currentID := proposedParentID

	for {
		if visited[currentID] {
			return false, fmt.Errorf("folder hierarchy contains a cycle at %s", currentID)
		}
		visited[currentID] = true

		current, err := s.folderRepo.GetByID(ctx, currentID, projectID)
		if err != nil {
			return false, err
		}

		if current.ParentID == nil {
			// Reached root, no cycle
			return false, nil
		}
		if *current.ParentID == folderID {
			return true, nil
		}

		currentID = *current.ParentID
	}
}

// DeleteFolder deletes a folder. With cascade=false the direct children are
// re-parented to the deleted folder's parent and contained requirements
// become uncategorized; with cascade=true the whole subtree and every
// requirement in it is removed. Either way the mutation runs as a single
// transaction.
func (s *folderService) DeleteFolder(ctx context.Context, id, projectID string, cascade bool) error {
	folder, err := s.folderRepo.GetByID(ctx, id, projectID)
	if err != nil {
		return err
	}

	if cascade {
		err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
			return s.deleteSubtree(txCtx, id, projectID)
		})
	} else {
		err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
			// Promote children to the deleted folder's parent
			if err := s.folderRepo.ReparentChildren(txCtx, id, folder.ParentID, projectID); err != nil {
				return err
			}
			// Detach contained requirements to uncategorized, never delete them
			if err := s.reqRepo.ClearFolder(txCtx, id, projectID); err != nil {
				return err
			}
			return s.folderRepo.Delete(txCtx, id, projectID)
		})
	}
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"id", id,
		"name", folder.Name,
		"project_id", projectID,
		"cascade", cascade,
	)

	return nil
}

// deleteSubtree removes a folder, every descendant folder and every
// requirement in the subtree. The traversal uses an explicit stack rather
// than recursion; hierarchy depth is user-controlled input.
func (s *folderService) deleteSubtree(ctx context.Context, rootID, projectID string) error {
	// Collect the subtree in pre-order
	var order []string
	stack := []string{rootID}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, current)

		children, err := s.folderRepo.ListChildren(ctx, &current, projectID)
		if err != nil {
			return fmt.Errorf("list child folders: %w", err)
		}
		for _, child := range children {
			stack = append(stack, child.ID)
		}
	}

	// Delete leaves first
	for i := len(order) - 1; i >= 0; i-- {
		folderID := order[i]
		if err := s.reqRepo.DeleteByFolder(ctx, folderID, projectID); err != nil {
			return err
		}
		if err := s.folderRepo.Delete(ctx, folderID, projectID); err != nil {
			return err
		}
	}

	return nil
}

// validateCreateRequest validates a folder creation request
func (s *folderService) validateCreateRequest(req *services.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxFolderNameLength)),
		validation.Field(&req.Type, validation.By(s.folderTypeRule)),
	)
}

// validateUpdateRequest validates a folder update request
func (s *folderService) validateUpdateRequest(req *services.UpdateFolderRequest) error {
	// At least one field must be provided
	if req.Name == nil && req.Type == nil && req.Description == nil &&
		!req.ParentID.Present && req.SortOrder == nil {
		return fmt.Errorf("at least one field must be provided")
	}

	// The move action carries an explicit target parent
	if req.Action != "" && req.Action != "move" {
		return fmt.Errorf("unknown action %q", req.Action)
	}
	if req.Action == "move" && !req.ParentID.Present {
		return fmt.Errorf("move requires a parent_id")
	}

	rules := []*validation.FieldRules{
		validation.Field(&req.ProjectID, validation.Required),
	}
	if req.Name != nil {
		rules = append(rules,
			validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxFolderNameLength)),
		)
	}
	if req.Type != nil {
		rules = append(rules,
			validation.Field(&req.Type, validation.By(func(value interface{}) error {
				t, _ := value.(*string)
				if t == nil {
					return nil
				}
				return s.folderTypeRule(*t)
			})),
		)
	}

	return validation.ValidateStruct(req, rules...)
}

func (s *folderService) folderTypeRule(value interface{}) error {
	t, _ := value.(string)
	if t == "" {
		return nil
	}
	if !s.workflow.ValidFolderType(t) {
		return fmt.Errorf("must be one of %s", strings.Join(s.workflow.FolderTypes, ", "))
	}
	return nil
}
