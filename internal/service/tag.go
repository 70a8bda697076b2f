package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"qatrack/internal/config"
	"qatrack/internal/domain"
	"qatrack/internal/domain/repositories"
	"qatrack/internal/domain/services"
)

type tagService struct {
	reqRepo   repositories.RequirementRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewTagService creates a new tag service
func NewTagService(
	reqRepo repositories.RequirementRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.TagService {
	return &tagService{
		reqRepo:   reqRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// RenameTag replaces oldTag with newTag on every requirement carrying it.
// The replacement happens at the tag's original position; when the
// requirement already carries newTag, oldTag is removed instead so the list
// never holds duplicates. Matching is exact string equality; tags differing
// only in surrounding whitespace are distinct tags. The whole scan runs in
// one transaction.
func (s *tagService) RenameTag(ctx context.Context, projectID, oldTag, newTag string) (*services.TagResult, error) {
	if err := validateTag("old_tag", oldTag); err != nil {
		return nil, err
	}
	if err := validateTag("new_tag", newTag); err != nil {
		return nil, err
	}
	if oldTag == newTag {
		return &services.TagResult{}, nil
	}

	updated := 0
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		requirements, err := s.reqRepo.ListByProject(txCtx, projectID)
		if err != nil {
			return err
		}
		for i := range requirements {
			req := &requirements[i]
			idx := slices.Index(req.Tags, oldTag)
			if idx < 0 {
				continue
			}
			tags := slices.Clone(req.Tags)
			if slices.Contains(tags, newTag) {
				tags = slices.Delete(tags, idx, idx+1)
			} else {
				tags[idx] = newTag
			}
			if err := s.reqRepo.UpdateTags(txCtx, req.ID, tags); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tag renamed",
		"project_id", projectID,
		"old_tag", oldTag,
		"new_tag", newTag,
		"updated_count", updated,
	)

	return &services.TagResult{UpdatedCount: updated}, nil
}

// DeleteTag removes the tag from every requirement carrying it, preserving
// the order of the remaining tags. Matching is exact string equality. The
// whole scan runs in one transaction.
func (s *tagService) DeleteTag(ctx context.Context, projectID, tag string) (*services.TagResult, error) {
	if err := validateTag("tag", tag); err != nil {
		return nil, err
	}

	updated := 0
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		requirements, err := s.reqRepo.ListByProject(txCtx, projectID)
		if err != nil {
			return err
		}
		for i := range requirements {
			req := &requirements[i]
			idx := slices.Index(req.Tags, tag)
			if idx < 0 {
				continue
			}
			tags := slices.Delete(slices.Clone(req.Tags), idx, idx+1)
			if err := s.reqRepo.UpdateTags(txCtx, req.ID, tags); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tag deleted",
		"project_id", projectID,
		"tag", tag,
		"updated_count", updated,
	)

	return &services.TagResult{UpdatedCount: updated}, nil
}

func validateTag(field, tag string) error {
	if tag == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrValidation, field)
	}
	if len(tag) > config.MaxTagLength {
		return fmt.Errorf("%w: %s must be at most %d characters", domain.ErrValidation, field, config.MaxTagLength)
	}
	return nil
}
