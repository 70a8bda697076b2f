package service

import (
	"context"
	"log/slog"
	"sort"

	"qatrack/internal/domain/models"
	"qatrack/internal/domain/repositories"
	"qatrack/internal/domain/services"
)

type treeService struct {
	folderRepo repositories.FolderRepository
	reqRepo    repositories.RequirementRepository
	logger     *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	folderRepo repositories.FolderRepository,
	reqRepo repositories.RequirementRepository,
	logger *slog.Logger,
) services.TreeService {
	return &treeService{
		folderRepo: folderRepo,
		reqRepo:    reqRepo,
		logger:     logger,
	}
}

// GetFolderTree loads every folder of the project in one query and assembles
// the nested tree. Folders whose parent no longer resolves are attached at
// the root rather than silently dropped.
func (s *treeService) GetFolderTree(ctx context.Context, projectID string) (*models.FolderTree, error) {
	folders, err := s.folderRepo.GetAllByProjectWithCounts(ctx, projectID)
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]*models.FolderTreeNode, len(folders))
	for _, f := range folders {
		nodes[f.ID] = &models.FolderTreeNode{
			ID:               f.ID,
			Name:             f.Name,
			Type:             f.Type,
			Description:      f.Description,
			ParentID:         f.ParentID,
			SortOrder:        f.SortOrder,
			ChildCount:       f.ChildCount,
			RequirementCount: f.RequirementCount,
			Children:         []*models.FolderTreeNode{},
		}
	}

	roots := []*models.FolderTreeNode{}
	for _, f := range folders {
		node := nodes[f.ID]
		if f.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*f.ParentID]
		if !ok {
			s.logger.Warn("folder references missing parent, attaching at root",
				"folder_id", f.ID,
				"parent_id", *f.ParentID,
				"project_id", projectID,
			)
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	sortNodes(roots)
	for _, node := range nodes {
		sortNodes(node.Children)
	}

	totalRequirements, err := s.reqRepo.CountByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	uncategorized, err := s.reqRepo.CountUncategorized(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return &models.FolderTree{
		Folders:               roots,
		RootRequirementsCount: totalRequirements,
		UncategorizedCount:    uncategorized,
	}, nil
}

// sortNodes orders siblings by sort order, then name for stable ties
func sortNodes(nodes []*models.FolderTreeNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].SortOrder != nodes[j].SortOrder {
			return nodes[i].SortOrder < nodes[j].SortOrder
		}
		return nodes[i].Name < nodes[j].Name
	})
}
