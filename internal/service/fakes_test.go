package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"qatrack/internal/domain"
	"qatrack/internal/domain/models"
	"qatrack/internal/domain/repositories"
)

// fakeFolderRepo is an in-memory FolderRepository for service tests.
// Linking reqs makes GetAllByProjectWithCounts report per-folder
// requirement counts.
type fakeFolderRepo struct {
	folders map[string]*models.Folder
	reqs    *fakeRequirementRepo
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: map[string]*models.Folder{}}
}

func (r *fakeFolderRepo) add(f *models.Folder) *models.Folder {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	cp := *f
	r.folders[f.ID] = &cp
	return &cp
}

func (r *fakeFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	if folder.ID == "" {
		folder.ID = uuid.NewString()
	}
	cp := *folder
	r.folders[folder.ID] = &cp
	return nil
}

func (r *fakeFolderRepo) GetByID(ctx context.Context, id, projectID string) (*models.Folder, error) {
	f, ok := r.folders[id]
	if !ok || f.ProjectID != projectID {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFolderRepo) Update(ctx context.Context, folder *models.Folder) error {
	if _, ok := r.folders[folder.ID]; !ok {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	cp := *folder
	r.folders[folder.ID] = &cp
	return nil
}

func (r *fakeFolderRepo) Delete(ctx context.Context, id, projectID string) error {
	f, ok := r.folders[id]
	if !ok || f.ProjectID != projectID {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	delete(r.folders, id)
	return nil
}

func (r *fakeFolderRepo) ListChildren(ctx context.Context, parentID *string, projectID string) ([]models.Folder, error) {
	out := []models.Folder{}
	for _, f := range r.folders {
		if f.ProjectID != projectID || !sameScope(f.ParentID, parentID) {
			continue
		}
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *fakeFolderRepo) GetAllByProjectWithCounts(ctx context.Context, projectID string) ([]models.FolderWithCounts, error) {
	out := []models.FolderWithCounts{}
	for _, f := range r.folders {
		if f.ProjectID != projectID {
			continue
		}
		childCount := 0
		for _, other := range r.folders {
			if other.ParentID != nil && *other.ParentID == f.ID {
				childCount++
			}
		}
		reqCount := 0
		if r.reqs != nil {
			for _, req := range r.reqs.requirements {
				if req.ProjectID == projectID && req.FolderID != nil && *req.FolderID == f.ID {
					reqCount++
				}
			}
		}
		out = append(out, models.FolderWithCounts{Folder: *f, ChildCount: childCount, RequirementCount: reqCount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeFolderRepo) ReparentChildren(ctx context.Context, folderID string, newParentID *string, projectID string) error {
	for _, f := range r.folders {
		if f.ProjectID == projectID && f.ParentID != nil && *f.ParentID == folderID {
			f.ParentID = cloneScope(newParentID)
		}
	}
	return nil
}

func (r *fakeFolderRepo) NextSortOrder(ctx context.Context, projectID string, parentID *string) (int, error) {
	max := 0
	for _, f := range r.folders {
		if f.ProjectID == projectID && sameScope(f.ParentID, parentID) && f.SortOrder > max {
			max = f.SortOrder
		}
	}
	return max + 1, nil
}

// fakeRequirementRepo is an in-memory RequirementRepository for service tests.
type fakeRequirementRepo struct {
	requirements map[string]*models.Requirement
}

func newFakeRequirementRepo() *fakeRequirementRepo {
	return &fakeRequirementRepo{requirements: map[string]*models.Requirement{}}
}

func (r *fakeRequirementRepo) add(req *models.Requirement) *models.Requirement {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	cp := *req
	r.requirements[req.ID] = &cp
	return &cp
}

func (r *fakeRequirementRepo) Create(ctx context.Context, req *models.Requirement) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	cp := *req
	r.requirements[req.ID] = &cp
	return nil
}

func (r *fakeRequirementRepo) GetByID(ctx context.Context, id, projectID string) (*models.Requirement, error) {
	req, ok := r.requirements[id]
	if !ok || (projectID != "" && req.ProjectID != projectID) {
		return nil, fmt.Errorf("requirement %s: %w", id, domain.ErrNotFound)
	}
	cp := *req
	return &cp, nil
}

func (r *fakeRequirementRepo) Update(ctx context.Context, req *models.Requirement) error {
	if _, ok := r.requirements[req.ID]; !ok {
		return fmt.Errorf("requirement %s: %w", req.ID, domain.ErrNotFound)
	}
	cp := *req
	r.requirements[req.ID] = &cp
	return nil
}

func (r *fakeRequirementRepo) Delete(ctx context.Context, id, projectID string) error {
	req, ok := r.requirements[id]
	if !ok || req.ProjectID != projectID {
		return fmt.Errorf("requirement %s: %w", id, domain.ErrNotFound)
	}
	delete(r.requirements, id)
	return nil
}

func (r *fakeRequirementRepo) ListByProject(ctx context.Context, projectID string) ([]models.Requirement, error) {
	out := []models.Requirement{}
	for _, req := range r.requirements {
		if req.ProjectID == projectID {
			out = append(out, *req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRequirementRepo) UpdateTags(ctx context.Context, id string, tags []string) error {
	req, ok := r.requirements[id]
	if !ok {
		return fmt.Errorf("requirement %s: %w", id, domain.ErrNotFound)
	}
	req.Tags = append([]string(nil), tags...)
	return nil
}

func (r *fakeRequirementRepo) UpdateLocation(ctx context.Context, id string, folderID *string, sortOrder int) error {
	req, ok := r.requirements[id]
	if !ok {
		return fmt.Errorf("requirement %s: %w", id, domain.ErrNotFound)
	}
	req.FolderID = cloneScope(folderID)
	req.SortOrder = sortOrder
	return nil
}

func (r *fakeRequirementRepo) ClearFolder(ctx context.Context, folderID, projectID string) error {
	for _, req := range r.requirements {
		if req.ProjectID == projectID && req.FolderID != nil && *req.FolderID == folderID {
			req.FolderID = nil
		}
	}
	return nil
}

func (r *fakeRequirementRepo) DeleteByFolder(ctx context.Context, folderID, projectID string) error {
	for id, req := range r.requirements {
		if req.ProjectID == projectID && req.FolderID != nil && *req.FolderID == folderID {
			delete(r.requirements, id)
		}
	}
	return nil
}

func (r *fakeRequirementRepo) CountByProject(ctx context.Context, projectID string) (int, error) {
	count := 0
	for _, req := range r.requirements {
		if req.ProjectID == projectID {
			count++
		}
	}
	return count, nil
}

func (r *fakeRequirementRepo) CountUncategorized(ctx context.Context, projectID string) (int, error) {
	count := 0
	for _, req := range r.requirements {
		if req.ProjectID == projectID && req.FolderID == nil {
			count++
		}
	}
	return count, nil
}

func (r *fakeRequirementRepo) NextSortOrder(ctx context.Context, projectID string, folderID *string) (int, error) {
	max := 0
	for _, req := range r.requirements {
		if req.ProjectID == projectID && sameScope(req.FolderID, folderID) && req.SortOrder > max {
			max = req.SortOrder
		}
	}
	return max + 1, nil
}

// fakeTxManager runs the function directly; the fakes have no transactions.
type fakeTxManager struct{}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

func sameScope(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func cloneScope(s *string) *string {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

func strPtr(s string) *string { return &s }
