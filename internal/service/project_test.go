package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"qatrack/internal/domain"
	"qatrack/internal/domain/models"
	"qatrack/internal/domain/services"
)

// fakeProjectRepo is an in-memory ProjectRepository for service tests.
type fakeProjectRepo struct {
	projects map[string]*models.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: map[string]*models.Project{}}
}

func (r *fakeProjectRepo) Create(ctx context.Context, project *models.Project) error {
	for _, p := range r.projects {
		if p.UserID == project.UserID && p.Name == project.Name && p.DeletedAt == nil {
			return &domain.ConflictError{ResourceType: "project", ResourceID: p.ID}
		}
	}
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	cp := *project
	r.projects[project.ID] = &cp
	return nil
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, id, userID string) (*models.Project, error) {
	p, ok := r.projects[id]
	if !ok || p.UserID != userID || p.DeletedAt != nil {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProjectRepo) List(ctx context.Context, userID string) ([]models.Project, error) {
	out := []models.Project{}
	for _, p := range r.projects {
		if p.UserID == userID && p.DeletedAt == nil {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, project *models.Project) error {
	if _, ok := r.projects[project.ID]; !ok {
		return fmt.Errorf("project %s: %w", project.ID, domain.ErrNotFound)
	}
	cp := *project
	r.projects[project.ID] = &cp
	return nil
}

func (r *fakeProjectRepo) Delete(ctx context.Context, id, userID string) (*models.Project, error) {
	p, ok := r.projects[id]
	if !ok || p.UserID != userID || p.DeletedAt != nil {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	now := time.Now()
	p.DeletedAt = &now
	cp := *p
	return &cp, nil
}

func TestCreateProject(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := NewProjectService(repo, testLogger())
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, &services.CreateProjectRequest{UserID: "user-1", Name: "  Checkout  "})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if project.ID == "" {
		t.Error("expected generated ID")
	}
	if project.Name != "Checkout" {
		t.Errorf("name not trimmed: %q", project.Name)
	}

	// Same name for the same user conflicts
	_, err = svc.CreateProject(ctx, &services.CreateProjectRequest{UserID: "user-1", Name: "Checkout"})
	var conflictErr *domain.ConflictError
	if !errors.As(err, &conflictErr) {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestCreateProject_Validation(t *testing.T) {
	svc := NewProjectService(newFakeProjectRepo(), testLogger())

	_, err := svc.CreateProject(context.Background(), &services.CreateProjectRequest{UserID: "user-1"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestDeleteProject_HidesFromReads(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := NewProjectService(repo, testLogger())
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, &services.CreateProjectRequest{UserID: "user-1", Name: "Checkout"})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	if err := svc.DeleteProject(ctx, project.ID, "user-1"); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}

	if _, err := svc.GetProject(ctx, project.ID, "user-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("deleted project should be gone from reads, got %v", err)
	}
	projects, err := svc.ListProjects(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if len(projects) != 0 {
		t.Errorf("deleted project still listed: %d", len(projects))
	}
}

func TestUpdateProject(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := NewProjectService(repo, testLogger())
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, &services.CreateProjectRequest{UserID: "user-1", Name: "Old"})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	name := "New"
	updated, err := svc.UpdateProject(ctx, project.ID, "user-1", &services.UpdateProjectRequest{Name: &name})
	if err != nil {
		t.Fatalf("UpdateProject failed: %v", err)
	}
	if updated.Name != "New" {
		t.Errorf("name = %q", updated.Name)
	}

	// Wrong user cannot see the project
	if _, err := svc.UpdateProject(ctx, project.ID, "user-2", &services.UpdateProjectRequest{Name: &name}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found for other user, got %v", err)
	}

	if _, err := svc.UpdateProject(ctx, project.ID, "user-1", &services.UpdateProjectRequest{}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for empty update, got %v", err)
	}
}
