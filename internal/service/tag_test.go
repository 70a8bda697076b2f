package service

import (
	"context"
	"errors"
	"slices"
	"testing"

	"qatrack/internal/domain"
	"qatrack/internal/domain/models"
	"qatrack/internal/domain/services"
)

func newTagFixture() (*fakeRequirementRepo, services.TagService) {
	reqRepo := newFakeRequirementRepo()
	svc := NewTagService(reqRepo, &fakeTxManager{}, testLogger())
	return reqRepo, svc
}

func TestRenameTag(t *testing.T) {
	reqRepo, svc := newTagFixture()
	reqRepo.add(&models.Requirement{ID: "r1", ProjectID: testProject, Tags: []string{"ui", "smoke", "auth"}})
	reqRepo.add(&models.Requirement{ID: "r2", ProjectID: testProject, Tags: []string{"smoke"}})
	reqRepo.add(&models.Requirement{ID: "r3", ProjectID: testProject, Tags: []string{"api"}})
	ctx := context.Background()

	result, err := svc.RenameTag(ctx, testProject, "smoke", "regression")
	if err != nil {
		t.Fatalf("RenameTag failed: %v", err)
	}
	if result.UpdatedCount != 2 {
		t.Errorf("updated count = %d, want 2", result.UpdatedCount)
	}

	// Replacement happens at the tag's original position
	r1, _ := reqRepo.GetByID(ctx, "r1", testProject)
	if !slices.Equal(r1.Tags, []string{"ui", "regression", "auth"}) {
		t.Errorf("r1 tags = %v", r1.Tags)
	}
	r3, _ := reqRepo.GetByID(ctx, "r3", testProject)
	if !slices.Equal(r3.Tags, []string{"api"}) {
		t.Errorf("untagged requirement changed: %v", r3.Tags)
	}
}

func TestRenameTag_CollisionDropsOld(t *testing.T) {
	reqRepo, svc := newTagFixture()
	reqRepo.add(&models.Requirement{ID: "r1", ProjectID: testProject, Tags: []string{"old", "mid", "new"}})
	ctx := context.Background()

	result, err := svc.RenameTag(ctx, testProject, "old", "new")
	if err != nil {
		t.Fatalf("RenameTag failed: %v", err)
	}
	if result.UpdatedCount != 1 {
		t.Errorf("updated count = %d, want 1", result.UpdatedCount)
	}

	r1, _ := reqRepo.GetByID(ctx, "r1", testProject)
	if !slices.Equal(r1.Tags, []string{"mid", "new"}) {
		t.Errorf("expected old removed without duplicating new, got %v", r1.Tags)
	}
}

func TestRenameTag_SameName(t *testing.T) {
	reqRepo, svc := newTagFixture()
	reqRepo.add(&models.Requirement{ID: "r1", ProjectID: testProject, Tags: []string{"keep"}})

	result, err := svc.RenameTag(context.Background(), testProject, "keep", "keep")
	if err != nil {
		t.Fatalf("RenameTag failed: %v", err)
	}
	if result.UpdatedCount != 0 {
		t.Errorf("renaming a tag to itself must touch nothing, got %d", result.UpdatedCount)
	}
}

func TestRenameTag_Validation(t *testing.T) {
	_, svc := newTagFixture()
	ctx := context.Background()

	if _, err := svc.RenameTag(ctx, testProject, "", "new"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty old tag: expected validation error, got %v", err)
	}
	if _, err := svc.RenameTag(ctx, testProject, "old", ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty new tag: expected validation error, got %v", err)
	}
}

func TestTagMatching_Exact(t *testing.T) {
	reqRepo, svc := newTagFixture()
	// External tooling can store tags with surrounding whitespace; they are
	// distinct tags and only their exact value matches
	reqRepo.add(&models.Requirement{ID: "padded", ProjectID: testProject, Tags: []string{" ui "}})
	reqRepo.add(&models.Requirement{ID: "plain", ProjectID: testProject, Tags: []string{"ui"}})
	ctx := context.Background()

	result, err := svc.DeleteTag(ctx, testProject, "ui ")
	if err != nil {
		t.Fatalf("DeleteTag failed: %v", err)
	}
	if result.UpdatedCount != 0 {
		t.Errorf("padded request value must match nothing, got %d", result.UpdatedCount)
	}

	result, err = svc.DeleteTag(ctx, testProject, " ui ")
	if err != nil {
		t.Fatalf("DeleteTag failed: %v", err)
	}
	if result.UpdatedCount != 1 {
		t.Errorf("exact padded value should match the padded tag, got %d", result.UpdatedCount)
	}
	plain, _ := reqRepo.GetByID(ctx, "plain", testProject)
	if !slices.Equal(plain.Tags, []string{"ui"}) {
		t.Errorf("unpadded tag must survive, got %v", plain.Tags)
	}

	result, err = svc.RenameTag(ctx, testProject, "ui ", "frontend")
	if err != nil {
		t.Fatalf("RenameTag failed: %v", err)
	}
	if result.UpdatedCount != 0 {
		t.Errorf("padded rename source must match nothing, got %d", result.UpdatedCount)
	}
	result, err = svc.RenameTag(ctx, testProject, "ui", "frontend")
	if err != nil {
		t.Fatalf("RenameTag failed: %v", err)
	}
	if result.UpdatedCount != 1 {
		t.Errorf("exact rename should match, got %d", result.UpdatedCount)
	}
}

func TestDeleteTag(t *testing.T) {
	reqRepo, svc := newTagFixture()
	reqRepo.add(&models.Requirement{ID: "r1", ProjectID: testProject, Tags: []string{"a", "gone", "b"}})
	reqRepo.add(&models.Requirement{ID: "r2", ProjectID: testProject, Tags: []string{"gone"}})
	reqRepo.add(&models.Requirement{ID: "r3", ProjectID: testProject, Tags: []string{"a"}})
	ctx := context.Background()

	result, err := svc.DeleteTag(ctx, testProject, "gone")
	if err != nil {
		t.Fatalf("DeleteTag failed: %v", err)
	}
	if result.UpdatedCount != 2 {
		t.Errorf("updated count = %d, want 2", result.UpdatedCount)
	}

	r1, _ := reqRepo.GetByID(ctx, "r1", testProject)
	if !slices.Equal(r1.Tags, []string{"a", "b"}) {
		t.Errorf("remaining tags must keep their order, got %v", r1.Tags)
	}
	r2, _ := reqRepo.GetByID(ctx, "r2", testProject)
	if len(r2.Tags) != 0 {
		t.Errorf("expected empty tag list, got %v", r2.Tags)
	}
}

func TestRenameTag_MixedProject(t *testing.T) {
	reqRepo, svc := newTagFixture()
	// One requirement already carries the target tag, one only the source
	reqRepo.add(&models.Requirement{ID: "both", ProjectID: testProject, Tags: []string{"bug", "defect"}})
	reqRepo.add(&models.Requirement{ID: "only-old", ProjectID: testProject, Tags: []string{"bug"}})
	ctx := context.Background()

	result, err := svc.RenameTag(ctx, testProject, "bug", "defect")
	if err != nil {
		t.Fatalf("RenameTag failed: %v", err)
	}
	if result.UpdatedCount != 2 {
		t.Errorf("updated count = %d, want 2", result.UpdatedCount)
	}

	both, _ := reqRepo.GetByID(ctx, "both", testProject)
	if !slices.Equal(both.Tags, []string{"defect"}) {
		t.Errorf("expected deduplicated tags, got %v", both.Tags)
	}
	onlyOld, _ := reqRepo.GetByID(ctx, "only-old", testProject)
	if !slices.Equal(onlyOld.Tags, []string{"defect"}) {
		t.Errorf("expected replacement, got %v", onlyOld.Tags)
	}
}

func TestDeleteTag_Absent(t *testing.T) {
	reqRepo, svc := newTagFixture()
	reqRepo.add(&models.Requirement{ID: "r1", ProjectID: testProject, Tags: []string{"a"}})

	result, err := svc.DeleteTag(context.Background(), testProject, "missing")
	if err != nil {
		t.Fatalf("DeleteTag failed: %v", err)
	}
	if result.UpdatedCount != 0 {
		t.Errorf("updated count = %d, want 0", result.UpdatedCount)
	}
}
