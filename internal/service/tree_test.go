package service

import (
	"context"
	"testing"

	"qatrack/internal/domain/models"
	"qatrack/internal/domain/services"
)

func newTreeFixture() (*fakeFolderRepo, *fakeRequirementRepo, services.TreeService) {
	folderRepo := newFakeFolderRepo()
	reqRepo := newFakeRequirementRepo()
	folderRepo.reqs = reqRepo
	svc := NewTreeService(folderRepo, reqRepo, testLogger())
	return folderRepo, reqRepo, svc
}

func TestGetFolderTree_Empty(t *testing.T) {
	_, _, svc := newTreeFixture()

	tree, err := svc.GetFolderTree(context.Background(), testProject)
	if err != nil {
		t.Fatalf("GetFolderTree failed: %v", err)
	}
	if tree.Folders == nil {
		t.Error("folders must be an empty slice, not nil")
	}
	if len(tree.Folders) != 0 {
		t.Errorf("expected no folders, got %d", len(tree.Folders))
	}
	if tree.RootRequirementsCount != 0 || tree.UncategorizedCount != 0 {
		t.Errorf("expected zero counts, got %d/%d", tree.RootRequirementsCount, tree.UncategorizedCount)
	}
}

func TestGetFolderTree_Nesting(t *testing.T) {
	folderRepo, _, svc := newTreeFixture()
	folderRepo.add(&models.Folder{ID: "root", ProjectID: testProject, Name: "Root", SortOrder: 1})
	folderRepo.add(&models.Folder{ID: "child", ProjectID: testProject, ParentID: strPtr("root"), Name: "Child", SortOrder: 1})
	folderRepo.add(&models.Folder{ID: "grand", ProjectID: testProject, ParentID: strPtr("child"), Name: "Grand", SortOrder: 1})
	// Folder from another project must not leak in
	folderRepo.add(&models.Folder{ID: "foreign", ProjectID: "proj-2", Name: "Foreign"})

	tree, err := svc.GetFolderTree(context.Background(), testProject)
	if err != nil {
		t.Fatalf("GetFolderTree failed: %v", err)
	}
	if len(tree.Folders) != 1 {
		t.Fatalf("expected 1 root folder, got %d", len(tree.Folders))
	}
	root := tree.Folders[0]
	if root.ID != "root" || len(root.Children) != 1 {
		t.Fatalf("unexpected root: %+v", root)
	}
	child := root.Children[0]
	if child.ID != "child" || len(child.Children) != 1 {
		t.Fatalf("unexpected child: %+v", child)
	}
	if child.Children[0].ID != "grand" {
		t.Errorf("unexpected grandchild: %s", child.Children[0].ID)
	}
	if child.ChildCount != 1 {
		t.Errorf("child count = %d, want 1", child.ChildCount)
	}
}

func TestGetFolderTree_SiblingOrdering(t *testing.T) {
	folderRepo, _, svc := newTreeFixture()
	// Same sort order breaks the tie by name; distinct orders win outright
	folderRepo.add(&models.Folder{ID: "f1", ProjectID: testProject, Name: "Zeta", SortOrder: 1})
	folderRepo.add(&models.Folder{ID: "f2", ProjectID: testProject, Name: "Alpha", SortOrder: 2})
	folderRepo.add(&models.Folder{ID: "f3", ProjectID: testProject, Name: "Beta", SortOrder: 2})

	tree, err := svc.GetFolderTree(context.Background(), testProject)
	if err != nil {
		t.Fatalf("GetFolderTree failed: %v", err)
	}
	got := []string{}
	for _, n := range tree.Folders {
		got = append(got, n.Name)
	}
	want := []string{"Zeta", "Alpha", "Beta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sibling order = %v, want %v", got, want)
		}
	}
}

func TestGetFolderTree_OrphanAttachedAtRoot(t *testing.T) {
	folderRepo, _, svc := newTreeFixture()
	folderRepo.add(&models.Folder{ID: "ok", ProjectID: testProject, Name: "Ok", SortOrder: 1})
	folderRepo.add(&models.Folder{ID: "orphan", ProjectID: testProject, ParentID: strPtr("gone"), Name: "Orphan", SortOrder: 2})

	tree, err := svc.GetFolderTree(context.Background(), testProject)
	if err != nil {
		t.Fatalf("GetFolderTree failed: %v", err)
	}
	if len(tree.Folders) != 2 {
		t.Fatalf("orphan must surface at root, got %d root folders", len(tree.Folders))
	}
}

func TestGetFolderTree_Counts(t *testing.T) {
	folderRepo, reqRepo, svc := newTreeFixture()
	folderRepo.add(&models.Folder{ID: "f", ProjectID: testProject, Name: "F", SortOrder: 1})
	reqRepo.add(&models.Requirement{ID: "r1", ProjectID: testProject, FolderID: strPtr("f"), Title: "One"})
	reqRepo.add(&models.Requirement{ID: "r2", ProjectID: testProject, Title: "Two"})
	reqRepo.add(&models.Requirement{ID: "r3", ProjectID: testProject, Title: "Three"})
	reqRepo.add(&models.Requirement{ID: "other", ProjectID: "proj-2", Title: "Foreign"})

	tree, err := svc.GetFolderTree(context.Background(), testProject)
	if err != nil {
		t.Fatalf("GetFolderTree failed: %v", err)
	}
	// Total project requirements, not just those with no folder
	if tree.RootRequirementsCount != 3 {
		t.Errorf("root requirements count = %d, want 3", tree.RootRequirementsCount)
	}
	if tree.UncategorizedCount != 2 {
		t.Errorf("uncategorized count = %d, want 2", tree.UncategorizedCount)
	}
}

func TestGetFolderTree_ProjectSnapshot(t *testing.T) {
	folderRepo, reqRepo, svc := newTreeFixture()
	folderRepo.add(&models.Folder{ID: "epic-a", ProjectID: testProject, Name: "Epic A", Type: models.FolderTypeEpic, SortOrder: 1})
	for i, id := range []string{"r1", "r2", "r3"} {
		reqRepo.add(&models.Requirement{ID: id, ProjectID: testProject, FolderID: strPtr("epic-a"), Title: id, SortOrder: i + 1})
	}
	reqRepo.add(&models.Requirement{ID: "r4", ProjectID: testProject, Title: "r4", SortOrder: 1})
	reqRepo.add(&models.Requirement{ID: "r5", ProjectID: testProject, Title: "r5", SortOrder: 2})

	tree, err := svc.GetFolderTree(context.Background(), testProject)
	if err != nil {
		t.Fatalf("GetFolderTree failed: %v", err)
	}
	if tree.RootRequirementsCount != 5 {
		t.Errorf("root requirements count = %d, want 5", tree.RootRequirementsCount)
	}
	if tree.UncategorizedCount != 2 {
		t.Errorf("uncategorized count = %d, want 2", tree.UncategorizedCount)
	}
	if len(tree.Folders) != 1 || tree.Folders[0].Name != "Epic A" {
		t.Fatalf("unexpected folders: %+v", tree.Folders)
	}
	if tree.Folders[0].RequirementCount != 3 {
		t.Errorf("Epic A requirement count = %d, want 3", tree.Folders[0].RequirementCount)
	}
}
