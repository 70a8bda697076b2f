package services

import "context"

// TagService performs project-wide tag maintenance over requirements'
// serialized tag lists.
type TagService interface {
	// RenameTag replaces oldTag with newTag on every requirement in the
	// project. When a requirement already carries newTag, oldTag is simply
	// removed so no duplicate is created. Returns the number of
	// requirements touched.
	RenameTag(ctx context.Context, projectID, oldTag, newTag string) (*TagResult, error)

	// DeleteTag removes the tag from every requirement in the project,
	// position-preserving for the remaining entries. Returns the number of
	// requirements touched.
	DeleteTag(ctx context.Context, projectID, tag string) (*TagResult, error)
}

// TagResult reports how many requirements a tag operation updated
type TagResult struct {
	UpdatedCount int `json:"updated_count"`
}

// RenameTagRequest is the request body for the rename endpoint
type RenameTagRequest struct {
	OldTag string `json:"old_tag"`
	NewTag string `json:"new_tag"`
}

// DeleteTagRequest is the request body for the delete endpoint
type DeleteTagRequest struct {
	Tag string `json:"tag"`
}
