package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"qatrack/internal/domain"
	"qatrack/internal/domain/models"
	"qatrack/internal/domain/repositories"
)

// PostgresRequirementRepository implements the RequirementRepository interface.
//
// Tags are stored as a JSON-encoded text column and decoded at this
// boundary; a malformed column decodes to an empty list rather than
// failing the whole scan.
type PostgresRequirementRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewRequirementRepository creates a new requirement repository
func NewRequirementRepository(config *RepositoryConfig) repositories.RequirementRepository {
	return &PostgresRequirementRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new requirement
func (r *PostgresRequirementRepository) Create(ctx context.Context, req *models.Requirement) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (project_id, folder_id, author_id, title, description, status, priority, tags, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`, r.tables.Requirements)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		req.ProjectID,
		req.FolderID,
		req.AuthorID,
		req.Title,
		req.Description,
		req.Status,
		req.Priority,
		models.EncodeTags(req.Tags),
		req.SortOrder,
		req.CreatedAt,
		req.UpdatedAt,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		// Folder deleted between the service's existence check and this insert
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: folder no longer exists", domain.ErrValidation)
		}
		return fmt.Errorf("create requirement: %w", err)
	}

	return nil
}

// GetByID retrieves a requirement by ID
func (r *PostgresRequirementRepository) GetByID(ctx context.Context, id, projectID string) (*models.Requirement, error) {
	var query string
	var args []interface{}

	if projectID != "" {
		query = fmt.Sprintf(`
			SELECT id, project_id, folder_id, author_id, title, description, status, priority, tags, sort_order, created_at, updated_at
			FROM %s
			WHERE id = $1 AND project_id = $2
		`, r.tables.Requirements)
		args = []interface{}{id, projectID}
	} else {
		query = fmt.Sprintf(`
			SELECT id, project_id, folder_id, author_id, title, description, status, priority, tags, sort_order, created_at, updated_at
			FROM %s
			WHERE id = $1
		`, r.tables.Requirements)
		args = []interface{}{id}
	}

	executor := GetExecutor(ctx, r.pool)
	req, err := scanRequirement(executor.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("requirement %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get requirement: %w", err)
	}

	return req, nil
}

// Update updates a requirement
func (r *PostgresRequirementRepository) Update(ctx context.Context, req *models.Requirement) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, title = $2, description = $3, status = $4, priority = $5, tags = $6, sort_order = $7, updated_at = $8
		WHERE id = $9 AND project_id = $10
	`, r.tables.Requirements)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		req.FolderID,
		req.Title,
		req.Description,
		req.Status,
		req.Priority,
		models.EncodeTags(req.Tags),
		req.SortOrder,
		req.UpdatedAt,
		req.ID,
		req.ProjectID,
	)

	if err != nil {
		return fmt.Errorf("update requirement: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("requirement %s: %w", req.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a requirement row
func (r *PostgresRequirementRepository) Delete(ctx context.Context, id, projectID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND project_id = $2
	`, r.tables.Requirements)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, projectID)
	if err != nil {
		return fmt.Errorf("delete requirement: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("requirement %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListByProject retrieves all requirements in a project with their tags
func (r *PostgresRequirementRepository) ListByProject(ctx context.Context, projectID string) ([]models.Requirement, error) {
	query := fmt.Sprintf(`
		SELECT id, project_id, folder_id, author_id, title, description, status, priority, tags, sort_order, created_at, updated_at
		FROM %s
		WHERE project_id = $1
		ORDER BY sort_order ASC, created_at ASC
	`, r.tables.Requirements)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	defer rows.Close()

	var requirements []models.Requirement
	for rows.Next() {
		req, err := scanRequirement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan requirement: %w", err)
		}
		requirements = append(requirements, *req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requirements: %w", err)
	}

	// Return empty slice instead of nil
	if requirements == nil {
		requirements = []models.Requirement{}
	}

	return requirements, nil
}

// UpdateTags persists a requirement's tag list only
func (r *PostgresRequirementRepository) UpdateTags(ctx context.Context, id string, tags []string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET tags = $1, updated_at = NOW()
		WHERE id = $2
	`, r.tables.Requirements)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, models.EncodeTags(tags), id)
	if err != nil {
		return fmt.Errorf("update requirement tags: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("requirement %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// UpdateLocation moves a requirement to a folder scope with a new sort order
func (r *PostgresRequirementRepository) UpdateLocation(ctx context.Context, id string, folderID *string, sortOrder int) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, sort_order = $2, updated_at = NOW()
		WHERE id = $3
	`, r.tables.Requirements)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, folderID, sortOrder, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: folder no longer exists", domain.ErrValidation)
		}
		return fmt.Errorf("update requirement location: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("requirement %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ClearFolder detaches all requirements directly in folderID to uncategorized
func (r *PostgresRequirementRepository) ClearFolder(ctx context.Context, folderID, projectID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = NULL, updated_at = NOW()
		WHERE folder_id = $1 AND project_id = $2
	`, r.tables.Requirements)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query, folderID, projectID)
	if err != nil {
		return fmt.Errorf("clear requirement folder: %w", err)
	}

	return nil
}

// DeleteByFolder removes all requirements directly in folderID
func (r *PostgresRequirementRepository) DeleteByFolder(ctx context.Context, folderID, projectID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE folder_id = $1 AND project_id = $2
	`, r.tables.Requirements)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query, folderID, projectID)
	if err != nil {
		return fmt.Errorf("delete requirements in folder: %w", err)
	}

	return nil
}

// CountByProject returns the total requirement count for a project
func (r *PostgresRequirementRepository) CountByProject(ctx context.Context, projectID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s
		WHERE project_id = $1
	`, r.tables.Requirements)

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, projectID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count requirements: %w", err)
	}

	return count, nil
}

// CountUncategorized returns the count of requirements with no folder
func (r *PostgresRequirementRepository) CountUncategorized(ctx context.Context, projectID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s
		WHERE project_id = $1 AND folder_id IS NULL
	`, r.tables.Requirements)

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, projectID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count uncategorized requirements: %w", err)
	}

	return count, nil
}

// NextSortOrder returns max(sort_order)+1 among requirements sharing the
// folder scope, or 1 if the scope is empty
func (r *PostgresRequirementRepository) NextSortOrder(ctx context.Context, projectID string, folderID *string) (int, error) {
	var query string
	var args []interface{}

	if folderID == nil {
		query = fmt.Sprintf(`
			SELECT COALESCE(MAX(sort_order), 0) + 1
			FROM %s
			WHERE project_id = $1 AND folder_id IS NULL
		`, r.tables.Requirements)
		args = append(args, projectID)
	} else {
		query = fmt.Sprintf(`
			SELECT COALESCE(MAX(sort_order), 0) + 1
			FROM %s
			WHERE project_id = $1 AND folder_id = $2
		`, r.tables.Requirements)
		args = append(args, projectID, *folderID)
	}

	var next int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, args...).Scan(&next); err != nil {
		return 0, fmt.Errorf("next requirement sort order: %w", err)
	}

	return next, nil
}

// rowScanner covers pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanRequirement scans a full requirement row, decoding the tag column
func scanRequirement(row rowScanner) (*models.Requirement, error) {
	var req models.Requirement
	var rawTags string

	err := row.Scan(
		&req.ID,
		&req.ProjectID,
		&req.FolderID,
		&req.AuthorID,
		&req.Title,
		&req.Description,
		&req.Status,
		&req.Priority,
		&rawTags,
		&req.SortOrder,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	req.Tags = models.DecodeTags(rawTags)
	return &req, nil
}
