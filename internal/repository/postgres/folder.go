package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"qatrack/internal/domain"
	"qatrack/internal/domain/models"
	"qatrack/internal/domain/repositories"
)

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (project_id, parent_id, name, type, description, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.ProjectID,
		folder.ParentID,
		folder.Name,
		folder.Type,
		folder.Description,
		folder.SortOrder,
		folder.CreatedAt,
		folder.UpdatedAt,
	).Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		// Parent deleted between the service's existence check and this insert
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: parent folder no longer exists", domain.ErrValidation)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id, projectID string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, project_id, parent_id, name, type, description, sort_order, created_at, updated_at
		FROM %s
		WHERE id = $1 AND project_id = $2
	`, r.tables.Folders)

	var folder models.Folder
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id, projectID).Scan(
		&folder.ID,
		&folder.ProjectID,
		&folder.ParentID,
		&folder.Name,
		&folder.Type,
		&folder.Description,
		&folder.SortOrder,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

// Update updates a folder
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, name = $2, type = $3, description = $4, sort_order = $5, updated_at = $6
		WHERE id = $7 AND project_id = $8
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		folder.ParentID,
		folder.Name,
		folder.Type,
		folder.Description,
		folder.SortOrder,
		folder.UpdatedAt,
		folder.ID,
		folder.ProjectID,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: parent folder no longer exists", domain.ErrValidation)
		}
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a folder row
func (r *PostgresFolderRepository) Delete(ctx context.Context, id, projectID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND project_id = $2
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, projectID)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListChildren lists immediate child folders ordered by sort_order then name
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, parentID *string, projectID string) ([]models.Folder, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT id, project_id, parent_id, name, type, description, sort_order, created_at, updated_at
			FROM %s
			WHERE project_id = $1 AND parent_id IS NULL
			ORDER BY sort_order ASC, name ASC
		`, r.tables.Folders)
		args = append(args, projectID)
	} else {
		query = fmt.Sprintf(`
			SELECT id, project_id, parent_id, name, type, description, sort_order, created_at, updated_at
			FROM %s
			WHERE project_id = $1 AND parent_id = $2
			ORDER BY sort_order ASC, name ASC
		`, r.tables.Folders)
		args = append(args, projectID, *parentID)
	}

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folder children: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		err := rows.Scan(
			&folder.ID,
			&folder.ProjectID,
			&folder.ParentID,
			&folder.Name,
			&folder.Type,
			&folder.Description,
			&folder.SortOrder,
			&folder.CreatedAt,
			&folder.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// GetAllByProjectWithCounts retrieves all folders in a project as a flat list,
// each with its immediate child count and direct requirement count
func (r *PostgresFolderRepository) GetAllByProjectWithCounts(ctx context.Context, projectID string) ([]models.FolderWithCounts, error) {
	query := fmt.Sprintf(`
		SELECT f.id, f.project_id, f.parent_id, f.name, f.type, f.description, f.sort_order,
		       f.created_at, f.updated_at,
		       (SELECT COUNT(*) FROM %s c WHERE c.parent_id = f.id) AS child_count,
		       (SELECT COUNT(*) FROM %s r WHERE r.folder_id = f.id) AS requirement_count
		FROM %s f
		WHERE f.project_id = $1
		ORDER BY f.sort_order ASC, f.name ASC
	`, r.tables.Folders, r.tables.Requirements, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("get all folders: %w", err)
	}
	defer rows.Close()

	var folders []models.FolderWithCounts
	for rows.Next() {
		var folder models.FolderWithCounts
		err := rows.Scan(
			&folder.ID,
			&folder.ProjectID,
			&folder.ParentID,
			&folder.Name,
			&folder.Type,
			&folder.Description,
			&folder.SortOrder,
			&folder.CreatedAt,
			&folder.UpdatedAt,
			&folder.ChildCount,
			&folder.RequirementCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// ReparentChildren moves all immediate children of folderID to newParentID
func (r *PostgresFolderRepository) ReparentChildren(ctx context.Context, folderID string, newParentID *string, projectID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, updated_at = NOW()
		WHERE parent_id = $2 AND project_id = $3
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query, newParentID, folderID, projectID)
	if err != nil {
		return fmt.Errorf("reparent folder children: %w", err)
	}

	return nil
}

// NextSortOrder returns max(sort_order)+1 among siblings sharing the parent
// scope, or 1 if the scope is empty
func (r *PostgresFolderRepository) NextSortOrder(ctx context.Context, projectID string, parentID *string) (int, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT COALESCE(MAX(sort_order), 0) + 1
			FROM %s
			WHERE project_id = $1 AND parent_id IS NULL
		`, r.tables.Folders)
		args = append(args, projectID)
	} else {
		query = fmt.Sprintf(`
			SELECT COALESCE(MAX(sort_order), 0) + 1
			FROM %s
			WHERE project_id = $1 AND parent_id = $2
		`, r.tables.Folders)
		args = append(args, projectID, *parentID)
	}

	var next int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, args...).Scan(&next); err != nil {
		return 0, fmt.Errorf("next folder sort order: %w", err)
	}

	return next, nil
}
