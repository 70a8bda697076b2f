package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Creates the environment-prefixed tables the server expects.
// Usage: DATABASE_URL=... ENVIRONMENT=dev go run scripts/setup_tables.go
func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	var prefix string
	switch env {
	case "prod":
		prefix = "prod_"
	case "test":
		prefix = "test_"
	default:
		prefix = "dev_"
	}
	if override := os.Getenv("TABLE_PREFIX"); override != "" {
		prefix = override
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	setupSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]sprojects (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			deleted_at TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS %[1]sfolders (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			project_id UUID NOT NULL REFERENCES %[1]sprojects(id) ON DELETE CASCADE,
			parent_id UUID REFERENCES %[1]sfolders(id),
			name TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'folder',
			description TEXT NOT NULL DEFAULT '',
			sort_order INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS %[1]srequirements (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			project_id UUID NOT NULL REFERENCES %[1]sprojects(id) ON DELETE CASCADE,
			folder_id UUID REFERENCES %[1]sfolders(id),
			author_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'draft',
			priority TEXT NOT NULL DEFAULT 'medium',
			tags TEXT NOT NULL DEFAULT '[]',
			sort_order INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS %[1]sfolders_project_parent_idx
			ON %[1]sfolders (project_id, parent_id, sort_order);
		CREATE INDEX IF NOT EXISTS %[1]srequirements_project_folder_idx
			ON %[1]srequirements (project_id, folder_id, sort_order);
		CREATE UNIQUE INDEX IF NOT EXISTS %[1]sprojects_user_name_idx
			ON %[1]sprojects (user_id, name) WHERE deleted_at IS NULL;
	`, prefix)

	if _, err := db.Exec(setupSQL); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	fmt.Printf("All tables created successfully (prefix: %s)\n", prefix)
}
