package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"qatrack/internal/auth"
	"qatrack/internal/config"
	"qatrack/internal/handler"
	"qatrack/internal/middleware"
	"qatrack/internal/repository/postgres"
	"qatrack/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Load workflow definitions (statuses, priorities, folder types)
	workflow, err := config.LoadWorkflow(cfg.WorkflowPath)
	if err != nil {
		log.Fatalf("Failed to load workflow config: %v", err)
	}

	// Create JWT verifier for bearer token authentication
	jwtVerifier, err := auth.NewJWTVerifier(cfg.AuthJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	projectRepo := postgres.NewProjectRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	reqRepo := postgres.NewRequirementRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Create services
	projectService := service.NewProjectService(projectRepo, logger)
	folderService := service.NewFolderService(folderRepo, reqRepo, txManager, workflow, logger)
	treeService := service.NewTreeService(folderRepo, reqRepo, logger)
	reqService := service.NewRequirementService(reqRepo, folderRepo, txManager, workflow, logger)
	tagService := service.NewTagService(reqRepo, txManager, logger)

	// Create handlers
	projectHandler := handler.NewProjectHandler(projectService, logger)
	folderHandler := handler.NewFolderHandler(folderService, treeService, logger)
	reqHandler := handler.NewRequirementHandler(reqService, logger)
	tagHandler := handler.NewTagHandler(tagService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", reqHandler.HealthCheck)

	// Project routes
	mux.HandleFunc("GET /api/projects", projectHandler.ListProjects)
	mux.HandleFunc("POST /api/projects", projectHandler.CreateProject)
	mux.HandleFunc("GET /api/projects/{id}", projectHandler.GetProject)
	mux.HandleFunc("PATCH /api/projects/{id}", projectHandler.UpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", projectHandler.DeleteProject)

	// Project-scoped folder tree and requirement listing
	mux.HandleFunc("GET /api/projects/{id}/folders", folderHandler.ListProjectFolders)
	mux.HandleFunc("GET /api/projects/{id}/requirements", reqHandler.ListRequirements)

	// Project-wide tag maintenance
	mux.HandleFunc("POST /api/projects/{id}/tags/rename", tagHandler.RenameTag)
	mux.HandleFunc("POST /api/projects/{id}/tags/delete", tagHandler.DeleteTag)

	// Folder routes
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)

	// Requirement routes
	mux.HandleFunc("POST /api/requirements", reqHandler.CreateRequirement)
	mux.HandleFunc("POST /api/requirements/batch-move", reqHandler.BatchMove)
	mux.HandleFunc("GET /api/requirements/{id}", reqHandler.GetRequirement)
	mux.HandleFunc("PATCH /api/requirements/{id}", reqHandler.UpdateRequirement)
	mux.HandleFunc("DELETE /api/requirements/{id}", reqHandler.DeleteRequirement)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestID → Recovery → Auth → Routes
	root = middleware.Auth(jwtVerifier)(root)
	root = middleware.Recovery(logger)(root)
	root = middleware.RequestID(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
