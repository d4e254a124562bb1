package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"dokudoku/internal/auth"
	"dokudoku/internal/config"
	"dokudoku/internal/database"
	"dokudoku/internal/handler"
	"dokudoku/internal/middleware"
	"dokudoku/internal/repository/postgres"
	"dokudoku/internal/service"

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
	)

	// Create JWT verifier for identity-provider tokens
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Apply pending schema migrations before serving
	if err := database.Migrate(cfg.DatabaseURL, logger); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

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

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Logger: logger,
	}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	docRepo := postgres.NewDocumentRepository(repoConfig)
	tagRepo := postgres.NewTagRepository(repoConfig)
	shareRepo := postgres.NewShareRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Create services
	accessFilter := service.NewAccessFilter(folderRepo, docRepo, shareRepo)
	folderService := service.NewFolderService(folderRepo, docRepo, txManager, logger)
	docService := service.NewDocumentService(docRepo, folderRepo, tagRepo, accessFilter, txManager, logger)
	tagService := service.NewTagService(tagRepo, txManager, logger)
	shareService := service.NewShareService(shareRepo, accessFilter, logger)
	batchService := service.NewBatchService(docRepo, folderRepo, tagRepo, txManager, logger)

	// Create handlers
	folderHandler := handler.NewFolderHandler(folderService, logger)
	docHandler := handler.NewDocumentHandler(docService, logger)
	tagHandler := handler.NewTagHandler(tagService, logger)
	shareHandler := handler.NewShareHandler(shareService, logger)
	batchHandler := handler.NewBatchHandler(batchService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", docHandler.HealthCheck)

	// Folder routes
	mux.HandleFunc("GET /api/folders", folderHandler.ListTree)
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.UpdateFolder)
	mux.HandleFunc("PATCH /api/folders/{id}/move", folderHandler.MoveFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)

	// Document routes
	mux.HandleFunc("GET /api/documents", docHandler.ListDocuments)
	mux.HandleFunc("POST /api/documents", docHandler.CreateDocument)
	mux.HandleFunc("GET /api/documents/{id}", docHandler.GetDocument)
	mux.HandleFunc("PATCH /api/documents/{id}", docHandler.UpdateDocument)
	mux.HandleFunc("PATCH /api/documents/{id}/move", docHandler.MoveDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", docHandler.DeleteDocument)

	// Tag association routes
	mux.HandleFunc("POST /api/documents/{id}/tags", docHandler.AttachTag)
	mux.HandleFunc("DELETE /api/documents/{id}/tags/{tagId}", docHandler.DetachTag)

	// Share routes
	mux.HandleFunc("GET /api/documents/{id}/shares", shareHandler.ListShares)
	mux.HandleFunc("POST /api/documents/{id}/share", shareHandler.GrantShare)
	mux.HandleFunc("DELETE /api/documents/{id}/shares/{userId}", shareHandler.RevokeShare)

	// Batch routes - must be registered alongside {id} routes; the literal
	// "batch" segment wins over the wildcard on Go 1.22 mux precedence
	mux.HandleFunc("PATCH /api/documents/batch/move", batchHandler.BatchMove)
	mux.HandleFunc("DELETE /api/documents/batch", batchHandler.BatchDelete)
	mux.HandleFunc("PATCH /api/documents/batch/tag", batchHandler.BatchAddTags)

	// Tag routes
	mux.HandleFunc("GET /api/tags", tagHandler.ListTags)
	mux.HandleFunc("POST /api/tags", tagHandler.CreateTag)
	mux.HandleFunc("PATCH /api/tags/{id}", tagHandler.UpdateTag)
	mux.HandleFunc("DELETE /api/tags/{id}", tagHandler.DeleteTag)

	// Build middleware chain
	// Order: CORS → Recovery → Auth → Routes
	var httpHandler http.Handler = mux
	httpHandler = middleware.AuthMiddleware(jwtVerifier)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
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
