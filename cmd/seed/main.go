// Command seed loads a YAML fixture into the database through the
// service layer, so seeded data passes the same validation as API
// traffic. Intended for dev environments and demos.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"dokudoku/internal/config"
	"dokudoku/internal/database"
	"dokudoku/internal/domain/models"
	"dokudoku/internal/domain/services"
	"dokudoku/internal/repository/postgres"
	"dokudoku/internal/service"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Fixture is the YAML document consumed by the seeder. Folders and tags
// carry a ref key so later entries can point at them; parents must be
// listed before their children.
type Fixture struct {
	Folders []struct {
		Ref     string `yaml:"ref"`
		OwnerID string `yaml:"owner_id"`
		Name    string `yaml:"name"`
		Parent  string `yaml:"parent,omitempty"`
	} `yaml:"folders"`

	Tags []struct {
		Ref     string `yaml:"ref"`
		OwnerID string `yaml:"owner_id"`
		Name    string `yaml:"name"`
		Color   string `yaml:"color,omitempty"`
	} `yaml:"tags"`

	Documents []struct {
		Ref       string   `yaml:"ref"`
		OwnerID   string   `yaml:"owner_id"`
		Name      string   `yaml:"name"`
		FileName  string   `yaml:"file_name"`
		FileKey   string   `yaml:"file_key"`
		MimeType  string   `yaml:"mime_type,omitempty"`
		SizeBytes int64    `yaml:"size_bytes,omitempty"`
		Folder    string   `yaml:"folder,omitempty"`
		Tags      []string `yaml:"tags,omitempty"`
	} `yaml:"documents"`

	Shares []struct {
		Document   string `yaml:"document"`
		UserID     string `yaml:"user_id"`
		Permission string `yaml:"permission"`
	} `yaml:"shares"`
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	raw, err := os.ReadFile(cfg.SeedFile)
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}

	var fixture Fixture
	if err := yaml.Unmarshal(raw, &fixture); err != nil {
		log.Fatalf("Failed to parse seed file: %v", err)
	}

	if err := database.Migrate(cfg.DatabaseURL, logger); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	repoConfig := &postgres.RepositoryConfig{Pool: pool, Logger: logger}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	docRepo := postgres.NewDocumentRepository(repoConfig)
	tagRepo := postgres.NewTagRepository(repoConfig)
	shareRepo := postgres.NewShareRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	accessFilter := service.NewAccessFilter(folderRepo, docRepo, shareRepo)
	folderService := service.NewFolderService(folderRepo, docRepo, txManager, logger)
	docService := service.NewDocumentService(docRepo, folderRepo, tagRepo, accessFilter, txManager, logger)
	tagService := service.NewTagService(tagRepo, txManager, logger)
	shareService := service.NewShareService(shareRepo, accessFilter, logger)

	if err := seed(ctx, &fixture, folderService, docService, tagService, shareService); err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	logger.Info("seed completed",
		"folders", len(fixture.Folders),
		"tags", len(fixture.Tags),
		"documents", len(fixture.Documents),
		"shares", len(fixture.Shares),
	)
}

func seed(
	ctx context.Context,
	fixture *Fixture,
	folderService services.FolderService,
	docService services.DocumentService,
	tagService services.TagService,
	shareService services.ShareService,
) error {
	folderIDs := make(map[string]string)
	tagIDs := make(map[string]string)
	docIDs := make(map[string]string)

	for _, f := range fixture.Folders {
		req := &services.CreateFolderRequest{
			OwnerID: f.OwnerID,
			Name:    f.Name,
		}
		if f.Parent != "" {
			parentID, ok := folderIDs[f.Parent]
			if !ok {
				return fmt.Errorf("folder %q references unknown parent %q", f.Name, f.Parent)
			}
			req.ParentID = &parentID
		}

		folder, err := folderService.CreateFolder(ctx, req)
		if err != nil {
			return fmt.Errorf("create folder %q: %w", f.Name, err)
		}
		if f.Ref != "" {
			folderIDs[f.Ref] = folder.ID
		}
	}

	for _, t := range fixture.Tags {
		tag, err := tagService.CreateTag(ctx, &services.CreateTagRequest{
			OwnerID: t.OwnerID,
			Name:    t.Name,
			Color:   t.Color,
		})
		if err != nil {
			return fmt.Errorf("create tag %q: %w", t.Name, err)
		}
		if t.Ref != "" {
			tagIDs[t.Ref] = tag.ID
		}
	}

	for _, d := range fixture.Documents {
		req := &services.CreateDocumentRequest{
			OwnerID:   d.OwnerID,
			Name:      d.Name,
			FileName:  d.FileName,
			FileKey:   d.FileKey,
			MimeType:  d.MimeType,
			SizeBytes: d.SizeBytes,
		}
		if d.Folder != "" {
			folderID, ok := folderIDs[d.Folder]
			if !ok {
				return fmt.Errorf("document %q references unknown folder %q", d.Name, d.Folder)
			}
			req.FolderID = &folderID
		}

		doc, err := docService.CreateDocument(ctx, req)
		if err != nil {
			return fmt.Errorf("create document %q: %w", d.Name, err)
		}
		if d.Ref != "" {
			docIDs[d.Ref] = doc.ID
		}

		for _, tagRef := range d.Tags {
			tagID, ok := tagIDs[tagRef]
			if !ok {
				return fmt.Errorf("document %q references unknown tag %q", d.Name, tagRef)
			}
			if err := docService.AttachTag(ctx, d.OwnerID, doc.ID, tagID); err != nil {
				return fmt.Errorf("attach tag %q to %q: %w", tagRef, d.Name, err)
			}
		}
	}

	for _, s := range fixture.Shares {
		docID, ok := docIDs[s.Document]
		if !ok {
			return fmt.Errorf("share references unknown document %q", s.Document)
		}

		ownerID := ""
		for _, d := range fixture.Documents {
			if d.Ref == s.Document {
				ownerID = d.OwnerID
				break
			}
		}

		_, err := shareService.GrantShare(ctx, ownerID, docID, &services.GrantShareRequest{
			UserID:     s.UserID,
			Permission: models.Permission(s.Permission),
		})
		if err != nil {
			return fmt.Errorf("share document %q with %q: %w", s.Document, s.UserID, err)
		}
	}

	return nil
}
