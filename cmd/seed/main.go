package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"filedesk/internal/config"
	docsysSvc "filedesk/internal/domain/services/docsystem"
	"filedesk/internal/repository/postgres"
	postgresDocsys "filedesk/internal/repository/postgres/docsystem"
	serviceDocsys "filedesk/internal/service/docsystem"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

type fixtures struct {
	Users []userFixture `yaml:"users"`
}

type userFixture struct {
	Email     string            `yaml:"email"`
	Name      string            `yaml:"name"`
	Folders   []folderFixture   `yaml:"folders"`
	Documents []documentFixture `yaml:"documents"`
}

type folderFixture struct {
	Name      string            `yaml:"name"`
	Documents []documentFixture `yaml:"documents"`
}

type documentFixture struct {
	Name string `yaml:"name"`
	Size string `yaml:"size"`
}

func loadFixtures() (*fixtures, error) {
	var f fixtures
	if err := yaml.Unmarshal(fixturesYAML, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &f, nil
}

type seeder struct {
	users     docsysSvc.UserService
	documents docsysSvc.DocumentService
	folders   docsysSvc.FolderService
}

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed data")
	clearData := flag.Bool("clear-data", false, "Clear all users, documents and folders (keep schema)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	switch {
	case *clearData:
		log.Printf("Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	case *schemaOnly:
		log.Printf("Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	default:
		log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	ctx := context.Background()
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Schema goes through goose so seed and migrate agree on versions
	db, err := postgres.OpenSQL(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	migrator, err := postgres.NewMigrator(db, tables)
	if err != nil {
		log.Fatalf("Failed to prepare migrations: %v", err)
	}

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := migrator.DropAll(ctx); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	log.Println("Ensuring database schema is up to date...")
	if err := migrator.Up(ctx); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	log.Println("Clearing existing data...")
	if err := clearAll(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to clear data: %v", err)
	}
	if *clearData {
		log.Println("Data cleared successfully")
		return
	}

	fx, err := loadFixtures()
	if err != nil {
		log.Fatalf("Failed to load fixtures: %v", err)
	}

	// Create repositories and services; seeding goes through the same
	// validation as the API
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	userRepo := postgresDocsys.NewUserRepository(repoConfig)
	docRepo := postgresDocsys.NewDocumentRepository(repoConfig)
	folderRepo := postgresDocsys.NewFolderRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)
	validator := serviceDocsys.NewResourceValidator(userRepo, folderRepo)

	s := &seeder{
		users:     serviceDocsys.NewUserService(userRepo, logger),
		documents: serviceDocsys.NewDocumentService(docRepo, folderRepo, userRepo, validator, logger),
		folders:   serviceDocsys.NewFolderService(folderRepo, docRepo, txManager, validator, logger),
	}

	for _, u := range fx.Users {
		if err := s.seedUser(ctx, u); err != nil {
			log.Fatalf("Failed to seed %s: %v", u.Email, err)
		}
	}

	log.Println("Seeding complete!")
}

// seedUser creates the user, then each folder with its documents, then the
// unfiled documents
func (s *seeder) seedUser(ctx context.Context, u userFixture) error {
	user, err := s.users.CreateUser(ctx, &docsysSvc.CreateUserRequest{Email: u.Email, Name: u.Name})
	if err != nil {
		return err
	}
	log.Printf("Created user %s (ID: %d)", user.Email, user.ID)

	for _, f := range u.Folders {
		folder, err := s.folders.CreateFolder(ctx, &docsysSvc.CreateFolderRequest{UserID: user.ID, Name: f.Name})
		if err != nil {
			return err
		}
		log.Printf("  Created folder %s (ID: %d)", folder.Name, folder.ID)

		for _, d := range f.Documents {
			if err := s.seedDocument(ctx, user.ID, &folder.ID, d); err != nil {
				return err
			}
		}
	}

	for _, d := range u.Documents {
		if err := s.seedDocument(ctx, user.ID, nil, d); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) seedDocument(ctx context.Context, userID int64, folderID *int64, d documentFixture) error {
	doc, err := s.documents.CreateDocument(ctx, &docsysSvc.CreateDocumentRequest{
		UserID:   userID,
		Name:     d.Name,
		FileSize: d.Size,
		FolderID: folderID,
	})
	if err != nil {
		return err
	}
	log.Printf("    Created document %s (ID: %d, %s)", doc.Name, doc.ID, doc.FileSize)
	return nil
}

// clearAll deletes every row, children first to respect foreign keys
func clearAll(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	for _, table := range []string{tables.Documents, tables.Folders, tables.Users} {
		if _, err := pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
