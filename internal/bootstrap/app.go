package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Yuzhifur/KnowledgeBaseQA/internal/chat"
	"github.com/Yuzhifur/KnowledgeBaseQA/internal/documents"
	"github.com/Yuzhifur/KnowledgeBaseQA/internal/extract"
	"github.com/Yuzhifur/KnowledgeBaseQA/internal/llm"
	"github.com/Yuzhifur/KnowledgeBaseQA/internal/llm/deepseek"
	"github.com/Yuzhifur/KnowledgeBaseQA/internal/retrieval"
	"github.com/Yuzhifur/KnowledgeBaseQA/internal/services/health"
	"github.com/Yuzhifur/KnowledgeBaseQA/internal/shared/config"
	"github.com/Yuzhifur/KnowledgeBaseQA/internal/shared/server"
	"github.com/Yuzhifur/KnowledgeBaseQA/internal/shared/storage/db"
	"github.com/Yuzhifur/KnowledgeBaseQA/internal/shared/storage/object"
	localstore "github.com/Yuzhifur/KnowledgeBaseQA/internal/shared/storage/object/local"
	s3store "github.com/Yuzhifur/KnowledgeBaseQA/internal/shared/storage/object/s3"
)

// App holds shared dependencies built from configuration.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Blob   object.BlobStore

	DocumentsRepo    documents.Repo
	DocumentsService *documents.Service
	Retriever        *retrieval.Retriever
	Agent            *chat.Agent
	HealthService    *health.Service

	DocumentsHandler *documents.Handler
	ChatHandler      *chat.Handler
}

// Build prepares all dependencies and the router. In dev-like environments a
// missing or unreachable database degrades to in-memory repositories so the
// API stays usable; elsewhere it is fatal.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	blob, err := buildBlobStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Blob:   blob,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		Health:           app.HealthService,
		DocumentsHandler: app.DocumentsHandler,
		ChatHandler:      app.ChatHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildBlobStore(ctx context.Context, cfg config.Config) (object.BlobStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, s3store.Options{
			Endpoint:      cfg.S3Endpoint,
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(app *App) {
	var docRepo documents.Repo
	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
	}

	extractor := &extract.Extractor{}
	if app.Config.OCREnabled {
		extractor.OCR = extract.Tesseract{}
	}

	docSvc := &documents.Service{
		Repo: docRepo,
		Storage: &documents.Storage{
			Blob:              app.Blob,
			AllowedExtensions: app.Config.AllowedExtensions,
		},
		Extractor: extractor,
	}

	llmClient := llm.Client(llm.PlaceholderClient{})
	if strings.TrimSpace(app.Config.DeepSeekAPIKey) != "" {
		client, err := deepseek.NewClient(app.Config.DeepSeekAPIKey, app.Config.DeepSeekBaseURL, app.Config.DeepSeekModel)
		if err != nil {
			log.Printf("bootstrap: deepseek client unavailable; answers disabled: %v", err)
		} else {
			llmClient = client
		}
	} else {
		log.Printf("bootstrap: DEEPSEEK_API_KEY empty; answers disabled")
	}

	retriever := &retrieval.Retriever{Repo: docRepo}
	agent := &chat.Agent{
		Retriever: retriever,
		Generator: &chat.Generator{LLM: llmClient},
	}

	app.DocumentsRepo = docRepo
	app.DocumentsService = docSvc
	app.Retriever = retriever
	app.Agent = agent
	app.HealthService = health.NewService(app.DB)
	app.DocumentsHandler = documents.NewHandler(docSvc, app.Config.MaxUploadSize)
	app.ChatHandler = chat.NewHandler(agent)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
