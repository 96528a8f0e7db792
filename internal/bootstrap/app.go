package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/history"
	"resume-builder/internal/llm"
	"resume-builder/internal/llm/gemini"
	"resume-builder/internal/llm/openai"
	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/server"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/shared/storage/object"
	localstore "resume-builder/internal/shared/storage/object/local"
	s3store "resume-builder/internal/shared/storage/object/s3"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/suggestions"
	"resume-builder/internal/transform"
	"resume-builder/internal/usage"
	"resume-builder/internal/users"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config             config.Config
	Router             *gin.Engine
	DB                 *sql.DB
	Store              object.Store
	LLM                llm.Client
	Signer             *auth.Signer
	UsersService       *users.Service
	HistoryService     *history.Service
	UsageService       *usage.Service
	SuggestionsService *suggestions.Service
	TransformService   *transform.Service

	closers []func() error
}

// Build prepares dependencies and routes. Without DATABASE_URL in a
// dev-like environment every repository is in memory.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	signer, err := auth.NewSigner(cfg.JWTSecret, cfg.JWTTTL, cfg.Env)
	if err != nil {
		return nil, err
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB, Store: store, Signer: signer}
	if sqlDB != nil {
		app.closers = append(app.closers, sqlDB.Close)
	}

	client, closer, err := buildLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		app.closers = append(app.closers, closer)
	}
	app.LLM = llm.WithRetry(client)

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             cfg,
		Verifier:           signer,
		UserChecker:        app.UsersService,
		RateLimiter:        middleware.NewRateLimiter(nil),
		UsersHandler:       users.NewHandler(app.UsersService, signer),
		HistoryHandler:     history.NewHandler(app.HistoryService),
		SuggestionsHandler: suggestions.NewHandler(app.SuggestionsService),
		TransformHandler:   transform.NewHandler(app.TransformService, cfg.MaxUploadBytes),
	})
	return app, nil
}

// Close releases the database pool and LLM client.
func (a *App) Close() error {
	var firstErr error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
	}
	if err != nil {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "database unavailable", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildLLM returns the configured provider and an optional closer.
func buildLLM(ctx context.Context, cfg config.Config) (llm.Client, func() error, error) {
	switch cfg.LLMProvider {
	case "none":
		return llm.PlaceholderClient{}, nil, nil
	case "gemini":
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" && config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.llm_disabled", map[string]any{"provider": "gemini"})
			return llm.PlaceholderClient{}, nil, nil
		}
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	default:
		if strings.TrimSpace(cfg.OpenAIAPIKey) == "" && config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.llm_disabled", map[string]any{"provider": "openai"})
			return llm.PlaceholderClient{}, nil, nil
		}
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, openai.WithRequestTimeout(cfg.LLMTimeout))
		if err != nil {
			return nil, nil, err
		}
		return client, nil, nil
	}
}

func buildServices(app *App) {
	var (
		userRepo    users.Repo
		historyRepo history.Repo
		usageStore  usage.Store
	)
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		historyRepo = history.NewPGRepo(app.DB)
		usageStore = usage.NewPGStore(app.DB)
	} else {
		userRepo = users.NewMemoryRepo()
		historyRepo = history.NewMemoryRepo(time.Now)
		usageStore = usage.NewMemoryStore(time.Now)
	}

	cfg := app.Config
	policy := usage.Policy{
		usage.FeatureTransform:     {Cap: cfg.TransformUsageLimit},
		usage.FeatureAISuggestions: {Cap: cfg.AISuggestionUsageLimit, Window: cfg.AISuggestionWindow},
	}

	app.UsersService = users.NewService(userRepo, auth.NewHasher(cfg.BcryptCost))
	app.HistoryService = history.NewService(historyRepo)
	app.UsageService = usage.NewService(usageStore, policy)
	app.SuggestionsService = suggestions.NewService(app.UsageService, app.LLM, cfg.LLMTimeout)
	app.TransformService = transform.NewService(app.UsageService, app.LLM, app.Store, cfg.LLMTimeout)
}
