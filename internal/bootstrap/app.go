package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"exitlayer/internal/admin"
	"exitlayer/internal/notify"
	"exitlayer/internal/services/health"
	"exitlayer/internal/sessions"
	"exitlayer/internal/shared/auth"
	"exitlayer/internal/shared/config"
	"exitlayer/internal/shared/ratelimit"
	"exitlayer/internal/shared/server"
	"exitlayer/internal/shared/storage/db"
	"exitlayer/internal/shared/storage/object"
	localstore "exitlayer/internal/shared/storage/object/local"
	s3store "exitlayer/internal/shared/storage/object/s3"
	"exitlayer/internal/shared/telemetry"
	"exitlayer/internal/submissions"
	"exitlayer/internal/uploads"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Redis  *redis.Client

	SessionsRepo       sessions.Repo
	SessionsService    *sessions.Service
	SubmissionsService *submissions.Service
	Autosaver          *sessions.Autosaver
	Notifier           notify.Notifier
	Signer             *auth.Signer
}

// Build prepares shared dependencies and wires routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	redisClient, limiterStore, err := buildRateLimitStore(cfg)
	if err != nil {
		return nil, err
	}
	notifier, err := buildNotifier(ctx, cfg)
	if err != nil {
		return nil, err
	}
	signer, err := auth.NewSigner(cfg.AdminJWTSecret, cfg.Env)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		Store:    store,
		Redis:    redisClient,
		Notifier: notifier,
		Signer:   signer,
	}
	if app.DB != nil {
		app.SessionsRepo = &sessions.PGRepo{DB: app.DB}
	} else {
		app.SessionsRepo = sessions.NewMemoryRepo()
	}

	app.SessionsService = sessions.NewService(app.SessionsRepo)
	app.Autosaver = sessions.NewAutosaver(app.SessionsService, sessions.DefaultAutosaveDelay)

	app.SubmissionsService = submissions.NewService(app.SessionsService)
	app.SubmissionsService.Weights = cfg.Weights()
	app.SubmissionsService.Artifacts = &submissions.ArtifactWriter{Store: store}
	app.SubmissionsService.Notifier = notifier

	checks := map[string]health.Pinger{}
	if app.DB != nil {
		checks["database"] = app.DB
	}
	if app.Redis != nil {
		client := app.Redis
		checks["redis"] = health.PingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         cfg,
		Health:         health.NewService(checks),
		Sessions:       sessions.NewHandler(app.SessionsService, app.Autosaver),
		Submissions:    submissions.NewHandler(app.SubmissionsService, app.Autosaver),
		Uploads:        uploads.NewHandler(app.SessionsService, store),
		Admin:          admin.NewHandler(app.SessionsService),
		Signer:         signer,
		RateLimitStore: limiterStore,
	})

	return app, nil
}

// Close flushes pending drafts, waits for submission follow-ups and releases connections.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Autosaver != nil {
		if err := a.Autosaver.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush autosaves: %w", err))
		}
	}
	if a.SubmissionsService != nil {
		if err := a.SubmissionsService.Wait(ctx); err != nil {
			errs = append(errs, fmt.Errorf("wait for follow-ups: %w", err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.ServerOptions().WithConfig(cfg))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "database connect failed", "err": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildRateLimitStore(cfg config.Config) (*redis.Client, ratelimit.Store, error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return nil, ratelimit.NewMemoryStore(nil), nil
	}
	client, err := ratelimit.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return client, ratelimit.NewRedisStore(client, nil), nil
}

func buildNotifier(ctx context.Context, cfg config.Config) (notify.Notifier, error) {
	topic := strings.TrimSpace(cfg.NotifySNSTopicARN)
	from := strings.TrimSpace(cfg.NotifySESFrom)
	if topic == "" && from == "" {
		return notify.Nop{}, nil
	}

	var opts []func(*awsconfig.LoadOptions) error
	if region := strings.TrimSpace(cfg.AWSRegion); region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	var multi notify.Multi
	if topic != "" {
		multi = append(multi, notify.NewSNSNotifier(awsCfg, topic))
	}
	if from != "" {
		if len(cfg.NotifySESTo) == 0 {
			return nil, fmt.Errorf("NOTIFY_SES_FROM requires NOTIFY_SES_TO")
		}
		multi = append(multi, notify.NewSESNotifier(awsCfg, from, cfg.NotifySESTo))
	}
	return multi, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
