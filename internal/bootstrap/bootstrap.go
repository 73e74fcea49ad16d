package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"NovaStream/cache"
	"NovaStream/config"
	"NovaStream/core/agent"
	"NovaStream/core/app"
	"NovaStream/core/auth"
	"NovaStream/core/hub"
	"NovaStream/core/watcher"
	"NovaStream/db"
	"NovaStream/logger"
	"NovaStream/repository"
	"NovaStream/storage"

	"github.com/go-redis/redis/v8"
)

// InitLogging configures the global logger from cfg.
func InitLogging(cfg *config.Config) {
	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogFile,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	})
}

// OpenRepository opens the slot repository selected by STORE_BACKEND. The
// Redis client is returned too when the backend is redis, so callers can
// share it.
func OpenRepository(cfg *config.Config) (repository.SlotRepository, *redis.Client, error) {
	switch cfg.StoreBackend {
	case "memory":
		return repository.NewMemorySlotRepository(), nil, nil
	case "sqlite", "":
		sqlDB, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSQLiteSlotRepository(sqlDB), nil, nil
	case "redis":
		client, err := db.ConnectRedis(cfg)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisSlotRepository(client), client, nil
	case "mysql", "postgres":
		gdb, err := db.ConnectGormDB(cfg, cfg.StoreBackend)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewGormSlotRepository(gdb), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// OpenMedia opens the blob store selected by MEDIA_BACKEND.
func OpenMedia(ctx context.Context, cfg *config.Config) (storage.BlobStore, error) {
	switch cfg.MediaBackend {
	case "local", "":
		return storage.NewLocalStore(cfg.MediaDir)
	case "minio":
		return storage.NewMinioStore(ctx, MinioConfig(cfg))
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.MediaBackend)
	}
}

// MinioConfig extracts the MinIO settings.
func MinioConfig(cfg *config.Config) storage.MinioConfig {
	return storage.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		Region:    cfg.MinioRegion,
		UseSSL:    cfg.MinioUseSSL,
	}
}

// NewSuggester returns nil when no API key is set. With a positive
// SUGGEST_CACHE_TTL and a Redis client the suggester is wrapped in a cache.
func NewSuggester(cfg *config.Config, client *redis.Client) agent.Suggester {
	s := agent.NewOpenAISuggester(agent.SuggesterConfig{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.SuggestTimeout,
	})
	if s == nil {
		logger.Info("[Bootstrap] no OpenAI key, upload suggestions use the file name")
		return nil
	}
	if cfg.SuggestTTL > 0 && client != nil {
		return cache.NewSuggestionCache(client, s, cfg.StoreKeyPrefix, cfg.SuggestTTL)
	}
	return s
}

// ErrNoSession is returned by the drop-folder handler while nobody is signed
// in, so the file stays queued until someone is.
var ErrNoSession = errors.New("nobody is signed in")

// Runtime is a fully wired application.
type Runtime struct {
	App    *app.App
	Hub    *hub.Hub
	Tokens *auth.TokenIssuer

	repo    repository.SlotRepository
	closers []func() error
}

// Start wires repository, media, suggester and hub, then loads the state.
func Start(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	repo, redisClient, err := OpenRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.StoreBackend, err)
	}
	rt := &Runtime{repo: repo, closers: []func() error{repo.Close}}

	// 建议缓存需要 Redis，存储后端不是 redis 时单独连接
	if redisClient == nil && cfg.SuggestTTL > 0 && cfg.OpenAIAPIKey != "" {
		if redisClient, err = db.ConnectRedis(cfg); err != nil {
			logger.Warn("[Bootstrap] suggestion cache disabled", logger.ErrorField(err))
			redisClient = nil
		} else {
			rt.closers = append(rt.closers, redisClient.Close)
		}
	}

	media, err := OpenMedia(ctx, cfg)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to open %s media store: %w", cfg.MediaBackend, err)
	}

	rt.Hub = hub.New()
	rt.Tokens = auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	rt.App, err = app.New(ctx, app.Options{
		Repo:          repo,
		KeyPrefix:     cfg.StoreKeyPrefix,
		Authenticator: auth.StubAuthenticator{},
		Suggester:     NewSuggester(cfg, redisClient),
		Media:         media,
		Hub:           rt.Hub,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}

	logger.Info("[Bootstrap] runtime ready",
		logger.String("store", cfg.StoreBackend),
		logger.String("media", cfg.MediaBackend))
	return rt, nil
}

// Close releases everything Start opened, in reverse order.
func (r *Runtime) Close() {
	if r.Hub != nil {
		r.Hub.Stop()
	}
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			logger.Warn("[Bootstrap] close failed", logger.ErrorField(err))
		}
	}
}

// NewWatcher returns a drop-folder watcher that imports into r.App, the same
// App the HTTP API mutates.
func (r *Runtime) NewWatcher(dir string, settle time.Duration) *watcher.Watcher {
	return watcher.New(dir, settle, func(ctx context.Context, path string) error {
		video, err := r.App.ImportFile(ctx, path)
		if err != nil {
			return err
		}
		if video == nil {
			return ErrNoSession
		}
		return nil
	})
}
