// Package container provides dependency injection using Uber FX.
package container

import (
	"context"

	"github.com/photodish/v1/internal/application/persist"
	"github.com/photodish/v1/internal/application/session"
	"github.com/photodish/v1/internal/infrastructure/ai"
	"github.com/photodish/v1/internal/infrastructure/auth"
	"github.com/photodish/v1/internal/infrastructure/config"
	"github.com/photodish/v1/internal/infrastructure/http/server"
	"github.com/photodish/v1/internal/infrastructure/monitoring"
	gormRepo "github.com/photodish/v1/internal/infrastructure/persistence/gorm"
	"github.com/photodish/v1/internal/infrastructure/persistence/memory"
	redisStore "github.com/photodish/v1/internal/infrastructure/persistence/redis"
	"github.com/photodish/v1/internal/infrastructure/storage"
	"github.com/photodish/v1/internal/infrastructure/storage/s3"
	"github.com/photodish/v1/internal/ports/outbound"
	"github.com/photodish/v1/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module provides all dependency injection modules.
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	SessionStoreModule,
	GatewayModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration.
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging.
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule provides the database connection and repositories.
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		db, err := gormRepo.Open(cfg)
		if err != nil {
			return nil, err
		}
		log.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
		return db, nil
	},
	gormRepo.NewRecipeRepository,
)

// SessionStoreModule provides the session store: Redis when configured,
// otherwise in-memory.
var SessionStoreModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (outbound.SessionStore, error) {
		if cfg.RedisConfigured() {
			store, err := redisStore.NewSessionStore(context.Background(), cfg.Redis)
			if err != nil {
				return nil, err
			}
			log.Info("Using Redis session store", zap.String("host", cfg.Redis.Host))
			return store, nil
		}
		log.Info("Using in-memory session store")
		return memory.NewSessionStore(), nil
	},
)

// GatewayModule provides the outbound gateways: AI transforms, object
// storage, and token verification. Each degrades to an explicit
// unconfigured form instead of failing startup.
var GatewayModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger, metrics *monitoring.Metrics) outbound.TransformGateway {
		if !cfg.AIConfigured() {
			log.Warn("AI transforms not configured, endpoints will report unavailable")
			return ai.NewUnavailableGateway()
		}
		return monitoring.NewInstrumentedGateway(ai.NewTransformGateway(cfg.AI, log), metrics)
	},
	func(cfg *config.Config, log *zap.Logger) (outbound.StorageService, error) {
		if !cfg.StorageConfigured() {
			log.Warn("photo storage not configured, saving will report unavailable")
			return storage.NewUnconfigured(), nil
		}
		svc, err := s3.NewStorageService(cfg.Storage, log)
		if err != nil {
			return nil, err
		}
		return svc, nil
	},
	func(cfg *config.Config, log *zap.Logger) *auth.Verifier {
		if !cfg.AuthConfigured() {
			log.Warn("sign-in not configured, authenticated endpoints will reject tokens")
		}
		return auth.NewVerifier(cfg.Auth)
	},
	monitoring.NewMetrics,
)

// ServiceModule provides application services.
var ServiceModule = fx.Provide(
	func(repo outbound.RecipeRepository, store outbound.StorageService, log *zap.Logger) *persist.Gateway {
		return persist.NewGateway(repo, store, log)
	},
	func(
		store outbound.SessionStore,
		gateway outbound.TransformGateway,
		persister *persist.Gateway,
		cfg *config.Config,
		log *zap.Logger,
	) *session.Service {
		return session.NewService(store, gateway, persister, cfg.Session.TTL, log)
	},
)

// HTTPModule provides the HTTP server.
var HTTPModule = fx.Provide(
	server.New,
)

// LifecycleModule registers lifecycle hooks.
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks starts and stops the application pieces.
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	srv *server.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting PhotoDish",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			go func() {
				if err := srv.Start(); err != nil {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down PhotoDish")

			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			sqlDB, err := db.DB()
			if err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("Failed to close database connection", zap.Error(err))
				}
			}

			_ = log.Sync()

			return nil
		},
	})
}
