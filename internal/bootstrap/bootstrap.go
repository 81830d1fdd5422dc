package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/internlink/internlink/internal/app/controllers"
	appMigrations "github.com/internlink/internlink/internal/app/migrations"
	appRepos "github.com/internlink/internlink/internal/app/repositories"
	appRoutes "github.com/internlink/internlink/internal/app/routes"
	appServices "github.com/internlink/internlink/internal/app/services"
	"github.com/internlink/internlink/internal/config"
	"github.com/internlink/internlink/internal/db"
	appMiddleware "github.com/internlink/internlink/internal/middleware"
	pkgAuth "github.com/internlink/internlink/internal/pkg/auth"
	"github.com/internlink/internlink/internal/pkg/filestorage"
	"github.com/internlink/internlink/internal/pkg/logger"
	"github.com/internlink/internlink/internal/pkg/session"
	"github.com/internlink/internlink/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	SessionStore   *session.Store
	FileStorage    *filestorage.LocalStorage
	Metrics        *prometheus.Registry
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	if p := os.Getenv("INTERNLINK_CONFIG"); p != "" {
		configPath = p
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds defaults.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}
	if err := appMigrations.NewMigrator(database.Pool).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Seed.Enabled {
		admin := seed.AdminAccount{
			Username: cfg.Seed.AdminUsername,
			Password: cfg.Seed.AdminPassword,
			Email:    cfg.Seed.AdminEmail,
		}
		users := appRepos.NewRepositories(database.Pool).UserRepository
		if err := seed.CreateDefaultData(ctx, users, pkgAuth.BcryptHasher{}, admin, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return database, nil
}

// SetupRedis connects to Redis when enabled. A nil client disables session
// revocation and login throttling.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		lgr.Info().Msg("Redis disabled; session revocation and login throttling are off")
		return nil
	}

	client, err := session.NewRedisClient(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable; continuing without it")
		return nil
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established")
	return client
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, rdb *redis.Client, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.SessionConfig{
		SecretKey:   cfg.Session.Secret,
		TTL:         cfg.SessionTTL(),
		TokenIssuer: cfg.Session.Issuer,
	})
	deps.SessionStore = session.NewStore(rdb, cfg.Session.MaxLoginAttempts, cfg.LoginWindow())

	deps.Services = appServices.NewServices(appServices.Dependencies{
		Repos:        deps.Repos,
		Tx:           database,
		Storage:      deps.FileStorage,
		Hasher:       pkgAuth.BcryptHasher{},
		JWT:          deps.JWTService,
		SessionStore: deps.SessionStore,
	})

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.Services.AuthService, cfg.Session.CookieName)

	deps.Controllers = appRoutes.Controllers{
		Auth: appControllers.NewAuthController(deps.Services.AuthService, appControllers.CookieSettings{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
		}, lgr),
		Profile:  appControllers.NewProfileController(deps.Services.ProfileService),
		Student:  appControllers.NewStudentController(deps.Services.StudentService),
		Employer: appControllers.NewEmployerController(deps.Services.EmployerService),
		Admin:    appControllers.NewAdminController(deps.Services.AdminService),
	}

	deps.Metrics = prometheus.NewRegistry()
	deps.Metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.MaxMultipartMemory = int64(cfg.Server.MaxUploadMB) << 20
	router.Use(
		appMiddleware.Recovery(),
		appMiddleware.RequestLogger(),
		appMiddleware.NewMetrics(deps.Metrics).Handler(),
		appMiddleware.CORS(cfg.Origins()),
		appMiddleware.BodyLimit(int64(cfg.Server.MaxUploadMB+1)<<20),
		deps.AuthMiddleware.LoadSession(),
	)

	router.Static("/"+filestorage.PublicPrefix, deps.FileStorage.BasePath())
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{})))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
