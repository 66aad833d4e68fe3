package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/hr-records-service/internal/api/http"
	"github.com/spec-kit/hr-records-service/internal/api/http/handlers"
	"github.com/spec-kit/hr-records-service/internal/auth"
	"github.com/spec-kit/hr-records-service/internal/config"
	"github.com/spec-kit/hr-records-service/internal/observability"
	"github.com/spec-kit/hr-records-service/internal/persistence"
	"github.com/spec-kit/hr-records-service/internal/repository"
	"github.com/spec-kit/hr-records-service/internal/service"
	"github.com/spec-kit/hr-records-service/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var revocations auth.RevocationStore
	if redis.Client != nil {
		revocations = auth.NewRedisRevocationStore(redis.Client)
	} else {
		revocations = auth.NewMemoryRevocationStore()
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	tagRepo := repository.NewTagRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	employeeRepo := repository.NewEmployeeRepository(pool)

	imageStore := storage.NewImageStore(cfg.Storage.MediaRoot)

	accountService := service.NewAccountService(*cfg, service.AccountDependencies{
		UserRepo:        userRepo,
		RevocationStore: revocations,
	})
	catalogService := service.NewCatalogService(service.CatalogDependencies{
		TagRepo:        tagRepo,
		DepartmentRepo: departmentRepo,
	})
	employeeService := service.NewEmployeeService(service.EmployeeDependencies{
		EmployeeRepo:   employeeRepo,
		TagRepo:        tagRepo,
		DepartmentRepo: departmentRepo,
		ImageStore:     imageStore,
	})

	seedSuperuser(ctx, cfg.Admin, accountService, userRepo, logger)

	authMiddleware := auth.NewAuthMiddleware(accountService.TokenManager(), userRepo, revocations)

	app := fiber.New(fiber.Config{BodyLimit: 10 * 1024 * 1024})
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(accountService),
		Tags:           handlers.NewTagsHandler(catalogService),
		Departments:    handlers.NewDepartmentsHandler(catalogService),
		Employees:      handlers.NewEmployeesHandler(employeeService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// seedSuperuser bootstraps an administrative account from the environment.
// Skipped when unset or when the email is already registered.
func seedSuperuser(ctx context.Context, admin config.AdminConfig, accounts *service.AccountService, users repository.UserRepository, logger *zap.Logger) {
	if admin.Email == "" || admin.Password == "" {
		return
	}
	if _, err := users.GetByEmail(ctx, admin.Email); err == nil {
		return
	}
	if _, err := accounts.CreateSuperuser(ctx, admin.Email, admin.Password); err != nil {
		logger.Warn("failed to seed superuser", zap.Error(err))
		return
	}
	logger.Info("seeded superuser", zap.String("email", admin.Email))
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
