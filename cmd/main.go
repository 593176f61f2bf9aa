package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lms-dashboard/config"
	httpDelivery "lms-dashboard/internal/delivery/http"
	"lms-dashboard/internal/repository"
	"lms-dashboard/internal/usecase"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}
	logger := cfg.Logger()
	slog.SetDefault(logger)
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to databases
	db, err := config.ConnectDB(ctx, cfg)
	if err != nil {
		slog.Error("connecting to databases", "error", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		db.Close(closeCtx)
	}()

	if err := config.AutoMigrate(db.PG); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// LMS backend client
	backend, err := repository.NewBackend(repository.BackendOptions{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Backend.Timeout,
		Retries: cfg.Backend.Retries,
		Strict:  cfg.Backend.StrictContract,
	})
	if err != nil {
		slog.Error("creating backend client", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	authRepo := repository.NewAuthRepository(backend)
	courseRepo := repository.NewCourseRepository(backend)
	enrollmentRepo := repository.NewEnrollmentRepository(backend)
	submissionRepo := repository.NewSubmissionRepository(backend)
	userRepo := repository.NewUserRepository(backend)
	logRepo := repository.NewLogRepository(backend)
	surveyRepo := repository.NewSurveyRepository(backend)
	certRepo := repository.NewCertificateRepository(backend)

	sessions := repository.NewSessionStore(db.Redis)
	catalogCache := repository.NewCatalogCache(db.Redis, cfg.Redis.CatalogCacheTTL)
	snapshotRepo := repository.NewRiskSnapshotRepository(db.PG)
	auditRepo := repository.NewAuditRepository(db.Mongo)
	exportRepo, err := repository.NewExportRepository(db.Mongo)
	if err != nil {
		slog.Error("opening export bucket", "error", err)
		os.Exit(1)
	}

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(authRepo, sessions, []byte(cfg.Auth.JWTSecret), cfg.Auth.SessionTTL)
	catalogUsecase := usecase.NewCatalogUsecase(courseRepo, catalogCache, cfg.PageSize)
	enrollmentUsecase := usecase.NewEnrollmentUsecase(enrollmentRepo, courseRepo, snapshotRepo, catalogCache, auditRepo, cfg.PageSize)
	submissionUsecase := usecase.NewSubmissionUsecase(submissionRepo, auditRepo, cfg.PageSize)
	userAdminUsecase := usecase.NewUserAdminUsecase(userRepo, exportRepo, auditRepo, cfg.PageSize)
	logUsecase := usecase.NewLogUsecase(logRepo, exportRepo, auditRepo, cfg.PageSize)
	surveyUsecase := usecase.NewSurveyUsecase(surveyRepo, cfg.PageSize)
	certUsecase := usecase.NewCertificateUsecase(certRepo)
	profileUsecase := usecase.NewProfileUsecase(authRepo, userRepo)
	dashboardUsecase := usecase.NewDashboardUsecase(profileUsecase, enrollmentUsecase, userRepo, courseRepo, submissionRepo)

	// Initialize handlers
	apiHandler := httpDelivery.NewHandler(
		authUsecase,
		catalogUsecase,
		enrollmentUsecase,
		submissionUsecase,
		userAdminUsecase,
		logUsecase,
		surveyUsecase,
		certUsecase,
		profileUsecase,
		dashboardUsecase,
	)
	if cfg.LogStreamInterval > 0 {
		apiHandler.StreamInterval = cfg.LogStreamInterval
	}
	fileHandler := httpDelivery.NewFileHandler(exportRepo, userAdminUsecase)
	healthHandler := httpDelivery.NewHealthHandler(map[string]httpDelivery.Check{
		"backend": backend.Ping,
		"redis": func(ctx context.Context) error {
			return db.Redis.Ping(ctx).Err()
		},
		"postgres": func(ctx context.Context) error {
			sqlDB, err := db.PG.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"mongo": func(ctx context.Context) error {
			return db.Mongo.Client().Ping(ctx, nil)
		},
	})

	router := httpDelivery.InitRouter(apiHandler, fileHandler, healthHandler, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server running", "port", cfg.Port, "api", "/api/v1", "backend", cfg.Backend.URL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
