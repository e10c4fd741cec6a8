package main

import (
	"context"
	"fmt"
	"log"

	_ "github.com/kalasetu/workshop-api/api/swagger"
	"github.com/kalasetu/workshop-api/internal/gateway"
	"github.com/kalasetu/workshop-api/internal/handler"
	"github.com/kalasetu/workshop-api/internal/mailer"
	"github.com/kalasetu/workshop-api/internal/repository"
	"github.com/kalasetu/workshop-api/internal/router"
	"github.com/kalasetu/workshop-api/internal/service"
	"github.com/kalasetu/workshop-api/migrations"
	"github.com/kalasetu/workshop-api/pkg/cache"
	"github.com/kalasetu/workshop-api/pkg/config"
	"github.com/kalasetu/workshop-api/pkg/database"
	"github.com/kalasetu/workshop-api/pkg/logger"
)

// @title Workshop Booking API
// @version 1.0.0
// @description Workshop catalog, booking and enrollment backend
// @BasePath /api
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	if err := database.Migrate(db, migrations.Files, logr); err != nil {
		logr.Sugar().Fatalw("migrations failed", "error", err)
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, catalog cache disabled", "error", err)
	}

	// Repositories.
	studentRepo := repository.NewStudentRepository(db)
	workshopRepo := repository.NewWorkshopRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	mentorRepo := repository.NewMentorRepository(db)
	cmsRepo := repository.NewCMSRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Gateway and mailer.
	var gw gateway.Client
	if cfg.Gateway.Sandbox {
		logr.Warn("payment gateway running in sandbox mode")
		gw = gateway.NewSandbox(cfg.Gateway.SandboxDelay)
	} else {
		gw = gateway.NewRESTClient(cfg.Gateway)
	}
	sender := mailer.NewSMTPSender(cfg.Mail)

	// Services.
	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, cfg.JWT, logr)
	studentSvc := service.NewStudentService(studentRepo, enrollmentRepo, logr)
	catalogSvc := service.NewCatalogService(workshopRepo, batchRepo, cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, batchRepo, studentRepo, workshopRepo, paymentRepo, cmsRepo, sender, metricsSvc, cfg.Effects, logr)
	paymentSvc := service.NewPaymentService(gw, studentRepo, workshopRepo, batchRepo, enrollmentSvc, cfg.Gateway.ReturnURL, logr)
	cmsSvc := service.NewCMSService(cmsRepo, mentorRepo, enrollmentRepo, logr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	enrollmentSvc.Start(ctx)
	defer enrollmentSvc.Stop()

	handlers := router.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Student:    handler.NewStudentHandler(studentSvc),
		Catalog:    handler.NewCatalogHandler(catalogSvc),
		Payment:    handler.NewPaymentHandler(paymentSvc),
		Enrollment: handler.NewEnrollmentHandler(enrollmentSvc),
		CMS:        handler.NewCMSHandler(cmsSvc),
		Metrics:    handler.NewMetricsHandler(metricsSvc, db),
	}

	r := router.New(cfg, logr, authSvc, metricsSvc, handlers)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "sandbox_gateway", cfg.Gateway.Sandbox)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
