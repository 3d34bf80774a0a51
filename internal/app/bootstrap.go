// Package app is the composition root: manual dependency wiring, router
// assembly and lifecycle management.
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/riverqueue/river"
	"go.uber.org/zap"

	"jalsetu.io/jalsetu/internal/api/handlers"
	"jalsetu.io/jalsetu/internal/api/middleware"
	"jalsetu.io/jalsetu/internal/config"
	"jalsetu.io/jalsetu/internal/infrastructure"
	"jalsetu.io/jalsetu/internal/jobs"
	"jalsetu.io/jalsetu/internal/notification"
	"jalsetu.io/jalsetu/internal/pkg/logger"
	"jalsetu.io/jalsetu/internal/pkg/worker"
	"jalsetu.io/jalsetu/internal/service"
	"jalsetu.io/jalsetu/internal/usecase"
)

// Application holds composed application dependencies.
type Application struct {
	Config *config.Config
	Router *gin.Engine
	DB     *infrastructure.DatabaseClients
	Pools  *worker.Pools
}

// Bootstrap initializes all dependencies with manual DI.
func Bootstrap(ctx context.Context, cfg *config.Config) (*Application, error) {
	db, err := infrastructure.NewDatabaseClients(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("auto-migrate: %w", err)
		}
	}

	pools, err := worker.NewPools(ctx, worker.PoolConfig{
		GeneralPoolSize: cfg.Worker.GeneralPoolSize,
		MailPoolSize:    cfg.Worker.MailPoolSize,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init worker pools: %w", err)
	}

	sender := notification.NewSenderFromConfig(cfg.Mail)

	if cfg.River.Enabled {
		workers := river.NewWorkers()
		river.AddWorker(workers, jobs.NewEmailSendWorker(sender))
		if err := db.InitRiverClient(workers, cfg.River); err != nil {
			pools.Shutdown()
			db.Close()
			return nil, fmt.Errorf("init river: %w", err)
		}
	} else {
		logger.Warn("river disabled; mail will be sent without retries")
	}

	notifier := notification.NewTriggers(db.Gorm, sender, pools, db.RiverClient)

	jwtCfg := middleware.JWTConfig{
		SigningKey: []byte(cfg.Security.JWTSecret),
		Issuer:     cfg.Security.JWTIssuer,
		ExpiresIn:  cfg.Security.JWTExpiry,
	}

	server := handlers.NewServer(handlers.ServerDeps{
		DB:           db.Gorm,
		JWTCfg:       jwtCfg,
		Pools:        pools,
		Locations:    service.NewLocationService(db.Gorm),
		Applications: usecase.NewApplicationUseCase(db.Gorm, notifier),
		Assessments:  usecase.NewAssessmentUseCase(db.Gorm),
		Payments:     usecase.NewPaymentUseCase(db.Gorm, notifier, cfg.Payment.ProviderSecret),
		Summaries:    usecase.NewSummaryUseCase(db.Gorm),
		Dashboards:   usecase.NewDashboardUseCase(db.Gorm),
	})

	return &Application{
		Config: cfg,
		Router: NewRouter(cfg, server, jwtCfg),
		DB:     db,
		Pools:  pools,
	}, nil
}

// Start starts background services (River workers).
func (a *Application) Start(ctx context.Context) error {
	if a.DB != nil && a.DB.RiverClient != nil {
		if err := a.DB.RiverClient.Start(ctx); err != nil {
			return fmt.Errorf("start river client: %w", err)
		}
		logger.Info("River client started, mail jobs will now be consumed")
	}
	return nil
}

// Shutdown gracefully shuts down all application components.
func (a *Application) Shutdown() {
	shutdownCtx := context.Background()

	if a.DB != nil && a.DB.RiverClient != nil {
		if err := a.DB.RiverClient.Stop(shutdownCtx); err != nil {
			logger.Error("failed to stop river client", zap.Error(err))
		}
	}
	if a.Pools != nil {
		a.Pools.Shutdown()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
