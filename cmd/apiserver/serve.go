package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/amoylab/casedesk/internal/apiserver/cache"
	"github.com/amoylab/casedesk/internal/apiserver/handler"
	"github.com/amoylab/casedesk/internal/apiserver/scheduler"
	"github.com/amoylab/casedesk/internal/apiserver/service"
	"github.com/amoylab/casedesk/internal/ratelimit"
	"github.com/amoylab/casedesk/internal/workflow"
	"github.com/amoylab/casedesk/pkg/helper"
	"github.com/amoylab/casedesk/pkg/metrics"
	"github.com/amoylab/casedesk/pkg/trace"
	"github.com/amoylab/casedesk/pkg/version"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server (default command)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func run(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, cfgPath, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := initLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting apiserver",
		zap.String("version", version.Get()),
		zap.String("config", cfgPath))

	if err := initRuntime(cfg); err != nil {
		return err
	}

	shutdownTracing, err := trace.InitTracing(ctx, &cfg.Tracing, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("failed to shutdown tracing", zap.Error(err))
		}
	}()

	db, err := initDatabase(logger, &cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	jwtService, err := initJWT(&cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to initialize jwt service: %w", err)
	}

	store, err := ratelimit.NewStore(logger, &cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("failed to initialize rate limit store: %w", err)
	}
	defer store.Close()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics)
	}

	var (
		tenantOpts []service.TenantOption
		jobOpts    []scheduler.Option
	)
	if cfg.Cache.Enabled {
		tenants, err := cache.NewTenants(ctx, &cfg.Cache, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize tenant cache: %w", err)
		}
		defer tenants.Close()
		tenantOpts = append(tenantOpts, service.WithTenantCache(tenants))
		jobOpts = append(jobOpts, scheduler.WithTenantInvalidator(tenants))
	}

	hasher := newHasher(&cfg.Security)
	engine := workflow.New(cfg.Workflow.StrictTransitions)

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := handler.NewRouter(&handler.Deps{
		Config: cfg,
		DB:     db,
		Services: handler.Services{
			Tenant:        service.NewTenant(db, hasher, logger, tenantOpts...),
			Auth:          service.NewAuth(db, jwtService, hasher, cfg.Security, m, logger),
			User:          service.NewUser(db, hasher, logger),
			Complaint:     service.NewComplaint(db, engine, m, logger),
			Investigation: service.NewInvestigation(db, engine, m, logger),
			Resource:      service.NewResource(db, logger),
		},
		Limiters: ratelimit.NewLimiters(store, &cfg.RateLimit),
		Metrics:  m,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	if cfg.Scheduler.Enabled {
		jobs := scheduler.New(cfg.Scheduler, db, m, logger, jobOpts...)
		if err := jobs.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := jobs.Stop(sctx); err != nil {
				logger.Warn("scheduler did not stop in time", zap.Error(err))
			}
		}()
	}

	pidFile := helper.GetPIDPath(cfg.Server.PID)
	if err := helper.WritePID(pidFile); err != nil {
		logger.Warn("failed to write PID file", zap.String("path", pidFile), zap.Error(err))
	} else {
		defer func() { _ = helper.RemovePID(pidFile) }()
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening",
			zap.String("addr", srv.Addr),
			zap.Bool("strict_transitions", engine.Strict()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down server")
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Error("failed to shutdown server", zap.Error(err))
		return err
	}
	logger.Info("Server stopped")
	return nil
}
