package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/laurealim/acr-backend/config"
	"github.com/laurealim/acr-backend/internal/api/handler"
	"github.com/laurealim/acr-backend/internal/api/router"
	"github.com/laurealim/acr-backend/internal/repository"
	"github.com/laurealim/acr-backend/internal/service"
	"github.com/laurealim/acr-backend/pkg/clock"
	"github.com/laurealim/acr-backend/pkg/database"
	"github.com/laurealim/acr-backend/pkg/jwt"
	"github.com/laurealim/acr-backend/pkg/logger"
	"github.com/laurealim/acr-backend/pkg/redis"
	"github.com/laurealim/acr-backend/pkg/render"
	"github.com/laurealim/acr-backend/pkg/storage"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("服务启动失败", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	// ── 基础设施 ──
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, log)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := database.RunMigrations(sqlDB, log); err != nil {
		return err
	}

	rdb, err := redis.NewClient(&cfg.Redis, log)
	if err != nil {
		return err
	}
	defer rdb.Close()

	store, err := storage.NewLocalStore(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		return err
	}
	renderer, err := render.NewHTMLRenderer()
	if err != nil {
		return err
	}

	jwtMgr := jwt.NewManager(&cfg.Auth)
	clk := clock.System()

	// ── 业务装配 ──
	repo := repository.NewRepository(db)
	pdfSvc := service.NewPdfService(repo, store, renderer, clk, log)
	workflowSvc := service.NewWorkflowService(repo, pdfSvc, clk, log)
	acrSvc := service.NewACRService(repo, clk, log)
	authSvc := service.NewAuthService(repo, jwtMgr, rdb, log)
	exportSvc := service.NewExportService(repo, clk, log)

	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(authSvc, log),
		ACR:      handler.NewACRHandler(acrSvc, log),
		Workflow: handler.NewWorkflowHandler(workflowSvc, log),
		Pdf:      handler.NewPdfHandler(pdfSvc, log),
		Export:   handler.NewExportHandler(exportSvc, log),
	}

	engine := router.Setup(cfg, handlers, jwtMgr, rdb, log)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: engine,
	}

	// ── 启动与优雅关停 ──
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP 服务已启动", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("收到退出信号，开始关停", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("关停 HTTP 服务失败: %w", err)
	}
	log.Info("服务已退出")
	return nil
}
