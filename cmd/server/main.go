package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	_ "billdesk/docs"
	"billdesk/internal/config"
	"billdesk/internal/domain"
	"billdesk/internal/email/noop"
	"billdesk/internal/email/ses"
	"billdesk/internal/extraction"
	_ "billdesk/internal/extraction/claude"
	_ "billdesk/internal/extraction/gemini"
	_ "billdesk/internal/extraction/openai"
	"billdesk/internal/handler"
	"billdesk/internal/logger"
	"billdesk/internal/port"
	"billdesk/internal/repository/postgres"
	"billdesk/internal/router"
	"billdesk/internal/service"
	s3storage "billdesk/internal/storage/s3"
)

// @title Billdesk API
// @version 1.0
// @description Bill capture and management: image extraction, supplier and party records, bills and exports.
// @BasePath /api/v1
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name bill_session
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zlog, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zlog.Sync() }()
	zap.ReplaceGlobals(zlog)

	decimal.MarshalJSONWithoutQuotes = true

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	txm := postgres.NewTxManager(db, cfg.Tx)
	contactRepo := postgres.NewContactRepo(db)
	billRepo := postgres.NewBillRepo(db)
	userRepo := postgres.NewUserRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)
	statsRepo := postgres.NewStatsRepo(db)

	ctx := context.Background()

	// Initialize extraction provider
	extractor, err := extraction.NewExtractor(&cfg.Extraction)
	if err != nil {
		return fmt.Errorf("failed to initialize extraction provider: %w", err)
	}
	zlog.Info("extraction provider ready",
		zap.String("provider", cfg.Extraction.Provider),
		zap.Strings("registered", extraction.Providers()),
	)

	// Initialize storage
	var archive port.ScanArchive
	if cfg.Storage.Enabled {
		archive, err = s3storage.NewScanArchive(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 archive: %w", err)
		}
		zlog.Info("scan archiving enabled", zap.String("bucket", cfg.S3.Bucket))
	}

	// Initialize email
	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSender(ctx, &cfg.Email)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewSender(zlog, cfg.Email.FrontendURL)
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, sessionRepo, cfg.Session, zlog)
	userSvc := service.NewUserService(userRepo, sessionRepo, emailSender, zlog)
	contactSvc := service.NewContactService(txm, contactRepo, zlog)
	billSvc := service.NewBillService(txm, billRepo, contactRepo, zlog)
	extractionSvc := service.NewExtractionService(extractor, archive, &cfg.Extraction, zlog)
	dashboardSvc := service.NewDashboardService(statsRepo)

	// Initialize handlers
	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authSvc, userSvc, cfg.Session),
		User:      handler.NewUserHandler(userSvc),
		Bill:      handler.NewBillHandler(billSvc, contactSvc, extractionSvc, cfg.Extraction.MaxImageMB<<20),
		Supplier:  handler.NewContactHandler(domain.KindSupplier, contactSvc, billSvc),
		Party:     handler.NewContactHandler(domain.KindParty, contactSvc, billSvc),
		Dashboard: handler.NewDashboardHandler(dashboardSvc),
		Health:    handler.NewHealthHandler(db),
	}

	// Setup router
	r := router.Setup(cfg, zlog, authSvc, handlers)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("server starting", zap.String("addr", cfg.Server.Port), zap.String("environment", cfg.Server.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		zlog.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
