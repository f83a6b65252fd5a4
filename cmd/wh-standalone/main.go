package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	apicontract "github.com/tuanvumaihuynh/warehouse/api-contract"
	"github.com/tuanvumaihuynh/warehouse/internal/alert"
	"github.com/tuanvumaihuynh/warehouse/internal/audit"
	"github.com/tuanvumaihuynh/warehouse/internal/auth"
	"github.com/tuanvumaihuynh/warehouse/internal/config"
	"github.com/tuanvumaihuynh/warehouse/internal/digest"
	"github.com/tuanvumaihuynh/warehouse/internal/event"
	"github.com/tuanvumaihuynh/warehouse/internal/http"
	"github.com/tuanvumaihuynh/warehouse/internal/log"
	"github.com/tuanvumaihuynh/warehouse/internal/model"
	"github.com/tuanvumaihuynh/warehouse/internal/notify"
	"github.com/tuanvumaihuynh/warehouse/internal/repository"
	"github.com/tuanvumaihuynh/warehouse/internal/service"
	"github.com/tuanvumaihuynh/warehouse/internal/sku"
	"github.com/tuanvumaihuynh/warehouse/internal/storage/db"
	"github.com/tuanvumaihuynh/warehouse/internal/storage/mq"
	"github.com/tuanvumaihuynh/warehouse/internal/telemetry"
	"github.com/tuanvumaihuynh/warehouse/pkg/cmdutil"
	"github.com/tuanvumaihuynh/warehouse/pkg/validator"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running standalone application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
		HTTP     config.HTTP
		Auth     config.Auth
		Event    config.Event
		Alert    config.Alert
		Mail     config.Mail
		Digest   config.Digest
		Otel     config.Otel
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	recipientRole := model.Role(cfg.Alert.RecipientRole)
	if err := recipientRole.Validate(); err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	if _, err := apicontract.Load(ctx); err != nil {
		return fmt.Errorf("error loading api contract: %w", err)
	}

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)

	v, err := validator.NewDefaultValidator()
	if err != nil {
		return fmt.Errorf("error creating validator: %w", err)
	}

	var gateway notify.Gateway = notify.NewLogGateway(logger)
	if cfg.Mail.Enabled {
		gateway = notify.NewMailGateway(logger, cfg.Mail)
	}

	queue := mq.NewChannelQueue(cfg.Event, logger)
	auditPublisher := event.NewPublisher(logger, queue)

	itemRepository := repository.NewItemRepository(dbClient)
	categoryRepository := repository.NewCategoryRepository(dbClient)
	stockAlertRepository := repository.NewStockAlertRepository(dbClient)
	auditEntryRepository := repository.NewAuditEntryRepository(dbClient)
	userRepository := repository.NewUserRepository(dbClient)

	tokenManager := auth.NewTokenManager(cfg.Auth)
	authService := auth.NewService(logger, dbClient, userRepository, tokenManager, auditPublisher)
	auditTrail := audit.NewTrail(logger, auditEntryRepository)
	alertEngine := alert.NewEngine(logger, authService, gateway, stockAlertRepository, recipientRole)

	inventoryService := service.NewInventoryService(
		logger,
		dbClient,
		itemRepository,
		categoryRepository,
		stockAlertRepository,
		sku.NewGenerator(),
		alertEngine,
		auditPublisher,
	)
	categoryService := service.NewCategoryService(logger, categoryRepository, auditPublisher)

	interruptChan := cmdutil.InterruptChan()
	// Closed once the HTTP server stops, so in-flight requests can still
	// publish audit events before the queue drains.
	httpStoppedChan := make(chan struct{})
	var wg sync.WaitGroup

	wg.Go(func() {
		svc := event.New(logger, queue, auditTrail)
		cleanup, err := svc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running event service: %w", err))
		}
		logger.InfoContext(ctx, "event service started")

		<-interruptChan
		<-httpStoppedChan

		logger.InfoContext(ctx, "event service is shutting down")
		cleanup()

		logger.InfoContext(ctx, "event service is stopped")
	})

	wg.Go(func() {
		defer close(httpStoppedChan)

		svc := http.New(
			cfg.HTTP,
			logger,
			v,
			inventoryService,
			categoryService,
			authService,
			auditTrail,
			tokenManager,
			dbClient,
		)
		cleanup, err := svc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running http service: %w", err))
		}

		logger.InfoContext(ctx, "http service started", slog.String("address", fmt.Sprintf(":%d", cfg.HTTP.Port)))

		<-interruptChan

		logger.InfoContext(ctx, "http service is shutting down")
		if err := cleanup(ctx); err != nil {
			logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
		}

		logger.InfoContext(ctx, "http service is stopped")
	})

	if cfg.Digest.Enabled {
		wg.Go(func() {
			svc := digest.NewService(cfg.Digest, logger, itemRepository, authService, gateway, recipientRole)
			cleanup, err := svc.Run(ctx)
			if err != nil {
				panic(fmt.Errorf("error running digest service: %w", err))
			}
			logger.InfoContext(ctx, "digest service started", slog.String("schedule", cfg.Digest.Schedule))

			<-interruptChan

			logger.InfoContext(ctx, "digest service is shutting down")
			cleanup()

			logger.InfoContext(ctx, "digest service is stopped")
		})
	}

	wg.Wait()

	return nil
}
