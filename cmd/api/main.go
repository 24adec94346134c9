package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/haus-gg/haus-api/internal/config"
	"github.com/haus-gg/haus-api/internal/database"
	"github.com/haus-gg/haus-api/internal/handler"
	"github.com/haus-gg/haus-api/internal/middleware"
	"github.com/haus-gg/haus-api/internal/repository"
	"github.com/haus-gg/haus-api/internal/router"
	"github.com/haus-gg/haus-api/internal/service"
	"github.com/haus-gg/haus-api/pkg/avatars"
	"github.com/haus-gg/haus-api/pkg/producers"
	"github.com/haus-gg/haus-api/pkg/tokenissuer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	defer natsConn.Drain()

	var issuer service.TokenIssuer
	if cfg.ChainRPCURL != "" {
		chainClient, err := tokenissuer.NewClient(tokenissuer.Config{
			RPCURL:       cfg.ChainRPCURL,
			ContractHash: cfg.TokenContractHash,
			SignerWallet: cfg.ChainSignerWallet,
			Timeout:      cfg.ChainTimeout,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create token issuer client: %v", err)
		}
		issuer = chainClient
	} else {
		logger.Warn().Msg("no chain RPC configured, reward mints will stay pending")
	}

	var registry service.ProducerRegistry
	if cfg.ProducerRegistry != "" {
		registryClient, err := producers.NewClient(producers.Config{
			BaseURL: cfg.ProducerRegistry,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create producer registry client: %v", err)
		}
		registry = registryClient
	}

	var directory service.AvatarDirectory
	if cfg.AvatarDirectory != "" {
		directoryClient, err := avatars.NewClient(avatars.Config{
			BaseURL: cfg.AvatarDirectory,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create avatar directory client: %v", err)
		}
		directory = directoryClient
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	store := repository.NewStore(db)

	notificationService := service.NewNotificationService(store, redisClient, cfg.EventChannelBase, natsConn, logger)
	statsService := service.NewHouseStatsService(store, redisClient, cfg.StatsCacheTTL, logger)
	houseService := service.NewHouseService(store, registry, notificationService, validate, logger)
	membershipService := service.NewMembershipService(store, directory, notificationService, logger)
	proposalService := service.NewProposalService(store, notificationService, validate, logger)
	votingService := service.NewVotingService(store, notificationService, cfg.MinVotesRequired, logger)
	completionService := service.NewCompletionService(store, issuer, notificationService, statsService, cfg.RewardRate, logger)

	houseHandler := handler.NewHouseHandler(houseService, statsService, validate, logger)
	membershipHandler := handler.NewMembershipHandler(membershipService, logger)
	activityHandler := handler.NewActivityHandler(proposalService, votingService, completionService, validate, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger, 30*time.Second)

	serviceCtx, stopServices := context.WithCancel(context.Background())
	defer stopServices()
	notificationService.Start(serviceCtx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		HouseHandler:        houseHandler,
		MembershipHandler:   membershipHandler,
		ActivityHandler:     activityHandler,
		NotificationHandler: notificationHandler,
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
