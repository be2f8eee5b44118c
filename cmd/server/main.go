package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"cinedex-backend-go/internal/api"
	"cinedex-backend-go/internal/config"
	"cinedex-backend-go/internal/core"
	"cinedex-backend-go/internal/db"
	"cinedex-backend-go/internal/events"
	"cinedex-backend-go/internal/identity"
	"cinedex-backend-go/internal/middleware"
	"cinedex-backend-go/internal/session"
	"cinedex-backend-go/internal/tmdb"
	"cinedex-backend-go/pkg/cache"
	"cinedex-backend-go/pkg/mailer"
	"cinedex-backend-go/pkg/messagequeue"
)

func main() {
	// Load .env file. In production, environment variables should be set directly.
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: Error loading .env file:", err)
		}
	}

	// --- 1. Initialize Logger (Zap) ---
	var (
		zapLogger *zap.Logger
		err       error
	)
	if strings.ToLower(os.Getenv("GIN_MODE")) == "release" {
		zapLogger, err = zap.NewProduction()
	} else {
		zapLogger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// --- 2. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded successfully.")

	// --- 3. Initialize Firebase Admin SDK (Firestore and Auth) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	clients, err := db.InitFirebase(initCtx, appConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	defer clients.Close()

	provider, err := identity.NewFirebaseProvider(initCtx, clients.Auth, appConfig.FirebaseWebAPIKey, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize identity provider", zap.Error(err))
	}

	// --- 4. Initialize Repositories ---
	repos := session.Repositories{
		Profiles:   db.NewFirestoreProfileRepository(clients.Firestore),
		Watchlists: db.NewFirestoreWatchlistRepository(clients.Firestore),
		Reviews:    db.NewFirestoreReviewRepository(clients.Firestore),
		Ratings:    db.NewFirestoreRatingRepository(clients.Firestore),
	}
	accountRepo := db.NewFirestoreAccountRepository(clients.Firestore)
	zapLogger.Info("Repositories initialized successfully.")

	// --- 5. Metadata client, optionally cached in Redis ---
	var tmdbOpts []tmdb.Option
	if appConfig.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(initCtx, cache.NewRedisCacheConfig{
			Address:  appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
			Prefix:   "cinedex:",
		}, zapLogger)
		if err != nil {
			zapLogger.Warn("Redis unavailable, TMDb responses will not be cached", zap.Error(err))
		} else {
			defer redisCache.Close()
			tmdbOpts = append(tmdbOpts, tmdb.WithCache(redisCache))
		}
	}
	tmdbClient := tmdb.NewClient(&tmdb.Config{
		APIKey:            appConfig.TMDBAPIKey,
		BaseURL:           tmdb.BaseURL,
		Timeout:           appConfig.TMDBTimeout,
		RequestsPerSecond: appConfig.TMDBRequestsPerSec,
		Burst:             appConfig.TMDBBurst,
		CacheTTL:          appConfig.TMDBCacheTTL,
	}, zapLogger, tmdbOpts...)

	// --- 6. Auth-state event stream ---
	var stream events.Stream = events.NewBroker()
	if appConfig.AMQPURL != "" {
		mq, err := messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: appConfig.AMQPURL}, zapLogger)
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer mq.Close()
		stream = events.NewQueueStream(mq, appConfig.AuthEventQueue, zapLogger)
		zapLogger.Info("Auth-state events carried over RabbitMQ", zap.String("topic", appConfig.AuthEventQueue))
	}

	// --- 7. Initialize Services ---
	filters, err := core.LoadFilterCatalogue()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load filter catalogue", zap.Error(err))
	}
	catalogService := core.NewCatalogService(tmdbClient, filters, core.CatalogConfig{
		SearchRetries:    appConfig.SearchRetries,
		SearchRetryDelay: appConfig.SearchRetryDelay,
	}, zapLogger)
	if err := catalogService.SyncGenres(initCtx); err != nil {
		zapLogger.Warn("Genre sync failed, using the built-in genre table", zap.Error(err))
	}
	recommendationService := core.NewRecommendationService(tmdbClient, filters, appConfig.RecommendationTimeout, zapLogger)

	var mail mailer.Mailer
	if appConfig.MailEnabled() {
		port, err := strconv.Atoi(appConfig.SMTPPort)
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: SMTP_PORT must be a number", zap.Error(err))
		}
		smtpMailer, err := mailer.NewSMTPMailer(mailer.Config{
			Host:     appConfig.SMTPHost,
			Port:     port,
			Username: appConfig.SMTPUser,
			Password: appConfig.SMTPPassword,
			Sender:   appConfig.MailSender,
		})
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Invalid SMTP configuration", zap.Error(err))
		}
		mail = smtpMailer
	} else {
		zapLogger.Warn("SMTP not configured, verification links will only be logged")
	}
	accountService := core.NewAccountService(provider, accountRepo, mail, stream, zapLogger)
	zapLogger.Info("Core services initialized successfully.")

	// --- 8. Session state bridge ---
	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()
	registry := session.NewRegistry(repos, recommendationService, zapLogger)
	bridge := session.NewBridge(stream, registry, recommendationService, appConfig.SessionLoadTimeout, zapLogger)
	// Subscribe before the listener starts so no sign-in event is published
	// into an empty broker.
	stateChanges, err := bridge.Subscribe(appCtx)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to subscribe session bridge", zap.Error(err))
	}
	bridgeStopped := make(chan error, 1)
	go func() {
		bridgeStopped <- bridge.Serve(appCtx, stateChanges)
	}()
	sessions := session.NewManager(registry, stream, appConfig.SessionLoadTimeout, zapLogger)

	// --- 9. Setup Gin HTTP Engine ---
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(appConfig))
	router.Use(middleware.NewRateLimiter(appConfig.InboundRequestsPerSec, appConfig.InboundBurst).Middleware())

	api.SetupRoutes(router, zapLogger, api.Dependencies{
		Catalog:         catalogService,
		Recommendations: recommendationService,
		Accounts:        accountService,
		Reviews:         repos.Reviews,
		Verifier:        provider,
		Sessions:        sessions,
	})

	// --- 10. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 11. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quitChannel:
		zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-bridgeStopped:
		// No session can become ready without the bridge.
		zapLogger.Error("Session bridge stopped, shutting down", zap.Error(err))
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	stopApp()
	zapLogger.Info("Server exiting gracefully.")
}
