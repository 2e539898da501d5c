package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	authecho "github.com/velmik/auth-service/api/echo"
	"github.com/velmik/auth-service/cache"
	redisdenylist "github.com/velmik/auth-service/cache/redis"
	"github.com/velmik/auth-service/config"
	"github.com/velmik/auth-service/internal/auth"
	"github.com/velmik/auth-service/internal/mailer"
	"github.com/velmik/auth-service/internal/observability"
	"github.com/velmik/auth-service/internal/server"
	"github.com/velmik/auth-service/mongodb"
	"github.com/velmik/auth-service/services"
)

func main() {
	// .env is optional; production supplies real environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg)

	if err := observability.InitSentry(cfg.SentryDSN, cfg.AppEnv); err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Sentry, continuing without error reporting")
	}
	defer observability.FlushSentry()

	log.Info().
		Str("http_port", cfg.HTTPPort).
		Str("mongo_db_name", cfg.MongoDBName).
		Str("app_env", cfg.AppEnv).
		Msg("Starting auth-service...")

	ctx := context.Background()

	mongoClient, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize MongoDB connection")
	}
	db := mongoClient.Database(cfg.MongoDBName)

	userRepo, err := mongodb.NewUserRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize UserRepository")
	}

	var denylist cache.Denylist
	var redisClient *goredis.Client
	if cfg.RedisAddr != "" {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("Failed to ping Redis")
		}
		denylist = redisdenylist.NewDenylist(redisClient, "blacklist")
		log.Info().Str("addr", cfg.RedisAddr).Msg("Redis denylist initialized.")
	} else {
		denylist = cache.NewMemoryDenylist()
		log.Warn().Msg("REDIS_ADDR not set, using in-memory denylist (single process only)")
	}

	var outbound services.Mailer
	if cfg.SMTPHost != "" {
		outbound = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom)
	} else {
		outbound = mailer.LogMailer{}
	}

	passwordHasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	resetService := services.NewResetTokenService(userRepo, passwordHasher, cfg.ResetTokenTTL)
	authService := services.NewAuthService(userRepo, passwordHasher, tokenService, denylist, resetService, outbound, cfg.BaseURL)

	authAPI := authecho.NewAuthAPI(authService, tokenService, denylist)
	httpServer := server.NewHTTPServer(cfg, authAPI)

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit

	log.Info().Str("signal", receivedSignal.String()).Msg("Shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing Redis connection")
		}
	}
	if md, ok := denylist.(*cache.MemoryDenylist); ok {
		_ = md.Close()
	}

	mongodb.Disconnect(shutdownCtx, mongoClient)

	log.Info().Msg("Server gracefully stopped.")
}

func setupLogger(cfg *config.ServerConfig) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
		log.Warn().Str("configured_log_level", cfg.LogLevel).Msg("Invalid LOG_LEVEL configured, defaulting to 'info'")
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
