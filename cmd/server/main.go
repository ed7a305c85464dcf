package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorent/internal/config"
	"gorent/internal/handlers"
	"gorent/internal/middleware"
	mongorepo "gorent/internal/repositories/mongodb"
	"gorent/internal/services"
	"gorent/internal/utils"
	"gorent/pkg/cache"
	"gorent/pkg/database"
	"gorent/pkg/logger"
	"gorent/pkg/mailer"
	"gorent/pkg/payment"
	"gorent/pkg/sms"
	"gorent/pkg/storage"
	"gorent/pkg/ws"
	"gorent/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: cfg.App.LogFormat,
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}

	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer db.Close()

	if err := database.EnsureIndexes(db.Database); err != nil {
		log.WithError(err).Fatal("Failed to create indexes")
	}

	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisCache.Close()

	cacheService := services.NewCacheService(redisCache, log)

	// Repositories share the redis client for read-through caching.
	vehicleRepo := mongorepo.NewVehicleRepository(db.Database, redisCache)
	bookingRepo := mongorepo.NewBookingRepository(db.Database)
	userRepo := mongorepo.NewUserRepository(db.Database)

	paymentProvider := payment.NewRazorpayProvider(
		cfg.Payment.Razorpay.KeyID,
		cfg.Payment.Razorpay.KeySecret,
		cfg.Payment.Razorpay.WebhookSecret,
	)

	smsProvider := buildSMSProvider(cfg, log)
	storageProvider := buildStorageProvider(cfg, log)
	mail := buildMailer(cfg)

	hub := ws.NewHub()
	go hub.Run()

	authService := services.NewAuthService(userRepo, cacheService, mail, &services.AuthConfig{
		JWTSecret:        cfg.Security.JWTSecret,
		MaxLoginAttempts: int64(cfg.Security.MaxLoginAttempts),
		LoginLockoutTime: cfg.Security.LoginLockoutTime,
	}, log)
	userService := services.NewUserService(userRepo, log)
	vehicleService := services.NewVehicleService(vehicleRepo, storageProvider, log)
	bookingService := services.NewBookingService(
		bookingRepo, vehicleRepo, userRepo,
		cacheService, paymentProvider, smsProvider, hub,
		cfg.Payment.Currency, log,
	)

	authHandler := handlers.NewAuthHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService)
	vehicleHandler := handlers.NewVehicleHandler(vehicleService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	wsHandler := handlers.NewWSHandler(hub, log)
	healthHandler := handlers.NewHealthHandler(db, cacheService, hub)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))

	api := router.Group("/api")
	{
		routes.SetupAuthRoutes(api, authHandler, cfg.Security.JWTSecret)
		routes.SetupVehicleRoutes(api, vehicleHandler, cfg.Security.JWTSecret)
		routes.SetupBookingRoutes(api, bookingHandler, wsHandler, cfg.Security.JWTSecret)
		routes.SetupUserRoutes(api, userHandler, cfg.Security.JWTSecret)
	}

	router.GET("/health", healthHandler.Health)

	// Serve local uploads directly when not on S3.
	if cfg.Storage.Provider == "local" {
		router.Static("/uploads", cfg.Storage.Local.BasePath)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.App.Port).Infof("%s listening", utils.AppName)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Forced shutdown")
	}
}

func buildSMSProvider(cfg *config.Config, log *logger.Logger) sms.SMSProvider {
	switch cfg.SMS.Provider {
	case "twilio":
		return sms.NewTwilioProvider(cfg.SMS.Twilio.AccountSID, cfg.SMS.Twilio.AuthToken, cfg.SMS.Twilio.FromNumber)
	case "aws_sns":
		provider, err := sms.NewAWSSNSProvider(cfg.SMS.AWSSNS.Region)
		if err != nil {
			log.WithError(err).Warn("SNS unavailable, SMS disabled")
			return sms.NoopProvider{}
		}
		return provider
	default:
		return sms.NoopProvider{}
	}
}

func buildStorageProvider(cfg *config.Config, log *logger.Logger) storage.StorageProvider {
	if cfg.Storage.Provider == "s3" {
		provider, err := storage.NewAWSS3Storage(cfg.Storage.S3.Region, cfg.Storage.S3.Bucket)
		if err == nil {
			return provider
		}
		log.WithError(err).Warn("S3 unavailable, falling back to local storage")
	}

	provider, err := storage.NewLocalStorage(cfg.Storage.Local.BasePath, cfg.Storage.Local.BaseURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to init local storage")
	}
	return provider
}

func buildMailer(cfg *config.Config) mailer.Mailer {
	if cfg.SMTP.Username == "" {
		return mailer.NoopMailer{}
	}
	return mailer.NewSMTPMailer(&mailer.Config{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromEmail: cfg.SMTP.FromEmail,
		FromName:  cfg.SMTP.FromName,
	})
}
