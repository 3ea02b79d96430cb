package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio/auth"
	"portfolio/config"
	"portfolio/database"
	"portfolio/email"
	"portfolio/handlers"
	"portfolio/logger"
	"portfolio/markdown"
	"portfolio/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	appLogger := logger.New(cfg.Env)
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create context with timeout for initial connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.DatabaseURL, appLogger)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	var bucket *storage.BlobBucket
	if cfg.Storage.Remote() {
		bucket, err = storage.OpenBucket(ctx, cfg.Storage.URL, cfg.Storage.PublicURL, appLogger)
	} else {
		bucket, err = storage.OpenLocalBucket(cfg.Storage.Dir, cfg.Storage.Bucket, cfg.Storage.PublicBaseURL, appLogger)
	}
	if err != nil {
		log.Fatal("Failed to open storage bucket:", err)
	}
	defer bucket.Close()
	uploader := storage.NewUploader(bucket, cfg.Storage.MaxUploadSize, appLogger)

	var mailer email.Mailer = email.NewNopMailer(appLogger)
	if cfg.Email.Enabled() {
		mailer, err = email.NewResendMailer(cfg.Email.APIKey, cfg.Email.BaseURL)
		if err != nil {
			log.Fatal("Invalid email configuration:", err)
		}
	} else {
		appLogger.Warn("email disabled: EMAIL_API_KEY and EMAIL_FROM are required")
	}
	notifier := email.NewNotifier(mailer, cfg.Email.From, cfg.Email.NotifyEmail, cfg.Storage.PublicBaseURL, appLogger)

	var authenticator *auth.Authenticator
	if cfg.Admin.Enabled() {
		authenticator = auth.NewAuthenticator(cfg.Admin.Email, cfg.Admin.PasswordHash, cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)
	}

	router := handlers.NewRouter(handlers.Deps{
		Store:         db,
		Uploader:      uploader,
		Notifier:      notifier,
		Renderer:      markdown.New(cfg.Markdown.Engine),
		Auth:          authenticator,
		Logger:        appLogger,
		CORSOrigins:   cfg.CORSOrigins,
		SecureCookies: cfg.Production(),
		StorageDir:    bucket.Dir(),
		StorageURL:    bucket.URLPrefix(),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server starting", "addr", server.Addr, "markdown_engine", cfg.Markdown.Engine)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
	}
	notifier.Wait()

	appLogger.Info("Server exited gracefully")
}
