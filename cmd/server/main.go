package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"guestlist/config"
	authadapter "guestlist/internal/adapters/auth"
	"guestlist/internal/adapters/blob"
	"guestlist/internal/adapters/cache"
	emailadapter "guestlist/internal/adapters/email"
	httpdelivery "guestlist/internal/delivery/http"
	"guestlist/internal/delivery/http/controllers"
	"guestlist/internal/repository/postgres"
	"guestlist/internal/services"
)

const serviceTimeout = 5 * time.Second

// @title Guestlist API
// @version 1.0
// @description Event and RSVP management API: organizer accounts, event drafts with menus, speakers and timelines, public guest confirmations, and invitation delivery.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to reach database", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	rsvpRepo := postgres.NewRSVPRepository(db)
	userRepo := postgres.NewUserRepository(db)

	hasher := authadapter.NewBcryptHasher(bcrypt.DefaultCost)
	issuer, verifier := authadapter.NewJWTTokens(cfg.JWTSecret)
	invalidator := cache.NewLogInvalidator(logger)

	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.MailerProvider,
		FromAddress: cfg.MailerFromAddress,
		FromName:    cfg.MailerFromName,
		SES: emailadapter.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipVerify,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	imageStore := blob.NewNoop()
	if cfg.S3Bucket != "" {
		s3Store, err := blob.New(context.Background(), blob.Config{
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			Endpoint:      cfg.S3Endpoint,
			PathStyle:     cfg.S3PathStyle,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to create image store", "err", err)
			os.Exit(1)
		}
		imageStore = s3Store
	} else {
		logger.Warn("S3_BUCKET not set, image uploads are not persisted")
	}

	emailService := services.NewEmailService(mailer, emailadapter.NewTemplateRenderer())
	authService := services.NewAuthService(userRepo, hasher, issuer, cfg.JWTExpiry)
	eventService := services.NewEventService(eventRepo, rsvpRepo, invalidator, logger, serviceTimeout)
	rsvpService := services.NewRSVPService(rsvpRepo, eventRepo, invalidator, serviceTimeout)
	invitationService := services.NewInvitationService(eventRepo, userRepo, emailService, cfg.PublicBaseURL, serviceTimeout)

	router := httpdelivery.NewRouter(httpdelivery.RouterConfig{
		Logger:         logger,
		Verifier:       verifier,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Auth:           controllers.NewAuthController(logger, authService),
		Events:         controllers.NewEventController(logger, eventService),
		MenuItems:      controllers.NewMenuItemController(logger, eventService),
		RSVPs:          controllers.NewRSVPController(logger, rsvpService),
		Invitations:    controllers.NewInvitationController(logger, invitationService),
		Images:         controllers.NewImageController(logger, imageStore),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}
