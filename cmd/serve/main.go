// Package classification Campus Events API.
//
// Discover on-campus and off-campus events and keep track of the ones you're interested in
//
// Terms Of Service:
//
// there are no TOS at this moment, use at your own risk we take no responsibility
//
//    Version: 0.1.0
//    License: TODO
//
//    Consumes:
//      - application/json
//
//    Produces:
//      - application/json
//
//    SecurityDefinitions:
//      oauth2:
//        type: oauth2
//        tokenUrl: /tokens
//        refreshUrl: /refresh
//        flow: password
// swagger:meta
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cu-events/events-api/internal/handler"
	"github.com/cu-events/events-api/internal/log"
	"github.com/cu-events/events-api/internal/middleware"
	"github.com/cu-events/events-api/internal/server"
	"github.com/cu-events/events-api/internal/util"
	"github.com/cu-events/events-api/pkg/config"
	"github.com/cu-events/events-api/pkg/docstore"
	"github.com/cu-events/events-api/pkg/event"
	"github.com/cu-events/events-api/pkg/storage"
	"github.com/cu-events/events-api/pkg/token"
	"github.com/cu-events/events-api/pkg/user"
	"github.com/go-mail/mail"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		return err
	}

	logger := slog.New(log.New(log.NewPrettyJSONHandler(os.Stdout, &log.PrettyJSONHandlerOptions{
		HandlerOptions: slog.HandlerOptions{
			AddSource: true,
			Level:     cfg.Logging.Level,
		},
		PrettyPrint: cfg.Logging.PrettyPrint,
	})))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := server.NewTracerProvider(cfg.Tracing.JaegerEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.WithoutCancel(ctx)); err != nil {
			logger.Error("Failed to shut down tracing", "error", err)
		}
	}()

	db, err := storage.NewDatabase(logger, cfg.Postgresql)
	if err != nil {
		return err
	}

	redis, err := storage.NewRedis(cfg.Redis)
	if err != nil {
		return err
	}

	store, err := newDocstore(ctx, cfg.Docstore)
	if err != nil {
		return err
	}

	tokenService, err := token.NewService(
		logger,
		token.NewRepository(redis),
		cfg.Authentication.Keys.PrivateKey,
		cfg.Authentication.AccessTokenExpirationSeconds,
		cfg.Authentication.RefreshTokenSecretKey,
		cfg.Authentication.RefreshTokenExpirationSeconds,
		cfg.Authentication.RefreshTokenRememberMeExpirationSeconds,
	)
	if err != nil {
		return err
	}

	dialer := mail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
	userService := user.NewService(logger, cfg.UIURL, cfg.PasswordTokenTTL, user.NewRepository(db), store, dialer)

	authentication := middleware.NewAuthentication(logger, cfg.Authentication.Keys.PublicKey, userService)
	rateLimiter := middleware.NewRateLimiter(ctx, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	catalog := event.NewCatalog(logger, event.NewRepository(logger, store))
	if _, err := catalog.RefreshAll(ctx); err != nil {
		logger.WarnContext(ctx, "Failed to fetch events at startup", "error", err)
	}

	if err := handler.RegisterValidation(); err != nil {
		return err
	}

	r := server.GetEngine(logger, cfg.BasePath, cfg.AllowedOrigins)
	router := r.Group(cfg.BasePath)

	cookies := util.CookieConfig{
		Hostname:                                cfg.Hostname,
		SameSiteMode:                            cfg.Authentication.SameSiteMode,
		RefreshTokenExpirationSeconds:           cfg.Authentication.RefreshTokenExpirationSeconds,
		RefreshTokenRememberMeExpirationSeconds: cfg.Authentication.RefreshTokenRememberMeExpirationSeconds,
	}
	user.Routes(router, authentication, rateLimiter, user.NewHandler(cookies, userService, tokenService))
	event.Routes(router, authentication.TokenAuthentication, event.NewHandler(catalog))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Listening", "address", srv.Addr, "environment", cfg.Environment)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newDocstore(ctx context.Context, c config.Docstore) (docstore.Store, error) {
	if c.Driver == config.DocstoreMemory {
		return docstore.NewMemory(), nil
	}

	database, err := storage.NewMongo(ctx, c.Mongo)
	if err != nil {
		return nil, err
	}
	return docstore.NewMongo(database), nil
}
