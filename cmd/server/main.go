// Package main starts the museum catalog API: it loads configuration, opens
// and migrates the database, optionally seeds it, and serves HTTP(S) until
// interrupted.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/museum/internal/auth"
	"github.com/atinyakov/museum/internal/certgen"
	"github.com/atinyakov/museum/internal/config"
	"github.com/atinyakov/museum/internal/db"
	"github.com/atinyakov/museum/internal/logger"
	"github.com/atinyakov/museum/internal/middleware"
	"github.com/atinyakov/museum/internal/repository"
	"github.com/atinyakov/museum/internal/seed"
	"github.com/atinyakov/museum/internal/server/handler/http"
	"github.com/atinyakov/museum/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const shutdownTimeout = 10 * time.Second

func main() {
	options, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = log.Log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, options, log.Log); err != nil {
		log.Log.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, options *config.Options, zapLogger *zap.Logger) error {
	pg, err := db.InitPostgres(ctx, options.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer func() { _ = pg.Close() }()

	categoryRepo := repository.NewPostgresCategoryRepository(pg)
	pieceRepo := repository.NewPostgresPieceRepository(pg)
	managerRepo := repository.NewPostgresManagerRepository(pg)

	catalog := service.NewCatalogService(categoryRepo, pieceRepo)
	credentials := service.NewCredentialService(managerRepo)

	tokens, err := auth.NewTokenService([]byte(options.SecretKey), options.TokenTTL())
	if err != nil {
		return err
	}

	if options.InitDB {
		zapLogger.Info("seeding database")
		report := seed.Run(ctx, catalog, credentials, seed.Admin{
			Email:    options.AdminEmail,
			Password: options.AdminPassword,
		}, zapLogger)
		zapLogger.Info("seeding finished",
			zap.Int("categories", report.Categories),
			zap.Int("pieces", report.Pieces),
			zap.Int("managers", report.Managers),
			zap.Int("failures", report.Failures),
		)
	}

	router := http.NewRouter(http.Handlers{
		Auth:       &http.AuthHandler{Credentials: credentials, Tokens: tokens, Log: zapLogger},
		Categories: &http.CategoryHandler{Catalog: catalog, Log: zapLogger},
		Pieces:     &http.PieceHandler{Catalog: catalog, Log: zapLogger},
	}, middleware.BearerAuth(tokens, credentials, zapLogger), options.CORSOrigins, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if options.TLSEnabled() {
		tlsConfig, err := certgen.ServerTLSConfig(options.TLSCertFile, options.TLSKeyFile)
		if err != nil {
			return err
		}
		server.TLSConfig = tlsConfig
	}

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("starting server",
			zap.String("addr", options.Address),
			zap.Bool("tls", server.TLSConfig != nil),
		)
		if server.TLSConfig != nil {
			errCh <- server.ListenAndServeTLS("", "")
		} else {
			errCh <- server.ListenAndServe()
		}
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	zapLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
