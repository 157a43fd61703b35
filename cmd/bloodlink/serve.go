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

	"bloodlink/internal/auth"
	"bloodlink/internal/db"
	"bloodlink/internal/engine"
	"bloodlink/internal/seed"
	"bloodlink/internal/server"
	"bloodlink/internal/storage"
	"bloodlink/internal/store"
	"bloodlink/internal/store/memory"
	"bloodlink/pkg/types"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(cCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := loadConfig(cCtx)
	if err != nil {
		return err
	}
	logger := newLogger(config)

	if config.JWTSecret == "" {
		if config.IsProduction() {
			return fmt.Errorf("set JWT_SECRET")
		}
		config.JWTSecret = "bloodlink-development-secret"
		logger.Warn("JWT_SECRET not set, using the development secret")
	}

	issuer, err := auth.NewIssuer(config.JWTSecret, config.JWTIssuer, time.Duration(config.JWTTTLHours)*time.Hour)
	if err != nil {
		return err
	}

	var verifier auth.Verifier = issuer
	if config.ExternalJWKSURL != "" {
		jwkCache, err := jwk.NewCache(ctx, httprc.NewClient())
		if err != nil {
			return fmt.Errorf("failed to initialize jwk cache: %w", err)
		}

		external, err := auth.NewJWKSVerifier(ctx, jwkCache, config.ExternalJWKSURL)
		if err != nil {
			return err
		}
		verifier = auth.Chain{issuer, external}
	}

	requests, responses, repos, cleanup, err := openStores(ctx, config, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	files, err := openFileStorage(ctx, config)
	if err != nil {
		return err
	}

	srv, err := server.New(
		config,
		logger,
		engine.New(requests, responses),
		repos,
		files,
		issuer,
		verifier,
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}

// openStores connects to Postgres, or falls back to seeded in-memory stores
// when no DATABASE_URL is configured.
func openStores(ctx context.Context, config *types.Config, logger *logrus.Logger) (engine.RequestStore, engine.ResponseStore, server.Repositories, func(), error) {
	if config.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, serving from memory with demo data")

		users := memory.NewUserRepository()
		requests := memory.NewRequestRepository()
		if _, err := seed.SeedUsers(ctx, users); err != nil {
			return nil, nil, server.Repositories{}, nil, err
		}
		if _, err := seed.SeedRequests(ctx, requests, time.Now()); err != nil {
			return nil, nil, server.Repositories{}, nil, err
		}

		responses := memory.NewResponseRepository()
		contacts := memory.NewContactRepository()
		requests.Cascade(responses, contacts)

		return requests, responses, server.Repositories{
			Users:     users,
			Reviews:   memory.NewReviewRepository(),
			Contacts:  contacts,
			Donations: memory.NewDonationRepository(),
			Documents: memory.NewDocumentRepository(),
		}, func() {}, nil
	}

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return nil, nil, server.Repositories{}, nil, err
	}

	return store.NewRequestRepository(pool), store.NewResponseRepository(pool), server.Repositories{
		Users:     store.NewUserRepository(pool),
		Reviews:   store.NewReviewRepository(pool),
		Contacts:  store.NewContactRepository(pool),
		Donations: store.NewDonationRepository(pool),
		Documents: store.NewDocumentRepository(pool),
	}, pool.Close, nil
}

func openFileStorage(ctx context.Context, config *types.Config) (storage.FileStorage, error) {
	switch config.StorageBackend {
	case "s3":
		if config.S3Bucket == "" {
			return nil, fmt.Errorf("set S3_BUCKET")
		}
		awsConfig, err := loadAWSConfig(ctx)
		if err != nil {
			return nil, err
		}
		return storage.NewS3Storage(s3.NewFromConfig(awsConfig), config.S3Bucket), nil
	case "supabase":
		if config.SupabaseProjectID == "" || config.SupabaseAPIKey == "" {
			return nil, fmt.Errorf("set SUPABASE_PROJECT_ID and SUPABASE_API_KEY")
		}
		return storage.NewSupabaseStorage(config.SupabaseProjectID, config.SupabaseAPIKey, config.SupabaseBucket), nil
	case "memory":
		return storage.NewMemoryStorage(), nil
	case "", "none":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", config.StorageBackend)
}
