package main

import (
	"fmt"
	"time"

	"bloodlink/internal/db"
	"bloodlink/internal/seed"
	"bloodlink/internal/store"

	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with demo donors and blood requests",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger := newLogger(cfg)

		ctx := c.Context

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logger.Info("Connected to database")

		users, err := seed.SeedUsers(ctx, store.NewUserRepository(pool))
		if err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}

		requests, err := seed.SeedRequests(ctx, store.NewRequestRepository(pool), time.Now())
		if err != nil {
			return fmt.Errorf("failed to seed blood requests: %w", err)
		}

		logger.WithField("users", users).WithField("requests", requests).Info("Seed data upserted")
		return nil
	},
}
