package main

import (
	"fmt"

	"bloodlink/internal/db"

	"github.com/urfave/cli/v2"
)

var migrateCommand = &cli.Command{
	Name:      "migrate",
	Usage:     "Apply database migrations",
	ArgsUsage: "[up|down|status]",
	Action: func(c *cli.Context) error {
		dir := db.Up
		if c.Args().Present() {
			dir = db.Direction(c.Args().First())
		}

		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		pool, err := db.Connect(c.Context, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		if err := db.Migrate(c.Context, pool, dir); err != nil {
			return err
		}

		logger.WithField("direction", dir).Info("migrations complete")
		return nil
	},
}
