package main

import (
	"fmt"
	"os"

	"bloodlink/internal/db"
	"bloodlink/internal/engine"
	"bloodlink/internal/export"
	"bloodlink/internal/store"

	"github.com/urfave/cli/v2"
)

var exportCommand = &cli.Command{
	Name:  "export",
	Usage: "Export active blood requests to an .xlsx workbook, most urgent first",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "Output file",
			Value:   "blood-requests.xlsx",
		},
	},
	Action: func(c *cli.Context) error {
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

		svc := engine.New(store.NewRequestRepository(pool), store.NewResponseRepository(pool))
		active, err := svc.ActiveRequests(c.Context)
		if err != nil {
			return err
		}

		out, err := os.Create(c.String("out"))
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", c.String("out"), err)
		}
		defer out.Close()

		if err := export.WriteRequests(out, engine.RankRequests(active)); err != nil {
			return err
		}

		logger.WithField("file", out.Name()).WithField("requests", len(active)).Info("export complete")
		return nil
	},
}
