package main

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/tuanvumaihuynh/warehouse/internal/config"
	"github.com/tuanvumaihuynh/warehouse/internal/log"
	"github.com/tuanvumaihuynh/warehouse/internal/storage/db"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:      "migrate",
		Usage:     "run database migrations",
		ArgsUsage: "[up|down|status|version|redo|reset]",
		Action: func(c *cli.Context) error {
			command := c.Args().First()
			if command == "" {
				command = "up"
			}

			type Config struct {
				Log      config.Log
				Postgres config.Postgres
			}
			cfg, err := config.New[Config]()
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}

			logger := log.NewSlogLogger(cfg.Log)

			pgxPool, err := db.NewPgxPool(c.Context, cfg.Postgres)
			if err != nil {
				return fmt.Errorf("error creating pgx pool: %w", err)
			}
			defer pgxPool.Close()

			logger.InfoContext(c.Context, "running database migration command", slog.String("command", command))

			if err := db.RunMigrations(c.Context, pgxPool, command, c.Args().Tail()...); err != nil {
				return fmt.Errorf("error migrating database: %w", err)
			}

			logger.InfoContext(c.Context, "database migration command completed", slog.String("command", command))

			return nil
		},
	}
}
