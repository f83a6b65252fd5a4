package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/tuanvumaihuynh/warehouse/internal/audit"
	"github.com/tuanvumaihuynh/warehouse/internal/auth"
	"github.com/tuanvumaihuynh/warehouse/internal/config"
	"github.com/tuanvumaihuynh/warehouse/internal/log"
	"github.com/tuanvumaihuynh/warehouse/internal/model"
	"github.com/tuanvumaihuynh/warehouse/internal/repository"
	"github.com/tuanvumaihuynh/warehouse/internal/storage/db"
)

// createUserCommand bootstraps accounts, typically the first ADMIN, which
// cannot be registered through the API without an existing privileged user.
func createUserCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-user",
		Usage: "create a user account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true},
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"WH_ADMIN_PASSWORD"}},
			&cli.StringSliceFlag{Name: "role", Value: cli.NewStringSlice(string(model.RoleAdmin))},
		},
		Action: func(c *cli.Context) error {
			type Config struct {
				Log      config.Log
				Postgres config.Postgres
				Auth     config.Auth
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

			dbClient := db.NewClient(pgxPool)
			svc := auth.NewService(
				logger,
				dbClient,
				repository.NewUserRepository(dbClient),
				auth.NewTokenManager(cfg.Auth),
				syncAuditPublisher{
					trail: audit.NewTrail(logger, repository.NewAuditEntryRepository(dbClient)),
				},
			)

			roles := make([]model.Role, 0, len(c.StringSlice("role")))
			for _, r := range c.StringSlice("role") {
				roles = append(roles, model.Role(r))
			}

			id, err := svc.Register(c.Context, auth.RegisterParams{
				Username: c.String("username"),
				Email:    c.String("email"),
				Password: c.String("password"),
				Roles:    roles,
			}, model.SystemActorID)
			if err != nil {
				return fmt.Errorf("error creating user: %w", err)
			}

			logger.InfoContext(c.Context, "user created",
				slog.Int64("user_id", id),
				slog.String("username", c.String("username")))

			return nil
		},
	}
}

// syncAuditPublisher records audit events inline. The CLI exits right after
// the command, so there is no background queue to drain.
type syncAuditPublisher struct {
	trail *audit.Trail
}

func (p syncAuditPublisher) PublishAudit(ctx context.Context, ev model.AuditEvent) {
	// Record logs its own failures.
	_ = p.trail.Record(ctx, ev)
}
