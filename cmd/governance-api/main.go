package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/RMF112018/project-controls/pkg/cmd"
	"github.com/RMF112018/project-controls/pkg/config"
	"github.com/RMF112018/project-controls/pkg/log"
)

const defaultPort = 9091

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "governance-api",
		Usage:                 "Resolve workflow assignments and manage governance configuration",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Audit event bus provider (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "provisioning-url",
				Usage:   "Site provisioning endpoint templates are synced to (log-only when empty)",
				Sources: cli.EnvVars("PROVISIONING_URL"),
			},
			&cli.StringFlag{
				Name:    "bootstrap-config",
				Usage:   "Optional YAML file seeding roles and shared templates on startup",
				Sources: cli.EnvVars("BOOTSTRAP_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing governance API")

			persistence := cmd.NewPersistence(command.String("database-url"))

			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(command.String("event-bus"), logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			if path := command.String("bootstrap-config"); path != "" {
				bootstrap, err := config.LoadBootstrap(path)
				if err != nil {
					return err
				}
				if err := bootstrap.Apply(ctx, persistence, "bootstrap"); err != nil {
					return err
				}
				logger.InfoContext(ctx, "Applied bootstrap configuration", "path", path)
			}

			api := NewAPI(
				logger,
				persistence,
				eventBus,
				command.String("provisioning-url"),
			)

			err := api.Start(ctx, command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
