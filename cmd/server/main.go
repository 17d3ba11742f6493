package main

import (
	"context"
	"log"
	"os"

	"storefront-service/internal/config"
	"storefront-service/internal/infra/mysql"
	"storefront-service/internal/logger"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	cmd := &cli.Command{
		Name:  "storefront",
		Usage: "Storefront catalog and order backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file",
				Sources: cli.EnvVars("STOREFRONT_CONFIG"),
			},
		},
		Action: serveAction,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server",
				Action: serveAction,
			},
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, lg, err := bootstrap(c)
					if err != nil {
						return err
					}
					defer lg.Sync()

					db, err := mysql.NewMySQL(cfg.MySQL)
					if err != nil {
						return err
					}
					if err := mysql.Migrate(db); err != nil {
						return err
					}
					lg.Info("migration complete")
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveAction(ctx context.Context, c *cli.Command) error {
	cfg, lg, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer lg.Sync()

	return serve(ctx, cfg, lg)
}

func bootstrap(c *cli.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	lg, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, lg, nil
}
