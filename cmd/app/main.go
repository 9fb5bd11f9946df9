package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/herald/internal"
	pkgconfig "github.com/starford/herald/pkg/config"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func runOnce(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithDryRun(cmd.Bool("dry-run")),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("digest run error: %w", err)
	}
	return nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithDryRun(cmd.Bool("dry-run")),
	}

	if err := internal.Serve(ctx, opts...); err != nil {
		return fmt.Errorf("scheduler error: %w", err)
	}
	return nil
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}
	dryRunFlag := &cli.BoolFlag{
		Name:  "dry-run",
		Usage: "Log digests instead of sending them",
	}

	cmd := &cli.Command{
		Name:  "herald",
		Usage: "Digest notifier for outstanding host maintenance labors, grouped per owner and quest",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Execute a single digest cycle and exit (for cron)",
				Action: runOnce,
				Flags:  []cli.Flag{configFlag, dryRunFlag},
			},
			{
				Name:   "serve",
				Usage:  "Run digest cycles on an interval with an admin HTTP surface",
				Action: serve,
				Flags:  []cli.Flag{configFlag, dryRunFlag},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
