// Package commands defines the notegate command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/florianilch/notegate/internal/app"
	"github.com/florianilch/notegate/internal/observability"
)

// Execute runs the root command with the given context and arguments.
func Execute(ctx context.Context, args []string) error {
	cmd := &cli.Command{
		Name:  "notegate",
		Usage: "Microsoft OneNote device-flow authentication",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug|info|warn|error)",
				Value: slog.LevelInfo.String(),
			},
		},
		Commands: []*cli.Command{
			loginCommand(),
		},
	}

	return cmd.Run(ctx, args)
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "obtain an access token and verify it against Microsoft Graph",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format (text|json)",
				Value: string(app.DefaultConfigLogFormat),
			},
			&cli.StringFlag{
				Name:  "auth--client-id",
				Usage: "registered application (client) ID (defaults to MS_CLIENT_ID)",
			},
			&cli.StringFlag{
				Name:  "auth--file",
				Usage: "token storage path (defaults to secret mount or home directory)",
			},
			&cli.StringFlag{
				Name:  "auth--tenant",
				Usage: "authority tenant segment",
				Value: app.DefaultConfigAuthTenant,
			},
			&cli.StringFlag{
				Name:  "auth--storage",
				Usage: "token storage backend (file|env|keyring)",
				Value: string(app.DefaultConfigAuthStorage),
			},
			&cli.StringFlag{
				Name:  "graph--base-url",
				Usage: "Microsoft Graph base URL",
				Value: app.DefaultConfigGraphBaseURL,
			},
		},
		Action: loginAction,
	}
}

func loginAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"), cmd, os.Environ)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Set up observability before creating app
	err = observability.Instrument(cfg.LogLevel, string(cfg.LogFormat))
	if err != nil {
		return fmt.Errorf("failed to set up observability layer: %w", err)
	}

	if cfg.Auth.Method == app.AuthenticationMethodDeviceCode && !term.IsTerminal(int(os.Stdout.Fd())) {
		slog.WarnContext(ctx, "stdout is not a terminal; the device-login code must still be entered by a person")
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}

	if err := application.Run(ctx); err != nil {
		return err
	}

	slog.DebugContext(ctx, "login flow completed")
	return nil
}
