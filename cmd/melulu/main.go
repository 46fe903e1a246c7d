package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/five82/melulu/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := &cli.Command{
		Name:      "melulu",
		Usage:     "Browse and play short dramas from the terminal",
		ArgsUsage: "[share link | #id=... | id]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "override config path (default ~/.config/melulu/config.toml)",
			},
			&cli.StringFlag{
				Name:  "prefs",
				Usage: "override prefs path (default ~/.config/melulu/prefs.toml)",
			},
			&cli.BoolFlag{
				Name:  "direct",
				Usage: "talk to the catalog API directly instead of the local proxy",
			},
			&cli.StringFlag{
				Name:  "origin",
				Usage: "API origin for the active mode",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log at debug level",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return app.Run(ctx, app.Options{
				ConfigPath: cmd.String("config"),
				PrefsPath:  cmd.String("prefs"),
				Overrides:  overrides(cmd),
				DeepLink:   cmd.Args().First(),
			})
		},
		Commands: commands(),
	}

	if err := root.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "melulu: %v\n", err)
		return 1
	}
	return 0
}

func overrides(cmd *cli.Command) app.Overrides {
	return app.Overrides{
		Direct: cmd.Bool("direct"),
		Origin: cmd.String("origin"),
		Debug:  cmd.Bool("debug"),
	}
}
