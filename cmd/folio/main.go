package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/folio/internal"
	"github.com/starford/folio/internal/termview"
	pkgconfig "github.com/starford/folio/pkg/config"
)

var version = "dev"

// loadConfig reads the config file when present and applies --root. The
// default config path may be missing; an explicit --config may not.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	opts := []pkgconfig.LoadOption[internal.Config]{
		pkgconfig.WithOverride(func(c *internal.Config) {
			if root := cmd.String("root"); root != "" {
				c.Workspace.Root = root
			}
		}),
	}
	if !cmd.IsSet("config") {
		opts = append(opts, pkgconfig.Optional[internal.Config]())
	}
	if err := pkgconfig.Load(cmd.String("config"), cfg, opts...); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func options(cmd *cli.Command) ([]internal.Option, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return []internal.Option{
		internal.WithConfig(cfg),
		internal.WithVersion(version),
	}, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, opts...)
}

func fileArg(cmd *cli.Command) (string, error) {
	path := cmd.Args().First()
	if path == "" {
		return "", cli.Exit(fmt.Sprintf("usage: folio %s <file>", cmd.Name), 1)
	}
	return path, nil
}

func watch(ctx context.Context, cmd *cli.Command) error {
	path, err := fileArg(cmd)
	if err != nil {
		return err
	}
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return internal.Watch(ctx, path, opts...)
}

func exportFile(_ context.Context, cmd *cli.Command) error {
	path, err := fileArg(cmd)
	if err != nil {
		return err
	}
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	out, err := internal.Export(path, opts...)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func render(_ context.Context, cmd *cli.Command) error {
	path, err := fileArg(cmd)
	if err != nil {
		return err
	}
	dark := !cmd.Bool("light")
	r := termview.NewRenderer(os.Stdout, dark)
	return internal.Render(os.Stdout, path, int(cmd.Int("width")), dark, r)
}

func main() {
	cmd := &cli.Command{
		Name:    "folio",
		Usage:   "Markdown notes in folders with a live styled view and HTML export",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Workspace root directory (overrides workspace.root)",
				Sources: cli.EnvVars("FOLIO_ROOT"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the editor server (default)",
				Action: serve,
			},
			{
				Name:      "watch",
				Usage:     "Rewrite the HTML export of a markdown file whenever it changes",
				ArgsUsage: "<file>",
				Action:    watch,
			},
			{
				Name:      "export",
				Usage:     "Write the HTML export of a markdown file next to it",
				ArgsUsage: "<file>",
				Action:    exportFile,
			},
			{
				Name:      "render",
				Usage:     "Print a markdown file as styled terminal text",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "width",
						Aliases: []string{"w"},
						Usage:   "Wrap at this many columns (0 disables wrapping)",
						Value:   80,
					},
					&cli.BoolFlag{
						Name:  "light",
						Usage: "Use the light palette",
					},
				},
				Action: render,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the MCP tools on stdin/stdout",
				Action: serveMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
