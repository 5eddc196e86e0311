package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"micromouse/config"
	"micromouse/logger"
	"micromouse/server"
	"micromouse/simulator"
	"micromouse/viewer"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	serveConfig string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web viewer",
	Long: `Serves the maze editor and trajectory viewer. Settings come from the config
file, a .env file and MICROMOUSE_* environment variables.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(serveConfig)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveConfig, "config", "config.yaml", "Path of the config file")
}

// serve runs the session and the web server until ctx is done or either fails.
func serve(ctx context.Context, cfg *config.Config) error {
	appLog := logger.New("app", color.FgGreen, os.Stderr).WithDebug(cfg.Debug)

	input := simulator.DefaultInput()
	if cfg.Input.Path != "" {
		loaded, err := simulator.LoadInput(cfg.Input.Path)
		if err != nil {
			return err
		}
		input = *loaded
		appLog.Info(fmt.Sprintf("loaded simulator input from %s", cfg.Input.Path))
	}

	client := simulator.NewClient(
		cfg.Simulator.BaseURL,
		cfg.Simulator.SearchPath,
		cfg.Simulator.Timeout,
	).PadTo(cfg.Simulator.PadTo)
	appLog.Info(fmt.Sprintf("simulator at %s", client.URL()))

	session := viewer.NewSession(
		input,
		client,
		viewer.Options{
			Geometry:          cfg.Geometry,
			TickPeriod:        cfg.Playback.TickPeriod,
			DefaultSpeedIndex: cfg.Playback.DefaultSpeedIndex,
		},
		logger.New("session", color.FgCyan, os.Stderr).WithDebug(cfg.Debug),
	)

	group, groupCtx := errgroup.WithContext(ctx)
	srv, err := server.NewServer(
		groupCtx,
		cfg.Server.Addr(),
		session,
		logger.New("server", color.FgMagenta, os.Stderr).WithDebug(cfg.Debug))
	if err != nil {
		return err
	}

	group.Go(func() error {
		return session.Run(groupCtx)
	})
	group.Go(func() error {
		return srv.Serve(groupCtx)
	})
	return group.Wait()
}
