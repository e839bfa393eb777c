package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"spyfall/internal/config"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: error loading .env file: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:           "spyfall",
		Usage:          "pass-and-play Spyfall table server",
		DefaultCommand: "serve",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to server.yaml",
				Sources: cli.EnvVars("SPYFALL_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server",
				Action: serve,
			},
			{
				Name:  "categories",
				Usage: "list the location categories",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "catalog",
						Usage: "catalog YAML file instead of the built-in one",
					},
				},
				Action: listCategories,
			},
		},
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadConfig(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := newLogger(cmd.Root().ErrWriter, cfg.Server.LogLevel, cfg.Server.LogFormat)
	if err != nil {
		return err
	}

	srv, err := SetupServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to set up server: %w", err)
	}
	defer srv.Store.Close()

	go srv.Store.Run(ctx, cfg.Server.SweepInterval)
	go func() {
		ticker := time.NewTicker(cfg.Server.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				srv.RateLimiter.Cleanup(cfg.Server.SweepInterval)
			}
		}
	}()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      srv.Handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", server.Addr,
			"minPlayers", cfg.Game.MinPlayers, "maxPlayers", cfg.Game.MaxPlayers,
			"roundDuration", cfg.Game.RoundDuration)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server gracefully stopped")
	return nil
}

func listCategories(ctx context.Context, cmd *cli.Command) error {
	c, err := loadCatalog(cmd.String("catalog"))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.Root().Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLOCATIONS")
	for _, cat := range c.Categories() {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", cat.ID, cat.Name, len(cat.Locations))
	}
	return tw.Flush()
}
