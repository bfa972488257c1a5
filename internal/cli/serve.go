package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/performate/performate/internal/apify"
	"github.com/performate/performate/internal/auth"
	"github.com/performate/performate/internal/catalog"
	"github.com/performate/performate/internal/server"
	"github.com/performate/performate/internal/store"
)

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(ctx, cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	factory, err := sourceFactory()
	if err != nil {
		return err
	}

	srv, err := server.New(*cfg, log, auth.NewService(store.NewUserRepository(db)), factory)
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Bool("demo", cfg.Demo.Enabled).Msg("dashboard listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("serve: shutdown: %w", err)
	}
	return nil
}

// sourceFactory picks the per-session actor source for the web handlers.
// Demo mode serves everyone from one shared catalog; otherwise each session
// gets a client bound to its own credential.
func sourceFactory() (server.SourceFactory, error) {
	if cfg.Demo.Enabled {
		demo, err := catalog.Load(cfg.Demo.CatalogPath)
		if err != nil {
			return nil, err
		}
		return func(string) server.ActorSource { return demo }, nil
	}
	baseURL := cfg.Apify.BaseURL
	return func(apiToken string) server.ActorSource {
		return apify.New(apify.Config{BaseURL: baseURL, Token: apiToken})
	}, nil
}
