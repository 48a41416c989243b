package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"card-memory/api"
	"card-memory/assets"
	"card-memory/auth"
	"card-memory/sessions"
	"card-memory/storage"
	"card-memory/ws"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the websocket game server",
	Long: `Serve runs the HTTP server: the game websocket on /ws, card images on
/assets/{code}.png, and the history and leaderboard APIs under /api.

Results are stored in Postgres when DATABASE_URL is set, else in SQLite when
SQLITE_PATH is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, err := storage.Open(ctx, cfg.DatabaseURL, cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("opening result store: %w", err)
		}
		if store != nil {
			defer store.Close()
		}

		validator := auth.NewValidator(cfg.JWTSecret, cfg.AuthBaseURL)
		if !validator.Enabled() {
			slog.Info("JWT_SECRET and AUTH_BASE_URL are not set, players join as guests", "tag", "auth")
		}

		catalog := assets.LoadDir(cfg.AssetsDir)
		manager := sessions.NewManager(cfg, store, boardAspect(cfg, catalog))

		hub := ws.NewHub(cfg, manager, validator)
		go hub.Run(ctx)

		handler := api.NewHandler(cfg, store, validator, catalog, manager)
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.WSPort),
			Handler: api.NewRouter(handler, hub.ServeWS),
		}

		slog.Info("configuration", "tag", "serve", "start", fmt.Sprintf("%dx%d", cfg.StartWidth, cfg.StartHeight),
			"revealMs", cfg.RevealDurationMS, "reconnectSec", cfg.ReconnectTimeoutSec, "images", catalog.Count())

		errCh := make(chan error, 1)
		go func() {
			slog.Info("listening", "tag", "serve", "addr", srv.Addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		slog.Info("shutting down", "tag", "serve")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("http shutdown", "tag", "serve", "err", err)
		}
		return manager.Shutdown(shutdownCtx)
	},
}
