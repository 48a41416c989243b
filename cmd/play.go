package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"card-memory/assets"
	"card-memory/auth"
	"card-memory/storage"
	"card-memory/terminal"
)

var playerName string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Play opens the game in the terminal. Click a card or move with the arrow keys
(or WASD) and press space to turn it. Press n for a new game and q to quit.

Card images from ASSETS_DIR are drawn as ANSI art when the terminal is large
enough; otherwise cards show their code, e.g. QH for the queen of hearts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
		defer stop()

		store, err := storage.Open(ctx, cfg.DatabaseURL, cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("opening result store: %w", err)
		}
		if store != nil {
			defer store.Close()
		}

		catalog := assets.LoadDir(cfg.AssetsDir)
		name := playerName
		if name == "" {
			name = auth.DefaultName
		}
		return terminal.Run(ctx, terminal.Options{
			Config:  cfg,
			Catalog: catalog,
			Store:   store,
			Aspect:  boardAspect(cfg, catalog),
			Name:    name,
			In:      os.Stdin,
			Out:     os.Stdout,
		})
	},
}

func init() {
	playCmd.Flags().StringVar(&playerName, "name", "", "player name stored with results")
}
