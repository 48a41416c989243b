package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"card-memory/assets"
	"card-memory/config"
	"card-memory/loghandler"
)

var (
	configPath  string
	startWidth  int
	startHeight int
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "card-memory",
	Short: "Memory card game for the terminal and the browser",
	Long: `card-memory deals a grid of face-down playing cards. Turn two at a time;
matching pairs are removed. A cleared board grows and a new round begins,
until the next board would need more than one deck: then the game is won.

Run "card-memory play" for the terminal game or "card-memory serve" for the
websocket server.`,
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (.json or .toml); default config.json or config.toml in the working directory")
	RootCmd.PersistentFlags().IntVar(&startWidth, "width", 0, "starting board width (overrides config)")
	RootCmd.PersistentFlags().IntVar(&startHeight, "height", 0, "starting board height (overrides config)")

	RootCmd.AddCommand(serveCmd)
	RootCmd.AddCommand(playCmd)
	RootCmd.AddCommand(autoplayCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

// loadConfig reads the configuration, applies the command-line overrides and sets up logging.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if configPath != "" {
		var err error
		if cfg, err = config.LoadFile(configPath); err != nil {
			return nil, err
		}
	} else {
		cfg = config.Load()
	}
	if startWidth > 0 {
		cfg.StartWidth = startWidth
	}
	if startHeight > 0 {
		cfg.StartHeight = startHeight
	}
	setupLogging(cfg)
	return cfg, nil
}

func setupLogging(cfg *config.Config) {
	level := loghandler.ParseLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(loghandler.NewCompactHandler(os.Stderr, level)))
}

// boardAspect is the width/height ratio boards grow towards. With ScaleAspectByCard
// and a card back image on disk, the image's proportions win over the configured ones.
func boardAspect(cfg *config.Config, catalog *assets.Catalog) float64 {
	if catalog != nil {
		if r := catalog.AspectRatio(); r > 0 {
			return cfg.AspectFor(r)
		}
	}
	return cfg.Aspect()
}
