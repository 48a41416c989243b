package cmd

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"card-memory/assets"
	"card-memory/autoplay"
	"card-memory/game"
	"card-memory/sessions"
	"card-memory/storage"
)

var autoplaySeed int64

var autoplayCmd = &cobra.Command{
	Use:   "autoplay",
	Short: "Let the bot play a full game and print the result",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		store, err := storage.Open(ctx, cfg.DatabaseURL, cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("opening result store: %w", err)
		}
		if store != nil {
			defer store.Close()
		}

		seed := autoplaySeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		params := cfg.Autoplay
		send := make(chan []byte, 256)
		g, err := game.NewGame(uuid.NewString(), cfg, game.NewPlayer(params.Name, send),
			boardAspect(cfg, assets.LoadDir(cfg.AssetsDir)), rand.New(rand.NewSource(seed)))
		if err != nil {
			return err
		}
		if store != nil {
			g.OnGameEnd = func(g *game.Game, result *game.Result, endReason string) {
				if err := store.InsertResult(ctx, sessions.ResultRecord(g, result, endReason)); err != nil {
					color.Yellow("result not saved: %v", err)
				}
			}
		}

		go g.Run()
		over := autoplay.Run(send, g, &params, rand.New(rand.NewSource(seed+1)))
		<-g.Done
		if over == nil {
			return errors.New("game ended without a result")
		}
		color.Green("%s", over.Message)
		fmt.Fprintf(cmd.OutOrStdout(), "rounds: %d, last board: %dx%d, matches: %d\n",
			over.Rounds, over.Width, over.Height, over.Matches)
		return nil
	},
}

func init() {
	autoplayCmd.Flags().Int64Var(&autoplaySeed, "seed", 0, "random seed for the deal and the bot (0 picks one)")
}
