package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/napolitain/seldon-idle/internal/config"
	"github.com/napolitain/seldon-idle/internal/economy"
	"github.com/napolitain/seldon-idle/internal/game"
	"github.com/napolitain/seldon-idle/internal/loader"
	"github.com/napolitain/seldon-idle/internal/models"
)

// options are the flags shared by every subcommand
type options struct {
	dataDir    string
	configFile string
	at         string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "idle",
		Short: "Seldon idle economy inspector",
		Long: `Inspects a saved game against the content catalog: production rates,
purchase rankings, costs, offline earnings, era progression and a simulated
purchase order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.dataDir, "data", "d", "data", "Path to data directory")
	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Path to TOML config file (engine section is used)")
	rootCmd.PersistentFlags().StringVar(&opts.at, "at", "", "Evaluate at this RFC 3339 time instead of now")

	rootCmd.AddCommand(
		newValidateCmd(opts),
		newRatesCmd(opts),
		newRankCmd(opts),
		newCostCmd(opts),
		newOfflineCmd(opts),
		newEraCmd(opts),
		newPlanCmd(opts),
	)
	return rootCmd
}

func (o *options) engine() (economy.Engine, error) {
	cfg := config.Default()
	if o.configFile != "" {
		loaded, err := config.Load(o.configFile)
		if err != nil {
			return economy.Engine{}, err
		}
		cfg = *loaded
	}

	catalog, err := loader.LoadCatalog(o.dataDir)
	if err != nil {
		return economy.Engine{}, err
	}
	return economy.New(catalog, cfg.Engine), nil
}

func (o *options) now() (time.Time, error) {
	if o.at == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, o.at)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at: %w", err)
	}
	return t, nil
}

// loadSave reads a JSON game state and fills in entries for catalog content it lacks
func loadSave(path string, e economy.Engine) (*models.GameState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read save: %w", err)
	}
	var state models.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse save: %w", err)
	}
	game.SyncCatalog(&state, e.Catalog)
	e.RefreshUnlocks(&state)
	return &state, nil
}
