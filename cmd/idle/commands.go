package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/napolitain/seldon-idle/internal/economy"
	"github.com/napolitain/seldon-idle/internal/models"
	"github.com/napolitain/seldon-idle/internal/planner"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
	infoColor    = color.New(color.FgYellow)
)

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the content catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.engine()
			if err != nil {
				return err
			}
			c := e.Catalog
			successColor.Fprintf(cmd.OutOrStdout(), "✓ Catalog OK: %d buildings, %d upgrades, %d achievements, %d items, %d events, %d eras\n",
				len(c.Buildings), len(c.Upgrades), len(c.Achievements), len(c.Items), len(c.Events), len(c.Eras))
			return nil
		},
	}
}

// withSave wraps a subcommand that takes a save file as its only argument
func withSave(opts *options, run func(cmd *cobra.Command, e economy.Engine, state *models.GameState, now time.Time) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := opts.engine()
		if err != nil {
			return err
		}
		now, err := opts.now()
		if err != nil {
			return err
		}
		state, err := loadSave(args[0], e)
		if err != nil {
			return err
		}
		return run(cmd, e, state, now)
	}
}

func newRatesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rates <save.json>",
		Short: "Show production rates and click value",
		Args:  cobra.ExactArgs(1),
		RunE: withSave(opts, func(cmd *cobra.Command, e economy.Engine, state *models.GameState, now time.Time) error {
			out := cmd.OutOrStdout()
			titleColor.Fprintln(out, "Production per second")
			printResources(out, e.ProductionRates(state, now))

			titleColor.Fprintln(out, "\nPer building")
			if err := printBuildingRates(out, e, state, now); err != nil {
				return err
			}

			click := e.ClickBreakdown(state, now)
			infoColor.Fprintf(out, "\nClick value: %s credits", formatNumber(click.Value))
			fmt.Fprintf(out, " (base %s, flat +%s, click x%.3g, prestige x%.3g)\n",
				formatNumber(click.BaseClick), formatNumber(click.PerBuildingFlatBonus),
				click.ClickOnlyMultiplier*click.BuildingScaleMult*click.TotalBuildingScaleMult,
				click.PrestigeMultiplier)
			yields := e.ClickResourceYields(state, click.Value)
			yields.EachNonZero(func(rt models.ResourceType, v float64) {
				fmt.Fprintf(out, "   + %s %s per click\n", formatNumber(v), rt)
			})
			return nil
		}),
	}
}

func newRankCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rank <save.json>",
		Short: "Rank the next purchases by credit efficiency",
		Args:  cobra.ExactArgs(1),
		RunE: withSave(opts, func(cmd *cobra.Command, e economy.Engine, state *models.GameState, now time.Time) error {
			out := cmd.OutOrStdout()
			titleColor.Fprintln(out, "Buildings")
			if err := printEfficiencies(out, e.BuildingCreditEfficiencies(state, now)); err != nil {
				return err
			}
			titleColor.Fprintln(out, "\nUpgrades")
			return printEfficiencies(out, e.UpgradeCreditEfficiencies(state, now))
		}),
	}
}

func newCostCmd(opts *options) *cobra.Command {
	var owned, amount int
	var budget float64

	cmd := &cobra.Command{
		Use:   "cost <building>",
		Short: "Price a bulk purchase and what a credit budget buys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.engine()
			if err != nil {
				return err
			}
			def, err := e.LookupBuilding(args[0])
			if err != nil {
				return err
			}
			if err := e.ValidateAmount(amount); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			titleColor.Fprintf(out, "%s (owned %d, growth %.3g)\n", def.Name, owned, e.GrowthRate(def))
			fmt.Fprintln(out, "Next unit:")
			printResources(out, e.BuildingCost(def, owned))
			fmt.Fprintf(out, "Next %d units:\n", amount)
			printResources(out, e.BulkBuildingCost(def, owned, amount))

			if budget > 0 && def.BaseCost.Credits > 0 {
				n := economy.MaxAffordable(def.BaseCost.Credits, e.GrowthRate(def), owned, budget)
				infoColor.Fprintf(out, "%s credits buys %d units (credit cost only)\n", formatNumber(budget), n)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&owned, "owned", 0, "Units already owned")
	cmd.Flags().IntVarP(&amount, "amount", "n", 1, "Units to buy")
	cmd.Flags().Float64Var(&budget, "budget", 0, "Credit budget to spend")
	return cmd
}

func newOfflineCmd(opts *options) *cobra.Command {
	var away time.Duration

	cmd := &cobra.Command{
		Use:   "offline <save.json>",
		Short: "Estimate what an absence pays",
		Args:  cobra.ExactArgs(1),
		RunE: withSave(opts, func(cmd *cobra.Command, e economy.Engine, state *models.GameState, now time.Time) error {
			out := cmd.OutOrStdout()
			elapsed := away.Seconds()
			if away == 0 {
				elapsed = now.Sub(state.LastTickAt).Seconds()
			}
			if !e.IsOffline(elapsed) {
				infoColor.Fprintf(out, "%s is active play, projected gain:\n", time.Duration(elapsed*float64(time.Second)).Round(time.Second))
				printResources(out, e.ProductionRates(state, now).Scale(max(elapsed, 0)))
				return nil
			}

			res := e.OfflineEarnings(state, elapsed, now)
			titleColor.Fprintf(out, "Offline for %s (credited %s at %.0f%%)\n",
				time.Duration(elapsed*float64(time.Second)).Round(time.Second),
				time.Duration(res.CappedSeconds*float64(time.Second)).Round(time.Second),
				e.Config.OfflineEfficiency*100)
			printResources(out, res.Earnings)
			return nil
		}),
	}

	cmd.Flags().DurationVar(&away, "for", 0, "Absence length (defaults to the time since the save)")
	return cmd
}

func newEraCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "era <save.json>",
		Short: "Show era progression and what a prestige would grant",
		Args:  cobra.ExactArgs(1),
		RunE: withSave(opts, func(cmd *cobra.Command, e economy.Engine, state *models.GameState, now time.Time) error {
			out := cmd.OutOrStdout()
			p := state.Prestige
			titleColor.Fprintf(out, "Era %d: %s\n", state.CurrentEra, eraName(e, state.CurrentEra))
			fmt.Fprintf(out, "Prestiges %d, seldon points %d (total %d), multiplier x%.3g\n",
				p.PrestigeCount, p.SeldonPoints, p.TotalSeldonPoints, p.Multiplier())
			fmt.Fprintf(out, "Natural era %d\n", e.NaturalEra(p))

			gain := e.PrestigePreview(state)
			if gain.SeldonPoints < 1 {
				infoColor.Fprintf(out, "Prestige now: nothing to gain (%s lifetime credits)\n", formatNumber(state.LifetimeCredits))
				return nil
			}
			successColor.Fprintf(out, "Prestige now: +%d seldon points, multiplier x%.3g, era %d (%s)\n",
				gain.SeldonPoints, gain.PrestigeMultiplier, gain.NextEra, eraName(e, gain.NextEra))
			return nil
		}),
	}
}

func newPlanCmd(opts *options) *cobra.Command {
	var steps int
	var horizon time.Duration
	var strategy string

	cmd := &cobra.Command{
		Use:   "plan <save.json>",
		Short: "Simulate a greedy purchase order from a save",
		Long: `Simulates waiting for and buying the next purchase, step by step, using each
strategy (or only --strategy) and prints the order of the one ending with the
highest credit rate.`,
		Args: cobra.ExactArgs(1),
		RunE: withSave(opts, func(cmd *cobra.Command, e economy.Engine, state *models.GameState, now time.Time) error {
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}
			limits := planner.Limits{MaxSteps: steps, Horizon: horizon}
			out := cmd.OutOrStdout()

			// bring the save up to now before planning from it
			e.ProjectResources(state, now).Apply(state)

			var best *planner.Plan
			if strategy == "" {
				var all []*planner.Plan
				best, all = planner.PlanAll(e, state, now, limits)
				titleColor.Fprintln(out, "Strategies")
				for _, p := range all {
					fmt.Fprintf(out, "   %-12s %3d purchases in %-10s -> %s credits/s\n",
						p.Strategy, len(p.Actions), formatSeconds(p.TotalSeconds), formatNumber(p.FinalCreditRate))
				}
				fmt.Fprintln(out)
			} else {
				s, err := planner.ParseStrategy(strategy)
				if err != nil {
					return err
				}
				best = planner.New(e, s, limits).Plan(state, now)
			}

			titleColor.Fprintf(out, "Purchase order (%s)\n", best.Strategy)
			if err := printPlan(out, best); err != nil {
				return err
			}
			successColor.Fprintf(out, "✓ %s -> %s credits/s after %s\n",
				formatNumber(e.CreditRate(state, now)), formatNumber(best.FinalCreditRate), formatSeconds(best.TotalSeconds))
			return nil
		}),
	}

	cmd.Flags().IntVar(&steps, "steps", 20, "Maximum purchases to simulate")
	cmd.Flags().DurationVar(&horizon, "horizon", 4*time.Hour, "Stop planning past this much game time (0 for no limit)")
	cmd.Flags().StringVar(&strategy, "strategy", "", "Only run this strategy (efficiency or cheapest)")
	return cmd
}

func eraName(e economy.Engine, index int) string {
	for _, era := range e.Catalog.Eras {
		if era.Index == index {
			return era.Name
		}
	}
	return "?"
}
