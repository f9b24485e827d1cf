package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/napolitain/seldon-idle/internal/economy"
	"github.com/napolitain/seldon-idle/internal/models"
	"github.com/napolitain/seldon-idle/internal/planner"
)

var suffixes = []string{"", "K", "M", "B", "T", "Qa", "Qi"}

// formatNumber shortens large values: 1234567 -> 1.23M
func formatNumber(v float64) string {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	abs := math.Abs(v)
	if abs < 1000 {
		return strconv.FormatFloat(math.Round(v*1e4)/1e4, 'f', -1, 64)
	}
	i := 0
	for abs >= 1000 && i < len(suffixes)-1 {
		abs /= 1000
		v /= 1000
		i++
	}
	return fmt.Sprintf("%.2f%s", v, suffixes[i])
}

func printResources(w io.Writer, r models.Resources) {
	if r.IsZero() {
		fmt.Fprintln(w, "   (nothing)")
		return
	}
	r.EachNonZero(func(rt models.ResourceType, v float64) {
		fmt.Fprintf(w, "   %-14s %s\n", rt, formatNumber(v))
	})
}

func printBuildingRates(w io.Writer, e economy.Engine, state *models.GameState, now time.Time) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Building", "Owned", "Per Unit", "Total"}),
	)

	for _, bs := range state.Buildings {
		if bs.Count <= 0 {
			continue
		}
		unit, err := e.BuildingUnitRates(bs.Key, state, now)
		if err != nil {
			return err
		}
		var perUnit, total string
		for i, ra := range unit {
			if i > 0 {
				perUnit += ", "
				total += ", "
			}
			perUnit += fmt.Sprintf("%s %s", formatNumber(ra.Amount), ra.Resource)
			total += fmt.Sprintf("%s %s", formatNumber(ra.Amount*float64(bs.Count)), ra.Resource)
		}
		if err := table.Append([]string{bs.Key, strconv.Itoa(bs.Count), perUnit, total}); err != nil {
			return err
		}
	}
	return table.Render()
}

func printEfficiencies(w io.Writer, list []economy.Efficiency) error {
	if len(list) == 0 {
		fmt.Fprintln(w, "   (no candidates)")
		return nil
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"#", "Key", "Credits/s Gained", "Cost", "Gain per 1K Credits", "Payback"}),
	)
	for i, eff := range list {
		payback := "-"
		if eff.MarginalCreditsPerSec > 0 {
			payback = (time.Duration(eff.CreditCost/eff.MarginalCreditsPerSec) * time.Second).String()
		}
		row := []string{
			strconv.Itoa(i + 1),
			eff.Key,
			formatNumber(eff.MarginalCreditsPerSec),
			formatNumber(eff.CreditCost),
			fmt.Sprintf("%.4f", eff.Efficiency*1000),
			payback,
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// formatSeconds renders an offset as hh:mm:ss
func formatSeconds(seconds float64) string {
	total := int(math.Ceil(seconds))
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

func formatCost(r models.Resources) string {
	var s string
	r.EachNonZero(func(rt models.ResourceType, v float64) {
		if s != "" {
			s += ", "
		}
		s += fmt.Sprintf("%s %s", formatNumber(v), rt)
	})
	return s
}

func printPlan(w io.Writer, plan *planner.Plan) error {
	if len(plan.Actions) == 0 {
		fmt.Fprintln(w, "   (nothing affordable within the limits)")
		return nil
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"#", "At", "Wait", "Kind", "Key", "Cost", "Credits/s"}),
	)
	for i, a := range plan.Actions {
		row := []string{
			strconv.Itoa(i + 1),
			formatSeconds(a.StartSeconds),
			formatSeconds(a.WaitSeconds),
			string(a.Kind),
			a.Key,
			formatCost(a.Cost),
			fmt.Sprintf("%s -> %s", formatNumber(a.CreditRateBefore), formatNumber(a.CreditRateAfter)),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
