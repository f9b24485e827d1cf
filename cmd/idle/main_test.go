package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/napolitain/seldon-idle/internal/models"
)

func init() {
	color.NoColor = true
}

var t0 = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func writeSave(t *testing.T) string {
	t.Helper()
	state := &models.GameState{
		Resources:       models.Resources{Credits: 500},
		Prestige:        models.PrestigeState{PrestigeMultiplier: 1},
		LifetimeCredits: 4e6,
		LastTickAt:      t0,
		Buildings: []models.BuildingState{
			{Key: "data_terminal", Count: 10, IsUnlocked: true},
			{Key: "trade_post", Count: 2, IsUnlocked: true},
		},
	}
	data, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("Failed to marshal save: %v", err)
	}
	path := filepath.Join(t.TempDir(), "save.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write save: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--data", "../../data", "--at", t0.Format(time.RFC3339)}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	save := writeSave(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"validate", []string{"validate"}, []string{"Catalog OK: 8 buildings", "4 eras"}},
		// 10 x 0.1 + 2 x 1
		{"rates", []string{"rates", save}, []string{"credits", "3", "data_terminal", "Click value"}},
		{"rank", []string{"rank", save}, []string{"Buildings", "trade_post", "Upgrades"}},
		{"cost", []string{"cost", "data_terminal", "--amount", "5", "--budget", "100"}, []string{"Data Terminal", "Next 5 units", "buys 4 units"}},
		// 3/s for an hour at 50%
		{"offline", []string{"offline", save, "--for", "1h"}, []string{"Offline for 1h0m0s", "5.40K"}},
		{"active gap", []string{"offline", save, "--for", "5s"}, []string{"active play", "15"}},
		{"era", []string{"era", save}, []string{"Era 0", "+2 seldon points", "The Traders"}},
		{"plan", []string{"plan", save, "--steps", "5"}, []string{"Strategies", "efficiency", "cheapest", "Purchase order"}},
		// 500 credits on hand covers the next data terminal at once
		{"plan one strategy", []string{"plan", save, "--strategy", "cheapest", "--steps", "3"}, []string{"Purchase order (cheapest)", "00:00:00", "3 -> "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("%v failed: %v\n%s", tt.args, err, out)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestCommandErrors(t *testing.T) {
	save := writeSave(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown building", []string{"cost", "trminal"}, `did you mean "data_terminal"`},
		{"amount out of range", []string{"cost", "data_terminal", "--amount", "0"}, "purchase amount out of range"},
		{"missing save", []string{"rates", "/nonexistent/save.json"}, "failed to read save"},
		{"bad time", []string{"rates", save, "--at", "yesterday"}, "invalid --at"},
		{"missing argument", []string{"era"}, "accepts 1 arg"},
		{"no plan steps", []string{"plan", save, "--steps", "0"}, "--steps must be at least 1"},
		{"unknown strategy", []string{"plan", save, "--strategy", "fastest"}, "unknown strategy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{0.1, "0.1"},
		{999, "999"},
		{1234, "1.23K"},
		{5400, "5.40K"},
		{2.5e6, "2.50M"},
		{-3e9, "-3.00B"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.in); got != tt.want {
			t.Errorf("formatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
