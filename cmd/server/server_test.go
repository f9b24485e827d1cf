package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/napolitain/seldon-idle/internal/clock"
	"github.com/napolitain/seldon-idle/internal/config"
	"github.com/napolitain/seldon-idle/internal/economy"
	"github.com/napolitain/seldon-idle/internal/game"
	"github.com/napolitain/seldon-idle/internal/loader"
	"github.com/napolitain/seldon-idle/internal/store"
)

var t0 = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// testApp creates the HTTP app over an in-memory store without starting a listener
func testApp(t *testing.T, cfg config.ServerConfig) (*fiber.App, *clock.FakeClock) {
	t.Helper()

	catalog, err := loader.LoadCatalog("../../data")
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	st, err := store.OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.NewFakeClock(t0)
	svc := game.NewService(economy.New(catalog, economy.DefaultConfig()), st, clk, log)

	srv, err := newServer(svc, cfg, log)
	if err != nil {
		t.Fatalf("newServer failed: %v", err)
	}
	return srv.app(), clk
}

func defaultApp(t *testing.T) (*fiber.App, *clock.FakeClock) {
	return testApp(t, config.Default().Server)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("%s %s: body is not an envelope: %v (%s)", method, path, err, raw)
	}
	return resp.StatusCode, env
}

func decode(t *testing.T, raw json.RawMessage, v any) {
	t.Helper()
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(v); err != nil {
		t.Fatalf("Failed to decode data: %v (%s)", err, raw)
	}
}

func TestHealth(t *testing.T) {
	app, _ := defaultApp(t)

	status, env := do(t, app, http.MethodGet, "/health", "")
	if status != http.StatusOK || !env.Success {
		t.Errorf("health: status %d, envelope %+v", status, env)
	}
}

func TestCatalogEndpoint(t *testing.T) {
	app, _ := defaultApp(t)

	status, env := do(t, app, http.MethodGet, "/api/v1/catalog", "")
	if status != http.StatusOK {
		t.Fatalf("status %d", status)
	}
	var data struct {
		Buildings []json.RawMessage `json:"buildings"`
		Eras      []json.RawMessage `json:"eras"`
	}
	decode(t, env.Data, &data)
	if len(data.Buildings) != 8 || len(data.Eras) != 4 {
		t.Errorf("catalog has %d buildings and %d eras", len(data.Buildings), len(data.Eras))
	}
}

func TestLoadAndClick(t *testing.T) {
	app, _ := defaultApp(t)

	status, env := do(t, app, http.MethodGet, "/api/v1/players/u1", "")
	if status != http.StatusOK || !env.Success {
		t.Fatalf("load: status %d, %+v", status, env.Error)
	}
	var loaded game.Outcome
	decode(t, env.Data, &loaded)
	if loaded.State.ClickValue != 1 {
		t.Errorf("click value = %v, want 1", loaded.State.ClickValue)
	}

	status, env = do(t, app, http.MethodPost, "/api/v1/players/u1/click", `{"clicks": 5}`)
	if status != http.StatusOK {
		t.Fatalf("click: status %d, %+v", status, env.Error)
	}
	var clicked game.Outcome
	decode(t, env.Data, &clicked)
	if clicked.Click == nil || clicked.Click.Credits != 5 || clicked.State.TotalClicks != 5 {
		t.Errorf("click outcome = %+v", clicked.Click)
	}

	// no body means one click
	_, env = do(t, app, http.MethodPost, "/api/v1/players/u1/click", "")
	decode(t, env.Data, &clicked)
	if clicked.State.TotalClicks != 6 {
		t.Errorf("total clicks = %d, want 6", clicked.State.TotalClicks)
	}
}

func TestErrorStatuses(t *testing.T) {
	app, _ := defaultApp(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"click count out of range", http.MethodPost, "/api/v1/players/u1/click", `{"clicks": 0}`, 400, "BAD_REQUEST"},
		{"malformed body", http.MethodPost, "/api/v1/players/u1/click", `{"clicks":`, 400, "BAD_REQUEST"},
		{"bulk amount out of range", http.MethodPost, "/api/v1/players/u1/buildings/data_terminal/buy", `{"amount": -2}`, 400, "BAD_REQUEST"},
		{"unknown building", http.MethodPost, "/api/v1/players/u1/buildings/trminal/buy", "", 404, "NOT_FOUND"},
		{"unknown event", http.MethodPost, "/api/v1/admin/players/u1/events/nope", "", 404, "NOT_FOUND"},
		{"cannot afford", http.MethodPost, "/api/v1/players/u1/buildings/trade_post/buy", "", 409, "CONFLICT"},
		{"locked building", http.MethodPost, "/api/v1/players/u1/buildings/atomic_forge/buy", "", 409, "CONFLICT"},
		{"nothing to prestige", http.MethodPost, "/api/v1/players/u1/prestige", "", 409, "CONFLICT"},
		{"future save", http.MethodPost, "/api/v1/players/u1/save", `{"last_tick_at": "2030-01-01T00:00:00Z"}`, 400, "BAD_REQUEST"},
		{"unknown route", http.MethodGet, "/api/v1/nowhere", "", 404, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, app, tt.method, tt.path, tt.body)
			if status != tt.status {
				t.Errorf("status = %d, want %d (%+v)", status, tt.status, env.Error)
			}
			if env.Success || env.Error == nil || env.Error.Code != tt.code {
				t.Errorf("envelope = %+v, want code %s", env, tt.code)
			}
		})
	}
}

func TestUnknownKeySuggestion(t *testing.T) {
	app, _ := defaultApp(t)

	_, env := do(t, app, http.MethodPost, "/api/v1/players/u1/buildings/trminal/buy", "")
	if env.Error == nil || !strings.Contains(env.Error.Message, `did you mean "data_terminal"`) {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestClickRateLimit(t *testing.T) {
	cfg := config.Default().Server
	cfg.ClicksPerSecond = 0.001
	cfg.ClickBurst = 2
	app, _ := testApp(t, cfg)

	for i := 0; i < 2; i++ {
		if status, env := do(t, app, http.MethodPost, "/api/v1/players/u1/click", ""); status != http.StatusOK {
			t.Fatalf("click %d: status %d, %+v", i, status, env.Error)
		}
	}
	status, env := do(t, app, http.MethodPost, "/api/v1/players/u1/click", "")
	if status != http.StatusTooManyRequests || env.Error.Code != "RATE_LIMITED" {
		t.Errorf("third click: status %d, %+v", status, env.Error)
	}

	// buckets are per user
	if status, _ := do(t, app, http.MethodPost, "/api/v1/players/u2/click", ""); status != http.StatusOK {
		t.Errorf("another user was limited: status %d", status)
	}
}

func TestPurchaseFlow(t *testing.T) {
	app, clk := defaultApp(t)

	save := `{"resources": {"credits": 1000}, "last_tick_at": "` + t0.Format(time.RFC3339) + `", "lifetime_credits": 1000}`
	if status, env := do(t, app, http.MethodPost, "/api/v1/players/u1/save", save); status != http.StatusOK {
		t.Fatalf("save: status %d, %+v", status, env.Error)
	}

	status, env := do(t, app, http.MethodPost, "/api/v1/players/u1/buildings/trade_post/buy", `{"amount": 2}`)
	if status != http.StatusOK {
		t.Fatalf("buy: status %d, %+v", status, env.Error)
	}
	var out game.Outcome
	decode(t, env.Data, &out)
	// 100 + 115
	if out.Spent == nil || math.Abs(out.Spent.Credits-215) > 1e-9 || out.State.BuildingCount("trade_post") != 2 {
		t.Errorf("buy outcome: spent=%+v count=%d", out.Spent, out.State.BuildingCount("trade_post"))
	}

	clk.Advance(2 * time.Second)
	if status, env := do(t, app, http.MethodGet, "/api/v1/players/u1", ""); status != http.StatusOK {
		t.Fatalf("load: status %d, %+v", status, env.Error)
	}
	_, env = do(t, app, http.MethodGet, "/api/v1/players/u1/rankings", "")
	var r game.Rankings
	decode(t, env.Data, &r)
	if len(r.Buildings) == 0 {
		t.Error("Expected building rankings")
	}

	// a save older than the last tick is reported stale
	status, env = do(t, app, http.MethodPost, "/api/v1/players/u1/save", save)
	if status != http.StatusOK {
		t.Fatalf("stale save: status %d, %+v", status, env.Error)
	}
	decode(t, env.Data, &out)
	if !out.Stale || out.State.BuildingCount("trade_post") != 2 {
		t.Errorf("stale save outcome: stale=%v", out.Stale)
	}
}
