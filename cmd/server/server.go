package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/napolitain/seldon-idle/internal/config"
	"github.com/napolitain/seldon-idle/internal/economy"
	"github.com/napolitain/seldon-idle/internal/game"
)

// server exposes the game service over HTTP
type server struct {
	svc     *game.Service
	cfg     config.ServerConfig
	log     *slog.Logger
	clicks  *limiters
	started time.Time
}

func newServer(svc *game.Service, cfg config.ServerConfig, log *slog.Logger) (*server, error) {
	clicks, err := newLimiters(cfg.ClicksPerSecond, cfg.ClickBurst, limiterCacheSize(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create click limiter: %w", err)
	}
	return &server{
		svc:     svc,
		cfg:     cfg,
		log:     log,
		clicks:  clicks,
		started: time.Now(),
	}, nil
}

func limiterCacheSize(cfg config.ServerConfig) int {
	if cfg.CacheSize > 0 {
		return cfg.CacheSize
	}
	return 1024
}

func (s *server) app() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "seldon-idle",
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: s.cfg.AllowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	app.Use(s.logRequests)

	app.Get("/health", s.health)

	api := app.Group("/api/v1")
	api.Get("/catalog", s.catalog)

	p := api.Group("/players/:id")
	p.Get("/", s.load)
	p.Post("/click", s.click)
	p.Post("/buildings/:key/buy", s.buyBuilding)
	p.Post("/upgrades/:key/buy", s.buyUpgrade)
	p.Post("/items/:key/activate", s.activateConsumable)
	p.Get("/prestige", s.prestigePreview)
	p.Post("/prestige", s.prestige)
	p.Post("/save", s.save)
	p.Get("/rankings", s.rankings)

	admin := api.Group("/admin/players/:id")
	admin.Post("/items/:key", s.grantItem)
	admin.Post("/events/:key", s.triggerEvent)

	return app
}

func (s *server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status, _ = classify(err)
	}
	level := slog.LevelDebug
	if status >= fiber.StatusInternalServerError {
		level = slog.LevelError
	}
	s.log.Log(c.UserContext(), level, "HTTP request",
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"took", time.Since(start))
	return err
}

func (s *server) health(c *fiber.Ctx) error {
	return sendSuccess(c, fiber.Map{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *server) catalog(c *fiber.Ctx) error {
	cat := s.svc.Engine().Catalog
	return sendSuccess(c, fiber.Map{
		"buildings":    cat.Buildings,
		"upgrades":     cat.Upgrades,
		"achievements": cat.Achievements,
		"items":        cat.Items,
		"events":       cat.Events,
		"eras":         cat.Eras,
	})
}

func (s *server) load(c *fiber.Ctx) error {
	out, err := s.svc.Load(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return sendSuccess(c, out)
}

type clickRequest struct {
	Clicks int `json:"clicks"`
}

func (s *server) click(c *fiber.Ctx) error {
	userID := c.Params("id")
	if !s.clicks.allow(userID) {
		return errRateLimited
	}
	req := clickRequest{Clicks: 1}
	if err := parseBody(c, &req); err != nil {
		return err
	}
	out, err := s.svc.Click(c.UserContext(), userID, req.Clicks)
	if err != nil {
		return err
	}
	return sendSuccess(c, out)
}

type amountRequest struct {
	Amount int `json:"amount"`
}

func (s *server) buyBuilding(c *fiber.Ctx) error {
	req := amountRequest{Amount: 1}
	if err := parseBody(c, &req); err != nil {
		return err
	}
	out, err := s.svc.BuyBuilding(c.UserContext(), c.Params("id"), c.Params("key"), req.Amount)
	if err != nil {
		return err
	}
	return sendSuccess(c, out)
}

func (s *server) buyUpgrade(c *fiber.Ctx) error {
	out, err := s.svc.BuyUpgrade(c.UserContext(), c.Params("id"), c.Params("key"))
	if err != nil {
		return err
	}
	return sendSuccess(c, out)
}

func (s *server) activateConsumable(c *fiber.Ctx) error {
	out, err := s.svc.ActivateConsumable(c.UserContext(), c.Params("id"), c.Params("key"))
	if err != nil {
		return err
	}
	return sendSuccess(c, out)
}

func (s *server) grantItem(c *fiber.Ctx) error {
	req := amountRequest{Amount: 1}
	if err := parseBody(c, &req); err != nil {
		return err
	}
	out, err := s.svc.GrantItem(c.UserContext(), c.Params("id"), c.Params("key"), req.Amount)
	if err != nil {
		return err
	}
	return sendSuccess(c, out)
}

func (s *server) triggerEvent(c *fiber.Ctx) error {
	out, err := s.svc.TriggerEvent(c.UserContext(), c.Params("id"), c.Params("key"))
	if err != nil {
		return err
	}
	return sendSuccess(c, out)
}

func (s *server) prestigePreview(c *fiber.Ctx) error {
	gain, err := s.svc.PrestigePreview(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return sendSuccess(c, gain)
}

func (s *server) prestige(c *fiber.Ctx) error {
	out, err := s.svc.Prestige(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return sendSuccess(c, out)
}

func (s *server) save(c *fiber.Ctx) error {
	var req economy.SavePayload
	if err := parseBody(c, &req); err != nil {
		return err
	}
	out, err := s.svc.Save(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return sendSuccess(c, out)
}

func (s *server) rankings(c *fiber.Ctx) error {
	r, err := s.svc.Rankings(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return sendSuccess(c, r)
}

// parseBody decodes an optional JSON body over the defaults already in v
func parseBody(c *fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.App().Config().JSONDecoder(c.Body(), v); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}

func (s *server) errorHandler(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		var fe *fiber.Error
		if !errors.As(err, &fe) {
			s.log.Error("Request failed", "path", c.Path(), "error", err)
			message = "internal server error"
		}
	}
	return sendError(c, status, code, message)
}
