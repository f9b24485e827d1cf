package main

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/napolitain/seldon-idle/internal/economy"
	"github.com/napolitain/seldon-idle/internal/game"
)

var (
	errBadRequest  = errors.New("bad request")
	errRateLimited = errors.New("too many clicks, slow down")
)

// response is the envelope of every API reply
type response struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func sendSuccess(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(response{Success: true, Data: data})
}

func sendError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(response{Error: &apiError{Code: code, Message: message}})
}

// classify maps an error to its HTTP status and envelope code
func classify(err error) (int, string) {
	var keyErr *economy.KeyError
	var fe *fiber.Error
	switch {
	case errors.As(err, &keyErr):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, errRateLimited):
		return fiber.StatusTooManyRequests, "RATE_LIMITED"
	case errors.Is(err, errBadRequest),
		errors.Is(err, economy.ErrInvalidClickCount),
		errors.Is(err, economy.ErrInvalidAmount),
		errors.Is(err, game.ErrInvalidSave):
		return fiber.StatusBadRequest, "BAD_REQUEST"
	case errors.Is(err, game.ErrRefused):
		return fiber.StatusConflict, "CONFLICT"
	case errors.As(err, &fe):
		return fe.Code, fiberCode(fe.Code)
	}
	return fiber.StatusInternalServerError, "INTERNAL_SERVER_ERROR"
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return "BAD_REQUEST"
	}
	return "INTERNAL_SERVER_ERROR"
}
