/*
Package gateway exposes the question board as a JSON API.

	GET  /questions?filter=tag   newest questions, optionally filtered
	POST /questions              ask a question, with optional bounty

Errors are JSON objects with code, title and message. Invalid input and
unparseable keys answer 400, unreachable nodes 502, expired transactions
409 and transactions rejected by the node 422.

Keys travel in the request body: the gateway is meant to listen on a
loopback address for a local front end.
*/
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/freehandle/minddapp/client"
	"github.com/freehandle/minddapp/crypto"
	"github.com/freehandle/minddapp/middleware/questions"
	"github.com/freehandle/minddapp/rpc"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type Board interface {
	Ask(ctx context.Context, q questions.Question, postingKey, activeKey crypto.PrivateKey) (*questions.AskResult, error)
	List(ctx context.Context, filter string) ([]questions.Summary, error)
}

type ErrorResponse struct {
	Code    string               `json:"code"`
	Title   string               `json:"title"`
	Message string               `json:"message"`
	Result  *questions.AskResult `json:"result,omitempty"`
}

// AskRequest is the body of POST /questions. Tags are separated by spaces.
type AskRequest struct {
	Author     string          `json:"author"`
	Title      string          `json:"title"`
	Body       string          `json:"body"`
	Tags       string          `json:"tags"`
	Bounty     decimal.Decimal `json:"bounty"`
	PostingKey string          `json:"postingKey"`
	ActiveKey  string          `json:"activeKey"`
}

func NewApp(board Board) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "minddapp",
	})
	handler := &handler{board: board}
	app.Get("/questions", handler.list)
	app.Post("/questions", handler.ask)
	return app
}

type handler struct {
	board Board
}

func (h *handler) list(c *fiber.Ctx) error {
	summaries, err := h.board.List(c.UserContext(), strings.TrimSpace(c.Query("filter")))
	if err != nil {
		return writeError(c, err, nil)
	}
	return c.Status(fiber.StatusOK).JSON(summaries)
}

func (h *handler) ask(c *fiber.Ctx) error {
	var request AskRequest
	if err := c.BodyParser(&request); err != nil {
		return respond(c, fiber.StatusBadRequest, "invalid request", err.Error(), nil)
	}
	posting, err := crypto.PrivateKeyFromString(request.PostingKey)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "invalid posting key", crypto.ErrInvalidKey.Error(), nil)
	}
	var active crypto.PrivateKey
	if request.ActiveKey != "" {
		if active, err = crypto.PrivateKeyFromString(request.ActiveKey); err != nil {
			return respond(c, fiber.StatusBadRequest, "invalid active key", crypto.ErrInvalidKey.Error(), nil)
		}
	}
	question := questions.Question{
		Author: request.Author,
		Title:  request.Title,
		Body:   request.Body,
		Tags:   strings.Fields(request.Tags),
		Bounty: request.Bounty,
	}
	result, err := h.board.Ask(c.UserContext(), question, posting, active)
	if err != nil {
		return writeError(c, err, result)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func respond(c *fiber.Ctx, status int, title, message string, result *questions.AskResult) error {
	return c.Status(status).JSON(ErrorResponse{
		Code:    strconv.Itoa(status),
		Title:   title,
		Message: message,
		Result:  result,
	})
}

// Status maps a board error to its HTTP status.
func Status(err error) (int, string) {
	var networkErr *rpc.NetworkError
	switch {
	case errors.Is(err, crypto.ErrInvalidKey):
		return fiber.StatusBadRequest, "invalid key"
	case errors.Is(err, questions.ErrMissingAuthor), errors.Is(err, questions.ErrMissingTitle), errors.Is(err, questions.ErrInvalidBounty):
		return fiber.StatusBadRequest, "invalid question"
	case errors.Is(err, client.ErrTransactionExpired):
		return fiber.StatusConflict, "transaction expired"
	case errors.Is(err, rpc.ErrRejected):
		return fiber.StatusUnprocessableEntity, "rejected by node"
	case errors.As(err, &networkErr):
		return fiber.StatusBadGateway, "node unavailable"
	}
	return fiber.StatusInternalServerError, "internal error"
}

func writeError(c *fiber.Ctx, err error, result *questions.AskResult) error {
	status, title := Status(err)
	if status == fiber.StatusInternalServerError {
		slog.Error("gateway request failed", "path", c.Path(), "error", err)
		return respond(c, status, title, "internal error", result)
	}
	slog.Info("gateway request refused", "path", c.Path(), "status", status, "error", err)
	return respond(c, status, title, err.Error(), result)
}

type Configuration struct {
	Hostname string `json:"hostname"`
	Port     int    `json:"port"`
}

func (c Configuration) Check() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid gateway port %d", c.Port)
	}
	return nil
}

func (c Configuration) Address() string {
	return fmt.Sprintf("%s:%d", c.Hostname, c.Port)
}

// NewServer serves board until ctx is done. The returned channel receives
// the error that terminated the server, nil after a clean shutdown.
func NewServer(ctx context.Context, config Configuration, board Board) chan error {
	terminate := make(chan error, 2)
	app := NewApp(board)
	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			slog.Warn("gateway shutdown", "error", err)
		}
	}()
	go func() {
		slog.Info("gateway listening", "address", config.Address())
		terminate <- app.Listen(config.Address())
	}()
	return terminate
}
