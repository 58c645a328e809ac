package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/freehandle/minddapp/client"
	"github.com/freehandle/minddapp/middleware/config"
	"github.com/freehandle/minddapp/middleware/gateway"
	"github.com/freehandle/minddapp/middleware/questions"
)

// serve runs the gateway with the configuration at path, or the standard
// configuration when path is empty.
func serve(path string) error {
	cfg := config.StandardServerConfig
	if path != "" {
		loaded, err := config.LoadConfig[config.ServerConfig](path)
		if err != nil {
			return err
		}
		cfg = *loaded
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	c, err := client.New(cfg.Network)
	if err != nil {
		return fmt.Errorf("could not create network client: %w", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	board := questions.NewBoard(c, cfg.Board)
	return <-gateway.NewServer(ctx, cfg.Gateway, board)
}
