package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/lox/pokerodds/internal/config"
	"github.com/lox/pokerodds/internal/logging"
	"github.com/lox/pokerodds/internal/server"
)

var CLI struct {
	Config   string `short:"c" long:"config" default:"pokerodds.hcl" help:"Path to HCL configuration file"`
	Address  string `short:"a" long:"address" help:"Address to bind to (overrides config)"`
	Port     int    `short:"p" long:"port" help:"Port to listen on (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
	Workers  int    `short:"w" long:"workers" help:"Workers per calculation (overrides config)"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("odds-server"),
		kong.Description("WebSocket service answering Texas Hold'em equity requests"),
		kong.UsageOnError(),
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		ctx.Exit(1)
	}

	// Apply command line overrides
	if CLI.Address != "" {
		cfg.Server.Address = CLI.Address
	}
	if CLI.Port != 0 {
		cfg.Server.Port = CLI.Port
	}
	if CLI.LogLevel != "" {
		cfg.Log.Level = CLI.LogLevel
	}
	if CLI.Workers != 0 {
		cfg.Equity.Workers = CLI.Workers
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		ctx.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg.Log.Level)
	logger.Info("Starting odds server",
		"addr", cfg.Server.Addr(),
		"method", cfg.Equity.Method,
		"iterations", cfg.Equity.Iterations,
		"maxIterations", cfg.Server.MaxIterations,
		"maxRequests", cfg.Server.MaxRequests)

	srv := server.NewServer(logger,
		server.WithCalculatorOptions(cfg.Equity.Options()...),
		server.WithMethod(cfg.Equity.ParsedMethod()),
		server.WithMaxIterations(cfg.Server.MaxIterations),
		server.WithMaxRequests(cfg.Server.MaxRequests),
	)

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Start(cfg.Server.Addr())
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		if err != nil {
			logger.Error("Server failed", "error", err)
			ctx.Exit(1)
		}
	case sig := <-sigChan:
		logger.Info("Shutting down", "signal", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			logger.Error("Shutdown failed", "error", err)
		}
	}
}
