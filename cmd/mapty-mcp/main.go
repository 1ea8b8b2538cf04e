package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/mapty/internal/config"
	"github.com/claude/mapty/internal/mcp"
	"github.com/claude/mapty/internal/storage"
	"github.com/claude/mapty/internal/tracker"
	"github.com/claude/mapty/internal/workout"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file for local mode")
	serverURL := flag.String("server", "", "Mapty server URL for remote mode (e.g. https://mapty.tail1234.ts.net)")
	apiKey := flag.String("api-key", os.Getenv("MAPTY_AUTH_API_KEY"), "API key sent to the remote server")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("mapty-mcp", Version)
		return
	}

	// stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource
	if *serverURL != "" {
		ds = mcp.NewHTTPClient(*serverURL, *apiKey)
		log.Info("mapty-mcp remote mode", "server", *serverURL)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		ctx := context.Background()
		kv, err := storage.Open(ctx, cfg.Storage)
		if err != nil {
			log.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
			os.Exit(1)
		}
		defer kv.Close()

		t := tracker.New(storage.NewPersister(kv, cfg.Storage.Key), workout.NewFactory(), log)
		t.Hydrate(ctx)
		ds = mcp.NewLocal(t)
		log.Info("mapty-mcp local mode", "driver", cfg.Storage.Driver)
	}

	if err := mcpserver.ServeStdio(mcp.New(ds, Version, log)); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
