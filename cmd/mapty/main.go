package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/mapty/internal/config"
	"github.com/claude/mapty/internal/mcp"
	"github.com/claude/mapty/internal/server"
	"github.com/claude/mapty/internal/storage"
	"github.com/claude/mapty/internal/tracker"
	"github.com/claude/mapty/internal/workout"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (built-in defaults when empty)")
	migrateOnly := flag.Bool("migrate-only", false, "apply postgres migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("Mapty starting", "version", Version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if *migrateOnly {
		if cfg.Storage.Driver != config.DriverPostgres {
			log.Error("migrate-only needs the postgres storage driver", "driver", cfg.Storage.Driver)
			os.Exit(1)
		}
		if err := storage.RunMigrations(cfg.Storage.Postgres.DSN()); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied, exiting")
		return
	}

	// Open storage and restore the saved log
	ctx := context.Background()
	kv, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		log.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer kv.Close()
	log.Info("storage opened", "driver", cfg.Storage.Driver, "key", cfg.Storage.Key)

	t := tracker.New(storage.NewPersister(kv, cfg.Storage.Key), workout.NewFactory(), log)
	state := t.Hydrate(ctx)
	log.Info("workout log ready", "state", state.String(), "count", len(t.Workouts()))

	srv := server.New(t, cfg.Auth.APIKey, log, server.WithCORSOrigin(cfg.Server.CORSOrigin))
	srv.HandleMCP(mcpserver.NewStreamableHTTPServer(mcp.New(mcp.NewLocal(t), Version, log)))

	// Listen on tsnet or plain TCP
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "plain (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
