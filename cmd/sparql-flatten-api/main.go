package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"sparql-flatten/internal/api"
	"sparql-flatten/internal/api/handler"
	"sparql-flatten/internal/model"
	"sparql-flatten/internal/store"
	"sparql-flatten/pkg/router"
	"sparql-flatten/pkg/utils"
)

func main() {
	var cfg model.ServerConfig
	flag.StringVar(&cfg.Addr, "addr", ":8080", "Listen address.")
	flag.StringVar(&cfg.DBPath, "db", "flatten.db", "SQLite run journal.")
	flag.Int64Var(&cfg.MaxBodyBytes, "max-body", 32<<20, "Maximum request body in bytes.")
	flag.StringVar(&cfg.RequestTimeout, "timeout", "30s", "Per-request timeout.")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	// Init DB
	db, err := store.InitDB(cfg.DBPath)
	if err != nil {
		logger.Fatalf("❌ %v", err)
	}
	defer db.Close()

	timeout := utils.ParseDuration(cfg.RequestTimeout)

	// Create router
	r := router.New()
	r.SetLogger(logger)

	// Register API routes
	api.RegisterRoutes(r, handler.New(db, logger, cfg.MaxBodyBytes, timeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server
	if err := r.Start(ctx, cfg.Addr, timeout); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Printf("❌ server: %v", err)
		db.Close()
		os.Exit(1)
	}
}
