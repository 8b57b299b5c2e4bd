package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/me/spq/internal/auth"
	"github.com/me/spq/internal/config"
	"github.com/me/spq/internal/logging"
	"github.com/me/spq/internal/quotes"
	"github.com/me/spq/internal/server"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML config file")
	addr := flag.String("addr", "", "Listen address (default :8080)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "", "Log format (text, json)")
	dataDir := flag.String("data-dir", "", "Data directory for users.json and the quotes dataset")
	storeBackend := flag.String("store", "", "Quotes backend: sqlite or file (default sqlite)")
	usersFile := flag.String("users", "", "Credential dataset path (default <data-dir>/users.json)")
	secure := flag.Bool("secure", false, "Mark the auth cookie Secure (behind HTTPS)")
	debug := flag.Bool("debug", false, "Shorthand for --log-level=debug")

	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// Flags win over file and environment.
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logFormat != "" {
		cfg.LogFormat = *logFormat
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *storeBackend != "" {
		cfg.Store = *storeBackend
	}
	if *usersFile != "" {
		cfg.UsersFile = *usersFile
	}
	if *secure {
		cfg.Secure = true
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "cannot create %s: %v\n", cfg.DataDir, err)
		os.Exit(1)
	}

	// Open the quotes store.
	var st quotes.Store
	switch cfg.Store {
	case config.StoreSQLite:
		sqliteStore, err := quotes.NewSQLiteStore(cfg.QuotesDBPath(), logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open database: %v\n", err)
			os.Exit(1)
		}
		if err := sqliteStore.Migrate(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "migrate database: %v\n", err)
			os.Exit(1)
		}
		st = sqliteStore
		logger.Info("database ready", "path", cfg.QuotesDBPath())
	case config.StoreFile:
		st = quotes.NewFileStore(cfg.QuotesFilePath(), logger)
		logger.Info("file store ready", "path", cfg.QuotesFilePath())
	}
	defer st.Close()

	creds := auth.NewCredentialStore(cfg.UsersPath(), logger)
	client := quotes.NewClient(quotes.DefaultClientConfig(), logger)

	srv := server.New(cfg, st, client.FetchFunc(), creds, logger)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "addr", cfg.Addr, "store", cfg.Store)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
