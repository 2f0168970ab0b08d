package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/cimillas/tech-event-tracker/internal/app"
	"github.com/cimillas/tech-event-tracker/internal/auth"
	"github.com/cimillas/tech-event-tracker/internal/catalog"
	"github.com/cimillas/tech-event-tracker/internal/clock"
	"github.com/cimillas/tech-event-tracker/internal/commands"
	"github.com/cimillas/tech-event-tracker/internal/config"
	"github.com/cimillas/tech-event-tracker/internal/storage/bookmarkfile"
	"github.com/cimillas/tech-event-tracker/internal/storage/postgres"
	transporthttp "github.com/cimillas/tech-event-tracker/internal/transport/http"
	"github.com/cimillas/tech-event-tracker/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if len(os.Args) > 1 && os.Args[1] == "hash-password" {
		commands.HashPassword(os.Args[2:])
		return
	}

	logger := log.Default()
	loadEnvFile(logger)

	configPath := flag.String("config", "", "Path to a YAML config file (optional)")
	flag.Parse()
	if *configPath == "" {
		*configPath = os.Getenv("CONFIG_FILE")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	applyEnvOverrides(&cfg, logger)

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	catalogSvc := app.NewCatalogService(catalog.FileSource{Path: cfg.Catalog.Path}, clock.NewSystem(), logger)
	if _, err := catalogSvc.Reload(startupCtx); err != nil {
		log.Fatalf("load catalog from %s: %v", cfg.Catalog.Path, err)
	}

	var repo app.BookmarkRepository
	if cfg.Bookmarks.DatabaseURL != "" {
		pool, err := pgxpool.New(startupCtx, cfg.Bookmarks.DatabaseURL)
		if err != nil {
			log.Fatalf("connect to db: %v", err)
		}
		defer pool.Close()

		if err := pool.Ping(startupCtx); err != nil {
			log.Fatalf("db ping: %v", err)
		}
		if err := migrations.Apply(startupCtx, pool); err != nil {
			log.Fatalf("apply migrations: %v", err)
		}
		repo = postgres.NewBookmarkRepository(pool)
		logger.Printf("bookmarks stored in postgres")
	} else {
		repo = bookmarkfile.New(cfg.Bookmarks.File)
		logger.Printf("bookmarks stored in %s", cfg.Bookmarks.File)
	}

	bookmarkSvc := app.NewBookmarkService(repo, catalogSvc, logger)
	bookmarkSvc.Load(startupCtx)
	statsSvc := app.NewStatsService(catalogSvc)

	verifier, err := auth.LoadFile(cfg.Auth.File, logger)
	if err != nil {
		log.Fatalf("load auth credentials: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/events", transporthttp.HandleListEvents(catalogSvc))
	mux.Handle("/events/export.ics", transporthttp.HandleExportICS(catalogSvc))
	mux.Handle("/bookmarks", transporthttp.HandleBookmarks(bookmarkSvc))
	mux.Handle("/bookmarks/", transporthttp.HandleBookmarkByID(bookmarkSvc))
	mux.Handle("/stats", transporthttp.HandleStats(statsSvc))
	mux.Handle("/admin/catalog/reload", verifier.RequireAuth(transporthttp.HandleCatalogReload(catalogSvc)))
	mux.Handle("/admin/catalog/status", verifier.RequireAuth(transporthttp.HandleCatalogStatus(catalogSvc)))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.Server.CORSOrigins, mux), logger)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: handler,
	}

	log.Printf("api listening on :%d", cfg.Server.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-stopCtx.Done():
		log.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("server stopped")
}

func applyEnvOverrides(cfg *config.Config, logger *log.Logger) {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 1 || port > 65535 {
			logger.Printf("WARN: ignoring invalid PORT %q", v)
		} else {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("BOOKMARK_FILE"); v != "" {
		cfg.Bookmarks.File = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Bookmarks.DatabaseURL = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = parseCSV(v)
	}
	if v := os.Getenv("AUTH_FILE"); v != "" {
		cfg.Auth.File = v
	}
}

func parseCSV(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func loadEnvFile(logger *log.Logger) {
	path, err := findEnvFile()
	if err != nil {
		logger.Printf("WARN: failed to locate .env: %v", err)
		return
	}
	if path == "" {
		return
	}

	file, err := os.Open(path)
	if err != nil {
		logger.Printf("WARN: failed to open %s: %v", path, err)
		return
	}
	if err := parseEnvFile(logger, file); err != nil {
		logger.Printf("WARN: failed to load %s: %v", path, err)
	} else {
		logger.Printf("loaded env from %s", path)
	}
	_ = file.Close()
}

func findEnvFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for i := 0; i < 6; i++ {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil
}

func parseEnvFile(logger *log.Logger, file *os.File) error {
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			continue
		}
		value = trimQuotes(value)
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			logger.Printf("WARN: failed to set %s from env file", key)
		}
	}
	return scanner.Err()
}

func trimQuotes(value string) string {
	if len(value) < 2 {
		return value
	}
	if (value[0] == '"' && value[len(value)-1] == '"') ||
		(value[0] == '\'' && value[len(value)-1] == '\'') {
		return value[1 : len(value)-1]
	}
	return value
}
