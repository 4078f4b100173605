package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xelth-com/jobintake/internal/config"
	"github.com/xelth-com/jobintake/internal/database"
	"github.com/xelth-com/jobintake/internal/handlers"
	"github.com/xelth-com/jobintake/internal/logger"
	"github.com/xelth-com/jobintake/internal/render"
	authService "github.com/xelth-com/jobintake/internal/services/auth"
	"github.com/xelth-com/jobintake/internal/services/printer"
	"github.com/xelth-com/jobintake/internal/services/records"
	"github.com/xelth-com/jobintake/internal/session"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// 2. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}
	// db.Close() is called in the shutdown sequence below

	// 3. Migrate schema
	if err := db.Migrate(); err != nil {
		db.Close()
		log.Fatal("Migration failed", "error", err)
	}

	// 4. Session revocation store
	var revoker session.Revoker = session.NewMemoryRevoker()
	var redisRevoker *session.RedisRevoker
	if cfg.Redis.Addr != "" {
		redisRevoker, err = session.NewRedisRevoker(context.Background(), cfg.Redis)
		if err != nil {
			db.Close()
			log.Fatal("Failed to connect to Redis", "error", err)
		}
		revoker = redisRevoker
		log.Info("Token revocation backed by Redis", "addr", cfg.Redis.Addr)
	}

	// 5. PDF backend
	measurer, err := printer.NewMeasurer()
	if err != nil {
		// the app still serves records; PDF endpoints answer 503
		log.Error("PDF backend unavailable", "error", err)
	}
	var renderer *render.Renderer
	if measurer != nil {
		renderer, err = render.New(measurer)
		if err != nil {
			log.Error("PDF renderer unavailable", "error", err)
		}
	}

	// 6. Services and HTTP router
	recordSvc := records.NewService(db, log)
	authSvc := authService.NewService(db, cfg, revoker, authService.NewLogMailer(log), log)
	router := handlers.NewRouter(cfg, log, recordSvc, authSvc, renderer, revoker)

	// 7. Start server with graceful shutdown
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", "error", err)
		}
	}()

	sig := <-shutdown
	log.Info("Shutting down gracefully", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	if redisRevoker != nil {
		if err := redisRevoker.Close(); err != nil {
			log.Warn("Redis close error", "error", err)
		}
	}

	// Close database (this also stops embedded PostgreSQL)
	if err := db.Close(); err != nil {
		log.Error("Database close error", "error", err)
	}

	log.Info("Shutdown complete")
}
