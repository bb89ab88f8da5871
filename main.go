package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"askchart/ai"
	"askchart/cache"
	"askchart/config"
	"askchart/db"
	_ "askchart/docs" // Swagger docs
	"askchart/handlers"
	"askchart/logger"
	"askchart/service"
	"askchart/tabular"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	configPath := flag.String("config", "", "path to a yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	// In-memory dataset cache
	tables, err := tabular.New(log)
	if err != nil {
		return fmt.Errorf("failed to initialize dataset cache: %w", err)
	}
	defer tables.Close()

	// Document store for users, history and presets
	kv, err := openKV(cfg.Store)
	if err != nil {
		return err
	}
	docs := db.NewDocumentStore(kv)
	defer docs.Close()

	answers := cache.New(cfg.Oracle.CacheTTL)

	var oracle ai.Oracle
	switch cfg.Oracle.Mode {
	case "http":
		oracle = ai.NewHTTPClient(ai.HTTPClientConfig{
			APIURL:      cfg.Oracle.APIURL,
			APIKey:      cfg.Oracle.APIKey,
			Model:       cfg.Oracle.Model,
			MinInterval: cfg.Oracle.MinInterval,
		}, answers, log)
	default:
		oracle = ai.NewKeywordOracle()
	}

	// Upstream SQL Server (optional)
	var upstream service.Source
	var upstreamHealth handlers.Upstream
	if !cfg.TestMode && cfg.SQLServer.Enabled() {
		sqlSource, err := service.NewSQLServerSource(cfg.SQLServer, log)
		if err != nil {
			log.Warn("SQL Server features will be unavailable", "error", err)
		} else {
			defer sqlSource.Close()
			upstream = sqlSource
			upstreamHealth = sqlSource
			log.Info("SQL Server source initialized", "server", cfg.SQLServer.Server, "database", cfg.SQLServer.Database)
		}
	}

	pipeline := service.NewPipeline(tables, upstream, service.NewSampleSource(), oracle, docs, answers,
		service.PipelineConfig{OracleTimeout: cfg.Oracle.Timeout, TestMode: cfg.TestMode}, log)
	h := handlers.New(pipeline, service.NewPresetResolver(docs, log), docs, upstreamHealth, cfg.Store.Backend, log)

	if logger.ParseLevel(cfg.Log.Level) > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(handlers.RequestLogger(log), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.CORS)))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	h.Register(r, cfg.Oracle.StubEndpoint)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "oracle", cfg.Oracle.Mode, "store", cfg.Store.Backend, "test_mode", cfg.TestMode)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openKV(cfg config.StoreConfig) (db.KV, error) {
	switch cfg.Backend {
	case "badger":
		kv, err := db.NewBadgerKV(cfg.BadgerPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return kv, nil
	default:
		kv, err := db.NewFileKV(cfg.FilesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize user data directory: %w", err)
		}
		return kv, nil
	}
}

// corsConfig allows every origin unless specific origins are configured.
func corsConfig(cfg config.CORSConfig) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS", "HEAD"}
	c.AllowHeaders = []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "Accept", "Origin", "Cache-Control", "X-Requested-With"}
	c.MaxAge = 24 * time.Hour

	if len(cfg.AllowOrigins) == 0 || (len(cfg.AllowOrigins) == 1 && cfg.AllowOrigins[0] == "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = cfg.AllowOrigins
	c.AllowCredentials = true
	return c
}
