package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/edusolve/solvex/internal/cache"
	"github.com/edusolve/solvex/internal/config"
	logpkg "github.com/edusolve/solvex/internal/logger"
	"github.com/edusolve/solvex/internal/metrics"
	"github.com/edusolve/solvex/internal/ocr"
	chiTransport "github.com/edusolve/solvex/internal/transport/chi"
	"github.com/edusolve/solvex/internal/transport/searchapi"
	"github.com/edusolve/solvex/internal/transport/translate"
	ytTransport "github.com/edusolve/solvex/internal/transport/youtube"
	confidenceuc "github.com/edusolve/solvex/internal/usecase/confidence"
	extractuc "github.com/edusolve/solvex/internal/usecase/extract"
	fetchuc "github.com/edusolve/solvex/internal/usecase/fetch"
	healthuc "github.com/edusolve/solvex/internal/usecase/health"
	normalizeuc "github.com/edusolve/solvex/internal/usecase/normalize"
	searchuc "github.com/edusolve/solvex/internal/usecase/search"
	solveruc "github.com/edusolve/solvex/internal/usecase/solver"
	videouc "github.com/edusolve/solvex/internal/usecase/video"
	"github.com/edusolve/solvex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting solvex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	ctx := context.Background()

	// Shared cache for OCR output and search results
	store, redisStore := buildCache(cfg, logger)
	if redisStore != nil {
		defer redisStore.Close()
	}
	cacheTTL := time.Duration(cfg.Cache.TTLSec) * time.Second

	// OCR backends in priority order: local engine first, cloud fallback
	var backends []extractuc.Backend
	tess := ocr.NewTesseract(cfg.OCR.Tesseract.Enabled, cfg.OCR.Tesseract.Languages)
	backends = append(backends, tess)
	backends = append(backends, ocr.NewVision(ctx, cfg.OCR.Vision.APIKey))

	extractSvc := extractuc.New(backends, store, cfg.Cache.KeyPrefix, cacheTTL, logger)

	// Translation
	translator := translate.NewClient(
		cfg.Translate.BaseURL,
		cfg.Translate.APIKey,
		cfg.Translate.TargetLang,
		time.Duration(cfg.Translate.TimeoutMS)*time.Millisecond,
		logger,
	)
	normalizeSvc := normalizeuc.New(translator, cfg.Translate.TargetLang, logger)

	// Search provider chain, preferred provider first, mock as last resort
	searchTimeout := time.Duration(cfg.Search.TimeoutMS) * time.Millisecond
	searchAPI := searchapi.NewClient(cfg.Search.SearchAPIKey, searchTimeout, logger)
	serpAPI := searchapi.NewSerpAPI(cfg.Search.SerpAPIKey, searchTimeout, logger)

	var providers []searchuc.Provider
	if cfg.Search.Prefer == "serpapi" {
		providers = []searchuc.Provider{serpAPI, searchAPI}
	} else {
		providers = []searchuc.Provider{searchAPI, serpAPI}
	}
	providers = append(providers, searchapi.NewMock())

	searchSvc := searchuc.New(providers, store, cfg.Cache.KeyPrefix, cacheTTL, searchTimeout, logger)

	// Content fetcher
	fetchSvc := fetchuc.New(fetchuc.Config{
		MaxConcurrent: cfg.Fetch.MaxConcurrent,
		PerURLTimeout: time.Duration(cfg.Fetch.PerURLTimeout) * time.Millisecond,
		BatchTimeout:  time.Duration(cfg.Fetch.BatchTimeoutMS) * time.Millisecond,
		MaxContentLen: cfg.Fetch.MaxContentLen,
	}, logger)

	// Video lookup
	youtube, err := ytTransport.NewClient(ctx, cfg.YouTube.APIKey, cfg.YouTube.MaxResults, logger)
	if err != nil {
		logger.Fatal("Failed to create youtube client", zap.Error(err))
	}
	videoSvc := videouc.New(youtube, logger)

	confidenceSvc := confidenceuc.New(logger)

	solverSvc := solveruc.New(
		extractSvc, normalizeSvc, searchSvc, fetchSvc, videoSvc, confidenceSvc,
		solveruc.Options{
			FanoutTimeout: time.Duration(cfg.Pipeline.FanoutTimeoutMS) * time.Millisecond,
		},
		logger,
	)

	// Health service
	healthSvc := healthuc.New(version.Version)
	healthSvc.RegisterCheck("ocr", extractSvc.Available)
	healthSvc.RegisterCheck("search", func() bool { return searchAPI.Available() || serpAPI.Available() })
	healthSvc.RegisterCheck("translate", translator.Available)
	healthSvc.RegisterCheck("youtube", youtube.Available)
	if redisStore != nil {
		healthSvc.RegisterPinger("cache", redisStore)
	}

	// Create chi server
	server := chiTransport.NewServer(solverSvc, healthSvc, cfg.Pipeline.MaxResults, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Gate.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildCache creates the shared cache by driver. The redis store is also
// returned separately so main can close it and register its health probe.
func buildCache(cfg config.Config, logger *zap.Logger) (cache.Cache, *cache.Redis) {
	switch cfg.Cache.Driver {
	case "redis":
		store, err := cache.NewRedis(cache.RedisConfig{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create redis cache", zap.Error(err))
		}
		return store, store
	case "none":
		return cache.Nop{}, nil
	default:
		return cache.NewMemory(), nil
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"error": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
