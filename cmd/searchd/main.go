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

	"github.com/lumenote/searchd/internal/cache"
	"github.com/lumenote/searchd/internal/config"
	dbRedis "github.com/lumenote/searchd/internal/db/redis"
	"github.com/lumenote/searchd/internal/domain"
	logpkg "github.com/lumenote/searchd/internal/logger"
	"github.com/lumenote/searchd/internal/metrics"
	"github.com/lumenote/searchd/internal/repository/analytics"
	"github.com/lumenote/searchd/internal/repository/consent"
	"github.com/lumenote/searchd/internal/repository/doccache"
	"github.com/lumenote/searchd/internal/repository/embcache"
	"github.com/lumenote/searchd/internal/repository/querylog"
	chiTransport "github.com/lumenote/searchd/internal/transport/chi"
	"github.com/lumenote/searchd/internal/transport/docstore"
	openaiEmb "github.com/lumenote/searchd/internal/transport/openai"
	"github.com/lumenote/searchd/internal/transport/vecindex"
	healthuc "github.com/lumenote/searchd/internal/usecase/health"
	searchuc "github.com/lumenote/searchd/internal/usecase/search"
	suggestuc "github.com/lumenote/searchd/internal/usecase/suggest"
	"github.com/lumenote/searchd/internal/version"
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

	logger.Info("Starting searchd API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("redis_addrs", cfg.Redis.Addrs),
		zap.String("docstore", cfg.DocStore.BaseURL),
		zap.String("vecindex", cfg.VecIndex.BaseURL),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Redis.Addrs,
		Password: cfg.Redis.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create Redis store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Redis.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Redis not ready", zap.Error(err))
	}
	logger.Info("Connected to Redis")

	// Register domain metrics explicitly (no init())
	metrics.RegisterSearchMetrics()
	metrics.RegisterEmbeddingMetrics()

	// TTL cache namespaces
	responseCache := cache.New[*domain.SearchResponse](
		"response", cfg.Cache.ResponseTTL(), cfg.Cache.ResponseMax, metrics.CacheTotal)
	embeddingCache := cache.New[[]float32](
		"embedding", cfg.Cache.EmbeddingTTL(), 0, metrics.CacheTotal)
	suggestionCache := cache.New[[]string](
		"suggestion", cfg.Cache.SuggestionTTL(), 0, metrics.CacheTotal)
	documentCache := cache.New[domain.Document](
		"document", cfg.Cache.DocumentTTL(), 0, metrics.CacheTotal)

	// Embedder chain: OpenAI-compatible provider -> TTL cache
	baseEmbedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	embedder := embcache.New(baseEmbedder, embeddingCache)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Upstream clients
	docClient := docstore.NewClient(docstore.Config{
		BaseURL: cfg.DocStore.BaseURL,
		APIKey:  cfg.DocStore.APIKey,
		Timeout: time.Duration(cfg.DocStore.TimeoutSec) * time.Second,
	})
	cachedDocs := doccache.New(docClient, documentCache)
	vecClient := vecindex.NewClient(vecindex.Config{
		BaseURL: cfg.VecIndex.BaseURL,
		APIKey:  cfg.VecIndex.APIKey,
		Timeout: time.Duration(cfg.VecIndex.TimeoutSec) * time.Second,
	})

	// Redis-backed repositories
	queryLog := querylog.New(store, cfg.Search.QueryLogMax)
	consentStore := consent.New(store, logger)
	eventSink := analytics.New(store)

	// Use case services
	speller := suggestuc.NewSpeller(queryLog).WithSampleLimit(cfg.Search.QueryLogSample)
	searchSvc := searchuc.New(cachedDocs, vecClient, embedder, logger).
		WithResponseCache(responseCache).
		WithSuggestions(queryLog, speller).
		WithAnalytics(consentStore, eventSink).
		WithLimits(
			cfg.Search.KeywordFetchLimit,
			cfg.Search.SemanticTopK,
			cfg.Search.MaxPerGroup,
			cfg.Search.DefaultPerPage,
			cfg.Search.MaxPerPage,
		)
	suggestSvc := suggestuc.New(cachedDocs, vecClient, embedder, logger).
		WithCache(suggestionCache)
	healthSvc := healthuc.New(store, docClient, vecClient, baseEmbedder)

	server := chiTransport.NewServer(searchSvc, suggestSvc, healthSvc, cachedDocs, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Mount(r)

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
						"code":    "internal_error",
						"message": "internal error",
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

			// Canonical log line, one per request
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
