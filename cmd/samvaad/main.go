package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/samvaad-ai/samvaad/internal/config"
	"github.com/samvaad-ai/samvaad/internal/db"
	dbRedis "github.com/samvaad-ai/samvaad/internal/db/redis"
	"github.com/samvaad-ai/samvaad/internal/domain"
	"github.com/samvaad-ai/samvaad/internal/embedding"
	"github.com/samvaad-ai/samvaad/internal/knowledge"
	"github.com/samvaad-ai/samvaad/internal/lang"
	logpkg "github.com/samvaad-ai/samvaad/internal/logger"
	"github.com/samvaad-ai/samvaad/internal/metrics"
	conversationrepo "github.com/samvaad-ai/samvaad/internal/repository/conversation"
	"github.com/samvaad-ai/samvaad/internal/repository/embcache"
	knowledgerepo "github.com/samvaad-ai/samvaad/internal/repository/knowledge"
	"github.com/samvaad-ai/samvaad/internal/sentiment"
	chiTransport "github.com/samvaad-ai/samvaad/internal/transport/chi"
	openaiTransport "github.com/samvaad-ai/samvaad/internal/transport/openai"
	"github.com/samvaad-ai/samvaad/internal/usecase/chat"
	healthuc "github.com/samvaad-ai/samvaad/internal/usecase/health"
	retrievaluc "github.com/samvaad-ai/samvaad/internal/usecase/retrieval"
	"github.com/samvaad-ai/samvaad/internal/version"
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

	logger.Info("Starting samvaad chat engine",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("embedding_provider", cfg.Embedding.Provider),
	)

	ctx := context.Background()

	// Connect Redis when configured. Any failure here degrades to memory-only
	// operation rather than aborting startup: the engine must answer even
	// with every external dependency down.
	store := connectStore(ctx, cfg, logger)
	if store != nil {
		defer store.Close()
	}

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterChatMetrics()

	embedder := buildEmbedder(cfg, store, logger)

	var generator domain.Generator
	if generationConfigured(cfg.Generation.APIKey) {
		generator = openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
			APIKey:      cfg.Generation.APIKey,
			BaseURL:     cfg.Generation.BaseURL,
			Model:       cfg.Generation.Model,
			MaxTokens:   cfg.Generation.MaxTokens,
			Temperature: cfg.Generation.Temperature,
			Logger:      logger,
		})
		logger.Info("Generation model configured", zap.String("model", cfg.Generation.Model))
	} else {
		logger.Warn("Generation model not configured, replies come from the pattern composer")
	}

	// Load the knowledge catalog into the vector index (or the in-process
	// fallback when the index is unavailable).
	knowledgeRepo := knowledgerepo.New(store, embedder, cfg.Embedding.Dimensions, logger)
	if err := knowledgeRepo.Load(ctx, knowledge.Catalog()); err != nil {
		logger.Fatal("Failed to load knowledge base", zap.Error(err))
	}

	conversations := conversationrepo.NewStore(logger)
	if cfg.Conversation.TTLSec > 0 {
		conversations.StartSweeper(ctx,
			time.Duration(cfg.Conversation.TTLSec)*time.Second,
			time.Duration(cfg.Conversation.SweepIntervalSec)*time.Second)
		logger.Info("Conversation sweeper started",
			zap.Int("ttl_sec", cfg.Conversation.TTLSec),
			zap.Int("sweep_interval_sec", cfg.Conversation.SweepIntervalSec))
	}

	retrievalSvc := retrievaluc.NewService(embedder, knowledgeRepo, retrievaluc.Config{
		VectorTopK:   cfg.Retrieval.VectorTopK,
		FallbackTopK: cfg.Retrieval.FallbackTopK,
		EmbedTimeout: time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
	}, logger)

	composer := chat.NewComposer(rand.New(rand.NewSource(time.Now().UnixNano())))
	chatSvc := chat.NewService(
		lang.NewDetector(),
		sentiment.NewClassifier(),
		retrievalSvc,
		conversations,
		generator,
		composer,
		chat.Config{
			HistoryWindow:     cfg.Conversation.HistoryWindow,
			GenerationTimeout: time.Duration(cfg.Generation.TimeoutSec) * time.Second,
		},
		logger,
	)

	healthSvc := healthuc.New(
		dbPinger(store),
		newEmbeddingHealthChecker(embedder),
		generator != nil,
	)

	server := chiTransport.NewServer(chatSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Mount(r)
	r.Handle("/metrics", promhttp.Handler())

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

// connectStore dials Redis. Returns a nil interface when no addresses are
// configured or the database never becomes ready.
func connectStore(ctx context.Context, cfg config.Config, logger *zap.Logger) db.Store {
	if len(cfg.Database.Addrs) == 0 {
		logger.Warn("No database configured, knowledge base runs in memory")
		return nil
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Warn("Failed to create database store, knowledge base runs in memory", zap.Error(err))
		return nil
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Warn("Database not ready, knowledge base runs in memory", zap.Error(err))
		store.Close()
		return nil
	}

	logger.Info("Connected to database")
	return store
}

// buildEmbedder assembles the embedder chain: provider -> cache decorator.
func buildEmbedder(cfg config.Config, store db.Store, logger *zap.Logger) domain.Embedder {
	var base domain.Embedder
	if cfg.Embedding.Provider == "openai" && cfg.Embedding.APIKey != "" {
		base = openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Provider:   cfg.Embedding.Provider,
			Logger:     logger,
		})
	} else {
		base = embedding.NewHashEmbedder(cfg.Embedding.Dimensions)
	}

	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.Int("dimensions", cfg.Embedding.Dimensions))

	if store != nil && cfg.Embedding.Cache {
		return embcache.New(base, store, metrics.EmbeddingCacheTotal, logger)
	}
	return base
}

// generationConfigured filters out the placeholder keys commonly left in
// dotenv files so the engine does not burn a turn on a doomed API call.
func generationConfigured(apiKey string) bool {
	if apiKey == "" {
		return false
	}
	if strings.HasPrefix(apiKey, "sk-dummy") || strings.Contains(apiKey, "placeholder") {
		return false
	}
	return true
}

// dbPinger converts a possibly-nil store into a health check dependency.
// Guards the typed-nil interface gotcha.
func dbPinger(store db.Store) healthuc.DBPinger {
	if store == nil {
		return nil
	}
	return store
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
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

			// Set X-Request-ID in response header
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
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
