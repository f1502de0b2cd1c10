//	@title			Cratedrop API
//	@version		1.0
//	@description	Read path for shared crates: access decisions and content streaming.
//
//	@host		localhost:8080
//	@BasePath	/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Bearer token. Format: **Bearer {token}**

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/cratedrop/service/internal/auth"
	"github.com/cratedrop/service/internal/config"
	"github.com/cratedrop/service/internal/crate"
	"github.com/cratedrop/service/internal/db"
	"github.com/cratedrop/service/internal/events"
	"github.com/cratedrop/service/internal/identity"
	"github.com/cratedrop/service/internal/logger"
	"github.com/cratedrop/service/internal/metrics"
	appMiddleware "github.com/cratedrop/service/internal/middleware"
	"github.com/cratedrop/service/internal/storage"

	_ "github.com/cratedrop/service/docs/swagger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatal().Err(err).Msg("database migration failed")
	}

	store, err := storage.NewMinioStorage(ctx,
		cfg.StorageEndpoint,
		cfg.StorageAccessKey,
		cfg.StorageSecretKey,
		cfg.StorageBucket,
		cfg.StorageUseSSL,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("object storage init failed")
	}

	// Identity: bearer first, then the session cookie.
	var bearer identity.Verifier = identity.NewJWTVerifier(cfg.JWTSecret, "")
	if cfg.UseOIDC() {
		oidcVerifier, err := identity.NewOIDCVerifier(ctx, cfg.OIDCIssuer, cfg.OIDCClientID)
		if err != nil {
			logger.Fatal().Err(err).Msg("oidc provider init failed")
		}
		bearer = oidcVerifier
	}
	sessions := identity.NewSessionIssuer(cfg.SessionSecret, cfg.SessionTTL)
	resolver := identity.NewResolver(
		identity.BearerStrategy(bearer),
		identity.SessionStrategy(sessions.Verifier()),
	)

	// Wire dependencies: repository → service → handler
	crateRepo := crate.NewRepository(pool)
	var lookup crate.MetadataStore = crateRepo
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		lookup = crate.NewCachedStore(crateRepo, rdb, cfg.CacheTTL)
		logger.Info().Dur("ttl", cfg.CacheTTL).Msg("metadata cache enabled")
	}

	emitter := events.NewEmitter(events.NewPostgresSink(pool), cfg.EventTimeout)
	defer emitter.Close()

	crateSvc := crate.NewService(lookup, crate.NewContentStore(crateRepo, store), emitter)
	crateHandler := crate.NewHandler(crateSvc)

	authSvc := auth.NewService(bearer, sessions)
	authHandler := auth.NewHandler(authSvc, cfg.SessionCookieName, cfg.IsProduction())

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Handle("/metrics", metrics.Handler())

	// Swagger UI — available at http://localhost:8080/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/session", authHandler.CreateSession)
			r.Delete("/session", authHandler.DeleteSession)
		})

		// Credentials are optional here; anonymous callers still reach public crates.
		r.Route("/crates", func(r chi.Router) {
			r.Use(appMiddleware.Identify(resolver, cfg.SessionCookieName))
			crateHandler.Routes(r)
		})
	})

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-quit
	logger.Info().Msg("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}

	logger.Info().Msg("server stopped")
}
