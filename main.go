package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/uptrace/bun"

	"ms-tours/internal/activity"
	"ms-tours/internal/analytics"
	analytics_api "ms-tours/internal/analytics/api"
	"ms-tours/internal/auth"
	"ms-tours/internal/cache"
	clients "ms-tours/internal/clients/service"
	"ms-tours/internal/clients/client_api"
	"ms-tours/internal/config"
	"ms-tours/internal/database"
	"ms-tours/internal/database/migrations"
	events_db "ms-tours/internal/events/db"
	"ms-tours/internal/events/event_api"
	"ms-tours/internal/events/roster"
	events "ms-tours/internal/events/service"
	guides_db "ms-tours/internal/guides/db"
	"ms-tours/internal/guides/guide_api"
	guides "ms-tours/internal/guides/service"
	"ms-tours/internal/kafka"
	"ms-tours/internal/logger"
	"ms-tours/internal/sse"
	tours_db "ms-tours/internal/tours/db"
	tourcache "ms-tours/internal/tours/redis"
	tours "ms-tours/internal/tours/service"
	"ms-tours/internal/tours/tour_api"
	"ms-tours/internal/utils"
)

// app holds everything the router needs. Optional side channels stay nil
// when their backend is disabled.
type app struct {
	DB          *bun.DB
	Catalog     tours.CatalogCache
	Revocations auth.RevocationStore
	Activity    *activity.Notifier
	Stream      *sse.ActivityEmitter
	Auth        func(http.Handler) http.Handler
	Config      *config.Config
	Logger      *logger.Logger
}

func accessLog(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.LogAPI(r.Method, r.URL.Path, ww.Status(), time.Since(start))
		})
	}
}

func newRouter(a *app) http.Handler {
	log := a.Logger

	tourService := tours.NewTourService(&tours_db.DB{Bun: a.DB}, a.Catalog, a.Activity, log)
	guideService := guides.NewGuideService(&guides_db.DB{Bun: a.DB}, a.Activity, log)
	eventDB := &events_db.DB{Bun: a.DB}
	eventService := events.NewEventService(eventDB, roster.NewReconciler(eventDB, log), a.Activity, log)
	clientService := clients.NewClientService(eventDB, log)

	tourHandler := tour_api.NewHandler(tourService, log)
	guideHandler := guide_api.NewHandler(guideService, log)
	eventHandler := event_api.NewHandler(eventService, log)
	clientHandler := client_api.NewHandler(clientService, log)
	analyticsHandler := analytics_api.NewHandler(analytics.NewService(analytics.NewDB(a.DB), log), log)
	authHandler := auth.NewHandler(a.Revocations, log)
	streamHandler := sse.NewHandler(a.Stream, log)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(accessLog(log))
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   a.Config.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}).Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("OK", map[string]string{"service": "ms-tours"}))
	})

	r.Route("/api", func(r chi.Router) {
		// --- Public Routes ---
		r.Route("/public", tourHandler.RegisterPublicRoutes)
		log.Info("ROUTER", "Public catalog routes registered under /api/public")

		// --- Protected Routes ---
		r.Group(func(r chi.Router) {
			r.Use(a.Auth)
			r.Get("/auth/session", authHandler.Session)
			r.Post("/auth/signout", authHandler.SignOut)

			tourHandler.RegisterRoutes(r)
			guideHandler.RegisterRoutes(r)
			eventHandler.RegisterRoutes(r)
			clientHandler.RegisterRoutes(r)
			analyticsHandler.RegisterRoutes(r)
			streamHandler.RegisterRoutes(r)
		})
		log.Info("ROUTER", "Back-office routes registered under /api")
	})

	return r
}

func authMiddleware(ctx context.Context, cfg config.AuthConfig, revocations auth.RevocationStore, log *logger.Logger) (func(http.Handler) http.Handler, error) {
	if cfg.Disabled {
		log.Warn("AUTH", "Authentication disabled, every request runs as the local operator")
		return auth.StaticUser("local-operator"), nil
	}

	var (
		verifier auth.Verifier
		err      error
	)
	switch cfg.Mode {
	case "jwt":
		verifier, err = auth.NewJWTVerifier(cfg.JWTSecret)
	case "oidc":
		verifier, err = auth.NewOIDCVerifier(ctx, cfg.Issuer)
	default:
		err = fmt.Errorf("unsupported AUTH_MODE %q", cfg.Mode)
	}
	if err != nil {
		return nil, err
	}
	log.Info("AUTH", fmt.Sprintf("Bearer token verification enabled (%s)", cfg.Mode))
	return auth.Middleware(verifier, revocations, log), nil
}

func prepareSchema(ctx context.Context, cfg *config.Config, bunDB *bun.DB, log *logger.Logger) error {
	if cfg.Database.Driver == database.DriverSQLite {
		return database.ApplySQLiteSchema(ctx, bunDB)
	}
	if !cfg.Migrations.AutoMigrate {
		log.Info("MIGRATE", "Automatic migrations disabled")
		return nil
	}
	runner := migrations.NewRunner(bunDB, log)
	defer runner.Close()
	return runner.RunMigrations()
}

func main() {
	log := logger.NewLogger("ms-tours")
	defer log.Close()

	log.Info("APP", "Starting Tours Service initialization")
	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}
	cfg := config.Load()
	ctx := context.Background()

	bunDB, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to open database: %v", err))
	}
	defer bunDB.Close()

	if err := prepareSchema(ctx, cfg, bunDB, log); err != nil {
		log.Fatal("MIGRATE", fmt.Sprintf("Failed to prepare schema: %v", err))
	}

	a := &app{DB: bunDB, Stream: sse.NewActivityEmitter(), Config: cfg, Logger: log}
	publishers := activity.Fanout{a.Stream}

	if cfg.Redis.Enabled {
		var redisClient *redis.Client
		redisClient, err = cache.Connect(cfg.Redis, log)
		if err != nil {
			log.Warn("REDIS", fmt.Sprintf("Redis unavailable, catalog cache and sign-out disabled: %v", err))
		} else {
			defer redisClient.Close()
			a.Catalog = tourcache.NewCatalogCache(redisClient, cfg.Redis.CatalogTTL)
			a.Revocations = auth.NewRedisRevocationStore(redisClient)
		}
	}

	if cfg.Kafka.Enabled {
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, []string{cfg.Kafka.ActivityTopic}, log); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		}
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.ActivityTopic, log)
		defer producer.Close()
		publishers = append(publishers, producer)
		log.Info("KAFKA", "Activity producer initialized successfully")
	}
	a.Activity = activity.NewNotifier(publishers, log)

	a.Auth, err = authMiddleware(ctx, cfg.Auth, a.Revocations, log)
	if err != nil {
		log.Fatal("AUTH", fmt.Sprintf("Failed to configure authentication: %v", err))
	}

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      newRouter(a),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("🚀 Tours Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop
	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")

	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "✅ Tours Service shutdown complete")
	}
}
