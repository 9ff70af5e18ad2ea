package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/arlenko/folio/internal/backend"
	"github.com/arlenko/folio/internal/cache"
	"github.com/arlenko/folio/internal/config"
	"github.com/arlenko/folio/internal/observability"
	"github.com/arlenko/folio/internal/render"
	postgresrepo "github.com/arlenko/folio/internal/repository/postgres"
	"github.com/arlenko/folio/internal/service"
	"github.com/arlenko/folio/internal/transport/http/handlers"
	"github.com/arlenko/folio/internal/transport/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("loading config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Shared backend handle
	be, err := backend.Init(ctx, cfg)
	if err != nil {
		logger.Fatal("initializing backend", zap.Error(err))
	}
	defer be.Close()
	logger.Info("connected to backend")

	// Repositories
	userRepo := postgresrepo.NewUserRepo(be.Pool)
	profileRepo := postgresrepo.NewProfileRepo(be.Pool)
	sectionRepo := postgresrepo.NewSectionRepo(be.Pool)

	pageCache := cache.NewPageCache(be.Redis)

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret)
	profileService := service.NewProfileService(profileRepo, sectionRepo, userRepo, be.Media, pageCache, logger)
	sectionService := service.NewSectionService(sectionRepo, profileRepo, pageCache, logger)

	renderer, err := render.New()
	if err != nil {
		logger.Fatal("building renderer", zap.Error(err))
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, profileService, logger)
	profileHandler := handlers.NewProfileHandler(profileService, logger)
	sectionHandler := handlers.NewSectionHandler(sectionService, logger)
	publicHandler := handlers.NewPublicHandler(profileService, pageCache, renderer, logger)

	auth := middleware.Auth(cfg.JWTSecret)
	optionalAuth := middleware.OptionalAuth(cfg.JWTSecret)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.Handle("POST /api/v1/profiles", optionalAuth(http.HandlerFunc(profileHandler.Create)))
	mux.HandleFunc("GET /api/v1/profiles/{username}", publicHandler.GetJSON)
	mux.HandleFunc("GET /{username}", publicHandler.GetHTML)

	// Protected - Profile
	mux.Handle("GET /api/v1/profile", auth(http.HandlerFunc(profileHandler.Me)))
	mux.Handle("PATCH /api/v1/profile", auth(http.HandlerFunc(profileHandler.Update)))
	mux.Handle("POST /api/v1/profile/avatar", auth(http.HandlerFunc(profileHandler.UploadAvatar)))
	mux.Handle("POST /api/v1/profile/banner", auth(http.HandlerFunc(profileHandler.UploadBanner)))

	// Protected - Sections
	mux.Handle("GET /api/v1/sections", auth(http.HandlerFunc(sectionHandler.List)))
	mux.Handle("POST /api/v1/sections", auth(http.HandlerFunc(sectionHandler.Create)))
	mux.Handle("PATCH /api/v1/sections/{id}", auth(http.HandlerFunc(sectionHandler.Update)))
	mux.Handle("DELETE /api/v1/sections/{id}", auth(http.HandlerFunc(sectionHandler.Delete)))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: middleware.CORS(observability.Metrics(mux)),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}
