// @title LifeOS API
// @version 1.0
// @description Personal productivity backend: daily journals, habit tracking, projects, tasks and focus sessions.
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/lifeos-go/apperror"
	"github.com/user/lifeos-go/auth"
	"github.com/user/lifeos-go/config"
	"github.com/user/lifeos-go/db"
	"github.com/user/lifeos-go/habits"
	"github.com/user/lifeos-go/journals"
	"github.com/user/lifeos-go/logging"
	"github.com/user/lifeos-go/metrics"
	"github.com/user/lifeos-go/pomodoro"
	"github.com/user/lifeos-go/projects"
	"github.com/user/lifeos-go/tasks"
	"github.com/user/lifeos-go/users"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found or unreadable", "error", err)
	}
	logging.Setup()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	pool, err := db.NewDBPool(cfg.DB)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.DB, "./migrations"); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Stores, then services, then handlers. Dependencies are injected by hand.
	userStore := users.NewStore(pool)
	resolver := users.NewResolver(userStore)
	userHandlers := users.NewHandlers(userStore)

	journalStore := journals.NewStore(pool)
	journalService := journals.NewService(journalStore, cfg.DayLocation)
	journalHandlers := journals.NewHandlers(journalService)

	habitStore := habits.NewStore(pool)
	habitService := habits.NewService(habitStore, journalService)
	habitHandlers := habits.NewHandlers(habitService)

	taskStore := tasks.NewStore(pool)
	projectStore := projects.NewStore(pool)
	projectService := projects.NewService(projectStore, taskStore)
	projectHandlers := projects.NewHandlers(projectService)

	taskService := tasks.NewService(taskStore, projectService)
	taskHandlers := tasks.NewHandlers(taskService)

	pomodoroStore := pomodoro.NewStore(pool)
	pomodoroService := pomodoro.NewService(pomodoroStore, taskService, cfg.DayLocation)
	pomodoroHandlers := pomodoro.NewHandlers(pomodoroService)

	r := chi.NewRouter()

	// Chi requires all middleware to be registered before any routes.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Convert panics below the recoverer into the standard error envelope.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					slog.Error("panic in handler", "panic", rvr)
					auth.WriteError(ww, req, apperror.NewInternalError("internal server error", nil))
				}
			}()
			next.ServeHTTP(ww, req)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Every API group authenticates the bearer token, then resolves it to a
	// local user before any handler runs.
	protect := func(r chi.Router) chi.Router {
		r.Use(auth.Middleware(cfg.Auth))
		r.Use(users.ResolveUser(resolver))
		return r
	}

	r.Route("/users", func(r chi.Router) {
		protect(r)
		userHandlers.RegisterRoutes(r)
	})
	r.Route("/journals", func(r chi.Router) {
		protect(r)
		journalHandlers.RegisterRoutes(r)
	})
	r.Route("/habits", func(r chi.Router) {
		protect(r)
		habitHandlers.RegisterRoutes(r)
	})
	r.Route("/projects", func(r chi.Router) {
		protect(r)
		projectHandlers.RegisterRoutes(r)
	})
	r.Route("/tasks", func(r chi.Router) {
		protect(r)
		taskHandlers.RegisterRoutes(r)
	})
	r.Route("/pomodoro", func(r chi.Router) {
		protect(r)
		pomodoroHandlers.RegisterRoutes(r)
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
