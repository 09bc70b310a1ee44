// Package server wires the application together: database, services,
// handlers, routes, and the HTTP server lifecycle.
//
// This is the composition root. Everything is constructed here and
// injected downwards; no other package creates its own dependencies.
package server

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
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/identity-service/internal/auth"
	"github.com/sakif/identity-service/internal/config"
	"github.com/sakif/identity-service/internal/handler"
	"github.com/sakif/identity-service/internal/middleware"
	sqliteRepo "github.com/sakif/identity-service/internal/repository/sqlite"
	"github.com/sakif/identity-service/internal/service"
)

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown so the WAL is flushed.
type Server struct {
	router *chi.Mux
	cfg    config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the dependency graph:
//
//	sqlite.DB → UserStore/RoleStore → services → handlers → routes
//
// Handlers receive services, services receive repository interfaces; the
// concrete sqlite types never leak past this function.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenExpiry())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating token manager: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes(tokens)

	return s, nil
}

// Handler exposes the router, mainly for httptest in handler tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database connection. Start does this itself on
// shutdown; tests that never call Start use Close directly.
func (s *Server) Close() error {
	return s.db.Close()
}

func (s *Server) setupRoutes(tokens *auth.TokenManager) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	users := s.db.Users()
	roles := s.db.Roles()
	passwords := auth.NewPasswordManager()

	userSvc := service.NewUserService(users, roles, passwords, s.logger)
	roleSvc := service.NewRoleService(roles, s.logger)
	authSvc := service.NewAuthService(users, tokens, passwords, s.logger)

	authHandler := handler.NewAuthHandler(authSvc, s.logger)
	userHandler := handler.NewUserHandler(userSvc, s.logger)
	roleHandler := handler.NewRoleHandler(roleSvc, s.logger)

	requireAuth := auth.RequireAuth(authSvc)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := s.db.Ping(r.Context()); err != nil {
			http.Error(w, `{"status":"database unavailable"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.HandleLogin)
		r.With(requireAuth).Get("/me", authHandler.HandleMe)
	})

	s.router.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.HandleCreate)
		r.Get("/", userHandler.HandleList)
		r.Get("/{id}", userHandler.HandleGetByID)
		r.Patch("/{id}", userHandler.HandleUpdate)
		r.Delete("/{id}", userHandler.HandleDelete)
	})

	// Role management requires an authenticated caller.
	s.router.Route("/roles", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", roleHandler.HandleCreate)
		r.Get("/", roleHandler.HandleList)
		r.Get("/{id}", roleHandler.HandleGetByID)
		r.Patch("/{id}", roleHandler.HandleUpdate)
		r.Delete("/{id}", roleHandler.HandleDelete)
	})
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.cfg.Port),
			slog.String("database", s.cfg.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
