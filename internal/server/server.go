// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer. It is the composition root: every
// dependency is built in New and handed down, so handlers, services and
// repositories only ever see interfaces.
//
// DEPENDENCY FLOW:
//
//	config → sqlite.DB ─┐
//	config → discord.Client ─┴→ LookupService → LookupHandler  (/lookup, /api/lookups)
//	config → widget.Client → PageHandler                      (/)
//
// The page's widget client calls this server's own /lookup over HTTP, the
// same way an embedded copy of the widget on another site would.
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
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/discord-lookup/internal/config"
	"github.com/sakif/discord-lookup/internal/discord"
	"github.com/sakif/discord-lookup/internal/handler"
	"github.com/sakif/discord-lookup/internal/middleware"
	"github.com/sakif/discord-lookup/internal/profile"
	sqliteRepo "github.com/sakif/discord-lookup/internal/repository/sqlite"
	"github.com/sakif/discord-lookup/internal/service"
	"github.com/sakif/discord-lookup/internal/widget"
	"github.com/sakif/discord-lookup/web"
)

// Server owns the router and the database connection, which it closes on
// shutdown.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database and wires every route.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database. Start calls it on shutdown.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes configures middleware and routes.
//
// ROUTE STRUCTURE:
// GET          /               → widget page (HTML); ?id= runs a search
// GET          /static/*       → embedded CSS and badge icons
// GET, OPTIONS /lookup         → profile lookup (JSON, CORS *, rate limited)
// GET          /api/lookups    → lookup history (JSON)
// GET          /healthz        → "ok"
// GET          /metrics        → Prometheus exposition
//
// MIDDLEWARE ORDER MATTERS:
// 1. RequestID: tags each request, the logger prints it
// 2. RealIP: the rate limiter keys on the client address behind proxies
// 3. Recoverer: a panic becomes a 500 instead of killing the process
// 4. Logger: one structured line per request
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	fileServer := http.FileServerFS(web.Static())
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	s.router.Get("/healthz", handler.HandleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	// === Lookup API ===
	discordClient := discord.New(discord.Config{
		Token:   s.config.Discord.Token,
		APIBase: s.config.Discord.APIBase,
		Timeout: s.config.Discord.Timeout,
	})
	lookupService := service.NewLookupService(discordClient, s.db, s.logger)
	lookupHandler := handler.NewLookupHandler(lookupService, s.logger)

	s.router.Group(func(r chi.Router) {
		// CORS first so preflights are answered without spending rate budget.
		r.Use(middleware.CORS)
		if rl := s.config.RateLimit; rl.Requests > 0 {
			r.Use(httprate.Limit(rl.Requests, rl.Window,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(handler.HandleRateLimited),
			))
		}
		r.Get(widget.LookupPath, lookupHandler.HandleLookup)
		// Answered by CORS; registered so chi routes the method.
		r.Options(widget.LookupPath, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/lookups", lookupHandler.HandleHistory)
	})

	// === Widget page ===
	lookupClient, err := widget.NewClient(s.config.Widget.LookupBaseURL, &http.Client{
		Timeout: s.config.Discord.Timeout + 5*time.Second,
	})
	if err != nil {
		return fmt.Errorf("creating lookup client: %w", err)
	}
	formatter := profile.NewFormatter(profile.WithOverrides(s.config.Widget.Overrides))
	pageHandler, err := handler.NewPageHandler(lookupClient, formatter, s.logger)
	if err != nil {
		return fmt.Errorf("creating page handler: %w", err)
	}
	s.router.Get("/", pageHandler.HandlePage)

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30s,
// close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("url", s.config.Server.BaseURL),
			slog.String("lookup_endpoint", s.config.Server.BaseURL+widget.LookupPath+"?id={id}"),
			slog.String("database", s.config.Database.Path),
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
