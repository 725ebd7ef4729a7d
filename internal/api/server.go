package api

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

	"github.com/seantiz/catsapi/internal/cats"
	"github.com/seantiz/catsapi/internal/deadline"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
	writeTimeout      = 30 * time.Second
	maxBodySize       = 1 << 20 // 1 MB
)

// Config holds the HTTP-level settings of a Server.
type Config struct {
	Addr           string
	RequestTimeout time.Duration
	CORSOrigins    []string
}

// Server wraps the chi router and application dependencies.
type Server struct {
	router   *chi.Mux
	cats     *cats.Service
	deadline *deadline.Wrapper
	probe    *deadline.Wrapper
	logger   *slog.Logger
	addr     string
}

// NewServer creates and configures a new HTTP server.
func NewServer(cfg Config, svc *cats.Service, logger *slog.Logger) *Server {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	srv := &Server{
		router:   chi.NewRouter(),
		cats:     svc,
		deadline: deadline.New(cfg.RequestTimeout, deadline.WithOnTimeout(observeTimeout)),
		probe:    deadline.New(cfg.RequestTimeout),
		logger:   logger,
		addr:     cfg.Addr,
	}

	srv.router.Use(requestIDMiddleware)
	srv.router.Use(middleware.Recoverer)
	srv.router.Use(srv.loggingMiddleware)
	srv.router.Use(metricsMiddleware)
	srv.router.Use(middleware.RequestSize(maxBodySize))
	srv.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id", rolesHeader},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	srv.routes()

	return srv
}

// routes registers all HTTP routes on the router.
func (s *Server) routes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Handle("/metrics", metricsHandler())

	timeout := s.timeoutInterceptor()

	s.router.Route("/cats", func(r chi.Router) {
		r.Post("/", s.handle(http.StatusCreated, s.createCat,
			rolesGuard(adminRole), transformInterceptor, timeout))
		r.Get("/", s.handle(http.StatusOK, s.findAllCats, transformInterceptor, timeout))
		r.Get("/forbidden", s.handle(http.StatusOK, s.forbiddenCats))
		r.Get("/{id}", s.handle(http.StatusOK, s.findOneCat, transformInterceptor, timeout))
	})
}

// Router returns the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Timeout returns the deadline applied to intercepted endpoints.
func (s *Server) Timeout() time.Duration {
	return s.deadline.Duration()
}

// Run starts the HTTP server and blocks until ctx is done or a shutdown
// signal is received.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.addr, "request_timeout", s.deadline.Duration().String())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		s.logger.Info("shutting down", "signal", sig.String())
	case <-ctx.Done():
		s.logger.Info("shutting down", "reason", ctx.Err().Error())
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
