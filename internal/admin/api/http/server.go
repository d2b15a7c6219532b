package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"blueberry/internal/admin/api/http/handle"
	"blueberry/internal/admin/app/core"
	"blueberry/internal/admin/app/services"
	"blueberry/internal/xpkg/auth"
	"blueberry/internal/xpkg/broker"
	"blueberry/internal/xpkg/cache"
	"blueberry/internal/xpkg/config"
	"blueberry/internal/xpkg/db"
	"blueberry/internal/xpkg/httpx"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/media"
	"blueberry/internal/xpkg/metrics"
	"blueberry/internal/xpkg/store"
)

var ErrServerClosed = errors.New("Server closed")

type Server struct {
	router  chi.Router
	cfg     *config.Config
	srv     *http.Server
	params  *core.AdminParams
	mylog   logger.Logger
	db      core.IDB
	mb      core.IPublisher
	cache   *cache.Store
	media   core.IMedia
	metrics *metrics.Metrics
	ctx     context.Context
	appCtx  context.Context
	mu      sync.Mutex
}

func NewServer(ctx, appCtx context.Context, cfg *config.Config, params *core.AdminParams, mylog logger.Logger) *Server {
	return &Server{
		ctx:     ctx,
		appCtx:  appCtx,
		cfg:     cfg,
		params:  params,
		mylog:   mylog,
		metrics: metrics.New("admin"),
	}
}

// Run connects the backing services, mounts the dashboard routes and serves
// until the context is cancelled.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	if err := s.initializeDatabase(); err != nil {
		mylog.Action("db_connection_failed").Error("Failed to connect to database", err)
		return err
	}
	mylog.Action("db_connected").Info("Successful database connection")

	if err := s.initializeRabbitMQ(); err != nil {
		mylog.Action("mb_connection_failed").Error("Failed to connect to message broker", err)
		return err
	}
	mylog.Action("mb_connected").Info("Successful message broker connection")

	if err := s.initializeCache(); err != nil {
		mylog.Action("cache_connection_failed").Error("Failed to connect to cache", err)
		return err
	}
	mylog.Action("cache_connected").Info("Successful cache connection")

	if err := s.initializeMedia(); err != nil {
		mylog.Action("media_init_failed").Error("Failed to configure media storage", err)
		return err
	}

	s.Configure()

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.params.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Unlock()

	mylog.WithGroup("details").With("port", s.params.Port).Info("server is running")
	return s.startHTTPServer()
}

// Stop shuts the HTTP server down, then closes the backing connections.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Action("graceful_shutdown_started").Info("Shutting down HTTP server...")

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, core.WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Action("graceful_shutdown_failed").Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.mylog.Action("db_close_failed").Error("Failed to close database", err)
			return fmt.Errorf("db close: %w", err)
		}
		s.mylog.Action("db_closed").Info("Database closed")
	}

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Action("mb_close_failed").Error("Failed to close message broker", err)
			return fmt.Errorf("mb close: %w", err)
		}
		s.mylog.Action("mb_closed").Info("Message broker closed")
	}

	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.mylog.Action("cache_close_failed").Error("Failed to close cache", err)
			return fmt.Errorf("cache close: %w", err)
		}
		s.mylog.Action("cache_closed").Info("Cache closed")
	}

	s.mylog.Action("graceful_shutdown_completed").Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) initializeDatabase() error {
	conn, err := db.Start(s.appCtx, s.cfg.DB, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = conn
	return nil
}

func (s *Server) initializeRabbitMQ() error {
	mb, err := broker.New(s.appCtx, s.cfg.RMQ, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	s.mb = mb
	return nil
}

func (s *Server) initializeCache() error {
	c, err := cache.New(s.appCtx, s.cfg.Redis, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	s.cache = c
	return nil
}

func (s *Server) initializeMedia() error {
	m, err := media.New(s.appCtx, s.cfg.Media, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to configure media storage: %w", err)
	}
	s.media = m
	return nil
}

// Configure wires repositories, services and handlers onto the router.
func (s *Server) Configure() {
	productRepo := store.NewProductRepo(s.db)
	categoryRepo := store.NewCategoryRepo(s.db)
	orderRepo := store.NewOrderRepo(s.db)
	userRepo := store.NewUserRepo(s.db)
	settingsRepo := store.NewSettingsRepo(s.db)

	tokens := auth.NewTokens(s.cfg.Auth.Secret, s.cfg.Auth.TokenTTL)

	h := Handlers{
		Dashboard:  handle.NewDashboardHandler(services.NewDashboardService(productRepo, categoryRepo, orderRepo, userRepo, s.mylog), s.mylog),
		Products:   handle.NewProductHandler(services.NewProductService(productRepo, categoryRepo, s.media, s.mylog), s.mylog),
		Categories: handle.NewCategoryHandler(services.NewCategoryService(categoryRepo, productRepo, s.mylog), s.mylog),
		Orders:     handle.NewOrderHandler(services.NewOrderService(orderRepo, s.mb, s.metrics, s.mylog), s.mylog),
		Users:      handle.NewUserHandler(services.NewUserService(userRepo, s.mylog), s.mylog),
		Settings:   handle.NewSettingsHandler(services.NewSettingsService(settingsRepo, s.media, s.mylog), s.mylog),
		Auther:     auth.NewMiddleware(tokens, s.cache, s.mylog),
		Accounts:   userRepo,
		Metrics:    s.metrics,
		Health:     s.health,
	}
	s.router = NewRouter(h, s.mylog)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"db": "ok", "cache": "ok"}
	code := http.StatusOK
	if err := s.db.IsAlive(); err != nil {
		status["db"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	if err := s.cache.IsAlive(r.Context()); err != nil {
		status["cache"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	httpx.JSON(w, code, status)
}
