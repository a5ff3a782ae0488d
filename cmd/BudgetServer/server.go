package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	database "github.com/sebuszqo/BudgetTracker/db"
	"github.com/sebuszqo/BudgetTracker/internal/auth"
	"github.com/sebuszqo/BudgetTracker/internal/config"
	"github.com/sebuszqo/BudgetTracker/internal/finance/application"
	"github.com/sebuszqo/BudgetTracker/internal/finance/infrastructure"
	"github.com/sebuszqo/BudgetTracker/internal/finance/interfaces"
	"github.com/sebuszqo/BudgetTracker/internal/middleware"
	"github.com/sebuszqo/BudgetTracker/internal/response"
	"github.com/sebuszqo/BudgetTracker/internal/user"
)

type Server struct {
	cfg             *config.Config
	logger          *slog.Logger
	router          *http.ServeMux
	dbService       *database.DBService
	stores          *infrastructure.Provisioner
	authService     auth.Service
	authHandler     *auth.Handler
	userHandler     *user.Handler
	categoryHandler *interfaces.CategoryHandler
	recordHandler   *interfaces.RecordHandler
	cookies         auth.CookieConfig
}

// NewServer wires the identity store, the per-user store provisioner and
// every handler. Close releases what it opened.
func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	dbService, err := database.NewDBService(ctx, cfg.Database.Path, cfg.Database.ConnectionString, logger)
	if err != nil {
		return nil, fmt.Errorf("could not initialize database: %w", err)
	}

	stores := infrastructure.NewProvisioner(cfg.Database.Path, logger)

	userRepo := user.NewUserRepository(dbService.DB, dbService.Dialect)
	userService := user.NewUserService(userRepo, logger)

	sessionManager := auth.NewSessionManager(cfg.Session.Expiry)
	signer := auth.NewCookieSigner(cfg.Session.Secret)
	authService := auth.NewAuthService(userService, sessionManager, signer, logger)

	cookies := auth.CookieConfig{
		Name:   auth.DefaultCookieName,
		Secure: cfg.Session.Production,
		MaxAge: cfg.Session.Expiry,
	}

	categoryService := application.NewCategoryService(stores, logger)
	recordService := application.NewRecordService(stores, logger)

	s := &Server{
		cfg:             cfg,
		logger:          logger,
		dbService:       dbService,
		stores:          stores,
		authService:     authService,
		authHandler:     auth.NewHandler(authService, cookies, response.JSON, response.Error),
		userHandler:     user.NewHandler(userService, response.JSON, response.Error),
		categoryHandler: interfaces.NewCategoryHandler(categoryService, response.JSON, response.Error),
		recordHandler:   interfaces.NewRecordHandler(recordService, response.JSON, response.Error),
		cookies:         cookies,
	}
	s.RegisterRoutes()
	return s, nil
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	response.Error(w, http.StatusNotFound, "Path not found")
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	health := s.dbService.Health(ctx)
	if health["status"] != "up" {
		s.logger.WarnContext(ctx, "identity store not ready", slog.String("error", health["error"]))
		response.Error(w, http.StatusServiceUnavailable, "Database access error")
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}

func (s *Server) RegisterRoutes() {
	router := http.NewServeMux()

	router.HandleFunc("GET /api/ready", s.handleReady)

	router.HandleFunc("POST /api/auth/register", s.userHandler.HandleRegister)
	router.HandleFunc("POST /api/auth/login", s.authHandler.HandleLogin)
	router.HandleFunc("GET /api/auth/me", s.authHandler.HandleMe)
	router.HandleFunc("POST /api/auth/logout", s.authHandler.HandleLogout)

	router.HandleFunc("POST /api/categories", s.categoryHandler.CreateCategory)
	router.HandleFunc("GET /api/categories", s.categoryHandler.GetCategories)
	router.HandleFunc("GET /api/categories/{id}", s.categoryHandler.GetCategory)
	router.HandleFunc("PUT /api/categories/{id}", s.categoryHandler.UpdateCategory)
	router.HandleFunc("DELETE /api/categories/{id}", s.categoryHandler.DeleteCategory)

	router.HandleFunc("POST /api/records", s.recordHandler.CreateRecord)
	router.HandleFunc("GET /api/records", s.recordHandler.GetRecords)
	router.HandleFunc("GET /api/records/{id}", s.recordHandler.GetRecord)
	router.HandleFunc("PUT /api/records/{id}", s.recordHandler.UpdateRecord)
	router.HandleFunc("DELETE /api/records/{id}", s.recordHandler.DeleteRecord)

	router.HandleFunc("/", notFoundHandler)

	s.router = router
}

// Handler is the router wrapped in the middleware stack. The session
// middleware runs before the access log so that entries carry user_id.
func (s *Server) Handler() http.Handler {
	return middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(s.logger),
		middleware.CORS(s.cfg.CORS),
		auth.SessionMiddleware(s.authService, s.cookies),
		middleware.Logger(s.logger),
	)(s.router)
}

// Run serves until ctx is cancelled, then shuts down within the configured budget.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	scheduler, err := StartSessionCleanupScheduler(s.cfg.Session.CleanupSchedule, s.authService, s.logger)
	if err != nil {
		return fmt.Errorf("scheduler didn't start: %w", err)
	}
	defer func() { <-scheduler.Stop().Done() }()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", slog.String("addr", httpServer.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func (s *Server) Close() error {
	return errors.Join(s.stores.Close(), s.dbService.Close())
}
