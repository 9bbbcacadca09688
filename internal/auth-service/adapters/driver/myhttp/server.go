package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"bus-track/internal/auth-service/adapters/driven/db"
	"bus-track/internal/auth-service/adapters/driver/myhttp/handle"
	"bus-track/internal/auth-service/core/service"
	"bus-track/internal/config"
	"bus-track/internal/database"
	"bus-track/internal/middleware"
	"bus-track/internal/mylogger"
	"bus-track/internal/token"
)

const waitTime = 10

type Server struct {
	mux    *http.ServeMux
	cfg    *config.Config
	srv    *http.Server
	mylog  mylogger.Logger
	db     *database.DataBase
	ctx    context.Context
	appCtx context.Context
	mu     sync.Mutex
}

func NewServer(ctx, appCtx context.Context, mylog mylogger.Logger, cfg *config.Config) *Server {
	return &Server{
		ctx:    ctx,
		appCtx: appCtx,
		cfg:    cfg,
		mylog:  mylog,
		mux:    http.NewServeMux(),
	}
}

// Run initializes routes and starts listening. It returns when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	dataBase, err := database.Connect(s.ctx, s.cfg.DB, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = dataBase
	mylog.Info("Successful database connection")

	s.Configure()

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%v", s.cfg.Srv.AuthServicePort),
		Handler: s.mux,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.AuthServicePort)
	mylog.Info("server is running")
	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Info("Shutting down HTTP server...")

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, waitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.db != nil {
		s.db.Close()
		s.mylog.Info("Database closed")
	}

	s.mylog.Info("HTTP server shut down gracefully")
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

// Configure wires the repository, service, handlers and routes.
func (s *Server) Configure() {
	tokens := token.NewManager(s.cfg.App.JwtSecret, s.cfg.App.TokenTTL)

	userRepo := db.NewUserRepo(s.db)
	authService := service.NewAuthService(userRepo, tokens, s.mylog)
	authHandler := handle.NewAuthHandler(authService, s.mylog)

	authMiddleware := middleware.NewAuthMiddleware(tokens)

	s.mux.HandleFunc("POST /auth/register", authHandler.Register)
	s.mux.HandleFunc("POST /auth/login", authHandler.Login)
	s.mux.Handle("GET /me", authMiddleware.Wrap(http.HandlerFunc(authHandler.Me)))
}
