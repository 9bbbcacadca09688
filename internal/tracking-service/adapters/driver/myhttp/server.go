package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"bus-track/internal/config"
	"bus-track/internal/database"
	"bus-track/internal/middleware"
	"bus-track/internal/mylogger"
	"bus-track/internal/token"
	"bus-track/internal/tracking-service/adapters/driven/bm"
	"bus-track/internal/tracking-service/adapters/driven/db"
	"bus-track/internal/tracking-service/adapters/driver/myhttp/handle"
	"bus-track/internal/tracking-service/adapters/driver/myhttp/ws"
	"bus-track/internal/tracking-service/core/services"
)

const waitTime = 10

type Server struct {
	mux    *http.ServeMux
	cfg    *config.Config
	srv    *http.Server
	mylog  mylogger.Logger
	db     *database.DataBase
	broker *bm.RabbitMQ
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

// Run initializes the collaborators and starts listening. It returns when the
// server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	dataBase, err := database.Connect(s.ctx, s.cfg.DB, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = dataBase
	mylog.Info("Successful database connection")

	broker, err := bm.New(s.appCtx, *s.cfg.RabbitMq, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	s.broker = broker
	mylog.Info("Successful message broker connection")

	s.Configure()

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%v", s.cfg.Srv.TrackingServicePort),
		Handler: s.mux,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.TrackingServicePort)
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

	if s.broker != nil {
		if err := s.broker.Close(); err != nil {
			s.mylog.Error("Failed to close message broker", err)
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

// Configure wires the repositories, services, handlers and routes.
func (s *Server) Configure() {
	tokens := token.NewManager(s.cfg.App.JwtSecret, s.cfg.App.TokenTTL)

	// Repositories
	trackingRepo := db.NewTrackingRepo(s.db)

	// Realtime hub
	hub := ws.NewHub(s.mylog)
	wsHandler := ws.NewWsHandler(hub, tokens, s.cfg.App.WsAuthTimeout, s.cfg.App.WsWriteBufferLen, s.mylog)

	// Services
	notifier := services.NewNotifier(trackingRepo, hub, services.NewMemoryCooldownStore(), s.cfg.App.NotifyCooldown, s.mylog)
	trackingService := services.NewTrackingService(trackingRepo, hub, s.broker, notifier, s.mylog)

	// Handlers
	driverHandler := handle.NewDriverHandler(trackingService, s.mylog)
	parentHandler := handle.NewParentHandler(trackingService, s.mylog)

	authMiddleware := middleware.NewAuthMiddleware(tokens)

	s.mux.Handle("POST /driver/location",
		authMiddleware.RequireRole(http.HandlerFunc(driverHandler.UpdateLocation), token.RoleDriver))
	s.mux.Handle("POST /driver/attendance",
		authMiddleware.RequireRole(http.HandlerFunc(driverHandler.RecordAttendance), token.RoleDriver))
	s.mux.Handle("GET /parent/students",
		authMiddleware.RequireRole(http.HandlerFunc(parentHandler.Students), token.RoleParent))
	s.mux.Handle("GET /bus/{bus_id}/latest-location",
		authMiddleware.Wrap(http.HandlerFunc(parentHandler.LatestLocation)))
	s.mux.Handle("GET /notifications",
		authMiddleware.Wrap(http.HandlerFunc(parentHandler.Notifications)))

	s.mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})

	// websocket admission happens in-protocol, not via middleware
	s.mux.HandleFunc("/ws", wsHandler.Handle)
}
