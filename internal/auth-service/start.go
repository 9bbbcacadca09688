package authservice

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bus-track/internal/auth-service/adapters/driver/myhttp"
	"bus-track/internal/config"
	"bus-track/internal/mylogger"
)

func Run(ctx context.Context, l mylogger.Logger, cfg *config.Config) error {
	shutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	srv := myhttp.NewServer(shutdown, ctx, l, cfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		return err
	case <-shutdown.Done():
	}

	l.Info("Gracefully shutting down...")
	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Stop(stopCtx)
}
