package main

import (
	"context"
	"fmt"
	"os"

	adminservice "bus-track/internal/admin-service"
	authservice "bus-track/internal/auth-service"
	"bus-track/internal/config"
	"bus-track/internal/mylogger"
	trackingservice "bus-track/internal/tracking-service"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: app <auth-service|admin-service|tracking-service>")
		os.Exit(1)
	}
	serviceName := os.Args[1]

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	l := mylogger.New(serviceName, cfg.Log.Level)
	ctx := context.Background()

	switch serviceName {
	case "auth-service":
		err = authservice.Run(ctx, l, cfg)
	case "admin-service":
		err = adminservice.Run(ctx, l, cfg)
	case "tracking-service":
		err = trackingservice.Run(ctx, l, cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown service: %s\n", serviceName)
		os.Exit(1)
	}

	if err != nil {
		l.Error("service stopped with error", err)
		os.Exit(1)
	}
}
