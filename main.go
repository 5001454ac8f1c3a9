package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"replayrng/internal"
	"replayrng/internal/config"
	"replayrng/internal/server"
)

func main() {
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, appConfig, logger); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
