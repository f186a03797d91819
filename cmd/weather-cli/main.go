package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"weather-cli/internal/app"
	"weather-cli/internal/config"
	"weather-cli/pkg/logger"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}

	l, err := logger.NewLogger(cfg.LogsPath, "weather-cli")
	if err != nil {
		log.Panicf("failed to create logger: %v", err)
	}
	// One session id per run so interleaved runs can be told apart in the
	// rotated log file.
	l = l.With().Str("session_id", uuid.NewString()).Logger()

	application := app.New(*cfg, l)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx, os.Stdin, os.Stdout); err != nil {
		l.Error().Err(err).Msg("application failed")
		stop()
		os.Exit(1)
	}
}
