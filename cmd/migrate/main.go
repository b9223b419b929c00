package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/duynhne/jobs-service/config"
	"github.com/duynhne/jobs-service/internal/core/migrations"
	"github.com/duynhne/jobs-service/internal/logger"
)

func main() {
	command := flag.String("command", "up", "migrate command (up|status|down)")
	timeout := flag.Duration("timeout", time.Minute, "command timeout")
	target := flag.Int64("target", 0, "target version for down command (optional)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Setup(cfg.Logging.Level)

	if cfg.Database.Driver != config.DriverPostgres {
		log.Error().Str("driver", cfg.Database.Driver).Msg("Migrations only apply to the postgres driver")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	runner, err := migrations.New(cfg.Database.URL, log.Logger)
	if err != nil {
		log.Error().Err(err).Msg("Failed to configure migration runner")
		os.Exit(1)
	}

	switch *command {
	case "up":
		err = runner.Up(ctx)
	case "status":
		err = runner.Status(ctx)
	case "down":
		err = runner.Down(ctx, *target)
	default:
		log.Error().Str("command", *command).Msg("Unsupported command")
		os.Exit(1)
	}
	if err != nil {
		log.Error().Err(err).Str("command", *command).Msg("Migration command failed")
		os.Exit(1)
	}

	log.Info().Str("command", *command).Msg("Migration command completed")
}
