package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/duynhne/jobs-service/config"
	database "github.com/duynhne/jobs-service/internal/core"
	"github.com/duynhne/jobs-service/internal/logger"
	logicv1 "github.com/duynhne/jobs-service/internal/logic/v1"
	"github.com/duynhne/jobs-service/internal/seed"
	"github.com/duynhne/jobs-service/internal/token"
)

func main() {
	file := flag.String("file", "mock-data.json", "JSON array of jobs to insert")
	ownerEmail := flag.String("owner-email", "", "email of the user that owns the jobs")
	createOwner := flag.Bool("create-owner", false, "register the owner when it does not exist")
	ownerName := flag.String("owner-name", "Demo User", "name for a created owner")
	demo := flag.Bool("demo", false, "create the owner as the read-only demo user")
	timeout := flag.Duration("timeout", 5*time.Minute, "command timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Setup(cfg.Logging.Level)

	if *ownerEmail == "" {
		log.Error().Msg("-owner-email is required")
		os.Exit(1)
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Error().Err(err).Str("file", *file).Msg("Failed to open seed file")
		os.Exit(1)
	}
	records, err := seed.Decode(f)
	_ = f.Close()
	if err != nil {
		log.Error().Err(err).Msg("Failed to read seed file")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(log.Logger.WithContext(context.Background()), *timeout)
	defer cancel()

	store, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to database")
		os.Exit(1)
	}
	defer func() { _ = store.Close(context.Background()) }()

	tokens, err := token.NewManager(cfg.JWT.Secret, cfg.JWT.Lifetime)
	if err != nil {
		log.Error().Err(err).Msg("Failed to configure tokens")
		os.Exit(1)
	}
	validator := logicv1.NewValidator()
	seeder := seed.NewSeeder(
		store.Users(),
		logicv1.NewAuthService(store.Users(), tokens, validator),
		logicv1.NewJobService(store.Jobs(), validator),
	)

	inserted, err := seeder.Run(ctx, seed.Owner{
		Email:    *ownerEmail,
		Create:   *createOwner,
		Name:     *ownerName,
		Password: os.Getenv("SEED_OWNER_PASSWORD"),
		Demo:     *demo,
	}, records)
	if err != nil {
		log.Error().Err(err).Int("inserted", inserted).Msg("Seeding failed")
		_ = store.Close(context.Background())
		os.Exit(1)
	}

	log.Info().Int("inserted", inserted).Msg("Success")
}
