package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"Wildography/config"
	"Wildography/logger"
	"Wildography/models"
	"Wildography/seed"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	users := flag.Int("users", 20, "number of users to create")
	posts := flag.Int("posts", 3, "posts per user")
	seedValue := flag.Uint64("seed", 0, "random seed, 0 for a random one")
	flag.Parse()

	if err := run(*users, *posts, *seedValue); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(users, posts int, seedValue uint64) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.IsProduction() {
		return fmt.Errorf("refusing to seed a production database")
	}
	if err := logger.Init(cfg.Env); err != nil {
		return err
	}
	defer logger.Sync()
	log := logger.Get()

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return fmt.Errorf("cannot connect to postgres: %w", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		return err
	}

	log.Info("seeding", zap.Int("users", users), zap.Int("posts_per_user", posts))
	return seed.Load(context.Background(), db, seed.Options{Users: users, PostsPerUser: posts, Seed: seedValue}, log)
}
