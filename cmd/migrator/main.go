package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/config"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/logger"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

func main() {
	var (
		configPath     string
		migrationsPath string
		down           bool
	)

	flag.StringVar(&configPath, "config", "", "path to the config file")
	flag.StringVar(&migrationsPath, "migrations-path", "", "path to migration files")
	flag.BoolVar(&down, "down", false, "roll back every migration")
	flag.Parse()

	_ = godotenv.Load()

	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}

	if configPath == "" {
		configPath = "./config/local.yaml"
	}

	cfg, err := config.LoadConfigFromPath(configPath)
	if err != nil {
		slog.Error("can not load config", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.SetupLogger(cfg.Env)

	if migrationsPath == "" {
		migrationsPath = cfg.Migrations.Path
	}

	if err := run(cfg, migrationsPath, down); err != nil {
		log.Error("migration failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("migrations applied", slog.String("path", migrationsPath), slog.Bool("down", down))
}

func run(cfg *config.Config, migrationsPath string, down bool) error {
	m, err := migrate.New("file://"+migrationsPath, cfg.Database.GetMigrateDSN(cfg.Migrations.Table))
	if err != nil {
		return errors.Wrap(err, "failed to create migrate instance")
	}
	defer m.Close()

	if down {
		err = m.Down()
	} else {
		err = m.Up()
	}

	if errors.Is(err, migrate.ErrNoChange) {
		slog.Info("no migrations to apply")
		return nil
	}

	return errors.Wrap(err, "failed to apply migrations")
}
