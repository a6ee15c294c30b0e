package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/config"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/logger"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/models"
	repository "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/repositories"
	service "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/services"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

func main() {
	var (
		configPath string
		req        models.RegisterRequest
	)

	flag.StringVar(&configPath, "config", "./config/local.yaml", "path to the config file")
	flag.StringVar(&req.Username, "username", "", "admin username")
	flag.StringVar(&req.Email, "email", "", "admin email")
	flag.StringVar(&req.Password, "password", "", "admin password")
	flag.Parse()

	_ = godotenv.Load()

	if err := run(configPath, &req); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, req *models.RegisterRequest) error {
	if err := utils.NewValidator().Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return errors.Errorf("invalid flags: %s", validationErrs.Error())
		}

		return errors.Wrap(err, "failed to validate flags")
	}

	cfg, err := config.LoadConfigFromPath(configPath)
	if err != nil {
		return errors.Wrap(err, "can not load config")
	}

	slog.SetDefault(logger.SetupLogger(cfg.Env))

	repos, err := repository.New(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to access the database")
	}
	defer repos.Close()

	// Superuser creation never touches tokens, the rate limiter or the cache.
	users := service.NewUserService(repos.User, repos.Token, nil, nil, nil, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := users.CreateSuperuser(ctx, req)
	if err != nil {
		return errors.Wrap(err, "failed to create superuser")
	}

	slog.Info("superuser created", slog.Int64("userId", user.ID), slog.String("username", user.Username))

	return nil
}
