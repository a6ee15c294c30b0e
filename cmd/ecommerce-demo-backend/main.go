//go:generate swag init -g cmd/ecommerce-demo-backend/main.go -d ../../ -o ../../docs

//	@title						E-commerce Demo Backend API
//	@version					1.0
//	@BasePath					/api
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/aaravmahajanofficial/ecommerce-demo-backend/docs"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/api/handlers"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/api/middleware"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/cache"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/config"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/health"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/logger"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/media"
	repository "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/repositories"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/router"
	service "github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/services"
	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/telemetry"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg := config.MustLoad()

	log := logger.SetupLogger(cfg.Env)
	slog.SetDefault(log)

	shutdownTracer, err := telemetry.InitTracer(context.Background(), cfg.Otel, cfg.Env)
	if err != nil {
		log.Error("failed to initialise tracing", slog.Any("error", err))
		os.Exit(1)
	}

	repos, err := repository.New(cfg)
	if err != nil {
		log.Error("failed to access the database", slog.Any("error", err))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			log.Error("error closing database connection", slog.Any("error", err))
		} else {
			log.Info("database connection closed")
		}
	}()

	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to access redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer redisClient.Close()

	redisCache := cache.NewRedisCache(redisClient, cfg.Cache)
	rateLimiter := repository.NewRateLimitRepo(redisClient, cfg.RateConfig)

	userService := service.NewUserService(repos.User, repos.Token, rateLimiter, redisCache,
		[]byte(cfg.Security.TokenKey), cfg.Cache.TokenTTL)
	categoryService := service.NewCategoryService(repos.Category, redisCache)
	productService := service.NewProductService(repos.Product, redisCache, cfg.Cache.ProductTTL)
	cartService := service.NewCartService(repos.Cart, repos.Product)
	orderService := service.NewOrderService(repos.Order, repos.Cart, repos.Transactor, cfg.Checkout.Atomic)

	images, err := media.NewLocalStore(cfg.Media)
	if err != nil {
		log.Error("failed to prepare media storage", slog.Any("error", err))
		os.Exit(1)
	}

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		log.Error("failed to set up health checks", slog.Any("error", err))
		os.Exit(1)
	}

	routes := router.New(router.Handlers{
		User:     handlers.NewUserHandler(userService),
		Category: handlers.NewCategoryHandler(categoryService),
		Product:  handlers.NewProductHandler(productService, handlers.WithImageStore(images, cfg.Media.MaxUploadSize)),
		Cart:     handlers.NewCartHandler(cartService),
		Order:    handlers.NewOrderHandler(orderService),
		Admin:    handlers.NewAdminHandler(orderService),
		Media:    images.Handler("/media"),
	}, middleware.NewAuthMiddleware(userService), healthHandler.Handler())

	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      otelhttp.NewHandler(routes, "http.server"),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	log.Info("server is starting",
		slog.String("address", cfg.HTTPServer.Addr),
		slog.String("env", cfg.Env),
		slog.Bool("atomic_checkout", cfg.Checkout.Atomic))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", slog.Any("error", err))
			done <- syscall.SIGTERM
		}
	}()

	sig := <-done
	log.Warn("shutdown signal received", slog.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown encountered an issue", slog.Any("error", err))
	} else {
		log.Info("server shut down gracefully")
	}

	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error("failed to flush traces", slog.Any("error", err))
	}
}
