package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mealwise/backend/config"
	"github.com/mealwise/backend/internal/api"
	"github.com/mealwise/backend/internal/database"
	"github.com/mealwise/backend/internal/pkg/logger"
	"github.com/mealwise/backend/internal/router"
	"github.com/mealwise/backend/internal/service"
)

func main() {
	log, err := logger.New(os.Getenv("ENV"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("failed to load configuration", "error", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("failed to migrate database", "error", err)
	}

	var store *service.ModelStore
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		// The engine works without checkpoints; models just start
		// untrained after a restart.
		log.Warn("redis unavailable, model checkpoints disabled", "error", err)
	} else {
		store = service.NewModelStore(redisClient)
	}

	catalog := service.NewCatalogService(db)
	users := service.NewUserService(db)
	meals := service.NewMealLogService(db)
	activity := service.NewActivityService(db, users, meals, log)
	trend := service.NewTrendService(db, users, activity, log)
	preferences := service.NewPreferenceService(db, meals, log)
	composer := service.NewComposerService(catalog, meals, users, activity, trend, preferences, log, cfg.ComposerMaxDraws, nil)

	userHandler := api.NewUserHandler(users, activity, trend)
	mealHandler := api.NewMealHandler(composer, meals)
	modelHandler := api.NewModelHandler(activity, preferences, trend, store, log)

	engine := router.SetupRouter(userHandler, mealHandler, modelHandler, cfg.JWTSecret)

	srv := &http.Server{
		Addr:    net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
		Handler: engine,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", srv.Addr)
		errChan <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", "error", err)
		}
	case sig := <-quit:
		log.Info("received signal", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown error", "error", err)
	}
	log.Info("server stopped")
}
