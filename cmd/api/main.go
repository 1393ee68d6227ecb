package main

import (
	"context"
	"time"

	"github.com/fedguard/appealbot/internal/api"
	"github.com/fedguard/appealbot/internal/config"
	"github.com/fedguard/appealbot/internal/logging"
	"github.com/fedguard/appealbot/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

func main() {
	setupConfig()
	logging.Init()

	cfg := config.New()
	logrus.Debugf("config: %+v", cfg)

	db, err := storage.OpenDB(cfg)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	store := storage.New(db)

	migrateCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := store.Migrate(migrateCtx); err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}

	service := api.NewService(cfg, store)
	e := echo.New()
	service.Register(e)

	if err := e.Start(cfg.ListenAddress); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}

func setupConfig() {
	config.SetupCommon()
}
