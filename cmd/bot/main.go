package main

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fedguard/appealbot/internal/config"
	"github.com/fedguard/appealbot/internal/federation"
	"github.com/fedguard/appealbot/internal/intake"
	"github.com/fedguard/appealbot/internal/logging"
	"github.com/fedguard/appealbot/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/telebot.v4"
)

func main() {
	setupConfig()
	logging.Init()

	cfg := config.New()
	logrus.Debugf("config: %+v", cfg)

	if cfg.AdminID == 0 {
		logrus.Warn("admin_id is not configured, all admin commands will be rejected")
	}

	db, err := storage.OpenDB(cfg)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	store := storage.New(db)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	initCtx, migrateCancel := context.WithTimeout(ctx, 10*time.Second)
	defer migrateCancel()

	if err := store.Migrate(initCtx); err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}

	bot, err := telebot.NewBot(telebot.Settings{
		Token: cfg.TelegramToken,
		Poller: &telebot.LongPoller{
			Timeout:        10 * time.Second,
			AllowedUpdates: []string{"message", "callback_query"},
		},
	})
	if err != nil {
		logrus.Fatalf("Failed to create bot: %v", err)
	}

	svc := intake.NewService(cfg, store, bot, federation.NewNotifier(cfg))

	bot.Handle("/start", svc.Handler(svc.HandleStart))
	bot.Handle("/appeal", svc.Handler(svc.HandleAppeal))
	bot.Handle("/pending", svc.Handler(svc.AdminOnly(svc.HandlePending)))
	bot.Handle("/approve", svc.Handler(svc.AdminOnly(svc.HandleApprove)))
	bot.Handle("/reject", svc.Handler(svc.AdminOnly(svc.HandleReject)))
	bot.Handle(telebot.OnCallback, svc.Handler(svc.HandleCallback))

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		bot.Start()
	}()

	logrus.Info("bot started polling")

	<-ctx.Done()

	bot.Stop()

	logrus.Info("waiting for services to finish")
	wg.Wait()
}

func setupConfig() {
	viper.SetDefault("bot_handle_timeout", "10s")
	config.SetupCommon()
}
