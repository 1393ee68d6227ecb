package config

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	TelegramToken    string        `mapstructure:"telegram_token"`
	AdminID          int64         `mapstructure:"admin_id"`
	BotHandleTimeout time.Duration `mapstructure:"bot_handle_timeout"`

	FederationWebhookURL string `mapstructure:"federation_webhook_url"`

	ListenAddress string `mapstructure:"listen_address"`

	PostgresDSN string `mapstructure:"postgres_dsn"`
	SQLitePath  string `mapstructure:"sqlite_path"`
}

func New() *Config {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		logrus.Fatalf("unmarshalling config: %v", err)
	}
	return cfg
}

func SetupCommon() {
	viper.SetDefault("sqlite_path", "appeals.db")
	viper.SetDefault("listen_address", ":8080")
	viper.SetEnvPrefix("FEDBOT")

	viper.MustBindEnv("telegram_token")

	// An unset admin id stays zero, which never matches a real Telegram
	// user, so every admin command keeps rejecting.
	viper.BindEnv("admin_id")
	viper.BindEnv("postgres_dsn")
	viper.BindEnv("federation_webhook_url")
	viper.AutomaticEnv()
}
