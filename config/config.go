package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DB_URL      string `mapstructure:"DB_URL"`
	AutoMigrate bool   `mapstructure:"AUTO_MIGRATE"`
	HTTPAddr    string `mapstructure:"HTTP_ADDR"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	UploadDir      string `mapstructure:"UPLOAD_DIR"`
	MaxUploadBytes int64  `mapstructure:"MAX_UPLOAD_BYTES"`

	TelegramBotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	AdminChatID      int64  `mapstructure:"ADMIN_CHAT_ID"`

	AdminUsername string `mapstructure:"ADMIN_USERNAME"`
	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`

	CryptoAccountsFile string `mapstructure:"CRYPTO_ACCOUNTS_FILE"`
	BTCNetwork         string `mapstructure:"BTC_NETWORK"`

	PaymentDelay    time.Duration `mapstructure:"PAYMENT_DELAY"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

var defaults = map[string]any{
	"DB_URL":               "",
	"AUTO_MIGRATE":         true,
	"HTTP_ADDR":            ":8080",
	"JWT_SECRET":           "",
	"LOG_LEVEL":            "debug",
	"UPLOAD_DIR":           "./uploads",
	"MAX_UPLOAD_BYTES":     5 << 20,
	"TELEGRAM_BOT_TOKEN":   "",
	"ADMIN_CHAT_ID":        0,
	"ADMIN_USERNAME":       "",
	"ADMIN_EMAIL":          "",
	"ADMIN_PASSWORD":       "",
	"CRYPTO_ACCOUNTS_FILE": "crypto_accounts.yaml",
	"BTC_NETWORK":          "mainnet",
	"PAYMENT_DELAY":        "1s",
	"SHUTDOWN_TIMEOUT":     "10s",
}

// LoadConfig reads an optional .env file into the environment and then
// resolves every key from the environment, falling back to defaults.
func LoadConfig(path string) (config Config, err error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return config, fmt.Errorf("failed to resolve config path: %w", err)
	}

	if err := godotenv.Load(absPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config, fmt.Errorf("failed to read env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := config.validate(); err != nil {
		return config, err
	}

	return config, nil
}

func (c Config) validate() error {
	if c.DB_URL == "" {
		return errors.New("DB_URL is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}
