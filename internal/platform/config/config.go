package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL      string
	IsProduction     bool
	TxTimeout        time.Duration
	BusinessTimezone string
	// AcceptOnFullPurchasePayment enables the rule that fully settling a
	// Draft purchase order's outstanding amount in one payment accepts it.
	AcceptOnFullPurchasePayment bool
	NotifyWebhookURL            string
	NotifyTimeout               time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("TX_TIMEOUT", "5s")
	viper.SetDefault("BUSINESS_TIMEZONE", "UTC")
	viper.SetDefault("ACCEPT_ON_FULL_PURCHASE_PAYMENT", true)
	viper.SetDefault("NOTIFY_WEBHOOK_URL", "")
	viper.SetDefault("NOTIFY_TIMEOUT", "3s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	txTimeoutStr := viper.GetString("TX_TIMEOUT")
	txTimeout, err := time.ParseDuration(txTimeoutStr)
	if err != nil || txTimeout <= 0 {
		txTimeout = 5 * time.Second
		if txTimeoutStr != "" {
			log.Printf("Warning: Invalid value for TX_TIMEOUT ('%s'). Defaulting to %s.\n", txTimeoutStr, txTimeout)
		}
	}
	cfg.TxTimeout = txTimeout

	notifyTimeoutStr := viper.GetString("NOTIFY_TIMEOUT")
	notifyTimeout, err := time.ParseDuration(notifyTimeoutStr)
	if err != nil || notifyTimeout <= 0 {
		notifyTimeout = 3 * time.Second
		if notifyTimeoutStr != "" {
			log.Printf("Warning: Invalid value for NOTIFY_TIMEOUT ('%s'). Defaulting to %s.\n", notifyTimeoutStr, notifyTimeout)
		}
	}
	cfg.NotifyTimeout = notifyTimeout

	cfg.BusinessTimezone = viper.GetString("BUSINESS_TIMEZONE")
	if cfg.BusinessTimezone == "" {
		// The legacy system assumed a fixed UTC offset; default here is explicit.
		cfg.BusinessTimezone = "UTC"
		log.Println("Warning: BUSINESS_TIMEZONE not set. Defaulting to UTC.")
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.AcceptOnFullPurchasePayment = viper.GetBool("ACCEPT_ON_FULL_PURCHASE_PAYMENT")
	cfg.NotifyWebhookURL = viper.GetString("NOTIFY_WEBHOOK_URL")

	return cfg, nil
}
