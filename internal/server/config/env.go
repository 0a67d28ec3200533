package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays TGVAULT_* environment variables onto the config.
// Secrets (bot token, encrypt key, admin secret) are usually supplied here.
func parseEnv(config *Config) {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	setString("TGVAULT_ENDPOINT_ADDR", &config.EndpointAddr)
	setString("TGVAULT_DATABASE_DSN", &config.DatabaseDSN)
	setString("TGVAULT_BOT_TOKEN", &config.BotToken)
	setString("TGVAULT_TELEGRAM_API_BASE", &config.TelegramAPIBase)
	setString("TGVAULT_PUBLIC_URL", &config.PublicURL)
	setString("TGVAULT_ENCRYPT_KEY", &config.EncryptKey)
	setString("TGVAULT_ADMIN_SECRET", &config.AdminSecret)
	setString("TGVAULT_S3_ROOT_USER", &config.S3RootUser)
	setString("TGVAULT_S3_ROOT_PASSWORD", &config.S3RootPassword)
	setString("TGVAULT_S3_BUCKET", &config.S3Bucket)
	setString("TGVAULT_S3_REGION", &config.S3Region)
	setString("TGVAULT_S3_BASE_ENDPOINT", &config.S3BaseEndpoint)

	if v, ok := os.LookupEnv("TGVAULT_ALLOWED_USER_ID"); ok && v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.AllowedUserID = id
		}
	}
	if v, ok := os.LookupEnv("TGVAULT_SESSION_TTL"); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.SessionTTL = d
		}
	}
	if v, ok := os.LookupEnv("TGVAULT_REMINDER_INTERVAL"); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.ReminderInterval = d
		}
	}
}
