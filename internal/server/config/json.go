package config

import (
	"encoding/json"
	"os"
	"time"

	"tgvault/internal/flagx"
	"tgvault/internal/timex"
)

// JsonConfig is the DTO for the optional JSON configuration file. Duration
// fields accept either strings such as "5m" or integer nanoseconds.
type JsonConfig struct {
	EndpointAddr     string         `json:"endpoint_addr"`
	DatabaseDSN      string         `json:"database_dsn"`
	BotToken         string         `json:"bot_token"`
	TelegramAPIBase  string         `json:"telegram_api_base"`
	PublicURL        string         `json:"public_url"`
	AllowedUserID    int64          `json:"allowed_user_id"`
	EncryptKey       string         `json:"encrypt_key"`
	AdminSecret      string         `json:"admin_secret"`
	SessionTTL       timex.Duration `json:"session_ttl"`
	ReminderInterval timex.Duration `json:"reminder_interval"`
	S3RootUser       string         `json:"s3_root_user"`
	S3RootPassword   string         `json:"s3_root_password"`
	S3Bucket         string         `json:"s3_bucket"`
	S3Region         string         `json:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint"`
}

// parseJson loads values from the file named by -c/-config, if any. The file
// overrides only the fields it sets; a missing flag means no JSON layer.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.BotToken != "" {
		config.BotToken = c.BotToken
	}
	if c.TelegramAPIBase != "" {
		config.TelegramAPIBase = c.TelegramAPIBase
	}
	if c.PublicURL != "" {
		config.PublicURL = c.PublicURL
	}
	if c.AllowedUserID != 0 {
		config.AllowedUserID = c.AllowedUserID
	}
	if c.EncryptKey != "" {
		config.EncryptKey = c.EncryptKey
	}
	if c.AdminSecret != "" {
		config.AdminSecret = c.AdminSecret
	}
	if c.SessionTTL.Duration != 0 {
		config.SessionTTL = time.Duration(c.SessionTTL.Duration)
	}
	if c.ReminderInterval.Duration != 0 {
		config.ReminderInterval = time.Duration(c.ReminderInterval.Duration)
	}
	if c.S3RootUser != "" {
		config.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		config.S3RootPassword = c.S3RootPassword
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
}
