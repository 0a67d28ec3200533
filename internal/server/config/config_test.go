package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.EndpointAddr)
	assert.Equal(t, "https://api.telegram.org", c.TelegramAPIBase)
	assert.Equal(t, 5*time.Minute, c.SessionTTL)
	assert.Equal(t, 24*time.Hour, c.ReminderInterval)
	assert.Empty(t, c.S3Bucket)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("TGVAULT_BOT_TOKEN", "123:abc")
	t.Setenv("TGVAULT_ALLOWED_USER_ID", "424242")
	t.Setenv("TGVAULT_SESSION_TTL", "90s")
	t.Setenv("TGVAULT_REMINDER_INTERVAL", "0s")

	c := &Config{}
	c.LoadDefaults()
	parseEnv(c)

	assert.Equal(t, "123:abc", c.BotToken)
	assert.Equal(t, int64(424242), c.AllowedUserID)
	assert.Equal(t, 90*time.Second, c.SessionTTL)
	// 0 is meaningful here: it disables the in-process scan ticker.
	assert.Equal(t, time.Duration(0), c.ReminderInterval)
}

func TestParseEnv_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("TGVAULT_ALLOWED_USER_ID", "not-a-number")
	t.Setenv("TGVAULT_SESSION_TTL", "not-a-duration")

	c := &Config{}
	c.LoadDefaults()
	parseEnv(c)

	assert.Equal(t, int64(0), c.AllowedUserID)
	assert.Equal(t, 5*time.Minute, c.SessionTTL)
}

func TestParseJson_OverridesOnlySetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	data := `{"database_dsn":"postgres://u:p@h:5432/db","session_ttl":"2m","allowed_user_id":7}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	oldArgs := os.Args
	os.Args = []string{"test", "-c", path}
	defer func() { os.Args = oldArgs }()

	c := &Config{}
	c.LoadDefaults()
	parseJson(c)

	assert.Equal(t, "postgres://u:p@h:5432/db", c.DatabaseDSN)
	assert.Equal(t, 2*time.Minute, c.SessionTTL)
	assert.Equal(t, int64(7), c.AllowedUserID)
	assert.Equal(t, ":8080", c.EndpointAddr)
}

func TestParseFlags(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"test", "-a", ":9999", "-i", "11", "-k", "passphrase"}
	defer func() { os.Args = oldArgs }()

	c := &Config{}
	c.LoadDefaults()
	parseFlags(c)

	assert.Equal(t, ":9999", c.EndpointAddr)
	assert.Equal(t, int64(11), c.AllowedUserID)
	assert.Equal(t, "passphrase", c.EncryptKey)
}
