package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payscan/payscan/internal/flagx"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8002", c.ServerAddr)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, 400*time.Millisecond, c.SearchDebounce)
	assert.Equal(t, 3500*time.Millisecond, c.NotificationTTL)
	assert.Equal(t, "session.db", c.SessionDB)
	assert.Equal(t, "download", c.DownloadDir)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	t.Setenv(flagx.ConfigEnvVar, "")

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:8002", cfg.ServerAddr)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"server_addr":     "http://json:1",
		"request_timeout": "5s",
		"log_level":       "warn",
	})
	os.Args = []string{"testbin", "-c", path, "-a", "http://flag:2", "upload"}

	cfg := LoadConfig()
	assert.Equal(t, "http://flag:2", cfg.ServerAddr)
	// -t not given, so the JSON value carried through the flag default.
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "warn", cfg.LogLevel)
}
