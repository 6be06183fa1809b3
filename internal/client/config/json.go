package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/payscan/payscan/internal/flagx"
	"github.com/payscan/payscan/internal/timex"
)

// JsonConfig is a DTO used exclusively for config file unmarshalling. The
// same keys work in JSON and YAML. Durations go through timex.Duration so
// they may be written as "400ms" or nanoseconds.
type JsonConfig struct {
	ServerAddr      string         `json:"server_addr" yaml:"server_addr"`
	RequestTimeout  timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	SearchDebounce  timex.Duration `json:"search_debounce" yaml:"search_debounce"`
	NotificationTTL timex.Duration `json:"notification_ttl" yaml:"notification_ttl"`
	SessionDB       string         `json:"session_db" yaml:"session_db"`
	DownloadDir     string         `json:"download_dir" yaml:"download_dir"`
	LogLevel        string         `json:"log_level" yaml:"log_level"`
}

// decodeConfigFile picks the decoder from the file extension; anything
// other than .yaml/.yml is read as JSON.
func decodeConfigFile(path string, data []byte, jc *JsonConfig) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, jc)
	default:
		return json.Unmarshal(data, jc)
	}
}

// parseJson overlays cfg with the non-zero values of the config file named
// by flagx.ConfigFilePath. It panics on read or decode errors.
func parseJson(cfg *Config) {
	path := flagx.ConfigFilePath()
	if path == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	if err := decodeConfigFile(path, data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerAddr != "" {
		cfg.ServerAddr = jc.ServerAddr
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SearchDebounce.Duration > 0 {
		cfg.SearchDebounce = jc.SearchDebounce.Duration
	}
	if jc.NotificationTTL.Duration > 0 {
		cfg.NotificationTTL = jc.NotificationTTL.Duration
	}
	if jc.SessionDB != "" {
		cfg.SessionDB = jc.SessionDB
	}
	if jc.DownloadDir != "" {
		cfg.DownloadDir = jc.DownloadDir
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
