// Package config loads runtime configuration for the payscan CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected with -c/-config or $PAYSCAN_CONFIG.
//     Files ending in .yaml or .yml are read as YAML, anything else as JSON.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the extraction server
//	-t int      request timeout (seconds)
//	-d string   path of the local session database
//	-l string   log level: debug, info, warn or error
//
// # File schema
//
// Durations use timex.Duration, so values can be strings like "400ms" or
// integer nanoseconds. Fields left out keep their defaults:
//
//	{
//	  "server_addr": "http://127.0.0.1:8002",
//	  "request_timeout": "30s",
//	  "search_debounce": "400ms",
//	  "notification_ttl": "3.5s",
//	  "session_db": "session.db",
//	  "download_dir": "download",
//	  "log_level": "info"
//	}
//
// The YAML form uses the same keys:
//
//	server_addr: http://127.0.0.1:8002
//	search_debounce: 400ms
package config
