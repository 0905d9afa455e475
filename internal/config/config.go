package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP server
	Port string

	// Ledger backend selection
	LedgerBackend string

	// Remote ledger service
	RemoteBaseURL string
	RemoteToken   string
	RemoteTimeout time.Duration

	// SQLite (standalone ledger)
	SQLiteDBPath string

	// Party master directory (durable local store)
	DirectoryPath string

	// AMQP (async master sync)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Import
	ImportConcurrency int

	// Google Sheets master source (optional)
	GoogleSpreadsheetID string
	GoogleSheetName     string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8082"),

		LedgerBackend: getEnv("LEDGER_BACKEND", "memory"),

		RemoteBaseURL: getEnv("LEDGER_URL", ""),
		RemoteToken:   getEnv("LEDGER_TOKEN", ""),
		RemoteTimeout: getEnvDuration("LEDGER_TIMEOUT", 15*time.Second),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/partypay.db"),

		DirectoryPath: getEnv("DIRECTORY_PATH", "./data/party_masters.json"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "partypay"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "sync_masters"),

		ImportConcurrency: getEnvInt("IMPORT_CONCURRENCY", 4),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", ""),
	}
}

// Validate checks the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.LedgerBackend {
	case "remote", "sqlite", "memory":
	default:
		errs = append(errs, fmt.Sprintf("invalid ledger backend '%s': must be one of [remote sqlite memory]", c.LedgerBackend))
	}

	if c.LedgerBackend == "remote" {
		if c.RemoteBaseURL == "" {
			errs = append(errs, "LEDGER_URL is required when using the remote backend")
		} else if u, err := url.Parse(c.RemoteBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Sprintf("invalid LEDGER_URL '%s': must be an http(s) URL", c.RemoteBaseURL))
		}
		if c.RemoteTimeout < time.Second {
			errs = append(errs, fmt.Sprintf("invalid LEDGER_TIMEOUT %v: must be at least 1 second", c.RemoteTimeout))
		}
	}

	if c.LedgerBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using the sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.DirectoryPath == "" {
		errs = append(errs, "directory path cannot be empty")
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.ImportConcurrency < 1 {
		errs = append(errs, fmt.Sprintf("invalid import concurrency %d: must be at least 1", c.ImportConcurrency))
	} else if c.ImportConcurrency > 64 {
		errs = append(errs, fmt.Sprintf("invalid import concurrency %d: must be at most 64", c.ImportConcurrency))
	}

	if c.GoogleSpreadsheetID != "" && c.GoogleSheetName == "" {
		errs = append(errs, "GOOGLE_SHEET_NAME is required when GOOGLE_SPREADSHEET_ID is provided")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
