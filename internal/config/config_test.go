package config

import (
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name: "valid memory backend config",
			config: Config{
				Port:              "8082",
				LedgerBackend:     "memory",
				DirectoryPath:     "./party_masters.json",
				ImportConcurrency: 4,
			},
			wantErr: false,
		},
		{
			name: "valid remote backend config",
			config: Config{
				Port:              "8082",
				LedgerBackend:     "remote",
				RemoteBaseURL:     "https://ledger.example.com",
				RemoteTimeout:     15 * time.Second,
				DirectoryPath:     "./party_masters.json",
				ImportConcurrency: 4,
			},
			wantErr: false,
		},
		{
			name: "invalid port - non-numeric",
			config: Config{
				Port:              "abc",
				LedgerBackend:     "memory",
				DirectoryPath:     "./party_masters.json",
				ImportConcurrency: 4,
			},
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name: "invalid ledger backend",
			config: Config{
				Port:              "8082",
				LedgerBackend:     "dynamodb",
				DirectoryPath:     "./party_masters.json",
				ImportConcurrency: 4,
			},
			wantErr:     true,
			errorString: "invalid ledger backend 'dynamodb'",
		},
		{
			name: "remote backend without URL",
			config: Config{
				Port:              "8082",
				LedgerBackend:     "remote",
				RemoteTimeout:     15 * time.Second,
				DirectoryPath:     "./party_masters.json",
				ImportConcurrency: 4,
			},
			wantErr:     true,
			errorString: "LEDGER_URL is required",
		},
		{
			name: "remote backend with bad URL scheme",
			config: Config{
				Port:              "8082",
				LedgerBackend:     "remote",
				RemoteBaseURL:     "ftp://ledger.example.com",
				RemoteTimeout:     15 * time.Second,
				DirectoryPath:     "./party_masters.json",
				ImportConcurrency: 4,
			},
			wantErr:     true,
			errorString: "must be an http(s) URL",
		},
		{
			name: "bad AMQP scheme",
			config: Config{
				Port:              "8082",
				LedgerBackend:     "memory",
				DirectoryPath:     "./party_masters.json",
				AMQPURL:           "http://localhost:5672",
				AMQPExchange:      "partypay",
				AMQPQueue:         "sync_masters",
				ImportConcurrency: 4,
			},
			wantErr:     true,
			errorString: "invalid AMQP URL scheme",
		},
		{
			name: "missing directory path",
			config: Config{
				Port:              "8082",
				LedgerBackend:     "memory",
				ImportConcurrency: 4,
			},
			wantErr:     true,
			errorString: "directory path cannot be empty",
		},
		{
			name: "import concurrency too low",
			config: Config{
				Port:          "8082",
				LedgerBackend: "memory",
				DirectoryPath: "./party_masters.json",
			},
			wantErr:     true,
			errorString: "invalid import concurrency 0",
		},
		{
			name: "sheet id without sheet name",
			config: Config{
				Port:                "8082",
				LedgerBackend:       "memory",
				DirectoryPath:       "./party_masters.json",
				ImportConcurrency:   4,
				GoogleSpreadsheetID: "abc123",
			},
			wantErr:     true,
			errorString: "GOOGLE_SHEET_NAME is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Fatalf("expected error containing %q, got %q", tt.errorString, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8082" {
		t.Fatalf("unexpected default port %q", cfg.Port)
	}
	if cfg.LedgerBackend != "memory" {
		t.Fatalf("unexpected default backend %q", cfg.LedgerBackend)
	}
	if cfg.RemoteTimeout != 15*time.Second {
		t.Fatalf("unexpected default timeout %v", cfg.RemoteTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}
