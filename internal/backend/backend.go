// Package backend selects and constructs the ledger store the application
// runs against: a remote ledger service, a standalone SQLite file, or an
// in-memory store for tests and demos.
package backend

import (
	"fmt"
	"time"

	"partypay/internal/ledger"
)

// Kind identifies a ledger backend.
type Kind string

const (
	KindRemote Kind = "remote"
	KindSQLite Kind = "sqlite"
	KindMemory Kind = "memory"
)

func (k Kind) String() string { return string(k) }

func (k Kind) IsValid() bool {
	switch k {
	case KindRemote, KindSQLite, KindMemory:
		return true
	}
	return false
}

// Kinds returns every valid backend kind.
func Kinds() []Kind {
	return []Kind{KindRemote, KindSQLite, KindMemory}
}

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// Result bundles the constructed store with its optional companions.
// Sessions is non-nil only for backends that can resolve caller identity;
// Cleanup is nil when the backend holds no resources.
type Result struct {
	Store    ledger.Store
	Sessions ledger.SessionStore
	Cleanup  CleanupFunc
}

// Close runs the cleanup function if one was provided.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Config holds everything needed to construct any backend kind.
type Config struct {
	Kind Kind

	// Remote ledger service
	RemoteBaseURL string
	RemoteToken   string
	RemoteTimeout time.Duration

	// SQLite
	SQLiteDBPath string
}

// Validate checks the fields required by the selected kind.
func (c Config) Validate() error {
	if !c.Kind.IsValid() {
		return fmt.Errorf("invalid backend kind %q, must be one of %v", c.Kind, Kinds())
	}
	switch c.Kind {
	case KindRemote:
		if c.RemoteBaseURL == "" {
			return fmt.Errorf("remote backend requires a base URL")
		}
	case KindSQLite:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("sqlite backend requires a database path")
		}
	}
	return nil
}
