// Package ledger defines the contracts the payment ledger backends satisfy.
// The application talks to the ledger only through these interfaces; concrete
// backends live in subpackages (remote, memory) and in internal/storage.
package ledger

import (
	"context"
	"errors"
)

var (
	// ErrNotFound reports an entry or master the backend does not hold.
	ErrNotFound = errors.New("ledger: record not found")
	// ErrUnauthorized reports a caller the backend refused to serve.
	ErrUnauthorized = errors.New("ledger: unauthorized")
)

// EntryRecord is the backend-facing shape of a payment entry. Monetary
// amounts cross the ledger boundary as integer minor units (amount * 100);
// the services layer converts to and from display strings, so no float or
// string arithmetic happens past this point.
type EntryRecord struct {
	PartyName       string `json:"partyName"`
	Address         string `json:"address"`
	PhoneNumber     string `json:"phoneNumber"`
	PANNumber       string `json:"panNumber"`
	DueAmountMinor  int64  `json:"dueAmount"`
	Date            string `json:"date"`
	PaymentMinor    int64  `json:"payment"`
	NextPaymentDate string `json:"nextPaymentDate"`
	Comments        string `json:"comments"`
	EntryLocation   string `json:"entryLocation"`
	CreatedAt       string `json:"createdAt"`
}

// StoredEntry is an EntryRecord as the backend returns it, keyed by the
// backend-assigned identifier. Backends created before identifiers were
// introduced may return an empty ID; callers derive a stable one.
type StoredEntry struct {
	ID string `json:"id"`
	EntryRecord
}

// NamedMaster is the backend-facing shape of a party master record.
type NamedMaster struct {
	PartyName   string `json:"partyName"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	PANNumber   string `json:"panNumber"`
	DueAmount   string `json:"dueAmount"`
}

// Role is the access level a session carries.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// CanWrite reports whether the role may create, update or delete records.
func (r Role) CanWrite() bool {
	return r == RoleAdmin || r == RoleUser
}

// UserProfile describes an authenticated caller.
type UserProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Role        Role   `json:"role"`
}

// EntryStore is the ledger surface for payment entries. The caller mints the
// entry id before CreateEntry and backends persist it as given; the ledger
// service is never the id authority at creation time.
type EntryStore interface {
	CreateEntry(ctx context.Context, id string, rec EntryRecord) (StoredEntry, error)
	UpdateEntry(ctx context.Context, id string, rec EntryRecord) (StoredEntry, error)
	DeleteEntry(ctx context.Context, id string) error
	AllEntries(ctx context.Context) ([]StoredEntry, error)
}

// MasterStore is the ledger surface for party master records. UpdateMasters
// replaces the backend's collection wholesale, mirroring the local directory.
type MasterStore interface {
	LookupMaster(ctx context.Context, partyName string) (NamedMaster, bool, error)
	UpdateMasters(ctx context.Context, masters []NamedMaster) error
}

// SessionStore resolves bearer tokens into caller profiles. Backends without
// user management leave it nil and the HTTP layer skips the auth gate.
type SessionStore interface {
	Profile(ctx context.Context, token string) (UserProfile, error)
	Register(ctx context.Context, token string, profile UserProfile) (UserProfile, error)
}

// Store is the full backend contract.
type Store interface {
	EntryStore
	MasterStore
}
