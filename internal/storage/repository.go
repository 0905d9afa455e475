// Package storage provides a SQLite-backed ledger for fully offline
// deployments. It satisfies the same interfaces as the remote backend, so the
// rest of the application cannot tell the two apart.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"partypay/internal/core"
	"partypay/internal/ledger"
	"partypay/internal/log"
)

// Repository implements ledger.Store on a local SQLite database.
type Repository struct {
	db     *sql.DB
	logger *log.Logger
}

func NewRepository(dbPath string, logger *log.Logger) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, logger: logger.WithComponent(log.ComponentStorage)}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const entryColumns = `id, party_name, address, phone_number, pan_number, due_amount,
	date, payment, next_payment_date, comments, entry_location, created_at`

// CreateEntry persists the record under the caller-minted id.
func (r *Repository) CreateEntry(ctx context.Context, id string, rec ledger.EntryRecord) (ledger.StoredEntry, error) {
	if id == "" {
		return ledger.StoredEntry{}, fmt.Errorf("insert entry: id is required")
	}
	entry := ledger.StoredEntry{ID: id, EntryRecord: rec}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.PartyName, entry.Address, entry.PhoneNumber, entry.PANNumber,
		entry.DueAmountMinor, entry.Date, entry.PaymentMinor, entry.NextPaymentDate,
		entry.Comments, entry.EntryLocation, entry.CreatedAt)
	if err != nil {
		return ledger.StoredEntry{}, fmt.Errorf("insert entry: %w", err)
	}

	r.logger.InfoContext(ctx, "Entry saved to SQLite",
		log.FieldEntryID, entry.ID,
		log.FieldPartyName, entry.PartyName,
		"payment_minor", entry.PaymentMinor)
	return entry, nil
}

func (r *Repository) UpdateEntry(ctx context.Context, id string, rec ledger.EntryRecord) (ledger.StoredEntry, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE entries SET party_name = ?, address = ?, phone_number = ?, pan_number = ?,
			due_amount = ?, date = ?, payment = ?, next_payment_date = ?, comments = ?,
			entry_location = ?, created_at = ?
		WHERE id = ?`,
		rec.PartyName, rec.Address, rec.PhoneNumber, rec.PANNumber, rec.DueAmountMinor,
		rec.Date, rec.PaymentMinor, rec.NextPaymentDate, rec.Comments, rec.EntryLocation,
		rec.CreatedAt, id)
	if err != nil {
		return ledger.StoredEntry{}, fmt.Errorf("update entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ledger.StoredEntry{}, fmt.Errorf("%w: entry %s", ledger.ErrNotFound, id)
	}
	return ledger.StoredEntry{ID: id, EntryRecord: rec}, nil
}

func (r *Repository) DeleteEntry(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: entry %s", ledger.ErrNotFound, id)
	}
	r.logger.InfoContext(ctx, "Entry deleted from SQLite", log.FieldEntryID, id)
	return nil
}

// AllEntries returns entries in insertion order.
func (r *Repository) AllEntries(ctx context.Context) ([]ledger.StoredEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM entries ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []ledger.StoredEntry{}
	for rows.Next() {
		var e ledger.StoredEntry
		if err := rows.Scan(&e.ID, &e.PartyName, &e.Address, &e.PhoneNumber, &e.PANNumber,
			&e.DueAmountMinor, &e.Date, &e.PaymentMinor, &e.NextPaymentDate,
			&e.Comments, &e.EntryLocation, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

func (r *Repository) LookupMaster(ctx context.Context, partyName string) (ledger.NamedMaster, bool, error) {
	var m ledger.NamedMaster
	err := r.db.QueryRowContext(ctx, `
		SELECT party_name, phone_number, address, pan_number, due_amount
		FROM party_masters WHERE party_key = ?`,
		core.NormalizeKey(partyName)).
		Scan(&m.PartyName, &m.PhoneNumber, &m.Address, &m.PANNumber, &m.DueAmount)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.NamedMaster{}, false, nil
	}
	if err != nil {
		return ledger.NamedMaster{}, false, fmt.Errorf("lookup master: %w", err)
	}
	return m, true, nil
}

// UpdateMasters replaces the master table wholesale inside one transaction.
func (r *Repository) UpdateMasters(ctx context.Context, masters []ledger.NamedMaster) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin masters update: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM party_masters`); err != nil {
		return fmt.Errorf("clear masters: %w", err)
	}
	for _, m := range masters {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO party_masters (party_key, party_name, phone_number, address, pan_number, due_amount)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(party_key) DO UPDATE SET
				party_name = excluded.party_name,
				phone_number = excluded.phone_number,
				address = excluded.address,
				pan_number = excluded.pan_number,
				due_amount = excluded.due_amount`,
			core.NormalizeKey(m.PartyName), m.PartyName, m.PhoneNumber, m.Address, m.PANNumber, m.DueAmount)
		if err != nil {
			return fmt.Errorf("insert master %q: %w", m.PartyName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit masters update: %w", err)
	}
	r.logger.InfoContext(ctx, "Party masters replaced", log.FieldCount, len(masters))
	return nil
}
