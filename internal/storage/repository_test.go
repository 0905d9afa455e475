package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"partypay/internal/ledger"
	"partypay/internal/log"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "partypay.db"), log.New(log.ComponentStorage, log.Config{}))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestEntryCRUD(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	created, err := repo.CreateEntry(ctx, "id-1", ledger.EntryRecord{
		PartyName:    "Acme Corp",
		Date:         "2024-01-15",
		PaymentMinor: 5000,
		CreatedAt:    "2024-01-15T10:00:00Z",
	})
	if err != nil {
		t.Fatal(err)
	}
	if created.ID != "id-1" {
		t.Fatalf("supplied id not honored: %+v", created)
	}

	all, err := repo.AllEntries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].PartyName != "Acme Corp" || all[0].PaymentMinor != 5000 {
		t.Fatalf("unexpected entries %+v", all)
	}

	updated, err := repo.UpdateEntry(ctx, created.ID, ledger.EntryRecord{
		PartyName:    "Acme Corp",
		Date:         "2024-01-15",
		PaymentMinor: 7500,
		CreatedAt:    created.CreatedAt,
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.PaymentMinor != 7500 {
		t.Fatalf("update not applied: %+v", updated)
	}
	all, _ = repo.AllEntries(ctx)
	if all[0].PaymentMinor != 7500 {
		t.Fatalf("update not persisted: %+v", all[0])
	}

	if err := repo.DeleteEntry(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	all, _ = repo.AllEntries(ctx)
	if len(all) != 0 {
		t.Fatalf("expected empty ledger, got %+v", all)
	}
}

func TestEntriesKeepInsertionOrder(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	names := []string{"Zulu", "Alpha", "Mike"}
	for i, n := range names {
		id := fmt.Sprintf("id-%d", i)
		if _, err := repo.CreateEntry(ctx, id, ledger.EntryRecord{PartyName: n, Date: "2024-01-01", PaymentMinor: 100}); err != nil {
			t.Fatal(err)
		}
	}

	all, err := repo.AllEntries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for i, n := range names {
		if all[i].PartyName != n {
			t.Fatalf("order broken at %d: %+v", i, all)
		}
	}
}

func TestMissingEntryErrors(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if _, err := repo.UpdateEntry(ctx, "ghost", ledger.EntryRecord{}); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.DeleteEntry(ctx, "ghost"); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMastersReplaceWholesale(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	err := repo.UpdateMasters(ctx, []ledger.NamedMaster{
		{PartyName: "Acme Corp", DueAmount: "150.00"},
		{PartyName: "Globex", DueAmount: "0"},
	})
	if err != nil {
		t.Fatal(err)
	}

	m, ok, err := repo.LookupMaster(ctx, "ACME CORP")
	if err != nil || !ok {
		t.Fatalf("lookup: %v %v", ok, err)
	}
	if m.DueAmount != "150.00" {
		t.Fatalf("unexpected master %+v", m)
	}

	if err := repo.UpdateMasters(ctx, []ledger.NamedMaster{{PartyName: "Initech"}}); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := repo.LookupMaster(ctx, "Acme Corp"); ok {
		t.Fatal("replaced master should be gone")
	}
	if _, ok, _ := repo.LookupMaster(ctx, "initech"); !ok {
		t.Fatal("new master should be present")
	}
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partypay.db")
	logger := log.New(log.ComponentStorage, log.Config{})

	repo, err := NewRepository(path, logger)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := repo.CreateEntry(context.Background(), "id-1", ledger.EntryRecord{PartyName: "Acme", Date: "2024-01-01", PaymentMinor: 500}); err != nil {
		t.Fatal(err)
	}
	repo.Close()

	reopened, err := NewRepository(path, logger)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	all, err := reopened.AllEntries(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].PartyName != "Acme" {
		t.Fatalf("data lost across reopen: %+v", all)
	}
}
