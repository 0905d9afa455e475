package memory

import (
	"context"
	"errors"
	"testing"

	"partypay/internal/ledger"
)

func TestEntryLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, err := s.CreateEntry(ctx, "id-1", ledger.EntryRecord{PartyName: "Acme", PaymentMinor: 1000})
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != "id-1" {
		t.Fatalf("supplied id not honored: %+v", first)
	}
	second, err := s.CreateEntry(ctx, "id-2", ledger.EntryRecord{PartyName: "Globex", PaymentMinor: 2000})
	if err != nil {
		t.Fatal(err)
	}

	all, err := s.AllEntries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].ID != first.ID || all[1].ID != second.ID {
		t.Fatalf("entries not in creation order: %+v", all)
	}

	updated, err := s.UpdateEntry(ctx, first.ID, ledger.EntryRecord{PartyName: "Acme", PaymentMinor: 1500})
	if err != nil {
		t.Fatal(err)
	}
	if updated.PaymentMinor != 1500 {
		t.Fatalf("update not applied: %+v", updated)
	}

	if err := s.DeleteEntry(ctx, second.ID); err != nil {
		t.Fatal(err)
	}
	all, _ = s.AllEntries(ctx)
	if len(all) != 1 || all[0].ID != first.ID {
		t.Fatalf("delete not applied: %+v", all)
	}
}

func TestCreateRequiresID(t *testing.T) {
	s := New()
	if _, err := s.CreateEntry(context.Background(), "", ledger.EntryRecord{PartyName: "Acme"}); err == nil {
		t.Fatal("empty id should be rejected")
	}
}

func TestMissingEntryErrors(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.UpdateEntry(ctx, "nope", ledger.EntryRecord{}); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteEntry(ctx, "nope"); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMastersReplaceAndLookup(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.UpdateMasters(ctx, []ledger.NamedMaster{
		{PartyName: "Acme Corp", DueAmount: "150.00"},
	})
	if err != nil {
		t.Fatal(err)
	}

	m, ok, err := s.LookupMaster(ctx, "  acme corp ")
	if err != nil || !ok {
		t.Fatalf("lookup failed: %v %v", ok, err)
	}
	if m.DueAmount != "150.00" {
		t.Fatalf("unexpected master %+v", m)
	}

	// Wholesale replace drops previous records.
	if err := s.UpdateMasters(ctx, []ledger.NamedMaster{{PartyName: "Globex"}}); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.LookupMaster(ctx, "Acme Corp"); ok {
		t.Fatal("replaced master should be gone")
	}
}
