package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"partypay/internal/amqp"
	"partypay/internal/core"
	"partypay/internal/directory"
	"partypay/internal/excel"
	"partypay/internal/ledger"
	"partypay/internal/ledger/memory"
)

func testDirectory(t *testing.T) *directory.Store {
	t.Helper()
	return directory.NewStore(filepath.Join(t.TempDir(), "party_masters.json"))
}

func workbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type capturingPublisher struct {
	published *amqp.MasterSyncMessage
	fail      bool
}

func (p *capturingPublisher) PublishMasterSync(_ context.Context, msg *amqp.MasterSyncMessage) error {
	if p.fail {
		return errors.New("broker unreachable")
	}
	p.published = msg
	return nil
}

func TestImportFileDualWrite(t *testing.T) {
	dir := testDirectory(t)
	store := memory.New()
	pub := &capturingPublisher{}
	svc := NewImportService(dir, store, pub, 4, testLogger())

	data := workbook(t, [][]any{
		{"Party Name", "Phone", "Address", "PAN", "Due Amount"},
		{"Acme Corp", "0555-1234", "1 Main St", "abcde1234f", "150.00"},
		{"Globex", "0555-9876", "2 Side St", "fghij5678k", "0"},
	})

	out, err := svc.ImportFile(context.Background(), data)
	if err != nil {
		t.Fatal(err)
	}
	if out.ImportedCount != 2 {
		t.Fatalf("imported %d, want 2", out.ImportedCount)
	}
	if !out.LedgerSynced {
		t.Fatalf("ledger sync should succeed: %+v", out)
	}
	if !out.Queued || pub.published == nil {
		t.Fatalf("publish should succeed: %+v", out)
	}
	if len(pub.published.Masters) != 2 {
		t.Fatalf("published %d masters", len(pub.published.Masters))
	}

	// Local directory holds the collection.
	if m, ok := dir.Find("acme corp"); !ok || m.DueAmount != "150.00" {
		t.Fatalf("directory missing imported master: %v %v", m, ok)
	}
	// Ledger backend holds it too.
	if m, ok, _ := store.LookupMaster(context.Background(), "Globex"); !ok || m.PANNumber != "FGHIJ5678K" {
		t.Fatalf("ledger missing imported master: %v %v", m, ok)
	}
}

func TestImportFileParseFailureKeepsWarnings(t *testing.T) {
	svc := NewImportService(testDirectory(t), nil, nil, 1, testLogger())

	data := workbook(t, [][]any{
		{"Phone"},
		{"0555"},
	})
	out, err := svc.ImportFile(context.Background(), data)
	if !errors.Is(err, excel.ErrMissingPartyColumn) {
		t.Fatalf("expected ErrMissingPartyColumn, got %v", err)
	}
	if len(out.Warnings) == 0 {
		t.Fatal("column warnings should survive the failure")
	}
}

type failingMasters struct{}

func (failingMasters) LookupMaster(context.Context, string) (ledger.NamedMaster, bool, error) {
	return ledger.NamedMaster{}, false, nil
}

func (failingMasters) UpdateMasters(context.Context, []ledger.NamedMaster) error {
	return errors.New("remote call failed: bearer token rejected")
}

func TestSinkFailuresDoNotFailImport(t *testing.T) {
	dir := testDirectory(t)
	pub := &capturingPublisher{fail: true}
	svc := NewImportService(dir, failingMasters{}, pub, 2, testLogger())

	data := workbook(t, [][]any{
		{"Party Name"},
		{"Acme"},
	})
	out, err := svc.ImportFile(context.Background(), data)
	if err != nil {
		t.Fatalf("sink failures must not fail the import: %v", err)
	}
	if out.LedgerSynced || out.Queued {
		t.Fatalf("sinks should be reported failed: %+v", out)
	}
	if out.LedgerError == "" || out.QueueError == "" {
		t.Fatalf("sink errors should be reported: %+v", out)
	}
	// The ledger error mentioned a token; the surfaced message must not.
	if got := out.LedgerError; got != "remote call failed: bearer [REDACTED] rejected" {
		t.Fatalf("ledger error not sanitized: %q", got)
	}

	// Local save still happened.
	if _, ok := dir.Find("Acme"); !ok {
		t.Fatal("local directory save must survive sink failures")
	}
}

type staticSource struct {
	masters  []core.PartyMaster
	warnings []string
	err      error
}

func (s staticSource) ReadPartyMasters(context.Context) ([]core.PartyMaster, []string, error) {
	return s.masters, s.warnings, s.err
}

func TestImportFromSource(t *testing.T) {
	dir := testDirectory(t)
	store := memory.New()
	svc := NewImportService(dir, store, nil, 2, testLogger())

	out, err := svc.ImportFromSource(context.Background(), staticSource{
		masters:  []core.PartyMaster{{PartyName: "Initech", DueAmount: "10.00"}},
		warnings: []string{"Column for \"address\" not found. Expected one of: address, location, addr"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.ImportedCount != 1 || len(out.Warnings) != 1 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if _, ok := dir.Find("Initech"); !ok {
		t.Fatal("source import should reach the directory")
	}
}

func TestImportFromSourceEmpty(t *testing.T) {
	svc := NewImportService(testDirectory(t), nil, nil, 1, testLogger())
	_, err := svc.ImportFromSource(context.Background(), staticSource{})
	if !errors.Is(err, excel.ErrNoValidRows) {
		t.Fatalf("expected ErrNoValidRows, got %v", err)
	}
}

func TestLookupMasterAndMasters(t *testing.T) {
	dir := testDirectory(t)
	svc := NewImportService(dir, nil, nil, 1, testLogger())

	data := workbook(t, [][]any{
		{"Party Name", "Due Amount"},
		{"Acme Corp", "150.00"},
	})
	if _, err := svc.ImportFile(context.Background(), data); err != nil {
		t.Fatal(err)
	}

	m, ok, err := svc.LookupMaster(context.Background(), "ACME CORP")
	if err != nil || !ok || m.DueAmount != "150.00" {
		t.Fatalf("LookupMaster: %v %v %v", m, ok, err)
	}
	if got := svc.Masters(); len(got) != 1 {
		t.Fatalf("Masters: %+v", got)
	}
}

func TestLookupMasterFallsBackToLedger(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	err := store.UpdateMasters(ctx, []ledger.NamedMaster{
		{PartyName: "Initech", PhoneNumber: "0555-4321", DueAmount: "10.00"},
	})
	if err != nil {
		t.Fatal(err)
	}
	svc := NewImportService(testDirectory(t), store, nil, 1, testLogger())

	// Not in the local directory, but the ledger knows it.
	m, ok, err := svc.LookupMaster(ctx, "initech")
	if err != nil || !ok {
		t.Fatalf("LookupMaster: %v %v", ok, err)
	}
	if m.PartyName != "Initech" || m.DueAmount != "10.00" || m.PhoneNumber != "0555-4321" {
		t.Fatalf("unexpected master %+v", m)
	}

	// Missing everywhere is a miss, not an error.
	if _, ok, err := svc.LookupMaster(ctx, "Ghost"); ok || err != nil {
		t.Fatalf("missing party: %v %v", ok, err)
	}
}
