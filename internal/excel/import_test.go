package excel

import (
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildSheet produces an xlsx payload whose first worksheet holds the given
// rows.
func buildSheet(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, v := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(sheet, cellRef, v); err != nil {
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

func TestParseSingleRow(t *testing.T) {
	data := buildSheet(t, [][]any{
		{"Party Name", "Phone", "Address", "PAN", "Due Amount"},
		{"Acme", "555-1234", "1 Main St", "abcde1234f", "150.00"},
	})

	res, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v (warnings: %v)", err, res)
	}
	if len(res.Masters) != 1 {
		t.Fatalf("expected 1 record, got %d", len(res.Masters))
	}
	m := res.Masters[0]
	if m.PartyName != "Acme" {
		t.Fatalf("party name %q", m.PartyName)
	}
	if m.DueAmount != "150.00" {
		t.Fatalf("due amount %q", m.DueAmount)
	}
	if m.PANNumber != "ABCDE1234F" {
		t.Fatalf("pan should be upper-cased, got %q", m.PANNumber)
	}
	if m.PhoneNumber != "555-1234" || m.Address != "1 Main St" {
		t.Fatalf("unexpected record %v", m)
	}
}

func TestParseHeaderSynonyms(t *testing.T) {
	data := buildSheet(t, [][]any{
		{"NAME", "Mobile", "Location", "pan number", "due"},
		{"Globex", "0123", "2 Side St", "xyz", "10"},
	})
	res, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := res.Masters[0]
	if m.PartyName != "Globex" || m.PhoneNumber != "0123" || m.Address != "2 Side St" {
		t.Fatalf("synonym resolution failed: %v", m)
	}
}

func TestParseMissingOptionalColumnsWarns(t *testing.T) {
	data := buildSheet(t, [][]any{
		{"Party Name"},
		{"Acme"},
	})
	res, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Warnings) != 4 {
		t.Fatalf("expected 4 column warnings, got %v", res.Warnings)
	}
	if res.Masters[0].DueAmount != "0" {
		t.Fatalf("due amount should default to 0, got %q", res.Masters[0].DueAmount)
	}
}

func TestParseMissingPartyColumnFails(t *testing.T) {
	data := buildSheet(t, [][]any{
		{"Phone", "Address"},
		{"555", "nowhere"},
	})
	_, err := Parse(data)
	if !errors.Is(err, ErrMissingPartyColumn) {
		t.Fatalf("expected ErrMissingPartyColumn, got %v", err)
	}
}

func TestParseSkipsBlankPartyRows(t *testing.T) {
	data := buildSheet(t, [][]any{
		{"Party Name", "Due Amount"},
		{"Acme", "1.00"},
		{"   ", "2.00"},
		{"Globex", "3.00"},
	})
	res, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Masters) != 2 {
		t.Fatalf("expected 2 records, got %d", len(res.Masters))
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "Row 3") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a Row 3 skip warning, got %v", res.Warnings)
	}
}

func TestParseAllRowsBlankFails(t *testing.T) {
	data := buildSheet(t, [][]any{
		{"Party Name"},
		{""},
		{" "},
	})
	_, err := Parse(data)
	if !errors.Is(err, ErrNoValidRows) {
		t.Fatalf("expected ErrNoValidRows, got %v", err)
	}
}

func TestParseHeaderOnlyFails(t *testing.T) {
	data := buildSheet(t, [][]any{{"Party Name"}})
	if _, err := Parse(data); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestParseGarbageFails(t *testing.T) {
	if _, err := Parse([]byte("this is not a spreadsheet")); err == nil {
		t.Fatalf("expected error for non-xlsx payload")
	}
}

func TestResolveColumnsFirstSynonymWins(t *testing.T) {
	// Both "party name" and "name" present; the earlier synonym wins.
	columns, _ := ResolveColumns([]string{"Name", "Party Name"})
	if columns[FieldPartyName] != 1 {
		t.Fatalf("expected index 1 for 'Party Name', got %d", columns[FieldPartyName])
	}
}
