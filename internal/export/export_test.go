package export

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"partypay/internal/core"
)

func sampleEntries() []core.Entry {
	return []core.Entry{
		{
			PartyName:       "Acme Corp",
			PhoneNumber:     "0555-1234",
			Address:         "1 Main St, Suite 2",
			PANNumber:       "ABCDE1234F",
			DueAmount:       "150.00",
			Payment:         "50.00",
			Date:            "2024-01-15",
			NextPaymentDate: "2024-02-15",
			Comments:        `He said "later"`,
			EntryLocation:   "Office",
		},
		{
			PartyName: "Globex",
			Payment:   "20.00",
			Date:      "2024-01-16",
		},
	}
}

func TestEntriesCSVLayout(t *testing.T) {
	data := EntriesCSV(sampleEntries())
	lines := strings.Split(string(data), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Party Name,Phone Number,Address,PAN,Due Amount,Payment,Status,Date,Next Payment Date,Comments,Entry Location" {
		t.Fatalf("header mismatch: %q", lines[0])
	}

	// The status column reflects payment against due amount.
	if !strings.Contains(lines[1], ",Pending,") {
		t.Fatalf("partial payment should export as Pending: %q", lines[1])
	}
	if !strings.Contains(lines[2], ",Paid,") {
		t.Fatalf("settled entry should export as Paid: %q", lines[2])
	}

	// Phone numbers get the formula guard; commas and quotes get escaped.
	if !strings.Contains(lines[1], `="0555-1234"`) {
		t.Fatalf("phone guard missing: %q", lines[1])
	}
	if !strings.Contains(lines[1], `"1 Main St, Suite 2"`) {
		t.Fatalf("comma cell not quoted: %q", lines[1])
	}
	if !strings.Contains(lines[1], `"He said ""later"""`) {
		t.Fatalf("quote cell not doubled: %q", lines[1])
	}
}

func TestEntriesCSVEmpty(t *testing.T) {
	data := EntriesCSV(nil)
	if string(data) != "Party Name,Phone Number,Address,PAN,Due Amount,Payment,Status,Date,Next Payment Date,Comments,Entry Location" {
		t.Fatalf("empty export should be header only: %q", data)
	}
}

func TestEscapeCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"has,comma", `"has,comma"`},
		{`has"quote`, `"has""quote"`},
		{"has\nnewline", "\"has\nnewline\""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := escapeCell(tt.in); got != tt.want {
			t.Errorf("escapeCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCSVFilename(t *testing.T) {
	re := regexp.MustCompile(`^payment-entries-\d+\.csv$`)
	if got := CSVFilename(""); !re.MatchString(got) {
		t.Fatalf("default filename %q", got)
	}
	re = regexp.MustCompile(`^acme-export-\d+\.csv$`)
	if got := CSVFilename("acme-export"); !re.MatchString(got) {
		t.Fatalf("custom filename %q", got)
	}
}

func TestPartyReportPDF(t *testing.T) {
	report := core.BuildPartyReport(sampleEntries(), "Acme Corp")
	data, err := PartyReportPDF(report)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF: %q", data[:10])
	}
}

func TestPartyReportPDFManyEntries(t *testing.T) {
	var entries []core.Entry
	for i := 0; i < 120; i++ {
		entries = append(entries, core.Entry{
			PartyName: "Acme Corp",
			Date:      "2024-01-15",
			Payment:   "10.00",
			Comments:  strings.Repeat("a long comment that wraps onto more than one line ", 3),
		})
	}
	report := core.BuildPartyReport(entries, "Acme Corp")
	data, err := PartyReportPDF(report)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("empty pdf output")
	}
}

func TestReportFormatting(t *testing.T) {
	if got := reportDate("2024-01-15"); got != "Jan 15, 2024" {
		t.Fatalf("reportDate = %q", got)
	}
	if got := reportDate(""); got != "-" {
		t.Fatalf("blank date = %q", got)
	}
	if got := reportDate("not-a-date"); got != "not-a-date" {
		t.Fatalf("unparseable date = %q", got)
	}
	if got := reportCurrency("50.5"); got != "Rs 50.50" {
		t.Fatalf("reportCurrency = %q", got)
	}
	if got := reportCurrency("junk"); got != "Rs 0.00" {
		t.Fatalf("invalid amount = %q", got)
	}
}

func TestPDFFilename(t *testing.T) {
	re := regexp.MustCompile(`^payment-report-acme-corp-\d+\.pdf$`)
	if got := PDFFilename("Acme Corp"); !re.MatchString(got) {
		t.Fatalf("filename %q", got)
	}
}
