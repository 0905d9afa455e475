// Package export renders payment entries and party reports into downloadable
// files: CSV for the full entry list, PDF for a single party's report.
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"partypay/internal/core"
)

var csvHeaders = []string{
	"Party Name",
	"Phone Number",
	"Address",
	"PAN",
	"Due Amount",
	"Payment",
	"Status",
	"Date",
	"Next Payment Date",
	"Comments",
	"Entry Location",
}

// EntriesCSV renders entries into CSV. Phone numbers are wrapped in the
// ="..." formula guard so spreadsheet applications keep leading zeros.
func EntriesCSV(entries []core.Entry) []byte {
	var b strings.Builder
	b.WriteString(strings.Join(csvHeaders, ","))

	for _, e := range entries {
		row := []string{
			e.PartyName,
			`="` + e.PhoneNumber + `"`,
			e.Address,
			e.PANNumber,
			e.DueAmount,
			e.Payment,
			e.PaymentStatus(),
			e.Date,
			e.NextPaymentDate,
			e.Comments,
			e.EntryLocation,
		}
		b.WriteByte('\n')
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeCell(cell))
		}
	}
	return []byte(b.String())
}

// escapeCell quotes a cell when it holds a comma, quote or newline, doubling
// embedded quotes.
func escapeCell(cell string) string {
	if strings.ContainsAny(cell, ",\"\n") {
		return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
	}
	return cell
}

// CSVFilename builds the download name for an entries export.
func CSVFilename(base string) string {
	if base == "" {
		base = "payment-entries"
	}
	return fmt.Sprintf("%s-%s.csv", base, strconv.FormatInt(time.Now().UnixMilli(), 10))
}
