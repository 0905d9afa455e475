// Package excel decodes uploaded spreadsheets into candidate party master
// records. Only the first worksheet is read; the first row must be a header
// row, resolved against an accepted-synonym table per logical field.
package excel

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"partypay/internal/core"
)

var (
	ErrNoWorksheet        = errors.New("no worksheets found in the file")
	ErrNoData             = errors.New("no data found in the worksheet")
	ErrMissingPartyColumn = errors.New("required column \"Party Name\" not found")
	ErrNoValidRows        = errors.New("no valid party records found in the file")
)

// Result carries the parsed records plus non-fatal warnings (unmapped
// optional columns, skipped rows).
type Result struct {
	Masters  []core.PartyMaster
	Warnings []string
}

// Parse decodes an .xlsx/.xls payload into party master records.
//
// Unresolved optional columns and skipped rows degrade to warnings; the parse
// only fails when the file is unreadable, has no party-name column, or yields
// zero valid records.
func Parse(data []byte) (*Result, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoWorksheet
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", sheets[0], err)
	}
	return ParseRows(rows)
}

// ParseRows applies the import semantics to an already-extracted grid: header
// row first, one candidate record per following row. Shared by the xlsx path
// and the Google Sheets source.
func ParseRows(rows [][]string) (*Result, error) {
	if len(rows) < 2 {
		return nil, ErrNoData
	}

	columns, warnings := ResolveColumns(rows[0])
	if _, ok := columns[FieldPartyName]; !ok {
		return &Result{Warnings: warnings}, ErrMissingPartyColumn
	}

	var masters []core.PartyMaster
	for i, row := range rows[1:] {
		partyName := strings.TrimSpace(cell(row, columns, FieldPartyName))
		if partyName == "" {
			// Row numbers are 1-based and offset by the header row.
			warnings = append(warnings, fmt.Sprintf("Row %d: Skipped - no party name", i+2))
			continue
		}

		dueAmount := strings.TrimSpace(cell(row, columns, FieldDueAmount))
		if dueAmount == "" {
			dueAmount = "0"
		}

		masters = append(masters, core.PartyMaster{
			PartyName:   partyName,
			PhoneNumber: strings.TrimSpace(cell(row, columns, FieldPhoneNumber)),
			Address:     strings.TrimSpace(cell(row, columns, FieldAddress)),
			PANNumber:   strings.ToUpper(strings.TrimSpace(cell(row, columns, FieldPANNumber))),
			DueAmount:   dueAmount,
		})
	}

	if len(masters) == 0 {
		return &Result{Warnings: warnings}, ErrNoValidRows
	}
	return &Result{Masters: masters, Warnings: warnings}, nil
}

// cell returns the row value for a resolved field, or "" when the field is
// unmapped or the row is shorter than the column index.
func cell(row []string, columns map[string]int, field string) string {
	idx, ok := columns[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
