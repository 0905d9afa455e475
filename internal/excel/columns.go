package excel

import "strings"

// Logical party-master fields resolved from spreadsheet headers.
const (
	FieldPartyName   = "partyName"
	FieldPhoneNumber = "phoneNumber"
	FieldAddress     = "address"
	FieldPANNumber   = "panNumber"
	FieldDueAmount   = "dueAmount"
)

// columnSynonyms maps each logical field to the header names accepted for it,
// in priority order. Matching is case-insensitive and the first synonym found
// wins. Kept as data so the accepted vocabulary can grow without touching the
// resolution logic.
var columnSynonyms = []struct {
	field    string
	synonyms []string
}{
	{FieldPartyName, []string{"party name", "partyname", "name", "party"}},
	{FieldPhoneNumber, []string{"phone number", "phonenumber", "phone", "mobile", "contact"}},
	{FieldAddress, []string{"address", "location", "addr"}},
	{FieldPANNumber, []string{"pan number", "pannumber", "pan"}},
	{FieldDueAmount, []string{"due amount", "dueamount", "due", "amount"}},
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// ResolveColumns maps logical fields to column indexes in the given header
// row. Fields with no matching header are reported as warnings; only the
// party name column is required, and its absence is the caller's problem.
func ResolveColumns(headers []string) (map[string]int, []string) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	columns := make(map[string]int)
	var warnings []string
	for _, mapping := range columnSynonyms {
		idx := -1
		for _, syn := range mapping.synonyms {
			for i, h := range normalized {
				if h == normalizeHeader(syn) {
					idx = i
					break
				}
			}
			if idx != -1 {
				break
			}
		}
		if idx != -1 {
			columns[mapping.field] = idx
		} else {
			warnings = append(warnings, "Column for \""+mapping.field+"\" not found. Expected one of: "+strings.Join(mapping.synonyms, ", "))
		}
	}
	return columns, warnings
}
