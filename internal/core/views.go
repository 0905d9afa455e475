package core

import (
	"sort"
	"strings"
	"time"
)

// timeNow is swapped out by tests that pin the current date.
var timeNow = time.Now

func todayKeyAt(t time.Time) string {
	return t.Format(dateLayout)
}

type (
	SortField     string
	SortDirection string
)

const (
	SortByDate      SortField = "date"
	SortByPartyName SortField = "partyName"

	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// TodayKey returns the current calendar date in the local timezone as
// YYYY-MM-DD, the key against which due-today checks compare.
func TodayKey() string {
	return todayKeyAt(timeNow())
}

// IsDueToday reports whether a next-payment date string equals today's date
// key. An empty date is never due.
func IsDueToday(nextPaymentDate string) bool {
	if nextPaymentDate == "" {
		return false
	}
	return nextPaymentDate == TodayKey()
}

// FilterBySearch keeps entries whose party name contains the query,
// case-insensitively. A blank query keeps everything.
func FilterBySearch(entries []Entry, query string) []Entry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.PartyName), query) {
			out = append(out, e)
		}
	}
	return out
}

// FilterDueToday keeps entries whose next payment falls due today,
// preserving input order.
func FilterDueToday(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if IsDueToday(e.NextPaymentDate) {
			out = append(out, e)
		}
	}
	return out
}

// SortEntries returns a sorted copy. Dates compare by parsed timestamp
// (unparseable dates sort as the zero time), party names by case-folded
// lexical order. Order among equal keys is unspecified.
func SortEntries(entries []Entry, field SortField, dir SortDirection) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)

	less := func(a, b Entry) bool {
		switch field {
		case SortByPartyName:
			return strings.ToLower(a.PartyName) < strings.ToLower(b.PartyName)
		default:
			ta, _ := ParseDate(a.Date)
			tb, _ := ParseDate(b.Date)
			return ta.Before(tb)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if dir == SortDesc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

// PartyReport aggregates the payment history of a single party.
type PartyReport struct {
	PartyName         string  `json:"partyName"`
	Entries           []Entry `json:"entries"`
	Count             int     `json:"count"`
	TotalPaymentMinor int64   `json:"totalPaymentMinor"`
	TotalDueMinor     int64   `json:"totalDueMinor"`
	TotalPayment      string  `json:"totalPayment"`
	TotalDue          string  `json:"totalDue"`
}

// BuildPartyReport filters entries to an exact case-insensitive party-name
// match and sums payments and due amounts.
func BuildPartyReport(entries []Entry, partyName string) PartyReport {
	key := NormalizeKey(partyName)
	rep := PartyReport{PartyName: partyName}
	for _, e := range entries {
		if NormalizeKey(e.PartyName) != key {
			continue
		}
		rep.Entries = append(rep.Entries, e)
		rep.Count++
		rep.TotalPaymentMinor += MinorUnitsOrZero(e.Payment)
		rep.TotalDueMinor += MinorUnitsOrZero(e.DueAmount)
	}
	rep.TotalPayment = FromMinorUnits(rep.TotalPaymentMinor)
	rep.TotalDue = FromMinorUnits(rep.TotalDueMinor)
	return rep
}
