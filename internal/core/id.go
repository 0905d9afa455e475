package core

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// NewEntryID generates a client-side entry id: creation timestamp in unix
// milliseconds plus a short random suffix. The ledger service does not mint
// ids, so the client is the id authority at creation time.
func NewEntryID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + suffix
}

// DerivedEntryID builds a deterministic fallback id for ledger entries that
// come back without one, from the party name, entry date and payment in minor
// units. Two entries with an identical (party, date, payment) triple collapse
// to the same id; that collision is an accepted limitation of the scheme, not
// something this layer tries to repair.
func DerivedEntryID(partyName, date string, paymentMinor int64) string {
	joined := partyName + "-" + date + "-" + strconv.FormatInt(paymentMinor, 10)
	return whitespaceRun.ReplaceAllString(joined, "-")
}
