package services

import (
	"partypay/internal/core"
	"partypay/internal/ledger"
)

// entryToRecord converts a validated entry into the wire shape, turning the
// display amounts into integer minor units on the way out.
func entryToRecord(e core.Entry) ledger.EntryRecord {
	return ledger.EntryRecord{
		PartyName:       e.PartyName,
		Address:         e.Address,
		PhoneNumber:     e.PhoneNumber,
		PANNumber:       e.PANNumber,
		DueAmountMinor:  core.MinorUnitsOrZero(e.DueAmount),
		Date:            e.Date,
		PaymentMinor:    core.MinorUnitsOrZero(e.Payment),
		NextPaymentDate: e.NextPaymentDate,
		Comments:        e.Comments,
		EntryLocation:   e.EntryLocation,
		CreatedAt:       e.CreatedAt,
	}
}

// recordToEntry converts a stored record back to the domain shape, rendering
// minor units as 2-decimal strings on the way in. Records that come back
// without an id get a deterministic one derived from the (party, date,
// payment) triple.
func recordToEntry(s ledger.StoredEntry) core.Entry {
	id := s.ID
	if id == "" {
		id = core.DerivedEntryID(s.PartyName, s.Date, s.PaymentMinor)
	}
	return core.Entry{
		ID:              id,
		PartyName:       s.PartyName,
		Address:         s.Address,
		PhoneNumber:     s.PhoneNumber,
		PANNumber:       s.PANNumber,
		DueAmount:       core.FromMinorUnits(s.DueAmountMinor),
		Date:            s.Date,
		Payment:         core.FromMinorUnits(s.PaymentMinor),
		NextPaymentDate: s.NextPaymentDate,
		Comments:        s.Comments,
		EntryLocation:   s.EntryLocation,
		CreatedAt:       s.CreatedAt,
	}
}

func masterToNamed(m core.PartyMaster) ledger.NamedMaster {
	return ledger.NamedMaster{
		PartyName:   m.PartyName,
		PhoneNumber: m.PhoneNumber,
		Address:     m.Address,
		PANNumber:   m.PANNumber,
		DueAmount:   m.DueAmount,
	}
}

func namedToMaster(n ledger.NamedMaster) core.PartyMaster {
	return core.PartyMaster{
		PartyName:   n.PartyName,
		PhoneNumber: n.PhoneNumber,
		Address:     n.Address,
		PANNumber:   n.PANNumber,
		DueAmount:   n.DueAmount,
	}
}

func mastersToNamed(masters []core.PartyMaster) []ledger.NamedMaster {
	out := make([]ledger.NamedMaster, len(masters))
	for i, m := range masters {
		out[i] = masterToNamed(m)
	}
	return out
}
