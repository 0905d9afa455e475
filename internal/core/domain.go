package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

type (
	// PartyMaster is the cached reference record for a counterparty,
	// sourced from a bulk import. Amounts are 2-decimal strings.
	PartyMaster struct {
		PartyName   string `json:"partyName"`
		PhoneNumber string `json:"phoneNumber"`
		Address     string `json:"address"`
		PANNumber   string `json:"panNumber"`
		DueAmount   string `json:"dueAmount"`
	}

	// Entry is one recorded payment transaction tied to a party.
	// Monetary fields are 2-decimal display strings; dates are YYYY-MM-DD.
	Entry struct {
		ID              string `json:"id"`
		PartyName       string `json:"partyName"`
		Address         string `json:"address"`
		PhoneNumber     string `json:"phoneNumber"`
		PANNumber       string `json:"panNumber"`
		DueAmount       string `json:"dueAmount"`
		Date            string `json:"date"`
		Payment         string `json:"payment"`
		NextPaymentDate string `json:"nextPaymentDate"`
		Comments        string `json:"comments"`
		EntryLocation   string `json:"entryLocation"`
		CreatedAt       string `json:"createdAt"`
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrValidation    = errors.New("validation failed")
)

const dateLayout = "2006-01-02"

// NormalizeKey folds a party name into its directory key: surrounding
// whitespace stripped, lower-cased. Two names that differ only in case or
// padding resolve to the same key.
func NormalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// FieldErrors validates the entry for submission and reports one message per
// offending field, keyed by the JSON field name. An empty map means the entry
// is acceptable.
func (e Entry) FieldErrors() map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(e.PartyName) == "" {
		errs["partyName"] = "party name is required"
	}
	if strings.TrimSpace(e.Address) == "" {
		errs["address"] = "address is required"
	}
	if strings.TrimSpace(e.PhoneNumber) == "" {
		errs["phoneNumber"] = "phone number is required"
	}
	if strings.TrimSpace(e.PANNumber) == "" {
		errs["panNumber"] = "PAN number is required"
	}

	if strings.TrimSpace(e.DueAmount) == "" {
		errs["dueAmount"] = "due amount is required"
	} else if _, err := ToMinorUnits(e.DueAmount); err != nil {
		errs["dueAmount"] = "due amount must be a valid number"
	}

	if e.Date == "" {
		errs["date"] = "date is required"
	} else if _, err := ParseDate(e.Date); err != nil {
		errs["date"] = "date must be YYYY-MM-DD"
	}

	paymentMinor := int64(-1)
	if strings.TrimSpace(e.Payment) == "" {
		errs["payment"] = "payment amount is required"
	} else if m, err := ToMinorUnits(e.Payment); err != nil {
		errs["payment"] = "payment must be a valid number"
	} else {
		paymentMinor = m
	}

	// A zero payment is a promise to pay later; it needs a follow-up date.
	// Enforced at entry time only, never retroactively.
	if paymentMinor == 0 && e.NextPaymentDate == "" {
		errs["nextPaymentDate"] = "next payment date is required when payment is 0"
	}
	if e.NextPaymentDate != "" {
		if _, err := ParseDate(e.NextPaymentDate); err != nil {
			errs["nextPaymentDate"] = "next payment date must be YYYY-MM-DD"
		}
	}

	return errs
}

// Validate returns ErrValidation naming the offending fields, or nil.
func (e Entry) Validate() error {
	errs := e.FieldErrors()
	if len(errs) == 0 {
		return nil
	}
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(fields, ", "))
}

// PaymentStatus reports "Paid" when the recorded payment covers the
// outstanding due amount, "Pending" otherwise. Unparseable amounts count
// as zero.
func (e Entry) PaymentStatus() string {
	payment, _ := ToMinorUnits(e.Payment)
	due, _ := ToMinorUnits(e.DueAmount)
	if payment >= due {
		return "Paid"
	}
	return "Pending"
}
