package amqp

import (
	"testing"

	"partypay/internal/ledger"
)

func TestMasterSyncMessageRoundTrip(t *testing.T) {
	msg := NewMasterSyncMessage([]ledger.NamedMaster{
		{PartyName: "Acme Corp", PhoneNumber: "0555-1234", DueAmount: "150.00"},
		{PartyName: "Globex"},
	})
	if msg.BatchID == "" {
		t.Fatal("batch id must be assigned")
	}
	if msg.Timestamp.IsZero() {
		t.Fatal("timestamp must be assigned")
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatal(err)
	}

	decoded, err := MasterSyncMessageFromJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.BatchID != msg.BatchID {
		t.Fatalf("batch id changed: %q vs %q", decoded.BatchID, msg.BatchID)
	}
	if len(decoded.Masters) != 2 || decoded.Masters[0].DueAmount != "150.00" {
		t.Fatalf("masters changed: %+v", decoded.Masters)
	}
}

func TestMasterSyncMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := MasterSyncMessageFromJSON([]byte("{nope")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestEmptyCollectionIsValid(t *testing.T) {
	// An empty import legitimately clears the ledger's master copy.
	msg := NewMasterSyncMessage(nil)
	data, err := msg.ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := MasterSyncMessageFromJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(decoded.Masters) != 0 {
		t.Fatalf("expected no masters, got %+v", decoded.Masters)
	}
}
