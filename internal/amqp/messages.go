package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"partypay/internal/ledger"
)

// MasterSyncMessage carries a full party master collection to the sync
// worker. The collection replaces the ledger's copy wholesale, so the message
// is self-contained and safe to redeliver.
type MasterSyncMessage struct {
	BatchID   string               `json:"batchId"`
	Masters   []ledger.NamedMaster `json:"masters"`
	Timestamp time.Time            `json:"timestamp"`
}

func NewMasterSyncMessage(masters []ledger.NamedMaster) *MasterSyncMessage {
	return &MasterSyncMessage{
		BatchID:   uuid.NewString(),
		Masters:   masters,
		Timestamp: time.Now(),
	}
}

func (m *MasterSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MasterSyncMessageFromJSON(data []byte) (*MasterSyncMessage, error) {
	var msg MasterSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
