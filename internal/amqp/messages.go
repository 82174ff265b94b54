package amqp

import (
	"encoding/json"
	"time"

	"tracker/internal/core"
)

// RecordAddedMessage carries a newly appended expense record. Amount is
// decimal text to avoid float drift across the wire.
type RecordAddedMessage struct {
	Date      string    `json:"date"`
	Item      string    `json:"item"`
	Amount    string    `json:"amount"`
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRecordAddedMessage builds the event for a persisted record.
func NewRecordAddedMessage(r core.Record) *RecordAddedMessage {
	return &RecordAddedMessage{
		Date:      r.Date.Format(core.DateLayout),
		Item:      r.Item,
		Amount:    r.Amount.String(),
		Category:  r.Category,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *RecordAddedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordAddedMessageFromJSON creates a message from JSON bytes.
func RecordAddedMessageFromJSON(data []byte) (*RecordAddedMessage, error) {
	var msg RecordAddedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
