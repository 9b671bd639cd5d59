package amqp

import (
	"encoding/json"
	"time"
)

// ReminderDueMessage tells a notifier that the given date still has no
// ledger record and the driver should be nudged to fill it in.
type ReminderDueMessage struct {
	Date      string    `json:"date"`
	CheckedAt time.Time `json:"checkedAt"`
}

func NewReminderDueMessage(date string, checkedAt time.Time) *ReminderDueMessage {
	return &ReminderDueMessage{Date: date, CheckedAt: checkedAt}
}

func (m *ReminderDueMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReminderDueMessageFromJSON(data []byte) (*ReminderDueMessage, error) {
	var msg ReminderDueMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
