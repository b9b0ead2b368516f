package amqp

import (
	"encoding/json"
	"time"
)

// Message types carried in the AMQP delivery Type field.
const (
	TypeRecordSync   = "record.sync"
	TypeRecordDelete = "record.delete"
)

// RecordSyncMessage asks the worker to export one gas record. It
// carries only the ID and version; the worker fetches the record from
// the database itself.
type RecordSyncMessage struct {
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordSyncMessage(id, version int64) *RecordSyncMessage {
	return &RecordSyncMessage{ID: id, Version: version, Timestamp: time.Now()}
}

func (m *RecordSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordSyncMessageFromJSON(data []byte) (*RecordSyncMessage, error) {
	var msg RecordSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// RecordDeleteMessage tells the worker a record is gone and the export
// file needs a rewrite.
type RecordDeleteMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordDeleteMessage(id int64) *RecordDeleteMessage {
	return &RecordDeleteMessage{ID: id, Timestamp: time.Now()}
}

func (m *RecordDeleteMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordDeleteMessageFromJSON(data []byte) (*RecordDeleteMessage, error) {
	var msg RecordDeleteMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
