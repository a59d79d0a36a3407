package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CloudEvent is the envelope for every message on the bus (CloudEvents 1.0, JSON mode).
type CloudEvent struct {
	SpecVersion     string          `json:"specversion"`
	ID              string          `json:"id"`
	Source          string          `json:"source"`
	Type            string          `json:"type"`
	Subject         string          `json:"subject,omitempty"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype"`
	Data            json.RawMessage `json:"data"`
}

// NewCloudEvent wraps data in an envelope with a fresh ID.
func NewCloudEvent(source, eventType string, data any) (CloudEvent, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return CloudEvent{}, fmt.Errorf("marshal event data: %w", err)
	}
	return CloudEvent{
		SpecVersion:     "1.0",
		ID:              uuid.NewString(),
		Source:          source,
		Type:            eventType,
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            raw,
	}, nil
}

// ParseCloudEvent decodes an envelope from a message value.
func ParseCloudEvent(b []byte) (CloudEvent, error) {
	var ce CloudEvent
	if err := json.Unmarshal(b, &ce); err != nil {
		return CloudEvent{}, fmt.Errorf("parse cloud event: %w", err)
	}
	if ce.Type == "" {
		return CloudEvent{}, fmt.Errorf("parse cloud event: missing type")
	}
	return ce, nil
}

// ParseData decodes the payload into v.
func (ce CloudEvent) ParseData(v any) error {
	if err := json.Unmarshal(ce.Data, v); err != nil {
		return fmt.Errorf("parse %s data: %w", ce.Type, err)
	}
	return nil
}

// MarshalValue encodes the envelope as a message value.
func (ce CloudEvent) MarshalValue() ([]byte, error) {
	b, err := json.Marshal(ce)
	if err != nil {
		return nil, fmt.Errorf("marshal cloud event: %w", err)
	}
	return b, nil
}
