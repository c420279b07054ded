package amqp

import (
	"encoding/json"
	"time"
)

// RefreshRequest asks the report worker to re-fetch sources and
// regenerate the report artifacts. The worker pulls everything else
// from its own configuration.
type RefreshRequest struct {
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewRefreshRequest creates a refresh message with the given reason.
func NewRefreshRequest(reason string) *RefreshRequest {
	return &RefreshRequest{
		Reason:      reason,
		RequestedAt: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RefreshRequest) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RefreshRequestFromJSON creates a message from JSON bytes
func RefreshRequestFromJSON(data []byte) (*RefreshRequest, error) {
	var msg RefreshRequest
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
