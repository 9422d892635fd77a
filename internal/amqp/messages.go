package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds published on the mutation stream.
const (
	EventCategorized = "transaction.categorized"
	EventSplit       = "transaction.split"
)

// Remote outcomes carried by mutation events.
const (
	RemotePending = "pending"
	RemoteOK      = "ok"
	RemoteFailed  = "failed"
)

// MutationEvent describes one local mutation and the outcome of its
// fire-and-forget remote write. Local state is always "committed" by the
// time an event is published; the remote field is what lets a consumer spot
// divergence between the local cache and the remote system.
type MutationEvent struct {
	Kind          string    `json:"kind"`
	TransactionID string    `json:"transaction_id"`
	CatCode       string    `json:"catcode,omitempty"`
	SplitCount    int       `json:"split_count,omitempty"`
	Remote        string    `json:"remote"`
	RemoteError   string    `json:"remote_error,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewCategorizedEvent creates a categorize event with the given remote outcome.
func NewCategorizedEvent(transactionID, catcode, remote string, remoteErr error) *MutationEvent {
	ev := &MutationEvent{
		Kind:          EventCategorized,
		TransactionID: transactionID,
		CatCode:       catcode,
		Remote:        remote,
		Timestamp:     time.Now(),
	}
	if remoteErr != nil {
		ev.RemoteError = remoteErr.Error()
	}
	return ev
}

// NewSplitEvent creates a split event with the given remote outcome.
func NewSplitEvent(transactionID string, splitCount int, remote string, remoteErr error) *MutationEvent {
	ev := &MutationEvent{
		Kind:          EventSplit,
		TransactionID: transactionID,
		SplitCount:    splitCount,
		Remote:        remote,
		Timestamp:     time.Now(),
	}
	if remoteErr != nil {
		ev.RemoteError = remoteErr.Error()
	}
	return ev
}

// ToJSON converts the event to JSON bytes
func (m *MutationEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MutationEventFromJSON creates an event from JSON bytes
func MutationEventFromJSON(data []byte) (*MutationEvent, error) {
	var ev MutationEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
