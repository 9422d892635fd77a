package amqp

import (
	"context"
	"errors"
	"testing"
)

func TestMutationEventJSONRoundTrip(t *testing.T) {
	ev := NewCategorizedEvent("tx-1", "food", RemoteFailed, errors.New("connection refused"))

	data, err := ev.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	decoded, err := MutationEventFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}

	if decoded.Kind != EventCategorized ||
		decoded.TransactionID != "tx-1" ||
		decoded.CatCode != "food" ||
		decoded.Remote != RemoteFailed ||
		decoded.RemoteError != "connection refused" {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
}

func TestNewSplitEvent(t *testing.T) {
	ev := NewSplitEvent("tx-2", 3, RemoteOK, nil)

	if ev.Kind != EventSplit || ev.SplitCount != 3 || ev.RemoteError != "" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestPublishMutationNilClient(t *testing.T) {
	var c *Client
	if err := c.PublishMutation(context.Background(), NewSplitEvent("tx", 1, RemotePending, nil)); err != nil {
		t.Errorf("nil client publish should be a no-op, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("nil client close should be a no-op, got %v", err)
	}
}
