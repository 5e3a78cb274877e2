package stream

import (
	"encoding/json"
	"testing"
)

func TestHubBroadcastReachesAllClients(t *testing.T) {
	h := NewHub()
	c1 := h.Register()
	c2 := h.Register()

	h.Broadcast([]byte("hello"))

	for i, c := range []*Client{c1, c2} {
		select {
		case got := <-c.Send:
			if string(got) != "hello" {
				t.Errorf("client %d got %q", i, got)
			}
		default:
			t.Errorf("client %d received nothing", i)
		}
	}
}

func TestHubUnregisterStopsDelivery(t *testing.T) {
	h := NewHub()
	c := h.Register()
	h.Unregister(c)

	// Channel is closed after unregister.
	if _, ok := <-c.Send; ok {
		t.Error("expected closed send channel")
	}

	// Broadcasting afterwards must not panic on the removed client.
	h.Broadcast([]byte("late"))
}

func TestHubUnregisterTwiceIsSafe(t *testing.T) {
	h := NewHub()
	c := h.Register()
	h.Unregister(c)
	h.Unregister(c)
}

func TestHubSlowClientSkipped(t *testing.T) {
	h := NewHub()
	slow := h.Register()
	fast := h.Register()

	// Fill the slow client's buffer.
	for i := 0; i < cap(slow.Send); i++ {
		h.Broadcast([]byte("fill"))
		<-fast.Send
	}

	// The next broadcast drops for the slow client but still reaches the
	// fast one.
	h.Broadcast([]byte("extra"))
	select {
	case got := <-fast.Send:
		if string(got) != "extra" {
			t.Errorf("fast client got %q", got)
		}
	default:
		t.Error("fast client starved by a slow sibling")
	}
}

func TestPublishEnvelope(t *testing.T) {
	h := NewHub()
	c := h.Register()

	h.Publish("trip.started", map[string]string{"id": "abc"})

	var msg Message
	select {
	case payload := <-c.Send:
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("invalid envelope: %v", err)
		}
	default:
		t.Fatal("no message delivered")
	}
	if msg.Kind != "trip.started" {
		t.Errorf("expected kind trip.started, got %q", msg.Kind)
	}
	data, ok := msg.Data.(map[string]any)
	if !ok || data["id"] != "abc" {
		t.Errorf("unexpected data payload: %v", msg.Data)
	}
}

func TestFeedbackSinks(t *testing.T) {
	h := NewHub()
	c := h.Register()

	h.ViolationFeedback("speeding")
	h.GuidanceFeedback("execute")

	kinds := []string{}
	for i := 0; i < 2; i++ {
		select {
		case payload := <-c.Send:
			var msg Message
			if err := json.Unmarshal(payload, &msg); err != nil {
				t.Fatalf("invalid envelope: %v", err)
			}
			kinds = append(kinds, msg.Kind)
		default:
			t.Fatal("missing feedback message")
		}
	}
	if kinds[0] != "feedback.violation" || kinds[1] != "feedback.guidance" {
		t.Errorf("unexpected kinds: %v", kinds)
	}
}
