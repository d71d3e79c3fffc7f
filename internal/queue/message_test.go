package queue

import (
	"testing"
	"time"
)

func TestMessageRoundTrip(t *testing.T) {
	msg := Message{
		SubmissionID: "submission-123",
		RequestID:    "request-456",
		EnqueuedAt:   time.Date(2026, 1, 30, 22, 0, 0, 0, time.UTC),
		Version:      MessageVersion,
	}

	payload, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}

	got, err := DecodeMessage(payload)
	if err != nil {
		t.Fatalf("decode message: %v", err)
	}

	if got.SubmissionID != msg.SubmissionID || got.RequestID != msg.RequestID || got.Version != msg.Version {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, msg)
	}
	if !got.EnqueuedAt.Equal(msg.EnqueuedAt) {
		t.Fatalf("enqueuedAt mismatch: got %v want %v", got.EnqueuedAt, msg.EnqueuedAt)
	}
}

func TestDecodeMessageRejectsGarbage(t *testing.T) {
	if _, err := DecodeMessage([]byte("not json")); err == nil {
		t.Fatal("expected decode error")
	}
}
