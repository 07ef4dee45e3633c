package ledger

import (
	"strings"
	"testing"
)

func TestNewRecordComputesDigest(t *testing.T) {
	r, err := NewRecord(1, 1700000000000000000, map[string]string{"id": "A"}, GenesisPrevDigest)
	if err != nil {
		t.Fatalf("NewRecord failed: %v", err)
	}
	if len(r.Digest) != 64 {
		t.Errorf("Expected 64-char hex digest, got %d chars", len(r.Digest))
	}
	if r.Digest != strings.ToLower(r.Digest) {
		t.Errorf("Expected lowercase digest, got %s", r.Digest)
	}
	recomputed, err := r.ComputeDigest()
	if err != nil {
		t.Fatalf("ComputeDigest failed: %v", err)
	}
	if recomputed != r.Digest {
		t.Errorf("Stored digest %s does not match recomputed %s", r.Digest, recomputed)
	}
}

func TestDigestDeterminism(t *testing.T) {
	payload := map[string]interface{}{
		"device_id": "1A2B-3C4D-5E6F",
		"method":    "DoD 5220.22-M",
		"status":    "Wipe Successful",
	}
	a, err := NewRecord(3, 42, payload, GenesisPrevDigest)
	if err != nil {
		t.Fatalf("NewRecord failed: %v", err)
	}
	b, err := NewRecord(3, 42, map[string]interface{}{
		// same payload, different insertion order
		"status":    "Wipe Successful",
		"method":    "DoD 5220.22-M",
		"device_id": "1A2B-3C4D-5E6F",
	}, GenesisPrevDigest)
	if err != nil {
		t.Fatalf("NewRecord failed: %v", err)
	}
	if a.Digest != b.Digest {
		t.Errorf("Semantically equal records digest differently: %s vs %s", a.Digest, b.Digest)
	}
}

func TestDigestChangesWithEveryField(t *testing.T) {
	base := func() *Record {
		r, err := NewRecord(5, 99, map[string]string{"id": "A"}, GenesisPrevDigest)
		if err != nil {
			t.Fatalf("NewRecord failed: %v", err)
		}
		return r
	}

	mutations := map[string]func(*Record){
		"position":    func(r *Record) { r.Position = 6 },
		"timestamp":   func(r *Record) { r.Timestamp = 100 },
		"payload":     func(r *Record) { r.Payload = map[string]string{"id": "B"} },
		"prev_digest": func(r *Record) { r.PrevDigest = strings.Repeat("ab", 32) },
	}
	for field, mutate := range mutations {
		r := base()
		before := r.Digest
		mutate(r)
		after, err := r.ComputeDigest()
		if err != nil {
			t.Fatalf("ComputeDigest after mutating %s failed: %v", field, err)
		}
		if after == before {
			t.Errorf("Mutating %s did not change the digest", field)
		}
	}
}

func TestComputeDigestDoesNotMutate(t *testing.T) {
	r, err := NewRecord(2, 7, "payload", GenesisPrevDigest)
	if err != nil {
		t.Fatalf("NewRecord failed: %v", err)
	}
	r.Payload = "tampered"
	stale := r.Digest
	if _, err := r.ComputeDigest(); err != nil {
		t.Fatalf("ComputeDigest failed: %v", err)
	}
	if r.Digest != stale {
		t.Errorf("ComputeDigest mutated the stored digest")
	}
}

func TestNewRecordRejectsUnserializablePayload(t *testing.T) {
	_, err := NewRecord(1, 1, make(chan int), GenesisPrevDigest)
	if err == nil {
		t.Fatal("Expected a serialization error for a channel payload")
	}
	if !IsSerializationError(err) {
		t.Errorf("Expected serialization error, got %v", err)
	}
}
