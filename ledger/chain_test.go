package ledger

import (
	stderrors "errors"
	"testing"

	"wipeforge/errors"
)

func appendOrFatal(t *testing.T, c *Chain, payload interface{}) *Record {
	t.Helper()
	r, err := c.Append(payload)
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	return r
}

func TestNewChainGenesis(t *testing.T) {
	c := NewChain()
	if c.Len() != 1 {
		t.Fatalf("Expected chain of length 1, got %d", c.Len())
	}
	genesis, err := c.Latest()
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if genesis.Position != 0 {
		t.Errorf("Expected genesis at position 0, got %d", genesis.Position)
	}
	if genesis.PrevDigest != GenesisPrevDigest {
		t.Errorf("Expected sentinel prev digest, got %s", genesis.PrevDigest)
	}
	if genesis.Payload != GenesisPayload {
		t.Errorf("Expected genesis payload %q, got %v", GenesisPayload, genesis.Payload)
	}
}

func TestRootOnlyChainIsValid(t *testing.T) {
	report, err := NewChain().Validate()
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !report.Valid() {
		t.Errorf("Fresh chain reported invalid: %+v", report.Failures)
	}
	if report.Checked != 1 {
		t.Errorf("Expected 1 checked record, got %d", report.Checked)
	}
}

func TestAppendPreservesValidity(t *testing.T) {
	c := NewChain()
	for i := 0; i < 10; i++ {
		r := appendOrFatal(t, c, map[string]int{"seq": i})
		if r.Position != uint64(i+1) {
			t.Errorf("Expected position %d, got %d", i+1, r.Position)
		}
		report, err := c.Validate()
		if err != nil {
			t.Fatalf("Validate failed after append %d: %v", i, err)
		}
		if !report.Valid() {
			t.Fatalf("Chain invalid after append %d: %+v", i, report.Failures)
		}
	}
}

func TestAppendLinksToLatest(t *testing.T) {
	c := NewChain()
	genesis, _ := c.Latest()
	first := appendOrFatal(t, c, map[string]string{"id": "A"})
	if first.PrevDigest != genesis.Digest {
		t.Errorf("First append not linked to genesis digest")
	}
	second := appendOrFatal(t, c, map[string]string{"id": "B"})
	if second.PrevDigest != first.Digest {
		t.Errorf("Second append not linked to first record digest")
	}
}

func TestLinkIntegrity(t *testing.T) {
	c := NewChain()
	for i := 0; i < 5; i++ {
		appendOrFatal(t, c, map[string]int{"seq": i})
	}
	records := c.Records()
	for i := 1; i < len(records); i++ {
		if records[i].PrevDigest != records[i-1].Digest {
			t.Errorf("Link broken at index %d", i)
		}
	}
}

func TestTamperedPayloadFailsDigestCheck(t *testing.T) {
	c := NewChain()
	appendOrFatal(t, c, map[string]string{"id": "A"})
	appendOrFatal(t, c, map[string]string{"id": "B"})

	// Mutate payload, leave the stored digest stale.
	records := c.Records()
	records[1].Payload = map[string]string{"id": "TAMPERED"}

	report, err := c.Validate()
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if report.Valid() {
		t.Fatal("Tampered chain reported valid")
	}
	failures := report.FailuresAt(1)
	if len(failures) != 1 || failures[0].Kind != FailureDigestMismatch {
		t.Errorf("Expected a single digest_mismatch at position 1, got %+v", report.Failures)
	}
	if len(report.FailuresAt(2)) != 0 {
		t.Errorf("Position 2 should still link to the stale digest, got %+v", report.FailuresAt(2))
	}
}

func TestTamperedPayloadWithRecomputedDigestBreaksLink(t *testing.T) {
	c := NewChain()
	appendOrFatal(t, c, map[string]string{"id": "A"})
	appendOrFatal(t, c, map[string]string{"id": "B"})

	// Mutate payload and cover the tracks by recomputing the digest. The
	// successor's prev-digest now exposes the edit instead.
	records := c.Records()
	records[1].Payload = map[string]string{"id": "TAMPERED"}
	digest, err := records[1].ComputeDigest()
	if err != nil {
		t.Fatalf("ComputeDigest failed: %v", err)
	}
	records[1].Digest = digest

	report, err := c.Validate()
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if report.Valid() {
		t.Fatal("Tampered chain reported valid")
	}
	if len(report.FailuresAt(1)) != 0 {
		t.Errorf("Position 1 is locally consistent after re-digest, got %+v", report.FailuresAt(1))
	}
	failures := report.FailuresAt(2)
	if len(failures) != 1 || failures[0].Kind != FailureBrokenLink {
		t.Errorf("Expected a single broken_link at position 2, got %+v", report.Failures)
	}
}

func TestTamperOnTailWithRecomputedDigestIsUndetected(t *testing.T) {
	// With no successor to hold the old digest, a re-digested edit of the
	// tail is locally indistinguishable from a legitimate append. Appending
	// more records after sensitive data is what buys tamper-evidence.
	c := NewChain()
	appendOrFatal(t, c, map[string]string{"id": "A"})

	records := c.Records()
	records[1].Payload = map[string]string{"id": "TAMPERED"}
	digest, err := records[1].ComputeDigest()
	if err != nil {
		t.Fatalf("ComputeDigest failed: %v", err)
	}
	records[1].Digest = digest

	report, err := c.Validate()
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !report.Valid() {
		t.Errorf("Tail tamper with re-digest should go undetected, got %+v", report.Failures)
	}
}

func TestUnserializableTamperIsReported(t *testing.T) {
	c := NewChain()
	appendOrFatal(t, c, map[string]string{"id": "A"})

	c.Records()[1].Payload = make(chan int)

	report, err := c.Validate()
	if err != nil {
		t.Fatalf("Validate must not fail for a tampered chain: %v", err)
	}
	failures := report.FailuresAt(1)
	if len(failures) != 1 || failures[0].Kind != FailurePayloadUnserializable {
		t.Errorf("Expected payload_unserializable at position 1, got %+v", report.Failures)
	}
}

func TestValidateDoesNotMutate(t *testing.T) {
	c := NewChain()
	appendOrFatal(t, c, map[string]string{"id": "A"})
	records := c.Records()
	records[1].Payload = map[string]string{"id": "TAMPERED"}
	stale := records[1].Digest

	if _, err := c.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if records[1].Digest != stale {
		t.Errorf("Validate silently repaired a tampered record")
	}
	if report, _ := c.Validate(); report.Valid() {
		t.Errorf("Second validation pass no longer detects the tamper")
	}
}

func TestAppendRejectsUnserializablePayload(t *testing.T) {
	c := NewChain()
	_, err := c.Append(make(chan int))
	if err == nil {
		t.Fatal("Expected serialization error")
	}
	if !stderrors.Is(err, errors.ErrSerialization) {
		t.Errorf("Expected ErrSerialization, got %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("Failed append must not grow the chain, length %d", c.Len())
	}
}

func TestFromRecords(t *testing.T) {
	c := NewChain()
	appendOrFatal(t, c, map[string]string{"id": "A"})
	appendOrFatal(t, c, map[string]string{"id": "B"})

	rebuilt, err := FromRecords(c.Records())
	if err != nil {
		t.Fatalf("FromRecords failed: %v", err)
	}
	report, err := rebuilt.Validate()
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !report.Valid() {
		t.Errorf("Rebuilt chain reported invalid: %+v", report.Failures)
	}

	if _, err := FromRecords(nil); !stderrors.Is(err, errors.ErrEmptyChain) {
		t.Errorf("Expected ErrEmptyChain for empty sequence, got %v", err)
	}
}

func TestGetByPosition(t *testing.T) {
	c := NewChain()
	r := appendOrFatal(t, c, map[string]string{"id": "A"})
	got, err := c.GetByPosition(1)
	if err != nil {
		t.Fatalf("GetByPosition failed: %v", err)
	}
	if got.Digest != r.Digest {
		t.Errorf("GetByPosition returned a different record")
	}
	if _, err := c.GetByPosition(99); !stderrors.Is(err, errors.ErrRecordNotFound) {
		t.Errorf("Expected ErrRecordNotFound, got %v", err)
	}
}

// Mirrors the end-to-end scenario: genesis, two appends, a valid pass, then
// a stale-digest payload edit detected at position 1.
func TestWipeLogScenario(t *testing.T) {
	c := NewChain()

	first := appendOrFatal(t, c, map[string]string{"id": "A"})
	if first.Position != 1 {
		t.Fatalf("Expected position 1, got %d", first.Position)
	}
	genesis, _ := c.GetByPosition(0)
	if first.PrevDigest != genesis.Digest {
		t.Fatal("First record not linked to genesis")
	}

	second := appendOrFatal(t, c, map[string]string{"id": "B"})
	if second.Position != 2 || second.PrevDigest != first.Digest {
		t.Fatal("Second record not linked to first")
	}

	report, err := c.Validate()
	if err != nil || !report.Valid() {
		t.Fatalf("Expected valid chain, report %+v err %v", report, err)
	}

	c.Records()[1].Payload = map[string]string{"id": "TAMPERED"}
	report, err = c.Validate()
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if report.Valid() {
		t.Fatal("Tamper not detected")
	}
	failures := report.FailuresAt(1)
	if len(failures) != 1 || failures[0].Kind != FailureDigestMismatch {
		t.Errorf("Expected digest_mismatch at position 1, got %+v", report.Failures)
	}
}
