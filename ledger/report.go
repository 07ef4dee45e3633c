package ledger

import "fmt"

// FailureKind identifies which validation rule a record broke.
type FailureKind string

const (
	// FailureDigestMismatch: the stored digest does not equal a fresh digest
	// computation over the record's current fields (content tampering).
	FailureDigestMismatch FailureKind = "digest_mismatch"

	// FailureBrokenLink: the record's prev-digest does not equal the
	// predecessor's digest (link tampering or reordering).
	FailureBrokenLink FailureKind = "broken_link"

	// FailurePayloadUnserializable: the payload was mutated into a value the
	// canonical serializer rejects, so no digest can be recomputed.
	FailurePayloadUnserializable FailureKind = "payload_unserializable"
)

// Failure describes one failed check at one position.
type Failure struct {
	Position uint64      `json:"position"`
	Kind     FailureKind `json:"kind"`
	Want     string      `json:"want,omitempty"`
	Got      string      `json:"got,omitempty"`
}

func (f Failure) String() string {
	return fmt.Sprintf("record %d: %s (want %s, got %s)", f.Position, f.Kind, f.Want, f.Got)
}

// Report is the outcome of a full validation pass.
type Report struct {
	Checked  int       `json:"checked"`
	Failures []Failure `json:"failures,omitempty"`
}

// Valid reports whether the pass found no failures.
func (r *Report) Valid() bool {
	return len(r.Failures) == 0
}

// FailuresAt returns the failures recorded for a position.
func (r *Report) FailuresAt(position uint64) []Failure {
	var out []Failure
	for _, f := range r.Failures {
		if f.Position == position {
			out = append(out, f)
		}
	}
	return out
}
