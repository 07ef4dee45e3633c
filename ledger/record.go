package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"wipeforge/errors"
	"wipeforge/jsonx"
)

const (
	// DigestSchema versions the canonical serialization fed into the digest.
	// Bump it whenever the envelope layout changes; chains produced under
	// different schemas must not compare equal.
	DigestSchema = "wipeforge/record/v1"

	// GenesisPrevDigest is the documented sentinel a genesis record carries
	// in place of a predecessor digest.
	GenesisPrevDigest = "0000000000000000000000000000000000000000000000000000000000000000"
)

// Record is a single entry of the wipe-audit chain. Fields stay exported and
// mutable after construction; the type does not defend itself against
// post-construction edits. Chain.Validate is the component that catches a
// record whose stored Digest no longer matches its content.
type Record struct {
	Position   uint64      `json:"position"`
	Timestamp  int64       `json:"timestamp"` // unix nanoseconds, advisory
	Payload    interface{} `json:"payload"`
	PrevDigest string      `json:"prev_digest"`
	Digest     string      `json:"digest"`
}

// digestEnvelope is the fixed field list covered by the digest. Payload is
// embedded as canonical raw JSON so the envelope bytes are deterministic.
type digestEnvelope struct {
	Schema     string          `json:"schema"`
	Position   uint64          `json:"position"`
	Timestamp  int64           `json:"timestamp"`
	Payload    json.RawMessage `json:"payload"`
	PrevDigest string          `json:"prev_digest"`
}

// NewRecord builds a record and computes its digest immediately. The payload
// is opaque: it is never interpreted, only canonically serialized. Payloads
// the canonical serializer cannot encode surface errors.ErrSerialization.
func NewRecord(position uint64, timestamp int64, payload interface{}, prevDigest string) (*Record, error) {
	r := &Record{
		Position:   position,
		Timestamp:  timestamp,
		Payload:    payload,
		PrevDigest: prevDigest,
	}
	digest, err := r.ComputeDigest()
	if err != nil {
		return nil, err
	}
	r.Digest = digest
	return r, nil
}

// ComputeDigest returns the SHA-256 digest of the record's canonical
// serialization as lowercase hex. It is a pure function of the current field
// values (Digest itself excluded) and never mutates the record; callers who
// edit a record and want it consistent again must assign the result back.
func (r *Record) ComputeDigest() (string, error) {
	payload, err := jsonx.Canonical(r.Payload)
	if err != nil {
		return "", fmt.Errorf("%w: %s", errors.ErrSerialization, err)
	}
	envelope, err := jsonx.Marshal(digestEnvelope{
		Schema:     DigestSchema,
		Position:   r.Position,
		Timestamp:  r.Timestamp,
		Payload:    payload,
		PrevDigest: r.PrevDigest,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s", errors.ErrSerialization, err)
	}
	sum := sha256.Sum256(envelope)
	return hex.EncodeToString(sum[:]), nil
}

// IsSerializationError reports whether err came out of the canonical
// serializer rather than from a structural ledger defect.
func IsSerializationError(err error) bool {
	return stderrors.Is(err, errors.ErrSerialization)
}
