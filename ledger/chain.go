package ledger

import (
	"sync"
	"time"

	"wipeforge/errors"
)

// GenesisPayload is the designated payload of the record at position 0.
const GenesisPayload = "wipeforge genesis"

// Chain is an append-only sequence of records where every record commits to
// the digest of its predecessor. Records are added one at a time and never
// removed or reordered; validity is always recomputed on demand, never
// cached, since callers hold references to the records and may mutate them.
//
// Append is serialized against other appends and against reads; a validation
// pass never observes a partially appended record.
type Chain struct {
	mu      sync.RWMutex
	records []*Record
}

// NewChain creates a chain holding exactly one genesis record: position 0,
// the sentinel prev-digest and the designated genesis payload.
func NewChain() *Chain {
	genesis, err := NewRecord(0, time.Now().UnixNano(), GenesisPayload, GenesisPrevDigest)
	if err != nil {
		// GenesisPayload is a constant string; the canonical serializer
		// cannot reject it.
		panic(err)
	}
	return &Chain{records: []*Record{genesis}}
}

// FromRecords rebuilds a chain from an existing record sequence, e.g. one
// reloaded by the surrounding log-writer. The sequence is taken as-is; run
// Validate to judge it. Errors with ErrEmptyChain for an empty sequence.
func FromRecords(records []*Record) (*Chain, error) {
	if len(records) == 0 {
		return nil, errors.ErrEmptyChain
	}
	chain := &Chain{records: make([]*Record, len(records))}
	copy(chain.records, records)
	return chain, nil
}

// Latest returns the record at the highest position. ErrEmptyChain is a
// defensive check only: NewChain guarantees a non-empty sequence.
func (c *Chain) Latest() (*Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latestLocked()
}

func (c *Chain) latestLocked() (*Record, error) {
	if len(c.records) == 0 {
		return nil, errors.ErrEmptyChain
	}
	return c.records[len(c.records)-1], nil
}

// Append builds a record at position latest+1 linked to the current tail and
// adds it to the sequence. No existing record is modified.
func (c *Chain) Append(payload interface{}) (*Record, error) {
	return c.AppendAt(payload, time.Now().UnixNano())
}

// AppendAt is Append with a caller-supplied timestamp. The timestamp is
// advisory and not validated for monotonicity.
func (c *Chain) AppendAt(payload interface{}, timestamp int64) (*Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	latest, err := c.latestLocked()
	if err != nil {
		return nil, err
	}
	record, err := NewRecord(latest.Position+1, timestamp, payload, latest.Digest)
	if err != nil {
		return nil, err
	}
	c.records = append(c.records, record)
	return record, nil
}

// Len returns the number of records in the chain.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Records returns a snapshot of the sequence. The slice is a copy; the
// records are shared, so callers see (and can cause) the same tampering the
// validator checks for.
func (c *Chain) Records() []*Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snapshot := make([]*Record, len(c.records))
	copy(snapshot, c.records)
	return snapshot
}

// GetByPosition returns the record at the given position.
func (c *Chain) GetByPosition(position uint64) (*Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if position >= uint64(len(c.records)) {
		return nil, errors.ErrRecordNotFound
	}
	return c.records[position], nil
}

// Validate scans the sequence from index 1 and checks, for every record,
// that its stored digest matches a fresh digest computation and that its
// prev-digest matches the predecessor's digest. All failures are collected
// rather than short-circuiting. The pass is read-only.
//
// An invalid chain is a correctly reported result, not an error; the error
// return covers structural defects only (empty sequence).
func (c *Chain) Validate() (*Report, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.records) == 0 {
		return nil, errors.ErrEmptyChain
	}

	report := &Report{Checked: len(c.records)}
	for i := 1; i < len(c.records); i++ {
		current := c.records[i]
		previous := c.records[i-1]

		recomputed, err := current.ComputeDigest()
		if err != nil {
			// A payload mutated into something the serializer rejects is
			// tampering, not a validator fault.
			report.Failures = append(report.Failures, Failure{
				Position: current.Position,
				Kind:     FailurePayloadUnserializable,
				Want:     current.Digest,
			})
		} else if recomputed != current.Digest {
			report.Failures = append(report.Failures, Failure{
				Position: current.Position,
				Kind:     FailureDigestMismatch,
				Want:     recomputed,
				Got:      current.Digest,
			})
		}

		if current.PrevDigest != previous.Digest {
			report.Failures = append(report.Failures, Failure{
				Position: current.Position,
				Kind:     FailureBrokenLink,
				Want:     previous.Digest,
				Got:      current.PrevDigest,
			})
		}
	}
	return report, nil
}
