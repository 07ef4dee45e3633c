package store

import (
	"encoding/binary"
	"fmt"
	"sync"

	"wipeforge/db"
	"wipeforge/jsonx"
	"wipeforge/ledger"
	"wipeforge/logx"
)

// RecordStore is the log-writer side of the chain boundary: it persists
// human-readable copies of appended records. The in-memory chain stays the
// source of truth; this store only mirrors it for reload and inspection.
type RecordStore interface {
	Store(record *ledger.Record) error
	StoreBatch(records []*ledger.Record) error
	GetByPosition(position uint64) (*ledger.Record, error)
	LatestPosition() (uint64, bool, error)
	LoadAll() ([]*ledger.Record, error)
	MustClose()
}

// GenericRecordStore provides record storage over a db.Provider
type GenericRecordStore struct {
	mu         sync.RWMutex
	dbProvider db.Provider
}

// NewGenericRecordStore creates a new record store
func NewGenericRecordStore(dbProvider db.Provider) (*GenericRecordStore, error) {
	if dbProvider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}
	return &GenericRecordStore{dbProvider: dbProvider}, nil
}

// Store persists a single record
func (rs *GenericRecordStore) Store(record *ledger.Record) error {
	return rs.StoreBatch([]*ledger.Record{record})
}

// StoreBatch persists a batch of records and advances the latest-position
// meta key in one atomic write.
func (rs *GenericRecordStore) StoreBatch(records []*ledger.Record) error {
	if len(records) == 0 {
		return nil
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	latest, hasLatest, err := rs.latestPositionLocked()
	if err != nil {
		return err
	}

	batch := rs.dbProvider.Batch()
	for _, record := range records {
		data, err := jsonx.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		batch.Put(recordKey(record.Position), data)
		if !hasLatest || record.Position > latest {
			latest = record.Position
			hasLatest = true
		}
	}
	batch.Put([]byte(MetaKeyLatestPosition), encodePosition(latest))

	if err := batch.Write(); err != nil {
		return fmt.Errorf("failed to write records to database: %w", err)
	}
	logx.Debug("RECORD_STORE", "Stored ", len(records), " records, latest position ", latest)
	return nil
}

// GetByPosition retrieves a record by its chain position
func (rs *GenericRecordStore) GetByPosition(position uint64) (*ledger.Record, error) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	data, err := rs.dbProvider.Get(recordKey(position))
	if err != nil {
		return nil, fmt.Errorf("failed to read record %d: %w", position, err)
	}
	if data == nil {
		return nil, nil
	}
	var record ledger.Record
	if err := jsonx.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record %d: %w", position, err)
	}
	return &record, nil
}

// LatestPosition returns the highest stored position. The second return is
// false when the store is empty.
func (rs *GenericRecordStore) LatestPosition() (uint64, bool, error) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.latestPositionLocked()
}

func (rs *GenericRecordStore) latestPositionLocked() (uint64, bool, error) {
	data, err := rs.dbProvider.Get([]byte(MetaKeyLatestPosition))
	if err != nil {
		return 0, false, fmt.Errorf("failed to read latest position: %w", err)
	}
	if data == nil {
		return 0, false, nil
	}
	if len(data) != 8 {
		return 0, false, fmt.Errorf("corrupt latest position meta entry")
	}
	return binary.BigEndian.Uint64(data), true, nil
}

// LoadAll returns every stored record ordered by position, for rebuilding a
// chain in a fresh process.
func (rs *GenericRecordStore) LoadAll() ([]*ledger.Record, error) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	latest, hasLatest, err := rs.latestPositionLocked()
	if err != nil {
		return nil, err
	}
	if !hasLatest {
		return nil, nil
	}

	records := make([]*ledger.Record, 0, latest+1)
	for position := uint64(0); position <= latest; position++ {
		data, err := rs.dbProvider.Get(recordKey(position))
		if err != nil {
			return nil, fmt.Errorf("failed to read record %d: %w", position, err)
		}
		if data == nil {
			return nil, fmt.Errorf("record %d missing from store", position)
		}
		var record ledger.Record
		if err := jsonx.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record %d: %w", position, err)
		}
		records = append(records, &record)
	}
	return records, nil
}

// MustClose closes the underlying provider
func (rs *GenericRecordStore) MustClose() {
	if err := rs.dbProvider.Close(); err != nil {
		logx.Error("RECORD_STORE", "Failed to close provider: ", err)
	}
}

func recordKey(position uint64) []byte {
	// Big-endian position keeps lexicographic key order equal to chain order.
	key := make([]byte, len(PrefixRecord)+8)
	copy(key, PrefixRecord)
	binary.BigEndian.PutUint64(key[len(PrefixRecord):], position)
	return key
}

func encodePosition(position uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, position)
	return buf
}
