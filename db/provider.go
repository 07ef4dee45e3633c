package db

// Provider abstracts the low-level key-value operations so stores can work
// with different database backends without knowing implementation details.
type Provider interface {
	// Get retrieves a value by key; nil value means not found
	Get(key []byte) ([]byte, error)

	// Put stores a key-value pair
	Put(key, value []byte) error

	// Delete removes a key-value pair
	Delete(key []byte) error

	// Has checks if a key exists
	Has(key []byte) (bool, error)

	// IteratePrefix iterates over all key-value pairs with the given prefix.
	// The callback should return false to stop iteration.
	IteratePrefix(prefix []byte, callback func(key, value []byte) bool) error

	// Close closes the database connection
	Close() error

	// Batch returns a new batch for atomic operations
	Batch() Batch
}

// Batch provides atomic batch operations
type Batch interface {
	// Put adds a key-value pair to the batch
	Put(key, value []byte)

	// Delete adds a deletion to the batch
	Delete(key []byte)

	// Write commits all operations in the batch
	Write() error

	// Reset clears the batch
	Reset()
}
