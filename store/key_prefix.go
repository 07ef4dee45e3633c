package store

// Declare database key prefix for objects
const (
	PrefixRecord = "record:"

	MetaKeyLatestPosition = "record_meta:latest_position"
)
