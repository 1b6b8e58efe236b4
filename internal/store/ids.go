package store

import "github.com/google/uuid"

// IDGenerator produces run IDs.
// Implemented by UUIDv7Generator and testutil.FixedIDGenerator.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run IDs.
//
// UUIDv7 puts a timestamp in the most significant bits, so IDs of runs
// saved later sort after earlier ones. Safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
// Panics if the random source fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
