// Package store keeps a SQLite history of kata runs.
//
// Each run is one row in runs plus its result log in results and its
// report messages in reports, both keyed by (run_id, seq). A run is
// written in a single transaction, so a reader sees either the whole run
// or none of it.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Cascade deletes from runs to their logs
//
// Run digests are computed by harness.LogDigest, so a stored digest can be
// compared with one taken from a live harness.
package store
