// Package store provides SQLite-backed durable storage for a scribe
// contract instance.
//
// The store holds three record families:
//   - Contract State: singleton (owner, run counter, last-run timestamp)
//   - Messages: keyed text records with derived ids
//   - Test Runs: keyed test-run statistics records
//
// # Critical Patterns
//
// CP-1: Call Atomicity
//   - Every mutating call runs inside one Call (sql.Tx wrapper)
//   - Commit on success, rollback on any failure - no partial writes
//
// CP-2: Deterministic Scan Order
//   - All range scans order by id COLLATE BINARY in the requested
//     direction, NEVER by insertion order or timestamps
//   - Cursors are exclusive lower (or upper) bounds on the key itself
//
// CP-3: Overwrite Semantics
//   - Message and test-run writes use ON CONFLICT(id) DO UPDATE;
//     a colliding id silently replaces the prior record
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
