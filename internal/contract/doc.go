// Package contract implements the scribe data-recording contract core:
// the keyed message store with deterministic id derivation and
// fixed-length normalization, the test-run statistics store with
// cursor-based pagination, the derived gas-summary aggregator, and the
// owner-authorization guard protecting all gated mutations.
//
// Execution model: calls are strictly sequential and call-atomic. Every
// mutating operation runs inside one store.Call transaction opened by
// Execute; validation failures abort before any write, and any error
// rolls the whole call back. Queries read directly against committed
// state and never mutate.
//
// The certifying lookup (FinalityChecker) is an external collaborator
// reached through a narrow query interface; it is feature-flagged and
// optional.
package contract
