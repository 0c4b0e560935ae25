// Package host sequences calls into the contract core.
//
// The host owns everything the core treats as ambient: the logical
// height clock, the wall-clock source, call tokens, and the strict
// single-caller discipline. The core never advances height or reads
// the system clock itself; it sees only the Env the host hands it.
//
// Sequencing model: one mutex, one call at a time. Every Execute
// acquires the lock, advances the height, runs the call transaction
// to completion, and releases. Queries share the same lock so they
// always observe a committed snapshot, never a call in flight.
package host
