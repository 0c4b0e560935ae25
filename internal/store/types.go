package store

// State is the contract-state singleton: one row per deployed instance.
// Owner is immutable after initialization.
type State struct {
	Owner            string
	TestRunCount     uint64
	LastTestTS       *int64 // unix seconds; nil until first recorded run or clear
	FinalityEnabled  bool
	FinalityProvider string // empty when no certifying lookup is configured
	MaxMessageSize   uint64 // in characters (runes)
}

// Message is a stored message record.
// Length is the character (rune) count of Content, never the byte count.
type Message struct {
	ID             string
	Content        string
	Length         uint64
	StoredAt       int64 // unix seconds
	Finalized      bool
	ExternalHeight *uint64
	ExternalTS     *uint64
}

// TestRun is a test-run statistics record.
// TotalGas is zero only when MessageCount is zero (enforced by the
// contract layer, not the store).
type TestRun struct {
	ID            string
	TS            int64 // unix seconds
	MessageCount  uint64
	TotalGas      uint64
	AvgGasPerByte uint64
	ChainID       string
	TxProof       string // comma-joined transaction references; empty = absent
}
