package contract

import "time"

// DefaultMaxMessageSize is the maximum message length in characters
// applied when instantiation does not specify one.
const DefaultMaxMessageSize = 1024

// Env is the host-supplied call context: every operation receives the
// current height, the current wall time, and a call token for audit
// correlation.
type Env struct {
	Height    uint64
	Time      time.Time
	CallToken string
}

// MsgInfo identifies the caller. Sender is an opaque identity already
// validated by the host; the contract only ever compares it against the
// stored owner.
type MsgInfo struct {
	Sender string
}

// InstantiateMsg creates the contract-state singleton.
type InstantiateMsg struct {
	Owner            string `json:"owner"`
	FinalityEnabled  bool   `json:"finality_enabled"`
	FinalityProvider string `json:"finality_provider,omitempty"`
	MaxMessageSize   uint64 `json:"max_message_size,omitempty"` // 0 = DefaultMaxMessageSize
}

// ExecuteMsg is the tagged union of mutating operations. Exactly one
// field must be set.
type ExecuteMsg struct {
	StoreMessage         *StoreMessageMsg         `json:"store_message,omitempty"`
	StoreFixedLength     *StoreFixedLengthMsg     `json:"store_fixed_length_message,omitempty"`
	DeleteMessage        *DeleteMessageMsg        `json:"delete_message,omitempty"`
	RecordTestRun        *RecordTestRunMsg        `json:"record_test_run,omitempty"`
	ClearData            *ClearDataMsg            `json:"clear_data,omitempty"`
	UpdateFinalityStatus *UpdateFinalityStatusMsg `json:"update_finality_status,omitempty"`
}

// StoreMessageMsg stores a message of any length up to the configured
// maximum. The id is derived from the current height.
type StoreMessageMsg struct {
	Content string `json:"content"`
}

// StoreFixedLengthMsg stores a message normalized to exactly
// TargetLength characters: truncated if longer, right-padded with
// spaces if shorter.
type StoreFixedLengthMsg struct {
	Content      string `json:"content"`
	TargetLength uint64 `json:"target_length"`
}

// DeleteMessageMsg removes a message by id. Owner-only; idempotent.
type DeleteMessageMsg struct {
	ID string `json:"id"`
}

// RecordTestRunMsg records test-run statistics. Owner-only.
type RecordTestRunMsg struct {
	RunID         string `json:"run_id"`
	MessageCount  uint64 `json:"message_count"`
	TotalGas      uint64 `json:"total_gas"`
	AvgGasPerByte uint64 `json:"avg_gas_per_byte"`
	ChainID       string `json:"chain_id"`
	TxProof       string `json:"tx_proof,omitempty"` // comma-joined transaction references
}

// ClearDataMsg removes every message and test-run record. Owner-only.
type ClearDataMsg struct{}

// UpdateFinalityStatusMsg refreshes a message's finality status via the
// external certifying lookup. A no-op reporting "skipped" when the
// finality flag is disabled.
type UpdateFinalityStatusMsg struct {
	ID       string `json:"id"`
	DataHash string `json:"data_hash"`
}

// QueryMsg is the tagged union of read-only operations. Exactly one
// field must be set.
type QueryMsg struct {
	GetConfig     *GetConfigMsg     `json:"get_config,omitempty"`
	GetMessage    *GetMessageMsg    `json:"get_message,omitempty"`
	ListMessages  *ListMessagesMsg  `json:"list_messages,omitempty"`
	GetTestRuns   *GetTestRunsMsg   `json:"get_test_runs,omitempty"`
	GetGasSummary *GetGasSummaryMsg `json:"get_gas_summary,omitempty"`
}

type GetConfigMsg struct{}

type GetMessageMsg struct {
	ID string `json:"id"`
}

// ListMessagesMsg pages ascending by message id. StartAfter is an
// exclusive cursor; Limit 0 means the default page size.
type ListMessagesMsg struct {
	StartAfter string `json:"start_after,omitempty"`
	Limit      uint32 `json:"limit,omitempty"`
}

// GetTestRunsMsg pages DESCENDING by run-id string. StartAfter is an
// exclusive cursor; Limit 0 means the default page size.
type GetTestRunsMsg struct {
	StartAfter string `json:"start_after,omitempty"`
	Limit      uint32 `json:"limit,omitempty"`
}

type GetGasSummaryMsg struct{}

// Attribute is one human-readable key/value pair describing a mutation.
// The ordered attribute set is the contract's only externally observable
// audit trail; content must stay stable for golden-output comparison.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Response is the outcome of a successful mutating call.
type Response struct {
	Attributes []Attribute `json:"attributes"`
	Data       any         `json:"data,omitempty"`
}

// attr appends a key/value attribute and returns the response for
// chaining, mirroring how mutation handlers build their audit trail.
func (r *Response) attr(key, value string) *Response {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
	return r
}

// StoreMessageResponse is the structured outcome of StoreMessage and
// StoreFixedLength.
type StoreMessageResponse struct {
	ID     string `json:"id"`
	Length uint64 `json:"length"`
}

type DeleteMessageResponse struct {
	ID string `json:"id"`
}

type RecordTestRunResponse struct {
	RunID        string `json:"run_id"`
	MessageCount uint64 `json:"message_count"`
	TotalGas     uint64 `json:"total_gas"`
	TxCount      uint64 `json:"tx_count"`
}

type ClearDataResponse struct {
	Time int64 `json:"time"` // unix seconds
}

type UpdateFinalityStatusResponse struct {
	ID        string `json:"id"`
	Skipped   bool   `json:"skipped,omitempty"`
	Finalized bool   `json:"finalized"`
}

// ConfigResponse answers GetConfig.
type ConfigResponse struct {
	Owner            string `json:"owner"`
	TestCount        uint64 `json:"test_count"`
	LastTest         *int64 `json:"last_test,omitempty"` // unix seconds
	FinalityEnabled  bool   `json:"finality_enabled"`
	FinalityProvider string `json:"finality_provider,omitempty"`
}

// FinalityStatus reports a message's certification state.
type FinalityStatus struct {
	Finalized      bool    `json:"finalized"`
	ExternalHeight *uint64 `json:"external_height,omitempty"`
	ExternalTime   *uint64 `json:"external_timestamp,omitempty"`
}

// MessageResponse answers GetMessage and carries one entry of
// ListMessages.
type MessageResponse struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Length   uint64         `json:"length"`
	Time     int64          `json:"time"` // unix seconds
	Finality FinalityStatus `json:"finality"`
}

// ListMessagesResponse carries one ascending page. Count is the page
// length, not a total; callers page until a short page signals
// exhaustion.
type ListMessagesResponse struct {
	Messages []MessageResponse `json:"messages"`
	Count    uint64            `json:"count"`
}

// TestRunResponse carries one test-run record. TxCount is derived from
// the stored proof at query time, never stored.
type TestRunResponse struct {
	RunID         string `json:"run_id"`
	Time          int64  `json:"time"` // unix seconds
	MessageCount  uint64 `json:"message_count"`
	TotalGas      uint64 `json:"total_gas"`
	AvgGasPerByte uint64 `json:"avg_gas_per_byte"`
	ChainID       string `json:"chain_id"`
	TxProof       string `json:"tx_proof,omitempty"`
	TxCount       uint64 `json:"tx_count"`
}

// TestRunsResponse carries one descending page of runs.
type TestRunsResponse struct {
	Runs []TestRunResponse `json:"runs"`
}

// GasSummaryResponse is the derived aggregate over every test-run
// record. All divisions are integer floor divisions with explicit
// zero-divisor guards.
type GasSummaryResponse struct {
	MsgCount   uint64 `json:"msg_count"`
	TotalGas   uint64 `json:"total_gas"`
	AvgGas     uint64 `json:"avg_gas"`
	TotalBytes uint64 `json:"total_bytes"`
	GasPerByte uint64 `json:"gas_per_byte"`
}
