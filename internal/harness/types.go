package harness

// TraceEvent records one call and its outcome.
type TraceEvent struct {
	// Type is "instantiate", "execute" or "query".
	Type string `json:"type"`

	// Op is the operation name for execute/query events, e.g.
	// "store_message" or "get_config".
	Op string `json:"op,omitempty"`

	// Sender is the caller identity for mutating events.
	Sender string `json:"sender,omitempty"`

	// Attributes is the emitted audit trail of a committed mutation.
	Attributes []Attribute `json:"attributes,omitempty"`

	// Data is the structured result of a committed mutation.
	Data any `json:"data,omitempty"`

	// Result is the answer of a query.
	Result any `json:"result,omitempty"`

	// Error is the error code of a rejected call.
	Error string `json:"error,omitempty"`

	// Seq is the event's position in the trace, starting at 1.
	Seq int64 `json:"seq"`
}

// Attribute mirrors the contract's attribute pair for trace recording.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step's expectation held.
	Pass bool `json:"pass"`

	// Trace contains every call in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result to accumulate into.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records an expectation failure and marks the result failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddEvent appends a trace event, stamping its sequence number.
func (r *Result) AddEvent(ev TraceEvent) {
	ev.Seq = int64(len(r.Trace) + 1)
	r.Trace = append(r.Trace, ev)
}
