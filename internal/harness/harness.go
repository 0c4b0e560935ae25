package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/scribe/internal/contract"
	"github.com/roach88/scribe/internal/host"
	"github.com/roach88/scribe/internal/store"
)

// scenarioEpoch is the wall time of the first call in every scenario.
// Each subsequent call advances by exactly one second, so timestamps in
// golden traces are predictable.
var scenarioEpoch = time.Unix(1000, 0).UTC()

// defaultCallToken tags every call of a scenario that does not specify
// its own token.
const defaultCallToken = "scenario-call"

// executeOps and queryOps are the operation names scenarios may use.
var executeOps = map[string]bool{
	"store_message":              true,
	"store_fixed_length_message": true,
	"delete_message":             true,
	"record_test_run":            true,
	"clear_data":                 true,
	"update_finality_status":     true,
}

var queryOps = map[string]bool{
	"get_config":      true,
	"get_message":     true,
	"list_messages":   true,
	"get_test_runs":   true,
	"get_gas_summary": true,
}

// staticTokens answers the same call token forever. Scenarios reuse one
// token across calls; the trace's seq numbers already disambiguate.
type staticTokens struct {
	token string
}

func (g staticTokens) Generate() string { return g.token }

// Run executes a scenario and returns its result.
//
// Each scenario runs in a fresh in-memory database for isolation, with
// a stepped deterministic clock and a fixed call token.
//
// Execution flow:
//  1. Open a fresh in-memory store and sequenced host
//  2. Instantiate (explicit step or defaults)
//  3. Execute the steps, checking each expectation
//  4. Evaluate trace assertions
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	token := scenario.CallToken
	if token == "" {
		token = defaultCallToken
	}

	h := host.New(contract.New(st),
		host.WithTimeSource(host.SteppedTime(scenarioEpoch, time.Second)),
		host.WithTokenGenerator(staticTokens{token: token}),
	)

	ctx := context.Background()
	result := NewResult()

	if err := runInstantiate(ctx, h, scenario.Instantiate, result); err != nil {
		return nil, err
	}

	for i, step := range scenario.Steps {
		if err := runStep(ctx, h, i, step, result); err != nil {
			return nil, err
		}
	}

	evalAssertions(scenario.Assertions, result)
	return result, nil
}

// runInstantiate performs the scenario's setup call. The instantiation
// itself must succeed; a scenario cannot expect it to fail.
func runInstantiate(ctx context.Context, h *host.Host, step *InstantiateStep, result *Result) error {
	sender := "owner"
	args := map[string]any{}
	if step != nil {
		if step.Sender != "" {
			sender = step.Sender
		}
		if step.Args != nil {
			args = step.Args
		}
	}

	var msg contract.InstantiateMsg
	if err := decodeArgs(args, &msg); err != nil {
		return fmt.Errorf("instantiate: %w", err)
	}

	resp, err := h.Instantiate(ctx, sender, msg)
	if err != nil {
		return fmt.Errorf("instantiate failed: %w", err)
	}

	result.AddEvent(TraceEvent{
		Type:       "instantiate",
		Sender:     sender,
		Attributes: traceAttributes(resp.Attributes),
	})
	return nil
}

// runStep performs one flow step and checks its expectation. Expectation
// mismatches are recorded in the result; only harness-level failures
// (bad operation name, malformed args) abort the run.
func runStep(ctx context.Context, h *host.Host, index int, step Step, result *Result) error {
	label := step.Name
	if label == "" {
		label = fmt.Sprintf("steps[%d]", index)
	}

	switch {
	case step.Execute != "":
		if !executeOps[step.Execute] {
			return fmt.Errorf("%s: unknown execute operation %q", label, step.Execute)
		}

		var msg contract.ExecuteMsg
		if err := decodeArgs(map[string]any{step.Execute: argsOrEmpty(step.Args)}, &msg); err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}

		resp, err := h.Execute(ctx, step.Sender, msg)
		if err != nil {
			recordFailure(result, label, step, TraceEvent{
				Type:   "execute",
				Op:     step.Execute,
				Sender: step.Sender,
			}, err)
			return nil
		}

		data, err := toTraceValue(resp.Data)
		if err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}
		result.AddEvent(TraceEvent{
			Type:       "execute",
			Op:         step.Execute,
			Sender:     step.Sender,
			Attributes: traceAttributes(resp.Attributes),
			Data:       data,
		})
		if step.ExpectError != "" {
			result.AddError(fmt.Sprintf("%s: expected error %s, call succeeded", label, step.ExpectError))
		}

	case step.Query != "":
		if !queryOps[step.Query] {
			return fmt.Errorf("%s: unknown query operation %q", label, step.Query)
		}

		var msg contract.QueryMsg
		if err := decodeArgs(map[string]any{step.Query: argsOrEmpty(step.Args)}, &msg); err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}

		answer, err := h.Query(ctx, msg)
		if err != nil {
			recordFailure(result, label, step, TraceEvent{
				Type: "query",
				Op:   step.Query,
			}, err)
			return nil
		}

		res, err := toTraceValue(answer)
		if err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}
		result.AddEvent(TraceEvent{
			Type:   "query",
			Op:     step.Query,
			Result: res,
		})
		if step.ExpectError != "" {
			result.AddError(fmt.Sprintf("%s: expected error %s, call succeeded", label, step.ExpectError))
		}
	}

	return nil
}

// recordFailure traces a rejected call and checks it against the step's
// expectation.
func recordFailure(result *Result, label string, step Step, ev TraceEvent, err error) {
	code := string(contract.CodeOf(err))
	if code == "" {
		code = "INTERNAL"
	}
	ev.Error = code
	result.AddEvent(ev)

	switch {
	case step.ExpectError == "":
		result.AddError(fmt.Sprintf("%s: unexpected error %s: %v", label, code, err))
	case step.ExpectError != code:
		result.AddError(fmt.Sprintf("%s: expected error %s, got %s", label, step.ExpectError, code))
	}
}

// evalAssertions checks the final trace against the scenario assertions.
func evalAssertions(assertions []Assertion, result *Result) {
	for i, a := range assertions {
		switch a.Type {
		case AssertTraceContains:
			if !traceContains(result.Trace, a) {
				result.AddError(fmt.Sprintf("assertions[%d]: trace does not contain op %q", i, a.Op))
			}
		case AssertTraceCount:
			n := 0
			for _, ev := range result.Trace {
				if ev.Op == a.Op {
					n++
				}
			}
			if n != a.Count {
				result.AddError(fmt.Sprintf("assertions[%d]: op %q appears %d times, want %d", i, a.Op, n, a.Count))
			}
		}
	}
}

// traceContains reports whether any event matches the assertion's op and
// optional attribute pair.
func traceContains(trace []TraceEvent, a Assertion) bool {
	for _, ev := range trace {
		if ev.Op != a.Op {
			continue
		}
		if a.Attribute == nil {
			return true
		}
		for _, attr := range ev.Attributes {
			if attr.Key == a.Attribute.Key && attr.Value == a.Attribute.Value {
				return true
			}
		}
	}
	return false
}

// decodeArgs converts a YAML args map into a typed message via its JSON
// tags, rejecting unknown fields.
func decodeArgs(args map[string]any, dst any) error {
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode args: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode args: %w", err)
	}
	return nil
}

func argsOrEmpty(args map[string]any) map[string]any {
	if args == nil {
		return map[string]any{}
	}
	return args
}

// traceAttributes converts contract attributes for trace recording.
func traceAttributes(attrs []contract.Attribute) []Attribute {
	out := make([]Attribute, len(attrs))
	for i, a := range attrs {
		out[i] = Attribute{Key: a.Key, Value: a.Value}
	}
	return out
}

// toTraceValue converts a response value into the canonical-JSON value
// domain: maps, slices, strings, bools and int64 numbers. All numeric
// fields in the public surface are integers, so a fractional number here
// is a defect.
func toTraceValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode trace value: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode trace value: %w", err)
	}

	return normalizeNumbers(decoded)
}

// normalizeNumbers rewrites json.Number values to int64 recursively.
func normalizeNumbers(v any) (any, error) {
	switch val := v.(type) {
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("non-integer number %q in trace value", val)
		}
		return n, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			norm, err := normalizeNumbers(elem)
			if err != nil {
				return nil, err
			}
			out[k] = norm
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			norm, err := normalizeNumbers(elem)
			if err != nil {
				return nil, err
			}
			out[i] = norm
		}
		return out, nil
	default:
		return v, nil
	}
}
