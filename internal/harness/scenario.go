package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: one instantiation
// followed by a sequence of execute and query steps.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Instantiate configures the initial call. Sender defaults to
	// "owner"; Args defaults to an empty instantiation message.
	Instantiate *InstantiateStep `yaml:"instantiate,omitempty"`

	// Steps is the main call sequence.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace.
	// Supported types: trace_contains, trace_count.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// CallToken is an optional fixed call token stamped on every call.
	// Defaults to "scenario-call" for deterministic golden comparison.
	CallToken string `yaml:"call_token,omitempty"`
}

// InstantiateStep configures the scenario's one-time setup call.
type InstantiateStep struct {
	Sender string         `yaml:"sender,omitempty"`
	Args   map[string]any `yaml:"args,omitempty"`
}

// Step is one call in the scenario flow. Exactly one of Execute and
// Query must be set, naming the operation; Args carries the operation's
// fields.
type Step struct {
	// Name optionally labels the step for error reporting.
	Name string `yaml:"name,omitempty"`

	// Execute names a mutating operation, e.g. "store_message".
	Execute string `yaml:"execute,omitempty"`

	// Query names a read-only operation, e.g. "get_config".
	Query string `yaml:"query,omitempty"`

	// Sender is the caller identity for execute steps.
	Sender string `yaml:"sender,omitempty"`

	// Args contains the operation fields as a map.
	Args map[string]any `yaml:"args,omitempty"`

	// ExpectError is the error code this step must fail with.
	// Empty means the step must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Assertion validates the final trace.
type Assertion struct {
	// Type is "trace_contains" or "trace_count".
	Type string `yaml:"type"`

	// Op is the operation name to look for.
	Op string `yaml:"op"`

	// Attribute optionally narrows trace_contains to events carrying
	// this exact attribute pair.
	Attribute *Attribute `yaml:"attribute,omitempty"`

	// Count is the expected number of occurrences (trace_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceCount    = "trace_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "step:" vs "steps:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		switch {
		case step.Execute == "" && step.Query == "":
			return fmt.Errorf("steps[%d]: one of execute or query is required", i)
		case step.Execute != "" && step.Query != "":
			return fmt.Errorf("steps[%d]: execute and query are mutually exclusive", i)
		case step.Query != "" && step.Sender != "":
			return fmt.Errorf("steps[%d]: sender is not valid on query steps", i)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Op == "" {
		return fmt.Errorf("assertions[%d]: op is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Attribute != nil && a.Attribute.Key == "" {
			return fmt.Errorf("assertions[%d]: attribute key is required when attribute is set", index)
		}
	case AssertTraceCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
