// Package harness provides a conformance testing framework for the
// contract core.
//
// Scenarios are YAML files describing a call sequence: one instantiate,
// then execute and query steps with expected outcomes. The harness runs
// each scenario against a fresh store with deterministic time and call
// tokens, records every call and its outcome as a trace event, and
// compares the canonical-JSON trace against a golden file.
//
// Determinism is the whole point: heights come from the sequenced call
// order, timestamps from a stepped fixed clock, and serialization from
// canonical JSON, so a scenario produces byte-identical traces on every
// run and the golden files stay meaningful.
package harness
