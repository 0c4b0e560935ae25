package host

import (
	"context"
	"log/slog"
	"sync"

	"github.com/roach88/scribe/internal/contract"
)

// Host drives the contract core with strict call sequencing.
//
// One mutex serializes everything: a mutating call acquires the lock,
// takes the next height, stamps the Env, and runs to completion before
// the next call starts. There is no reentrancy - a call never triggers
// another call.
type Host struct {
	mu sync.Mutex

	contract *contract.Contract
	clock    *HeightClock
	now      TimeSource
	tokens   TokenGenerator
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithClock substitutes the height clock, typically to resume from a
// persisted height.
func WithClock(c *HeightClock) HostOption {
	return func(h *Host) { h.clock = c }
}

// WithTimeSource substitutes the wall-clock source.
func WithTimeSource(src TimeSource) HostOption {
	return func(h *Host) { h.now = src }
}

// WithTokenGenerator substitutes the call-token generator.
func WithTokenGenerator(g TokenGenerator) HostOption {
	return func(h *Host) { h.tokens = g }
}

// New creates a Host over the given contract with production defaults:
// a fresh height clock, system time, and UUIDv7 call tokens.
func New(c *contract.Contract, opts ...HostOption) *Host {
	h := &Host{
		contract: c,
		clock:    NewHeightClock(),
		now:      SystemTime,
		tokens:   UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// env stamps the call context for one sequenced call. Callers must hold
// the host lock.
func (h *Host) env(height uint64) contract.Env {
	return contract.Env{
		Height:    height,
		Time:      h.now(),
		CallToken: h.tokens.Generate(),
	}
}

// Instantiate runs the one-time contract setup as a sequenced call.
func (h *Host) Instantiate(ctx context.Context, sender string, msg contract.InstantiateMsg) (*contract.Response, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	env := h.env(h.clock.Next())
	slog.Info("instantiate",
		"call_token", env.CallToken,
		"height", env.Height,
		"sender", sender)

	resp, err := h.contract.Instantiate(ctx, env, contract.MsgInfo{Sender: sender}, msg)
	if err != nil {
		slog.Error("instantiate failed",
			"call_token", env.CallToken,
			"error", err)
		return nil, err
	}
	return resp, nil
}

// Execute runs one mutating call at the next height. The call either
// commits fully or leaves no trace; the height is consumed either way.
func (h *Host) Execute(ctx context.Context, sender string, msg contract.ExecuteMsg) (*contract.Response, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	env := h.env(h.clock.Next())
	slog.Debug("execute",
		"call_token", env.CallToken,
		"height", env.Height,
		"sender", sender)

	resp, err := h.contract.Execute(ctx, env, contract.MsgInfo{Sender: sender}, msg)
	if err != nil {
		slog.Warn("execute rejected",
			"call_token", env.CallToken,
			"height", env.Height,
			"error", err)
		return nil, err
	}

	slog.Info("execute committed",
		"call_token", env.CallToken,
		"height", env.Height,
		"attributes", len(resp.Attributes))
	return resp, nil
}

// Query runs one read-only call. Queries share the host lock so they
// always see a committed snapshot; they never consume a height.
func (h *Host) Query(ctx context.Context, msg contract.QueryMsg) (any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.contract.Query(ctx, msg)
}

// Height reports the current logical height.
func (h *Host) Height() uint64 {
	return h.clock.Current()
}
