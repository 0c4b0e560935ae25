package contract

import (
	"context"
	"fmt"

	"github.com/roach88/scribe/internal/store"
)

// Contract binds the core operations to one storage instance.
//
// All mutations happen inside the call transaction opened by Execute;
// the host guarantees strict sequencing, so there is never more than
// one call transaction open at a time.
type Contract struct {
	store   *store.Store
	checker FinalityChecker // nil when no certifying lookup is wired
}

// Option configures optional contract collaborators.
type Option func(*Contract)

// WithFinalityChecker wires the external certifying lookup.
// Without it, UpdateFinalityStatus fails with NOT_CONFIGURED whenever
// the finality flag is enabled.
func WithFinalityChecker(c FinalityChecker) Option {
	return func(ct *Contract) {
		ct.checker = c
	}
}

// New creates a Contract over the given store.
func New(s *store.Store, opts ...Option) *Contract {
	c := &Contract{store: s}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Instantiate creates the contract-state singleton. The owner is fixed
// here and never changes; a second instantiation fails.
func (c *Contract) Instantiate(ctx context.Context, env Env, info MsgInfo, msg InstantiateMsg) (*Response, error) {
	owner := msg.Owner
	if owner == "" {
		owner = info.Sender
	}

	maxSize := msg.MaxMessageSize
	if maxSize == 0 {
		maxSize = DefaultMaxMessageSize
	}

	call, err := c.store.BeginCall(ctx)
	if err != nil {
		return nil, err
	}
	defer call.Rollback()

	err = call.InitState(ctx, store.State{
		Owner:            owner,
		FinalityEnabled:  msg.FinalityEnabled,
		FinalityProvider: msg.FinalityProvider,
		MaxMessageSize:   maxSize,
	})
	if err != nil {
		return nil, err
	}

	if err := call.Commit(); err != nil {
		return nil, err
	}

	resp := &Response{}
	resp.attr("method", "instantiate").
		attr("owner", owner).
		attr("finality_enabled", fmt.Sprintf("%t", msg.FinalityEnabled))
	return resp, nil
}

// Execute routes a mutating operation. The whole call runs inside one
// store transaction: commit on success, rollback on any failure, so a
// validation error partway through leaves no partial write.
func (c *Contract) Execute(ctx context.Context, env Env, info MsgInfo, msg ExecuteMsg) (*Response, error) {
	call, err := c.store.BeginCall(ctx)
	if err != nil {
		return nil, err
	}
	defer call.Rollback() // No-op if committed

	var resp *Response
	switch {
	case msg.StoreMessage != nil:
		resp, err = c.storeMessage(ctx, call, env, *msg.StoreMessage)
	case msg.StoreFixedLength != nil:
		resp, err = c.storeFixedLength(ctx, call, env, *msg.StoreFixedLength)
	case msg.DeleteMessage != nil:
		resp, err = c.deleteMessage(ctx, call, info, *msg.DeleteMessage)
	case msg.RecordTestRun != nil:
		resp, err = c.recordTestRun(ctx, call, env, info, *msg.RecordTestRun)
	case msg.ClearData != nil:
		resp, err = c.clearData(ctx, call, env, info)
	case msg.UpdateFinalityStatus != nil:
		resp, err = c.updateFinalityStatus(ctx, call, *msg.UpdateFinalityStatus)
	default:
		return nil, fmt.Errorf("execute: no operation set")
	}
	if err != nil {
		return nil, err
	}

	if err := call.Commit(); err != nil {
		return nil, err
	}
	return resp, nil
}

// Query routes a read-only operation directly against committed state.
// Queries never open a call transaction and never mutate.
func (c *Contract) Query(ctx context.Context, msg QueryMsg) (any, error) {
	switch {
	case msg.GetConfig != nil:
		return c.queryConfig(ctx)
	case msg.GetMessage != nil:
		return c.queryMessage(ctx, msg.GetMessage.ID)
	case msg.ListMessages != nil:
		return c.queryListMessages(ctx, *msg.ListMessages)
	case msg.GetTestRuns != nil:
		return c.queryTestRuns(ctx, *msg.GetTestRuns)
	case msg.GetGasSummary != nil:
		return c.queryGasSummary(ctx)
	default:
		return nil, fmt.Errorf("query: no operation set")
	}
}
