package contract

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/roach88/scribe/internal/store"
)

// storeMessage records content under an id derived from the current
// height. Length accounting is in characters, not bytes, so multi-byte
// content is not penalized by its encoding.
func (c *Contract) storeMessage(ctx context.Context, call *store.Call, env Env, msg StoreMessageMsg) (*Response, error) {
	st, err := call.State(ctx)
	if err != nil {
		return nil, err
	}

	length := uint64(utf8.RuneCountInString(msg.Content))
	if length > st.MaxMessageSize {
		return nil, NewMessageTooLargeError(length, st.MaxMessageSize)
	}

	id := fmt.Sprintf("msg_%d", env.Height)
	err = call.PutMessage(ctx, store.Message{
		ID:       id,
		Content:  msg.Content,
		Length:   length,
		StoredAt: env.Time.Unix(),
	})
	if err != nil {
		return nil, err
	}

	resp := &Response{Data: StoreMessageResponse{ID: id, Length: length}}
	resp.attr("action", "store_message").
		attr("id", id).
		attr("length", fmt.Sprintf("%d", length))
	return resp, nil
}

// storeFixedLength records content normalized to exactly TargetLength
// characters: longer content is truncated, shorter content is
// right-padded with spaces. The post-normalization length is re-checked
// before the write; a mismatch means the normalizer itself is broken.
func (c *Contract) storeFixedLength(ctx context.Context, call *store.Call, env Env, msg StoreFixedLengthMsg) (*Response, error) {
	st, err := call.State(ctx)
	if err != nil {
		return nil, err
	}

	if msg.TargetLength > st.MaxMessageSize {
		return nil, NewMessageTooLargeError(msg.TargetLength, st.MaxMessageSize)
	}

	content := normalizeToLength(msg.Content, msg.TargetLength)
	if got := uint64(utf8.RuneCountInString(content)); got != msg.TargetLength {
		return nil, NewInvalidMessageLengthError(got, msg.TargetLength)
	}

	id := fmt.Sprintf("msg_%d_%d", env.Height, msg.TargetLength)
	err = call.PutMessage(ctx, store.Message{
		ID:       id,
		Content:  content,
		Length:   msg.TargetLength,
		StoredAt: env.Time.Unix(),
	})
	if err != nil {
		return nil, err
	}

	resp := &Response{Data: StoreMessageResponse{ID: id, Length: msg.TargetLength}}
	resp.attr("action", "store_fixed_length_message").
		attr("id", id).
		attr("target_length", fmt.Sprintf("%d", msg.TargetLength)).
		attr("actual_length", fmt.Sprintf("%d", msg.TargetLength))
	return resp, nil
}

// normalizeToLength forces content to exactly target characters.
// Truncation and padding both count runes so the result length matches
// what a reader counting characters would expect.
func normalizeToLength(content string, target uint64) string {
	runes := []rune(content)
	if uint64(len(runes)) > target {
		return string(runes[:target])
	}
	if uint64(len(runes)) < target {
		return content + strings.Repeat(" ", int(target-uint64(len(runes))))
	}
	return content
}

// deleteMessage removes a message by id. Owner-only and idempotent:
// deleting an id that never existed succeeds with the same attributes.
func (c *Contract) deleteMessage(ctx context.Context, call *store.Call, info MsgInfo, msg DeleteMessageMsg) (*Response, error) {
	st, err := call.State(ctx)
	if err != nil {
		return nil, err
	}
	if err := assertOwner(st, info.Sender); err != nil {
		return nil, err
	}

	if err := call.DeleteMessage(ctx, msg.ID); err != nil {
		return nil, err
	}

	resp := &Response{Data: DeleteMessageResponse{ID: msg.ID}}
	resp.attr("action", "delete_message").
		attr("id", msg.ID)
	return resp, nil
}

// recordTestRun validates and persists one test-run record, then bumps
// the run counter and last-test timestamp in contract state. All of it
// commits or none of it does.
func (c *Contract) recordTestRun(ctx context.Context, call *store.Call, env Env, info MsgInfo, msg RecordTestRunMsg) (*Response, error) {
	st, err := call.State(ctx)
	if err != nil {
		return nil, err
	}
	if err := assertOwner(st, info.Sender); err != nil {
		return nil, err
	}

	runID := strings.TrimSpace(msg.RunID)
	if runID == "" {
		return nil, NewInvalidRunIDError()
	}
	chainID := strings.TrimSpace(msg.ChainID)
	if chainID == "" {
		return nil, NewInvalidChainIDError()
	}
	if msg.MessageCount > 0 && msg.TotalGas == 0 {
		return nil, NewInvalidGasValueError(msg.MessageCount)
	}

	err = call.PutTestRun(ctx, store.TestRun{
		ID:            runID,
		TS:            env.Time.Unix(),
		MessageCount:  msg.MessageCount,
		TotalGas:      msg.TotalGas,
		AvgGasPerByte: msg.AvgGasPerByte,
		ChainID:       chainID,
		TxProof:       msg.TxProof,
	})
	if err != nil {
		return nil, err
	}

	st.TestRunCount++
	ts := env.Time.Unix()
	st.LastTestTS = &ts
	if err := call.SaveState(ctx, st); err != nil {
		return nil, err
	}

	txCount := countTxRefs(msg.TxProof)
	resp := &Response{Data: RecordTestRunResponse{
		RunID:        runID,
		MessageCount: msg.MessageCount,
		TotalGas:     msg.TotalGas,
		TxCount:      txCount,
	}}
	resp.attr("action", "record_test_run").
		attr("run_id", runID).
		attr("message_count", fmt.Sprintf("%d", msg.MessageCount)).
		attr("total_gas", fmt.Sprintf("%d", msg.TotalGas)).
		attr("tx_count", fmt.Sprintf("%d", txCount))
	return resp, nil
}

// countTxRefs counts the non-blank comma-separated entries of a proof
// string. A blank proof counts zero transactions.
func countTxRefs(proof string) uint64 {
	if strings.TrimSpace(proof) == "" {
		return 0
	}
	var n uint64
	for _, ref := range strings.Split(proof, ",") {
		if strings.TrimSpace(ref) != "" {
			n++
		}
	}
	return n
}

// clearData removes every message and test-run record, resets the run
// counter and stamps the last-test timestamp with the call time.
// Owner-only; the configuration fields (owner, finality, size limit)
// survive.
func (c *Contract) clearData(ctx context.Context, call *store.Call, env Env, info MsgInfo) (*Response, error) {
	st, err := call.State(ctx)
	if err != nil {
		return nil, err
	}
	if err := assertOwner(st, info.Sender); err != nil {
		return nil, err
	}

	if err := call.ClearAll(ctx); err != nil {
		return nil, err
	}

	now := env.Time.Unix()
	st.TestRunCount = 0
	st.LastTestTS = &now
	if err := call.SaveState(ctx, st); err != nil {
		return nil, err
	}

	resp := &Response{Data: ClearDataResponse{Time: now}}
	resp.attr("action", "clear_data").
		attr("time", fmt.Sprintf("%d", now))
	return resp, nil
}

// updateFinalityStatus refreshes one message's finality status via the
// external certifying lookup. With the finality flag disabled the call
// is a reported no-op, not an error, so callers can issue it blindly.
func (c *Contract) updateFinalityStatus(ctx context.Context, call *store.Call, msg UpdateFinalityStatusMsg) (*Response, error) {
	st, err := call.State(ctx)
	if err != nil {
		return nil, err
	}

	m, err := call.Message(ctx, msg.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewNotFoundError("message", msg.ID)
		}
		return nil, err
	}

	if !st.FinalityEnabled {
		resp := &Response{Data: UpdateFinalityStatusResponse{ID: msg.ID, Skipped: true, Finalized: m.Finalized}}
		resp.attr("action", "update_finality_status").
			attr("result", "skipped").
			attr("reason", "finality disabled")
		return resp, nil
	}

	if st.FinalityProvider == "" {
		return nil, NewNotConfiguredError("finality provider")
	}
	if c.checker == nil {
		return nil, NewNotConfiguredError("finality checker")
	}

	res, err := c.checker.CheckData(ctx, msg.DataHash)
	if err != nil {
		return nil, fmt.Errorf("check finality for %s: %w", msg.ID, err)
	}

	if res.Finalized {
		m.Finalized = true
		if res.Data != nil {
			h := res.Data.ExternalHeight
			t := res.Data.ExternalTimestamp
			m.ExternalHeight = &h
			m.ExternalTS = &t
		}
		if err := call.PutMessage(ctx, m); err != nil {
			return nil, err
		}
	}

	resp := &Response{Data: UpdateFinalityStatusResponse{ID: msg.ID, Finalized: res.Finalized}}
	resp.attr("action", "update_finality_status").
		attr("id", msg.ID).
		attr("finalized", fmt.Sprintf("%t", res.Finalized))
	return resp, nil
}
