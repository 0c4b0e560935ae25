package store

import (
	"context"
	"database/sql"
	"fmt"
)

// InitState writes the contract-state singleton at instantiation.
// Fails if the instance is already initialized - the owner is set once
// and never changes.
func (c *Call) InitState(ctx context.Context, st State) error {
	_, err := c.q.ExecContext(ctx, `
		INSERT INTO contract_state
		(id, owner, test_run_count, last_test_ts, finality_enabled, finality_provider, max_message_size)
		VALUES (1, ?, ?, ?, ?, ?, ?)
	`,
		st.Owner,
		int64(st.TestRunCount),
		nullableInt64(st.LastTestTS),
		st.FinalityEnabled,
		st.FinalityProvider,
		int64(st.MaxMessageSize),
	)
	if err != nil {
		return fmt.Errorf("init state: %w", err)
	}
	return nil
}

// SaveState overwrites the mutable fields of the contract-state singleton.
// The owner column is deliberately NOT written here: immutability is
// enforced at the write site, not just by convention.
func (c *Call) SaveState(ctx context.Context, st State) error {
	res, err := c.q.ExecContext(ctx, `
		UPDATE contract_state
		SET test_run_count = ?, last_test_ts = ?, finality_enabled = ?, finality_provider = ?, max_message_size = ?
		WHERE id = 1
	`,
		int64(st.TestRunCount),
		nullableInt64(st.LastTestTS),
		st.FinalityEnabled,
		st.FinalityProvider,
		int64(st.MaxMessageSize),
	)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save state: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("save state: %w", sql.ErrNoRows)
	}
	return nil
}

// PutMessage inserts or replaces a message record.
// A colliding id silently overwrites the prior record (CP-3) - id
// derivation makes collisions an expected same-height occurrence, not
// an error.
func (c *Call) PutMessage(ctx context.Context, m Message) error {
	_, err := c.q.ExecContext(ctx, `
		INSERT INTO messages
		(id, content, length, stored_at, finalized, external_height, external_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			length = excluded.length,
			stored_at = excluded.stored_at,
			finalized = excluded.finalized,
			external_height = excluded.external_height,
			external_ts = excluded.external_ts
	`,
		m.ID,
		m.Content,
		int64(m.Length),
		m.StoredAt,
		m.Finalized,
		nullableUint64(m.ExternalHeight),
		nullableUint64(m.ExternalTS),
	)
	if err != nil {
		return fmt.Errorf("put message %s: %w", m.ID, err)
	}
	return nil
}

// DeleteMessage removes a message record if present.
// Deleting an absent id is a no-op - deletion is idempotent.
func (c *Call) DeleteMessage(ctx context.Context, id string) error {
	_, err := c.q.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete message %s: %w", id, err)
	}
	return nil
}

// PutTestRun inserts or replaces a test-run record.
// Record ids are caller-supplied, so id reuse overwrites (CP-3); the
// run counter in contract state still increments per record call.
func (c *Call) PutTestRun(ctx context.Context, r TestRun) error {
	_, err := c.q.ExecContext(ctx, `
		INSERT INTO test_runs
		(id, ts, message_count, total_gas, avg_gas_per_byte, chain_id, tx_proof)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			ts = excluded.ts,
			message_count = excluded.message_count,
			total_gas = excluded.total_gas,
			avg_gas_per_byte = excluded.avg_gas_per_byte,
			chain_id = excluded.chain_id,
			tx_proof = excluded.tx_proof
	`,
		r.ID,
		r.TS,
		int64(r.MessageCount),
		int64(r.TotalGas),
		int64(r.AvgGasPerByte),
		r.ChainID,
		r.TxProof,
	)
	if err != nil {
		return fmt.Errorf("put test run %s: %w", r.ID, err)
	}
	return nil
}

// ClearAll removes every message and every test-run record.
// Bulk and unconditional - there is no partial clear. Contract state is
// untouched; the caller resets the counters through SaveState within
// the same call transaction.
func (c *Call) ClearAll(ctx context.Context) error {
	if _, err := c.q.ExecContext(ctx, `DELETE FROM messages`); err != nil {
		return fmt.Errorf("clear messages: %w", err)
	}
	if _, err := c.q.ExecContext(ctx, `DELETE FROM test_runs`); err != nil {
		return fmt.Errorf("clear test runs: %w", err)
	}
	return nil
}

// nullableInt64 converts an optional int64 to its driver representation.
func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

// nullableUint64 converts an optional uint64 to its driver representation.
func nullableUint64(v *uint64) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}
