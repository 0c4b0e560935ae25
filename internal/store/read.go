package store

import (
	"context"
	"database/sql"
	"fmt"
)

// State reads the contract-state singleton.
// Returns sql.ErrNoRows (wrapped) if the instance was never initialized.
func (o ops) State(ctx context.Context) (State, error) {
	row := o.q.QueryRowContext(ctx, `
		SELECT owner, test_run_count, last_test_ts, finality_enabled, finality_provider, max_message_size
		FROM contract_state
		WHERE id = 1
	`)

	var (
		st       State
		runCount int64
		lastTest sql.NullInt64
		maxSize  int64
	)
	err := row.Scan(&st.Owner, &runCount, &lastTest, &st.FinalityEnabled, &st.FinalityProvider, &maxSize)
	if err != nil {
		return State{}, fmt.Errorf("read state: %w", err)
	}

	st.TestRunCount = uint64(runCount)
	st.MaxMessageSize = uint64(maxSize)
	if lastTest.Valid {
		ts := lastTest.Int64
		st.LastTestTS = &ts
	}
	return st, nil
}

// Message retrieves a single message record by id.
// Returns sql.ErrNoRows (wrapped) if not found.
func (o ops) Message(ctx context.Context, id string) (Message, error) {
	row := o.q.QueryRowContext(ctx, `
		SELECT id, content, length, stored_at, finalized, external_height, external_ts
		FROM messages
		WHERE id = ?
	`, id)

	m, err := scanMessage(row.Scan)
	if err != nil {
		return Message{}, fmt.Errorf("read message %s: %w", id, err)
	}
	return m, nil
}

// ListMessages returns up to limit message records with id strictly
// greater than startAfter (exclusive cursor), in ascending id order
// (CP-2). An empty startAfter starts from the beginning.
//
// Returns an empty slice (not nil) when no records match.
func (o ops) ListMessages(ctx context.Context, startAfter string, limit int) ([]Message, error) {
	// CP-2: deterministic ordering - id COLLATE BINARY ASC
	rows, err := o.q.QueryContext(ctx, `
		SELECT id, content, length, stored_at, finalized, external_height, external_ts
		FROM messages
		WHERE (? = '' OR id > ?)
		ORDER BY id COLLATE BINARY ASC
		LIMIT ?
	`, startAfter, startAfter, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		m, err := scanMessage(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

// TestRun retrieves a single test-run record by id.
// Returns sql.ErrNoRows (wrapped) if not found.
func (o ops) TestRun(ctx context.Context, id string) (TestRun, error) {
	row := o.q.QueryRowContext(ctx, `
		SELECT id, ts, message_count, total_gas, avg_gas_per_byte, chain_id, tx_proof
		FROM test_runs
		WHERE id = ?
	`, id)

	r, err := scanTestRun(row.Scan)
	if err != nil {
		return TestRun{}, fmt.Errorf("read test run %s: %w", id, err)
	}
	return r, nil
}

// ListTestRuns returns up to limit test-run records with id strictly
// less than startAfter (exclusive cursor), in DESCENDING id order (CP-2).
// An empty startAfter starts from the highest key.
//
// Note: this is run-id string order, not recency order. Callers wanting
// chronological pages must issue lexicographically monotonic run ids.
//
// Returns an empty slice (not nil) when no records match.
func (o ops) ListTestRuns(ctx context.Context, startAfter string, limit int) ([]TestRun, error) {
	rows, err := o.q.QueryContext(ctx, `
		SELECT id, ts, message_count, total_gas, avg_gas_per_byte, chain_id, tx_proof
		FROM test_runs
		WHERE (? = '' OR id < ?)
		ORDER BY id COLLATE BINARY DESC
		LIMIT ?
	`, startAfter, startAfter, limit)
	if err != nil {
		return nil, fmt.Errorf("query test runs: %w", err)
	}
	defer rows.Close()

	runs := []TestRun{}
	for rows.Next() {
		r, err := scanTestRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan test run: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate test runs: %w", err)
	}

	return runs, nil
}

// AllTestRuns returns every test-run record in ascending id order.
// Used by the gas-summary aggregator, which scans the whole store.
func (o ops) AllTestRuns(ctx context.Context) ([]TestRun, error) {
	rows, err := o.q.QueryContext(ctx, `
		SELECT id, ts, message_count, total_gas, avg_gas_per_byte, chain_id, tx_proof
		FROM test_runs
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query all test runs: %w", err)
	}
	defer rows.Close()

	runs := []TestRun{}
	for rows.Next() {
		r, err := scanTestRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan test run: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate test runs: %w", err)
	}

	return runs, nil
}

// scanMessage scans one messages row via the given Scan function,
// shared between QueryRow and Rows iteration.
func scanMessage(scan func(dest ...any) error) (Message, error) {
	var (
		m         Message
		length    int64
		extHeight sql.NullInt64
		extTS     sql.NullInt64
	)
	err := scan(&m.ID, &m.Content, &length, &m.StoredAt, &m.Finalized, &extHeight, &extTS)
	if err != nil {
		return Message{}, err
	}

	m.Length = uint64(length)
	if extHeight.Valid {
		h := uint64(extHeight.Int64)
		m.ExternalHeight = &h
	}
	if extTS.Valid {
		ts := uint64(extTS.Int64)
		m.ExternalTS = &ts
	}
	return m, nil
}

// scanTestRun scans one test_runs row via the given Scan function.
func scanTestRun(scan func(dest ...any) error) (TestRun, error) {
	var (
		r        TestRun
		msgCount int64
		totalGas int64
		avgGas   int64
	)
	err := scan(&r.ID, &r.TS, &msgCount, &totalGas, &avgGas, &r.ChainID, &r.TxProof)
	if err != nil {
		return TestRun{}, err
	}

	r.MessageCount = uint64(msgCount)
	r.TotalGas = uint64(totalGas)
	r.AvgGasPerByte = uint64(avgGas)
	return r, nil
}
