package contract

import (
	"context"
	"database/sql"
	"errors"

	"github.com/roach88/scribe/internal/store"
)

func (c *Contract) queryConfig(ctx context.Context) (ConfigResponse, error) {
	st, err := c.store.State(ctx)
	if err != nil {
		return ConfigResponse{}, err
	}
	return ConfigResponse{
		Owner:            st.Owner,
		TestCount:        st.TestRunCount,
		LastTest:         st.LastTestTS,
		FinalityEnabled:  st.FinalityEnabled,
		FinalityProvider: st.FinalityProvider,
	}, nil
}

func (c *Contract) queryMessage(ctx context.Context, id string) (MessageResponse, error) {
	m, err := c.store.Message(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return MessageResponse{}, NewNotFoundError("message", id)
		}
		return MessageResponse{}, err
	}
	return messageResponse(m), nil
}

// queryListMessages returns one ascending page. The count field is the
// page length; a page shorter than the effective limit signals
// exhaustion.
func (c *Contract) queryListMessages(ctx context.Context, msg ListMessagesMsg) (ListMessagesResponse, error) {
	limit := clampLimit(msg.Limit, DefaultMessagePageSize, MaxMessagePageSize)

	records, err := c.store.ListMessages(ctx, msg.StartAfter, limit)
	if err != nil {
		return ListMessagesResponse{}, err
	}

	messages := make([]MessageResponse, 0, len(records))
	for _, m := range records {
		messages = append(messages, messageResponse(m))
	}
	return ListMessagesResponse{
		Messages: messages,
		Count:    uint64(len(messages)),
	}, nil
}

// queryTestRuns returns one descending page of run records. The tx
// count is derived from the stored proof at read time.
func (c *Contract) queryTestRuns(ctx context.Context, msg GetTestRunsMsg) (TestRunsResponse, error) {
	limit := clampLimit(msg.Limit, DefaultTestRunPageSize, MaxTestRunPageSize)

	records, err := c.store.ListTestRuns(ctx, msg.StartAfter, limit)
	if err != nil {
		return TestRunsResponse{}, err
	}

	runs := make([]TestRunResponse, 0, len(records))
	for _, r := range records {
		runs = append(runs, TestRunResponse{
			RunID:         r.ID,
			Time:          r.TS,
			MessageCount:  r.MessageCount,
			TotalGas:      r.TotalGas,
			AvgGasPerByte: r.AvgGasPerByte,
			ChainID:       r.ChainID,
			TxProof:       r.TxProof,
			TxCount:       countTxRefs(r.TxProof),
		})
	}
	return TestRunsResponse{Runs: runs}, nil
}

// queryGasSummary aggregates over every stored run. Byte totals are
// reconstructed from each run's own average (total_gas / avg_gas_per_byte,
// floor division); runs recorded without an average contribute gas but
// no bytes. Every division guards its divisor so an empty store answers
// all zeros instead of failing.
func (c *Contract) queryGasSummary(ctx context.Context) (GasSummaryResponse, error) {
	records, err := c.store.AllTestRuns(ctx)
	if err != nil {
		return GasSummaryResponse{}, err
	}

	var summary GasSummaryResponse
	for _, r := range records {
		summary.MsgCount += r.MessageCount
		summary.TotalGas += r.TotalGas
		if r.AvgGasPerByte > 0 {
			summary.TotalBytes += r.TotalGas / r.AvgGasPerByte
		}
	}

	if summary.MsgCount > 0 {
		summary.AvgGas = summary.TotalGas / summary.MsgCount
	}
	if summary.TotalBytes > 0 {
		summary.GasPerByte = summary.TotalGas / summary.TotalBytes
	}
	return summary, nil
}

// messageResponse converts a stored record into its query shape.
func messageResponse(m store.Message) MessageResponse {
	return MessageResponse{
		ID:      m.ID,
		Content: m.Content,
		Length:  m.Length,
		Time:    m.StoredAt,
		Finality: FinalityStatus{
			Finalized:      m.Finalized,
			ExternalHeight: m.ExternalHeight,
			ExternalTime:   m.ExternalTS,
		},
	}
}
