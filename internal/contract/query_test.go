package contract

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordRun(t *testing.T, c *Contract, height uint64, msg RecordTestRunMsg) {
	t.Helper()
	_, err := c.Execute(context.Background(), testEnv(height, 2000+int64(height)), MsgInfo{Sender: "owner"}, ExecuteMsg{
		RecordTestRun: &msg,
	})
	require.NoError(t, err)
}

func TestGetMessage_NotFound(t *testing.T) {
	c := setupTestContract(t)

	_, err := c.Query(context.Background(), QueryMsg{GetMessage: &GetMessageMsg{ID: "msg_404"}})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestListMessages_Empty(t *testing.T) {
	c := setupTestContract(t)

	got, err := c.Query(context.Background(), QueryMsg{ListMessages: &ListMessagesMsg{}})
	require.NoError(t, err)

	list := got.(ListMessagesResponse)
	assert.NotNil(t, list.Messages)
	assert.Empty(t, list.Messages)
	assert.Equal(t, uint64(0), list.Count)
}

func TestListMessages_AscendingOrder(t *testing.T) {
	c := setupTestContract(t)

	// Heights chosen so string order differs from numeric order.
	for _, h := range []uint64{3, 10, 2} {
		storeMsg(t, c, h, fmt.Sprintf("at %d", h))
	}

	got, err := c.Query(context.Background(), QueryMsg{ListMessages: &ListMessagesMsg{}})
	require.NoError(t, err)

	list := got.(ListMessagesResponse)
	require.Equal(t, uint64(3), list.Count)
	assert.Equal(t, "msg_10", list.Messages[0].ID)
	assert.Equal(t, "msg_2", list.Messages[1].ID)
	assert.Equal(t, "msg_3", list.Messages[2].ID)
}

func TestListMessages_PaginationNoOverlapNoGap(t *testing.T) {
	c := setupTestContract(t)
	ctx := context.Background()

	for h := uint64(100); h < 107; h++ {
		storeMsg(t, c, h, "x")
	}

	seen := []string{}
	cursor := ""
	for {
		got, err := c.Query(ctx, QueryMsg{ListMessages: &ListMessagesMsg{StartAfter: cursor, Limit: 3}})
		require.NoError(t, err)

		page := got.(ListMessagesResponse)
		for _, m := range page.Messages {
			seen = append(seen, m.ID)
		}
		if len(page.Messages) < 3 {
			break
		}
		cursor = page.Messages[len(page.Messages)-1].ID
	}

	require.Len(t, seen, 7)
	for i := 1; i < len(seen); i++ {
		assert.Less(t, seen[i-1], seen[i])
	}
}

func TestListMessages_LimitClamped(t *testing.T) {
	c := setupTestContract(t)
	ctx := context.Background()

	for h := uint64(100); h < 135; h++ {
		storeMsg(t, c, h, "x")
	}

	// Default page size.
	got, err := c.Query(ctx, QueryMsg{ListMessages: &ListMessagesMsg{}})
	require.NoError(t, err)
	assert.Len(t, got.(ListMessagesResponse).Messages, DefaultMessagePageSize)

	// Above the cap.
	got, err = c.Query(ctx, QueryMsg{ListMessages: &ListMessagesMsg{Limit: 100}})
	require.NoError(t, err)
	assert.Len(t, got.(ListMessagesResponse).Messages, MaxMessagePageSize)
}

func TestGetTestRuns_DescendingOrder(t *testing.T) {
	c := setupTestContract(t)

	for i, id := range []string{"run-a", "run-c", "run-b"} {
		recordRun(t, c, uint64(2+i), RecordTestRunMsg{RunID: id, MessageCount: 1, TotalGas: 100, ChainID: "chain-1"})
	}

	got, err := c.Query(context.Background(), QueryMsg{GetTestRuns: &GetTestRunsMsg{}})
	require.NoError(t, err)

	runs := got.(TestRunsResponse).Runs
	require.Len(t, runs, 3)
	assert.Equal(t, "run-c", runs[0].RunID)
	assert.Equal(t, "run-b", runs[1].RunID)
	assert.Equal(t, "run-a", runs[2].RunID)
}

func TestGetTestRuns_CursorAndClamp(t *testing.T) {
	c := setupTestContract(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		recordRun(t, c, uint64(2+i), RecordTestRunMsg{
			RunID:        fmt.Sprintf("run-%02d", i),
			MessageCount: 1,
			TotalGas:     100,
			ChainID:      "chain-1",
		})
	}

	got, err := c.Query(ctx, QueryMsg{GetTestRuns: &GetTestRunsMsg{}})
	require.NoError(t, err)
	assert.Len(t, got.(TestRunsResponse).Runs, DefaultTestRunPageSize)

	got, err = c.Query(ctx, QueryMsg{GetTestRuns: &GetTestRunsMsg{Limit: 100}})
	require.NoError(t, err)
	assert.Len(t, got.(TestRunsResponse).Runs, MaxTestRunPageSize)

	// Exclusive cursor continues strictly below the last seen id.
	got, err = c.Query(ctx, QueryMsg{GetTestRuns: &GetTestRunsMsg{StartAfter: "run-03", Limit: 10}})
	require.NoError(t, err)

	runs := got.(TestRunsResponse).Runs
	require.Len(t, runs, 3)
	assert.Equal(t, "run-02", runs[0].RunID)
	assert.Equal(t, "run-00", runs[2].RunID)
}

func TestGetTestRuns_DerivedTxCount(t *testing.T) {
	c := setupTestContract(t)

	recordRun(t, c, 2, RecordTestRunMsg{
		RunID: "run-1", MessageCount: 1, TotalGas: 100, ChainID: "chain-1", TxProof: "tx1,tx2",
	})
	recordRun(t, c, 3, RecordTestRunMsg{
		RunID: "run-2", MessageCount: 1, TotalGas: 100, ChainID: "chain-1",
	})

	got, err := c.Query(context.Background(), QueryMsg{GetTestRuns: &GetTestRunsMsg{}})
	require.NoError(t, err)

	runs := got.(TestRunsResponse).Runs
	require.Len(t, runs, 2)
	assert.Equal(t, uint64(0), runs[0].TxCount) // run-2, blank proof
	assert.Equal(t, uint64(2), runs[1].TxCount) // run-1
}

func TestGasSummary_Empty(t *testing.T) {
	c := setupTestContract(t)

	got, err := c.Query(context.Background(), QueryMsg{GetGasSummary: &GetGasSummaryMsg{}})
	require.NoError(t, err)

	assert.Equal(t, GasSummaryResponse{}, got.(GasSummaryResponse))
}

func TestGasSummary_SingleRun(t *testing.T) {
	c := setupTestContract(t)

	// 1000 gas at 10 gas/byte reconstructs 100 bytes.
	recordRun(t, c, 2, RecordTestRunMsg{
		RunID: "run-1", MessageCount: 5, TotalGas: 1000, AvgGasPerByte: 10, ChainID: "chain-1",
	})

	got, err := c.Query(context.Background(), QueryMsg{GetGasSummary: &GetGasSummaryMsg{}})
	require.NoError(t, err)

	summary := got.(GasSummaryResponse)
	assert.Equal(t, uint64(5), summary.MsgCount)
	assert.Equal(t, uint64(1000), summary.TotalGas)
	assert.Equal(t, uint64(200), summary.AvgGas)
	assert.Equal(t, uint64(100), summary.TotalBytes)
	assert.Equal(t, uint64(10), summary.GasPerByte)
}

func TestGasSummary_MultipleRuns(t *testing.T) {
	c := setupTestContract(t)

	recordRun(t, c, 2, RecordTestRunMsg{
		RunID: "run-1", MessageCount: 4, TotalGas: 800, AvgGasPerByte: 8, ChainID: "chain-1",
	})
	recordRun(t, c, 3, RecordTestRunMsg{
		RunID: "run-2", MessageCount: 6, TotalGas: 1200, AvgGasPerByte: 12, ChainID: "chain-1",
	})
	// Recorded without an average: contributes gas but no bytes.
	recordRun(t, c, 4, RecordTestRunMsg{
		RunID: "run-3", MessageCount: 2, TotalGas: 500, AvgGasPerByte: 0, ChainID: "chain-1",
	})

	got, err := c.Query(context.Background(), QueryMsg{GetGasSummary: &GetGasSummaryMsg{}})
	require.NoError(t, err)

	summary := got.(GasSummaryResponse)
	assert.Equal(t, uint64(12), summary.MsgCount)
	assert.Equal(t, uint64(2500), summary.TotalGas)
	assert.Equal(t, uint64(208), summary.AvgGas) // floor(2500 / 12)
	assert.Equal(t, uint64(200), summary.TotalBytes)
	assert.Equal(t, uint64(12), summary.GasPerByte) // floor(2500 / 200)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 10, clampLimit(0, 10, 30))
	assert.Equal(t, 7, clampLimit(7, 10, 30))
	assert.Equal(t, 30, clampLimit(30, 10, 30))
	assert.Equal(t, 30, clampLimit(31, 10, 30))
}
