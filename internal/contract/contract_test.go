package contract

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scribe/internal/store"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()
	s, err := store.Open(dir + "/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testEnv(height uint64, sec int64) Env {
	return Env{
		Height:    height,
		Time:      time.Unix(sec, 0).UTC(),
		CallToken: "call-1",
	}
}

// setupTestContract instantiates a fresh contract with owner "owner"
// and default configuration.
func setupTestContract(t *testing.T, opts ...Option) *Contract {
	t.Helper()
	c := New(setupTestStore(t), opts...)
	_, err := c.Instantiate(context.Background(), testEnv(1, 1000), MsgInfo{Sender: "owner"}, InstantiateMsg{})
	require.NoError(t, err)
	return c
}

func attrValue(t *testing.T, resp *Response, key string) string {
	t.Helper()
	for _, a := range resp.Attributes {
		if a.Key == key {
			return a.Value
		}
	}
	t.Fatalf("attribute %q not found in %v", key, resp.Attributes)
	return ""
}

func TestInstantiate_Defaults(t *testing.T) {
	c := New(setupTestStore(t))

	resp, err := c.Instantiate(context.Background(), testEnv(1, 1000), MsgInfo{Sender: "creator"}, InstantiateMsg{})
	require.NoError(t, err)

	assert.Equal(t, "instantiate", attrValue(t, resp, "method"))
	assert.Equal(t, "creator", attrValue(t, resp, "owner"))
	assert.Equal(t, "false", attrValue(t, resp, "finality_enabled"))

	cfg, err := c.Query(context.Background(), QueryMsg{GetConfig: &GetConfigMsg{}})
	require.NoError(t, err)

	config := cfg.(ConfigResponse)
	assert.Equal(t, "creator", config.Owner)
	assert.Equal(t, uint64(0), config.TestCount)
	assert.Nil(t, config.LastTest)
	assert.False(t, config.FinalityEnabled)
}

func TestInstantiate_ExplicitOwner(t *testing.T) {
	c := New(setupTestStore(t))

	_, err := c.Instantiate(context.Background(), testEnv(1, 1000), MsgInfo{Sender: "creator"}, InstantiateMsg{
		Owner:            "alice",
		FinalityEnabled:  true,
		FinalityProvider: "provider-1",
	})
	require.NoError(t, err)

	cfg, err := c.Query(context.Background(), QueryMsg{GetConfig: &GetConfigMsg{}})
	require.NoError(t, err)

	config := cfg.(ConfigResponse)
	assert.Equal(t, "alice", config.Owner)
	assert.True(t, config.FinalityEnabled)
	assert.Equal(t, "provider-1", config.FinalityProvider)
}

func TestInstantiate_Twice(t *testing.T) {
	c := New(setupTestStore(t))
	ctx := context.Background()

	_, err := c.Instantiate(ctx, testEnv(1, 1000), MsgInfo{Sender: "creator"}, InstantiateMsg{})
	require.NoError(t, err)

	_, err = c.Instantiate(ctx, testEnv(2, 1001), MsgInfo{Sender: "creator"}, InstantiateMsg{})
	assert.Error(t, err)
}

func TestExecute_EmptyMessage(t *testing.T) {
	c := setupTestContract(t)

	_, err := c.Execute(context.Background(), testEnv(2, 1001), MsgInfo{Sender: "owner"}, ExecuteMsg{})
	assert.Error(t, err)
}

func TestQuery_EmptyMessage(t *testing.T) {
	c := setupTestContract(t)

	_, err := c.Query(context.Background(), QueryMsg{})
	assert.Error(t, err)
}

func TestExecute_FailedCallLeavesNoPartialWrite(t *testing.T) {
	c := setupTestContract(t)
	ctx := context.Background()

	// A rejected run record must not bump the counter or leave the
	// record behind.
	_, err := c.Execute(ctx, testEnv(2, 1001), MsgInfo{Sender: "owner"}, ExecuteMsg{
		RecordTestRun: &RecordTestRunMsg{RunID: "run-1", MessageCount: 3, TotalGas: 0, ChainID: "chain-1"},
	})
	require.Error(t, err)
	assert.Equal(t, ErrCodeInvalidGasValue, CodeOf(err))

	cfg, err := c.Query(ctx, QueryMsg{GetConfig: &GetConfigMsg{}})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), cfg.(ConfigResponse).TestCount)

	runs, err := c.Query(ctx, QueryMsg{GetTestRuns: &GetTestRunsMsg{}})
	require.NoError(t, err)
	assert.Empty(t, runs.(TestRunsResponse).Runs)
}
