package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
)

// seedMessages stores n messages with ids msg_000 .. msg_(n-1).
// Zero-padded ids keep lexicographic and numeric order aligned.
func seedMessages(t *testing.T, s *Store, n int) []string {
	t.Helper()
	ids := make([]string, n)
	withCall(t, s, func(ctx context.Context, c *Call) {
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("msg_%03d", i)
			ids[i] = id
			if err := c.PutMessage(ctx, Message{ID: id, Content: "x", Length: 1, StoredAt: int64(i)}); err != nil {
				t.Fatalf("PutMessage(%s) failed: %v", id, err)
			}
		}
	})
	return ids
}

func TestState_Uninitialized(t *testing.T) {
	s := openTestStore(t)

	_, err := s.State(context.Background())
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows for uninitialized state, got %v", err)
	}
}

func TestMessage_NotFound(t *testing.T) {
	s := openTestStore(t)
	initTestState(t, s, "owner-a")

	_, err := s.Message(context.Background(), "msg_nope")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestListMessages_AscendingOrder(t *testing.T) {
	s := openTestStore(t)
	initTestState(t, s, "owner-a")
	ids := seedMessages(t, s, 5)

	msgs, err := s.ListMessages(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("ListMessages() failed: %v", err)
	}
	if len(msgs) != 5 {
		t.Fatalf("got %d messages, expected 5", len(msgs))
	}
	for i, m := range msgs {
		if m.ID != ids[i] {
			t.Errorf("position %d: id = %q, expected %q", i, m.ID, ids[i])
		}
	}
}

func TestListMessages_CursorIsExclusive(t *testing.T) {
	s := openTestStore(t)
	initTestState(t, s, "owner-a")
	seedMessages(t, s, 5)

	msgs, err := s.ListMessages(context.Background(), "msg_001", 10)
	if err != nil {
		t.Fatalf("ListMessages() failed: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, expected 3", len(msgs))
	}
	if msgs[0].ID != "msg_002" {
		t.Errorf("first id after cursor = %q, expected %q", msgs[0].ID, "msg_002")
	}
}

func TestListMessages_PagesCoverWithoutOverlap(t *testing.T) {
	s := openTestStore(t)
	initTestState(t, s, "owner-a")
	ids := seedMessages(t, s, 7)
	ctx := context.Background()

	var collected []string
	cursor := ""
	for {
		page, err := s.ListMessages(ctx, cursor, 3)
		if err != nil {
			t.Fatalf("ListMessages() failed: %v", err)
		}
		for _, m := range page {
			collected = append(collected, m.ID)
		}
		if len(page) < 3 {
			break // short page signals exhaustion
		}
		cursor = page[len(page)-1].ID
	}

	if len(collected) != len(ids) {
		t.Fatalf("paged through %d ids, expected %d", len(collected), len(ids))
	}
	for i := range ids {
		if collected[i] != ids[i] {
			t.Errorf("position %d: id = %q, expected %q", i, collected[i], ids[i])
		}
	}
}

func TestListMessages_EmptyStore(t *testing.T) {
	s := openTestStore(t)
	initTestState(t, s, "owner-a")

	msgs, err := s.ListMessages(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("ListMessages() failed: %v", err)
	}
	if msgs == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(msgs) != 0 {
		t.Errorf("expected 0 messages, got %d", len(msgs))
	}
}

func TestListTestRuns_DescendingOrder(t *testing.T) {
	s := openTestStore(t)
	initTestState(t, s, "owner-a")

	withCall(t, s, func(ctx context.Context, c *Call) {
		for _, id := range []string{"run-a", "run-b", "run-c"} {
			if err := c.PutTestRun(ctx, TestRun{ID: id, MessageCount: 1, TotalGas: 10, AvgGasPerByte: 1, ChainID: "c"}); err != nil {
				t.Fatalf("PutTestRun(%s) failed: %v", id, err)
			}
		}
	})

	runs, err := s.ListTestRuns(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("ListTestRuns() failed: %v", err)
	}
	want := []string{"run-c", "run-b", "run-a"}
	if len(runs) != len(want) {
		t.Fatalf("got %d runs, expected %d", len(runs), len(want))
	}
	for i, r := range runs {
		if r.ID != want[i] {
			t.Errorf("position %d: id = %q, expected %q", i, r.ID, want[i])
		}
	}
}

func TestListTestRuns_DescendingCursor(t *testing.T) {
	s := openTestStore(t)
	initTestState(t, s, "owner-a")

	withCall(t, s, func(ctx context.Context, c *Call) {
		for _, id := range []string{"run-a", "run-b", "run-c"} {
			if err := c.PutTestRun(ctx, TestRun{ID: id, MessageCount: 1, TotalGas: 10, AvgGasPerByte: 1, ChainID: "c"}); err != nil {
				t.Fatalf("PutTestRun(%s) failed: %v", id, err)
			}
		}
	})

	// Cursor excludes itself; descending scan continues below it
	runs, err := s.ListTestRuns(context.Background(), "run-c", 10)
	if err != nil {
		t.Fatalf("ListTestRuns() failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-b" || runs[1].ID != "run-a" {
		t.Errorf("unexpected page after cursor: %+v", runs)
	}
}

func TestAllTestRuns(t *testing.T) {
	s := openTestStore(t)
	initTestState(t, s, "owner-a")

	withCall(t, s, func(ctx context.Context, c *Call) {
		for i := 0; i < 4; i++ {
			id := fmt.Sprintf("run-%d", i)
			if err := c.PutTestRun(ctx, TestRun{ID: id, MessageCount: uint64(i), TotalGas: uint64(i * 100), AvgGasPerByte: 10, ChainID: "c"}); err != nil {
				t.Fatalf("PutTestRun(%s) failed: %v", id, err)
			}
		}
	})

	runs, err := s.AllTestRuns(context.Background())
	if err != nil {
		t.Fatalf("AllTestRuns() failed: %v", err)
	}
	if len(runs) != 4 {
		t.Fatalf("got %d runs, expected 4", len(runs))
	}
	if runs[0].ID != "run-0" || runs[3].ID != "run-3" {
		t.Errorf("unexpected order: first=%s last=%s", runs[0].ID, runs[3].ID)
	}
}
