package session

import (
	"context"
	"testing"
	"time"

	"github.com/ssarthak-dev/honeygrid/internal/intel"
)

func TestGetOrCreateReusesRecord(t *testing.T) {
	m := NewManager(0)

	rec, created := m.GetOrCreate("conv-1")
	if !created {
		t.Fatalf("created = false on first contact")
	}
	if rec.TurnCount != 0 || rec.ScamFlagged || rec.Reported {
		t.Fatalf("fresh record has non-default state: %+v", rec)
	}
	if rec.StartedAt.IsZero() {
		t.Fatalf("StartedAt not set")
	}

	again, created := m.GetOrCreate("conv-1")
	if created {
		t.Fatalf("created = true on second contact")
	}
	if again != rec {
		t.Fatalf("expected the same record instance")
	}
}

func TestMergeIntelDeduplicates(t *testing.T) {
	m := NewManager(0)
	rec, _ := m.GetOrCreate("conv-1")

	found := map[string][]string{
		intel.CategoryPhones: {"9876543210"},
		intel.CategoryUPI:    {"scammer@upi"},
	}

	rec.Lock()
	defer rec.Unlock()

	added := rec.MergeIntel(found)
	if len(added[intel.CategoryPhones]) != 1 || len(added[intel.CategoryUPI]) != 1 {
		t.Fatalf("added = %v, want both values new", added)
	}

	// Same artifacts again: nothing new, state unchanged.
	added = rec.MergeIntel(found)
	if len(added) != 0 {
		t.Fatalf("added = %v, want empty on re-merge", added)
	}
	if got := len(rec.Intel[intel.CategoryPhones]); got != 1 {
		t.Fatalf("phones grew to %d entries on re-merge", got)
	}
}

func TestReplyHistoryWindowBounded(t *testing.T) {
	m := NewManager(0)
	rec, _ := m.GetOrCreate("conv-1")

	rec.Lock()
	defer rec.Unlock()

	for _, r := range []string{"a", "b", "c", "d", "e", "f"} {
		rec.RememberReply(r)
	}
	if len(rec.ReplyHistory) != replyHistoryWindow {
		t.Fatalf("history length = %d, want %d", len(rec.ReplyHistory), replyHistoryWindow)
	}
	if rec.LastReply() != "f" {
		t.Fatalf("LastReply = %q, want f", rec.LastReply())
	}
	if rec.ReplyHistory[0] != "c" {
		t.Fatalf("oldest retained = %q, want c", rec.ReplyHistory[0])
	}
}

func TestMarkReportedWinsOnce(t *testing.T) {
	m := NewManager(0)
	rec, _ := m.GetOrCreate("conv-1")

	rec.Lock()
	defer rec.Unlock()

	if !rec.MarkReported() {
		t.Fatalf("first MarkReported = false")
	}
	if rec.MarkReported() {
		t.Fatalf("second MarkReported = true, want false")
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	m := NewManager(0)
	rec, _ := m.GetOrCreate("conv-1")

	rec.Lock()
	rec.MergeIntel(map[string][]string{intel.CategoryPhones: {"9876543210"}})
	rec.Unlock()

	snap, err := m.Snapshot("conv-1")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	snap.Intel[intel.CategoryPhones][0] = "tampered"

	rec.Lock()
	defer rec.Unlock()
	if rec.Intel[intel.CategoryPhones][0] != "9876543210" {
		t.Fatalf("snapshot mutation leaked into live record")
	}
}

func TestJanitorEvictsIdleAndRunsHook(t *testing.T) {
	m := NewManager(30 * time.Millisecond)
	m.GetOrCreate("conv-1")

	expired := make(chan string, 1)
	m.SetExpireHook(func(rec *Record) {
		expired <- rec.ID
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.StartJanitor(ctx, 10*time.Millisecond)

	select {
	case id := <-expired:
		if id != "conv-1" {
			t.Fatalf("expired id = %q", id)
		}
	case <-time.After(time.Second):
		t.Fatalf("expire hook never ran")
	}

	deadline := time.Now().Add(time.Second)
	for m.Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("record not evicted, count = %d", m.Count())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestGetUnknownSession(t *testing.T) {
	m := NewManager(0)
	if _, err := m.Get("nope"); err != ErrNotFound {
		t.Fatalf("Get error = %v, want ErrNotFound", err)
	}
}
