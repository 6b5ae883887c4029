package appctx

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

// recorder is a test Action that logs executions and rollbacks in order.
type recorder struct {
	desc       string
	executeErr error
	log        *eventLog
}

type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, s)
}

func (l *eventLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

func (a *recorder) Execute(context.Context) error {
	if a.executeErr != nil {
		return a.executeErr
	}
	a.log.add("execute:" + a.desc)
	return nil
}

func (a *recorder) Rollback(context.Context) error {
	a.log.add("rollback:" + a.desc)
	return nil
}

func (a *recorder) Description() string { return a.desc }

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestGetOrFetch_MemoizesContextAndErrors(t *testing.T) {
	t.Parallel()
	rc := New(context.Background())

	loads := 0
	load := func(context.Context) (*transaction.Context, error) {
		loads++
		return nil, domain.ErrNotFound
	}
	for range 3 {
		if _, err := GetOrFetch(rc, "tx:1", load); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	}
	if loads != 1 {
		t.Fatalf("load called %d times, want 1", loads)
	}
}

func TestGetOrFetch_TypeMismatch(t *testing.T) {
	t.Parallel()
	rc := New(context.Background())

	_, _ = GetOrFetch(rc, "k", func(context.Context) (string, error) { return "v", nil })
	_, err := GetOrFetch(rc, "k", func(context.Context) (int, error) { return 1, nil })
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("err = %v, want ErrTypeMismatch", err)
	}
}

func TestStage_ReadYourWrites(t *testing.T) {
	t.Parallel()
	rc := New(context.Background())
	log := &eventLog{}

	staged := transaction.New("tx-1", "property_transfer")
	if err := rc.Stage("tx:1", staged, &recorder{desc: "save tx-1", log: log}); err != nil {
		t.Fatal(err)
	}
	got, err := GetOrFetch(rc, "tx:1", func(context.Context) (*transaction.Context, error) {
		t.Fatal("load must not run for a staged key")
		return nil, nil
	})
	if err != nil || got != staged {
		t.Fatalf("GetOrFetch = %v, %v; want the staged context", got, err)
	}
	if len(log.list()) != 0 {
		t.Fatalf("action ran before Commit: %v", log.list())
	}
	if p := rc.Pending(); !equal(p, []string{"save tx-1"}) {
		t.Fatalf("Pending() = %v", p)
	}
}

func TestCommit_RunsInOrder(t *testing.T) {
	t.Parallel()
	rc := New(context.Background())
	log := &eventLog{}

	_ = rc.AddAction(&recorder{desc: "put a", log: log})
	_ = rc.AddAction(&recorder{desc: "save", log: log})
	if err := rc.Commit(context.Background()); err != nil {
		t.Fatal(err)
	}
	if want := []string{"execute:put a", "execute:save"}; !equal(log.list(), want) {
		t.Fatalf("events = %v, want %v", log.list(), want)
	}
}

func TestCommit_FailureRollsBackUploads(t *testing.T) {
	t.Parallel()
	rc := New(context.Background())
	log := &eventLog{}
	errSave := errors.New("store down")

	_ = rc.AddGroup(
		&recorder{desc: "put a", log: log},
		&recorder{desc: "put b", log: log},
	)
	_ = rc.AddAction(&recorder{desc: "save", log: log, executeErr: errSave})

	err := rc.Commit(context.Background())
	if !errors.Is(err, errSave) {
		t.Fatalf("err = %v, want %v", err, errSave)
	}

	events := log.list()
	if len(events) != 4 {
		t.Fatalf("events = %v, want two puts and two rollbacks", events)
	}
	// Rollback runs in reverse declaration order regardless of which upload
	// finished first.
	if want := []string{"rollback:put b", "rollback:put a"}; !equal(events[2:], want) {
		t.Fatalf("rollbacks = %v, want %v", events[2:], want)
	}
}

func TestCommit_GroupFailureRollsBackFinishedMembers(t *testing.T) {
	t.Parallel()
	rc := New(context.Background())
	log := &eventLog{}
	errPut := errors.New("bucket full")

	_ = rc.AddAction(&recorder{desc: "first", log: log})
	_ = rc.AddGroup(
		&recorder{desc: "put ok", log: log},
		&recorder{desc: "put bad", log: log, executeErr: errPut},
	)

	if err := rc.Commit(context.Background()); !errors.Is(err, errPut) {
		t.Fatalf("err = %v, want %v", err, errPut)
	}
	events := log.list()
	if events[len(events)-1] != "rollback:first" {
		t.Fatalf("events = %v, want first rolled back last", events)
	}
}

func TestCommit_OnlyOnce(t *testing.T) {
	t.Parallel()
	rc := New(context.Background())

	if err := rc.Commit(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := rc.Commit(context.Background()); !errors.Is(err, ErrAlreadyCommitted) {
		t.Fatalf("second Commit err = %v", err)
	}
	if err := rc.AddAction(&recorder{desc: "late", log: &eventLog{}}); !errors.Is(err, ErrAlreadyCommitted) {
		t.Fatalf("AddAction after Commit err = %v", err)
	}
	if err := rc.AddAction(nil); !errors.Is(err, ErrNilAction) {
		t.Fatalf("AddAction(nil) err = %v", err)
	}
}
