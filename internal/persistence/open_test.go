package persistence

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/petrijr/formflow/pkg/api"
)

func TestOpen_Memory(t *testing.T) {
	for _, raw := range []string{"", "memory", "memory://"} {
		j, err := Open(context.Background(), raw)
		if err != nil {
			t.Fatalf("Open(%q) failed: %v", raw, err)
		}
		if j.Backend != "memory" {
			t.Fatalf("Open(%q) backend = %q, want memory", raw, j.Backend)
		}
		if err := j.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}
}

func TestOpen_SQLiteFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(ctx, "sqlite://"+path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if j.Backend != "sqlite" {
		t.Fatalf("backend = %q, want sqlite", j.Backend)
	}
	if err := j.AppendEvent(ctx, api.TransitionEvent{WizardID: "w", Type: api.EventWizardStarted}); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := Open(ctx, "sqlite://"+path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	evs, err := reopened.ListEvents(ctx, "w")
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(evs) != 1 {
		t.Fatalf("expected the event to survive reopening, got %d events", len(evs))
	}
}

func TestOpen_UnknownScheme(t *testing.T) {
	for _, raw := range []string{"ftp://example.com", "no-scheme"} {
		_, err := Open(context.Background(), raw)
		if !errors.Is(err, ErrUnknownJournal) {
			t.Fatalf("Open(%q) error = %v, want ErrUnknownJournal", raw, err)
		}
	}
}

func TestJournal_CloseNil(t *testing.T) {
	var j *Journal
	if err := j.Close(); err != nil {
		t.Fatalf("nil journal Close returned %v", err)
	}
}

func TestOpen_SQLiteInMemoryConcurrent(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"sqlite://", "sqlite://:memory:"} {
		j, err := Open(ctx, raw)
		if err != nil {
			t.Fatalf("Open(%q) failed: %v", raw, err)
		}

		const workers = 16
		var wg sync.WaitGroup
		errs := make(chan error, 2*workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				ev := api.TransitionEvent{WizardID: "shared", Type: api.EventStepAdvanced, Step: i}
				if err := j.AppendEvent(ctx, ev); err != nil {
					errs <- fmt.Errorf("append %d: %w", i, err)
				}
				if _, err := j.ListEvents(ctx, "shared"); err != nil {
					errs <- fmt.Errorf("list %d: %w", i, err)
				}
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Fatalf("Open(%q): %v", raw, err)
		}

		events, err := j.ListEvents(ctx, "shared")
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}
		if len(events) != workers {
			t.Fatalf("Open(%q): expected %d events, got %d", raw, workers, len(events))
		}
		if err := j.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}
}

func TestIsMemoryDSN(t *testing.T) {
	cases := map[string]bool{
		":memory:":                              true,
		"file::memory:?cache=shared":            true,
		"file:wizards?mode=memory&cache=shared": true,
		"/tmp/journal.db":                       false,
		"file:journal.db?_journal=WAL":          false,
	}
	for dsn, want := range cases {
		if got := isMemoryDSN(dsn); got != want {
			t.Fatalf("isMemoryDSN(%q) = %v, want %v", dsn, got, want)
		}
	}
}
