package watch

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/progressly/pkg/app"
	"tableflip.dev/progressly/pkg/store"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, b *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(b.String(), want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q in:\n%s", want, b.String())
}

func TestWatchReprintsOnChange(t *testing.T) {
	color.NoColor = true
	clock := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.Local)
	svc := &app.Service{Persistence: store.NewMemory(), Now: func() time.Time { return clock }}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- (&Watch{Query: app.Query{Month: 2, Year: 2024}, Out: out, Service: svc}).Do(ctx)
	}()

	waitFor(t, out, "March 2024")
	if _, err := svc.AddTask(context.Background(), app.NewTask{Title: "Fresh task"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	waitFor(t, out, "Fresh task")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watch did not stop after cancel")
	}
}

func TestRelevant(t *testing.T) {
	for key, want := range map[string]bool{
		"":             true,
		store.TasksKey: true,
		store.TrashKey: true,
		store.AuthKey:  false,
		store.UsersKey: false,
	} {
		if got := relevant(store.Event{Key: key}); got != want {
			t.Fatalf("relevant(%q) = %v, want %v", key, got, want)
		}
	}
}
