package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"procpanel.org/internal/gateway"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	s := Session{ID: "s1", Token: "tok", User: gateway.User{ID: "u1", Role: "trader"}}
	if err := store.Put(ctx, s); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Token != "tok" || got.User.Role != "trader" {
		t.Fatalf("unexpected session: %+v", got)
	}
	if !got.Resolved() {
		t.Fatal("session with user must report resolved")
	}
}

func TestMemoryStoreLastWriteWins(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	_ = store.Put(ctx, Session{ID: "s1", Token: "old"})
	_ = store.Put(ctx, Session{ID: "s1", Token: "new"})

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Token != "new" {
		t.Fatalf("expected last write to win, got token %q", got.Token)
	}

	// a concurrent 401 handler may delete at any point; the next read misses
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_ = store.Put(ctx, Session{ID: "s1", Token: "tok"})

	store.now = func() time.Time { return now.Add(2 * time.Hour) }
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestUnresolvedSession(t *testing.T) {
	s := Session{ID: "s1", Token: "tok"}
	if s.Resolved() {
		t.Fatal("token without user must be unresolved")
	}
}

func TestContextID(t *testing.T) {
	ctx := ContextWithID(context.Background(), "s9")
	id, ok := IDFromContext(ctx)
	if !ok || id != "s9" {
		t.Fatalf("expected s9, got %q ok=%v", id, ok)
	}
	if _, ok := IDFromContext(context.Background()); ok {
		t.Fatal("empty context must carry no id")
	}
}
