package ids

import (
	"sync"
	"testing"

	"github.com/oklog/ulid/v2"
)

func TestNewProducesParseableULIDs(t *testing.T) {
	id := New()
	if len(id) != 26 {
		t.Fatalf("id length = %d, want 26", len(id))
	}
	if _, err := ulid.ParseStrict(id); err != nil {
		t.Fatalf("id %q does not parse: %v", id, err)
	}
}

func TestNewIsUniqueUnderConcurrency(t *testing.T) {
	const perWorker = 200
	const workers = 8

	var mu sync.Mutex
	seen := make(map[string]struct{}, perWorker*workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				id := New()
				mu.Lock()
				if _, dup := seen[id]; dup {
					mu.Unlock()
					t.Errorf("duplicate id %q", id)
					return
				}
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
}
