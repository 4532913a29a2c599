package cache

import (
	"testing"
	"time"
)

func TestStore_SetGet(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Set("k", "v", time.Second)

	got, ok := s.Get("k")
	if !ok {
		t.Fatalf("expected hit for fresh entry")
	}
	if got != "v" {
		t.Fatalf("got %v want v", got)
	}
}

func TestStore_GetMissing(t *testing.T) {
	t.Parallel()

	s := NewStore()
	if _, ok := s.Get("absent"); ok {
		t.Fatalf("expected miss for unknown key")
	}
}

func TestStore_ExpiredEntryIsAbsentAndEvicted(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Set("k", "v", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, ok := s.Get("k"); ok {
		t.Fatalf("expected miss for expired entry")
	}
	if st := s.Stats(); st.TotalKeys != 0 {
		t.Fatalf("expected lazy eviction after Get, stats=%+v", st)
	}
}

func TestStore_NoTTLNeverExpires(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Set("k", 42, 0)
	time.Sleep(20 * time.Millisecond)

	got, ok := s.Get("k")
	if !ok || got != 42 {
		t.Fatalf("entry without TTL should persist, got=%v ok=%v", got, ok)
	}
}

func TestStore_SetOverwrites(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Set("k", "old", 0)
	s.Set("k", "new", 0)

	got, _ := s.Get("k")
	if got != "new" {
		t.Fatalf("got %v want new", got)
	}
	if st := s.Stats(); st.TotalKeys != 1 {
		t.Fatalf("overwrite must not add a key, stats=%+v", st)
	}
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Set("k", "v", 0)
	s.Delete("k")
	s.Delete("k")

	if _, ok := s.Get("k"); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestStore_ClearAll(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Set("a", 1, 0)
	s.Set("b", 2, time.Hour)
	s.ClearAll()

	if st := s.Stats(); st.TotalKeys != 0 {
		t.Fatalf("expected empty store, stats=%+v", st)
	}
}

func TestStore_StatsDoesNotEvict(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.Set("live", 1, time.Hour)
	s.Set("dead", 2, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	st := s.Stats()
	if st.TotalKeys != 2 {
		t.Fatalf("stats must not evict, got total=%d", st.TotalKeys)
	}
	if st.ExpiredKeys != 1 {
		t.Fatalf("got expired=%d want 1", st.ExpiredKeys)
	}

	// Same result on a second read: still side-effect free.
	if again := s.Stats(); again.TotalKeys != 2 {
		t.Fatalf("second stats call changed the store: %+v", again)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := NewStore()
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 200; j++ {
				s.Set("shared", n, time.Minute)
				s.Get("shared")
				s.Stats()
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	if _, ok := s.Get("shared"); !ok {
		t.Fatalf("expected shared key to survive concurrent writers")
	}
}
