package cache

import (
	"errors"
	"strings"
	"testing"
)

func TestDeriveKey_OrderIndependent(t *testing.T) {
	t.Parallel()

	a, err := DeriveKey("p", map[string]any{"a": 1, "b": 2})
	if err != nil {
		t.Fatalf("DeriveKey returned error: %v", err)
	}
	b, err := DeriveKey("p", map[string]any{"b": 2, "a": 1})
	if err != nil {
		t.Fatalf("DeriveKey returned error: %v", err)
	}
	if a != b {
		t.Fatalf("structurally equal params produced different keys: %q vs %q", a, b)
	}
}

func TestDeriveKey_PrefixSensitive(t *testing.T) {
	t.Parallel()

	a, _ := DeriveKey("p", map[string]any{"a": 1})
	b, _ := DeriveKey("q", map[string]any{"a": 1})
	if a == b {
		t.Fatalf("different prefixes must not collide: %q", a)
	}
	if !strings.HasPrefix(a, "p:") || !strings.HasPrefix(b, "q:") {
		t.Fatalf("keys must be namespace-prefixed: %q %q", a, b)
	}
}

func TestDeriveKey_DistinctParams(t *testing.T) {
	t.Parallel()

	a, _ := DeriveKey("p", map[string]any{"a": 1})
	b, _ := DeriveKey("p", map[string]any{"a": 2})
	if a == b {
		t.Fatalf("distinct params produced the same key: %q", a)
	}
}

func TestDeriveKey_NestedStructuresStable(t *testing.T) {
	t.Parallel()

	params := map[string]any{
		"outer": map[string]any{"z": []any{1, 2, 3}, "a": "x"},
		"list":  []any{map[string]any{"k": true}},
	}
	first, err := DeriveKey("tool:demo", params)
	if err != nil {
		t.Fatalf("DeriveKey returned error: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, _ := DeriveKey("tool:demo", params)
		if again != first {
			t.Fatalf("key not stable across runs: %q vs %q", again, first)
		}
	}
}

func TestDeriveKey_UnserializableParams(t *testing.T) {
	t.Parallel()

	_, err := DeriveKey("p", map[string]any{"ch": make(chan int)})
	if err == nil {
		t.Fatalf("expected error for unserializable params")
	}
	if !errors.Is(err, ErrKeyDerivation) {
		t.Fatalf("expected ErrKeyDerivation, got: %v", err)
	}
}
