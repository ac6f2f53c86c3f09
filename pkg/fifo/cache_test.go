package fifo

import (
	"fmt"
	"sync"
	"testing"
)

// --- Functional Tests ---

func TestBasicGetPut(t *testing.T) {
	c := New[string, int](2)

	c.Put("a", 1)
	c.Put("b", 2)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("expected a=1, got %v %v", v, ok)
	}
	if v, ok := c.Get("b"); !ok || v != 2 {
		t.Fatalf("expected b=2, got %v %v", v, ok)
	}
}

func TestEvictionIsInsertionOrder(t *testing.T) {
	c := New[string, int](2)

	c.Put("a", 1)
	c.Put("b", 2)

	// Insert "c" — should evict "a", the oldest insertion.
	evKey, evicted := c.Put("c", 3)
	if !evicted || evKey != "a" {
		t.Fatalf("expected eviction of a, got key=%v evicted=%v", evKey, evicted)
	}

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected 'a' to be evicted")
	}
	if v, ok := c.Get("b"); !ok || v != 2 {
		t.Fatalf("expected b=2 after eviction, got %v %v", v, ok)
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Fatalf("expected c=3, got %v %v", v, ok)
	}
}

func TestGetDoesNotProtectFromEviction(t *testing.T) {
	c := New[string, int](2)

	c.Put("a", 1)
	c.Put("b", 2)

	// Reading "a" must not move it off the eviction frontier.
	c.Get("a")

	evKey, evicted := c.Put("c", 3)
	if !evicted || evKey != "a" {
		t.Fatalf("expected eviction of a despite recent read, got key=%v evicted=%v", evKey, evicted)
	}
}

func TestUpdateKeepsInsertionSlot(t *testing.T) {
	c := New[string, int](2)

	c.Put("a", 1)
	c.Put("b", 2)

	// Updating "a" must not refresh its slot.
	if _, evicted := c.Put("a", 10); evicted {
		t.Fatal("update must not evict")
	}
	if v, ok := c.Get("a"); !ok || v != 10 {
		t.Fatalf("expected a=10 after update, got %v %v", v, ok)
	}

	evKey, evicted := c.Put("c", 3)
	if !evicted || evKey != "a" {
		t.Fatalf("expected eviction of a, got key=%v evicted=%v", evKey, evicted)
	}
}

func TestDelete(t *testing.T) {
	c := New[string, int](2)

	c.Put("a", 1)
	if !c.Delete("a") {
		t.Fatal("expected Delete to report existing key")
	}
	if c.Delete("a") {
		t.Fatal("expected Delete to report missing key")
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected 'a' gone after delete")
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cache, got len=%d", c.Len())
	}
}

func TestKeysNewestFirst(t *testing.T) {
	c := New[string, int](3)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	keys := c.Keys()
	want := []string{"c", "b", "a"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("keys[%d]: expected %q, got %q", i, k, keys[i])
		}
	}
}

func TestClear(t *testing.T) {
	c := New[string, int](2)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Clear()

	if c.Len() != 0 {
		t.Fatalf("expected empty cache after Clear, got len=%d", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected 'a' gone after Clear")
	}

	// Cache remains usable.
	c.Put("x", 9)
	if v, ok := c.Get("x"); !ok || v != 9 {
		t.Fatalf("expected x=9 after Clear+Put, got %v %v", v, ok)
	}
}

func TestCapacityOne(t *testing.T) {
	c := New[int, int](1)

	c.Put(1, 10)
	evKey, evicted := c.Put(2, 20)
	if !evicted || evKey != 1 {
		t.Fatalf("expected eviction of 1, got key=%v evicted=%v", evKey, evicted)
	}
	if c.Len() != 1 {
		t.Fatalf("expected len=1, got %d", c.Len())
	}
}

func TestNewPanicsOnZeroCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for capacity 0")
		}
	}()
	New[string, int](0)
}

// --- Concurrency ---

func TestConcurrentAccess(t *testing.T) {
	c := New[string, int](64)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("k-%d", i%100)
				c.Put(key, g*1000+i)
				c.Get(key)
				if i%50 == 0 {
					c.Delete(key)
				}
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 64 {
		t.Fatalf("capacity exceeded: len=%d", c.Len())
	}
}
