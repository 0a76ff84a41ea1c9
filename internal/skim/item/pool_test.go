package item

import (
	"sync"
	"testing"
)

func TestPoolAppendAssignsDenseIndices(t *testing.T) {
	p := NewPool(1)
	for i := 0; i < 10_000; i++ {
		idx := p.Append(Item{Raw: "x"})
		if idx != i {
			t.Fatalf("expected index %d, got %d", i, idx)
		}
	}
	if p.Len() != 10_000 {
		t.Fatalf("expected len 10000, got %d", p.Len())
	}
	for i := 0; i < 10_000; i++ {
		if p.At(i).Index != i {
			t.Fatalf("item %d has wrong stable index %d", i, p.At(i).Index)
		}
	}
}

func TestPoolConcurrentReadDuringAppend(t *testing.T) {
	p := NewPool(0)
	const n = 20_000
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			p.Append(Item{Raw: "line"})
		}
	}()

	for i := 0; i < 200; i++ {
		l := p.Len()
		for j := 0; j < l; j++ {
			if p.At(j).Index != j {
				t.Fatalf("torn read at %d", j)
			}
		}
	}
	wg.Wait()
	if p.Len() != n {
		t.Fatalf("expected %d items, got %d", n, p.Len())
	}
}

func TestPoolEpochTagsItems(t *testing.T) {
	p := NewPool(7)
	p.Append(Item{Raw: "a"})
	if got := p.At(0).Epoch; got != 7 {
		t.Fatalf("expected epoch 7, got %d", got)
	}
}
