package data

import (
	"errors"
	"strings"
	"testing"
)

func TestInBatches(t *testing.T) {
	items := make([]int, 13)
	var sizes []int
	err := InBatches(items, 5, func(batch []int) error {
		sizes = append(sizes, len(batch))
		return nil
	})
	if err != nil {
		t.Fatalf("InBatches: %v", err)
	}
	want := []int{5, 5, 3}
	if len(sizes) != len(want) {
		t.Fatalf("expected %d batches, got %d", len(want), len(sizes))
	}
	for i, n := range want {
		if sizes[i] != n {
			t.Fatalf("batch %d: expected %d items, got %d", i+1, n, sizes[i])
		}
	}
}

func TestInBatchesEmpty(t *testing.T) {
	err := InBatches(nil, 100, func([]string) error {
		t.Fatal("callback ran for no items")
		return nil
	})
	if err != nil {
		t.Fatalf("InBatches: %v", err)
	}
}

func TestInBatchesNamesFailingBatch(t *testing.T) {
	boom := errors.New("boom")
	items := make([]int, 12)
	calls := 0
	err := InBatches(items, 5, func([]int) error {
		calls++
		if calls == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the callback error, got %v", err)
	}
	if !strings.Contains(err.Error(), "batch 2 of 3") {
		t.Fatalf("expected the failing batch named, got %q", err.Error())
	}
	if calls != 2 {
		t.Fatalf("expected the restore to stop at the failure, ran %d batches", calls)
	}
}
