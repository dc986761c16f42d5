package livequery_test

import (
	"testing"

	"github.com/dalemusser/campushub/internal/app/system/livequery"
)

func TestMerger_LastUpdatePerKeyWins(t *testing.T) {
	var out [][]int
	m := livequery.NewMerger(func(a, b int) bool { return a > b }, func(items []int) {
		out = append(out, items)
	})

	m.Set("class-a", []int{5, 1})
	m.Set("class-b", []int{3})
	m.Set("class-a", []int{7})

	if len(out) != 3 {
		t.Fatalf("expected 3 emissions, got %d", len(out))
	}
	want := []int{7, 3}
	got := out[2]
	if len(got) != len(want) {
		t.Fatalf("merged: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("merged[%d]: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestMerger_EmptyEmitsEmptySlice(t *testing.T) {
	var last []int
	m := livequery.NewMerger(func(a, b int) bool { return a < b }, func(items []int) { last = items })
	m.Set("k", nil)
	if last == nil || len(last) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", last)
	}
}
