package batch

import (
	"fmt"
	"slices"
	"testing"

	"github.com/mab8192/tcgprint/pkg/errors"
)

func seq(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}

func TestSchedule(t *testing.T) {
	tests := []struct {
		total    int
		capacity int
		sizes    []int
	}{
		{0, 9, []int{}},
		{1, 9, []int{1}},
		{9, 9, []int{9}},
		{10, 9, []int{9, 1}},
		{18, 9, []int{9, 9}},
		{20, 9, []int{9, 9, 2}},
		{5, 1, []int{1, 1, 1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.total, tt.capacity), func(t *testing.T) {
			items := seq(tt.total)
			batches, err := Schedule(items, tt.capacity)
			if err != nil {
				t.Fatalf("Schedule() error: %v", err)
			}

			sizes := make([]int, len(batches))
			var flat []int
			for i, b := range batches {
				sizes[i] = len(b)
				flat = append(flat, b...)
			}
			if !slices.Equal(sizes, tt.sizes) {
				t.Errorf("batch sizes = %v, want %v", sizes, tt.sizes)
			}
			if len(batches) != Count(tt.total, tt.capacity) {
				t.Errorf("len(batches) = %d, Count() = %d", len(batches), Count(tt.total, tt.capacity))
			}
			if !slices.Equal(flat, items) {
				t.Errorf("concatenated batches = %v, want %v", flat, items)
			}
		})
	}
}

func TestScheduleZeroCapacity(t *testing.T) {
	for _, c := range []int{0, -3} {
		_, err := Schedule([]string{"a"}, c)
		if !errors.Is(err, errors.ErrCodeZeroCapacity) {
			t.Errorf("Schedule(capacity=%d) error = %v, want LAYOUT_ZERO_CAPACITY", c, err)
		}
	}
}

func TestScheduleBatchesDoNotAlias(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	batches, err := Schedule(items, 2)
	if err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	// Appending to the first batch must not overwrite the second.
	_ = append(batches[0], "x")
	if batches[1][0] != "c" {
		t.Errorf("append on batch 0 clobbered batch 1: %v", batches[1])
	}
}

func TestCount(t *testing.T) {
	tests := []struct{ total, capacity, want int }{
		{0, 9, 0},
		{1, 9, 1},
		{9, 9, 1},
		{10, 9, 2},
		{10, 0, 0},
		{-1, 9, 0},
	}
	for _, tt := range tests {
		if got := Count(tt.total, tt.capacity); got != tt.want {
			t.Errorf("Count(%d, %d) = %d, want %d", tt.total, tt.capacity, got, tt.want)
		}
	}
}
