// Package batch splits an ordered list into page-sized chunks.
package batch

import (
	"github.com/mab8192/tcgprint/pkg/errors"
)

// Schedule partitions items into consecutive batches of capacity items.
// Every batch is full except possibly the last; order is preserved and the
// batches share the backing array of items. An empty input yields no
// batches. A capacity below one is a LAYOUT_ZERO_CAPACITY error.
func Schedule[T any](items []T, capacity int) ([][]T, error) {
	if capacity < 1 {
		return nil, errors.New(errors.ErrCodeZeroCapacity, "page capacity must be at least 1 (got %d)", capacity)
	}
	batches := make([][]T, 0, Count(len(items), capacity))
	for start := 0; start < len(items); start += capacity {
		end := min(start+capacity, len(items))
		batches = append(batches, items[start:end:end])
	}
	return batches, nil
}

// Count returns ceil(total/capacity), the number of pages needed.
// It returns 0 when capacity is below one.
func Count(total, capacity int) int {
	if capacity < 1 || total <= 0 {
		return 0
	}
	return (total + capacity - 1) / capacity
}
