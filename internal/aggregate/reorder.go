package aggregate

import (
	"errors"
	"fmt"
)

var ErrIndexOutOfRange = errors.New("aggregate: index out of range")

// Move returns a copy of items with the element at from relocated to to. The input slice is
// left untouched.
func Move[T any](items []T, from, to int) ([]T, error) {
	if from < 0 || from >= len(items) {
		return nil, fmt.Errorf("from %d: %w", from, ErrIndexOutOfRange)
	}
	if to < 0 || to >= len(items) {
		return nil, fmt.Errorf("to %d: %w", to, ErrIndexOutOfRange)
	}

	result := make([]T, 0, len(items))
	moved := items[from]
	for idx, item := range items {
		if idx == from {
			continue
		}
		result = append(result, item)
	}

	result = append(result, moved)
	copy(result[to+1:], result[to:len(result)-1])
	result[to] = moved
	return result, nil
}
