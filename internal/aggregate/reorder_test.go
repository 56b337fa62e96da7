package aggregate

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMove(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{name: "forward", from: 0, to: 2, want: []string{"b", "c", "a", "d"}},
		{name: "backward", from: 3, to: 1, want: []string{"a", "d", "b", "c"}},
		{name: "same index", from: 2, to: 2, want: []string{"a", "b", "c", "d"}},
		{name: "to end", from: 1, to: 3, want: []string{"a", "c", "d", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			items := []string{"a", "b", "c", "d"}
			got, err := Move(items, tt.from, tt.to)
			if err != nil {
				t.Fatalf("Move(%d, %d) error = %v", tt.from, tt.to, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Move(%d, %d) mismatch (-want +got):\n%s", tt.from, tt.to, diff)
			}
			if diff := cmp.Diff([]string{"a", "b", "c", "d"}, items); diff != "" {
				t.Fatalf("input mutated (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMoveRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	for _, idx := range [][2]int{{-1, 0}, {0, 3}, {3, 0}, {0, -2}} {
		if _, err := Move([]int{1, 2, 3}, idx[0], idx[1]); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("Move(%d, %d) error = %v, want ErrIndexOutOfRange", idx[0], idx[1], err)
		}
	}
	if _, err := Move([]int{}, 0, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("Move(empty) error = %v, want ErrIndexOutOfRange", err)
	}
}
